// Package storetest holds the behavioural suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

// NewUser returns a valid user with a fresh id.
func NewUser(email, username string) domain.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		Slug:         domain.Slugify(username),
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RunUsers exercises store.Users against the driver built by newStore.
func RunUsers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		s := newStore(t)
		u := NewUser("john@example.com", "John Doe")
		u.Image = "https://cdn.example.com/john.png"
		require.NoError(t, s.Users().Create(ctx, u))

		for name, f := range map[string]store.UserFilter{
			"by id":    {ID: u.ID},
			"by email": {Email: u.Email},
			"by slug":  {Slug: u.Slug},
		} {
			got, err := s.Users().FindOne(ctx, f)
			require.NoError(t, err, name)
			require.Equal(t, u.ID, got.ID)
			require.Equal(t, u.Email, got.Email)
			require.Equal(t, u.Username, got.Username)
			require.Equal(t, u.Slug, got.Slug)
			require.Equal(t, u.PasswordHash, got.PasswordHash)
			require.Equal(t, u.Image, got.Image)
			require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)
		}
	})

	t.Run("not found", func(t *testing.T) {
		s := newStore(t)
		for _, f := range []store.UserFilter{
			{ID: idx.New().String()},
			{Email: "nobody@example.com"},
			{Slug: "nobody"},
			{},
		} {
			_, err := s.Users().FindOne(ctx, f)
			require.ErrorIs(t, err, store.ErrNotFound)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Users().Create(ctx, NewUser("john@example.com", "John")))

		err := s.Users().Create(ctx, NewUser("john@example.com", "Johnny"))
		requireDuplicate(t, err, store.FieldEmail)

		_, err = s.Users().FindOne(ctx, store.UserFilter{Slug: "johnny"})
		require.ErrorIs(t, err, store.ErrNotFound, "rejected user must not be half written")
	})

	t.Run("duplicate slug", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Users().Create(ctx, NewUser("a@example.com", "John Doe")))

		err := s.Users().Create(ctx, NewUser("b@example.com", "john-doe"))
		requireDuplicate(t, err, store.FieldSlug)

		_, err = s.Users().FindOne(ctx, store.UserFilter{Email: "b@example.com"})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update fields", func(t *testing.T) {
		s := newStore(t)
		u := NewUser("john@example.com", "John Doe")
		require.NoError(t, s.Users().Create(ctx, u))

		hash := "$2b$10$abcdefghijklmnopqrstuuJ2lq0sYxvN6Ek8bU1lOlcJc5I6ZkS6"
		image := "https://cdn.example.com/new.png"
		require.NoError(t, s.Users().UpdateByID(ctx, u.ID, store.UserUpdate{
			PasswordHash: &hash,
			Image:        &image,
		}))

		got, err := s.Users().FindOne(ctx, store.UserFilter{ID: u.ID})
		require.NoError(t, err)
		require.Equal(t, hash, got.PasswordHash)
		require.Equal(t, image, got.Image)
		require.Equal(t, u.Username, got.Username, "untouched field")
		require.False(t, got.UpdatedAt.Before(u.UpdatedAt))

		empty := ""
		require.NoError(t, s.Users().UpdateByID(ctx, u.ID, store.UserUpdate{Image: &empty}))
		got, err = s.Users().FindOne(ctx, store.UserFilter{ID: u.ID})
		require.NoError(t, err)
		require.Empty(t, got.Image)
	})

	t.Run("rename moves slug", func(t *testing.T) {
		s := newStore(t)
		u := NewUser("john@example.com", "John Doe")
		require.NoError(t, s.Users().Create(ctx, u))

		name, slug := "Jane Roe", "jane-roe"
		require.NoError(t, s.Users().UpdateByID(ctx, u.ID, store.UserUpdate{Username: &name, Slug: &slug}))

		got, err := s.Users().FindOne(ctx, store.UserFilter{Slug: slug})
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, name, got.Username)

		_, err = s.Users().FindOne(ctx, store.UserFilter{Slug: u.Slug})
		require.ErrorIs(t, err, store.ErrNotFound)

		// The freed slug can be claimed again.
		require.NoError(t, s.Users().Create(ctx, NewUser("other@example.com", "John Doe")))
	})

	t.Run("rename onto taken slug", func(t *testing.T) {
		s := newStore(t)
		a := NewUser("a@example.com", "Alice")
		b := NewUser("b@example.com", "Bob")
		require.NoError(t, s.Users().Create(ctx, a))
		require.NoError(t, s.Users().Create(ctx, b))

		name, slug := "ALICE", "alice"
		err := s.Users().UpdateByID(ctx, b.ID, store.UserUpdate{Username: &name, Slug: &slug})
		requireDuplicate(t, err, store.FieldSlug)

		got, err := s.Users().FindOne(ctx, store.UserFilter{ID: b.ID})
		require.NoError(t, err)
		require.Equal(t, "bob", got.Slug)
	})

	t.Run("update missing user", func(t *testing.T) {
		s := newStore(t)
		image := "x"
		err := s.Users().UpdateByID(ctx, idx.New().String(), store.UserUpdate{Image: &image})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(ctx))
	})
}

func requireDuplicate(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	var dup *store.DuplicateKeyError
	require.True(t, errors.As(err, &dup), "want *store.DuplicateKeyError, got %T", err)
	require.Equal(t, field, dup.Field)
}

package redis_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	redisstore "github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/redis"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/storetest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredisStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := redisstore.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestUsers(t *testing.T) {
	storetest.RunUsers(t, func(t *testing.T) store.Store {
		s, _ := newMiniredisStore(t)
		return s
	})
}

func TestKeyLayout(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	u := storetest.NewUser("john@example.com", "John Doe")
	require.NoError(t, s.Users().Create(ctx, u))

	id, err := mr.Get("test:email:john@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, id)

	id, err = mr.Get("test:slug:john-doe")
	require.NoError(t, err)
	require.Equal(t, u.ID, id)

	raw, err := mr.Get("test:user:" + u.ID)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Equal(t, "john-doe", doc["slug"])
	require.Equal(t, u.PasswordHash, doc["password_hash"])
}

func TestRenameReleasesOldSlugKey(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	u := storetest.NewUser("john@example.com", "John Doe")
	require.NoError(t, s.Users().Create(ctx, u))

	name, slug := "Jane", "jane"
	require.NoError(t, s.Users().UpdateByID(ctx, u.ID, store.UserUpdate{Username: &name, Slug: &slug}))

	require.False(t, mr.Exists("test:slug:john-doe"))
	require.True(t, mr.Exists("test:slug:jane"))
}

func TestRenameToOwnSlugIsNoConflict(t *testing.T) {
	ctx := context.Background()
	s, _ := newMiniredisStore(t)

	u := storetest.NewUser("john@example.com", "John Doe")
	require.NoError(t, s.Users().Create(ctx, u))

	name, slug := "JOHN DOE", "john-doe"
	require.NoError(t, s.Users().UpdateByID(ctx, u.ID, store.UserUpdate{Username: &name, Slug: &slug}))
}

func TestCorruptDocumentSurfacesError(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)

	require.NoError(t, mr.Set("test:user:broken", "{not json"))
	_, err := s.Users().FindOne(ctx, store.UserFilter{ID: "broken"})
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniredisStore(t)
	mr.Close()

	require.Error(t, s.Ping(ctx))
	_, err := s.Users().FindOne(ctx, store.UserFilter{Email: "john@example.com"})
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := redisstore.Open(context.Background(), redisstore.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = redisstore.Open(context.Background(), redisstore.Options{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AccountService owns user records. Passwords are hashed here, before
// anything reaches the store.
type AccountService struct {
	Store  store.Store
	Hasher Hasher
}

// Create registers a new account.
func (s *AccountService) Create(ctx context.Context, data domain.SignUpData) (domain.User, error) {
	if err := data.Validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(data.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	username := strings.TrimSpace(data.Username)
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        domain.NormalizeEmail(data.Email),
		Username:     username,
		Slug:         domain.Slugify(username),
		PasswordHash: hash,
		Image:        strings.TrimSpace(data.Image),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().Create(ctx, u); err != nil {
		err = mapStoreError("create user", err)
		if errors.Is(err, ErrDuplicateKey) {
			slogx.FromContext(ctx).Info("sign-up rejected, duplicate key", slog.Any("err", err))
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("account created",
		slog.String("user_id", u.ID),
		slog.String("slug", u.Slug),
	)
	return u, nil
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, ErrNotFound
	}
	u, err := s.Store.Users().FindOne(ctx, store.UserFilter{Email: email})
	return u, mapStoreError("find user by email", err)
}

// FindBySlug normalises slug the same way usernames are, so "John Doe"
// finds the user whose slug is "john-doe".
func (s *AccountService) FindBySlug(ctx context.Context, slug string) (domain.User, error) {
	slug = domain.Slugify(slug)
	if slug == "" {
		return domain.User{}, ErrNotFound
	}
	u, err := s.Store.Users().FindOne(ctx, store.UserFilter{Slug: slug})
	return u, mapStoreError("find user by slug", err)
}

// FindByID returns ErrNotFound for ids that are not well formed.
func (s *AccountService) FindByID(ctx context.Context, id string) (domain.User, error) {
	parsed, err := idx.Parse(id)
	if err != nil {
		return domain.User{}, ErrNotFound
	}
	u, err := s.Store.Users().FindOne(ctx, store.UserFilter{ID: parsed.String()})
	return u, mapStoreError("find user by id", err)
}

// UpdatePassword hashes plaintext and replaces the stored digest. Callers
// are responsible for having verified the current password.
func (s *AccountService) UpdatePassword(ctx context.Context, id, plaintext string) error {
	if err := domain.ValidatePassword(plaintext); err != nil {
		return err
	}

	hash, err := s.Hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.update(ctx, id, store.UserUpdate{PasswordHash: &hash})
}

// UpdateUsername renames the account and moves its slug in the same write.
func (s *AccountService) UpdateUsername(ctx context.Context, id, username string) error {
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	slug := domain.Slugify(username)
	if err := s.update(ctx, id, store.UserUpdate{Username: &username, Slug: &slug}); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("username changed", slog.String("user_id", id), slog.String("slug", slug))
	return nil
}

// UpdateImage sets the profile image reference; empty clears it.
func (s *AccountService) UpdateImage(ctx context.Context, id, image string) error {
	image = strings.TrimSpace(image)
	if err := domain.ValidateImage(image); err != nil {
		return err
	}
	return s.update(ctx, id, store.UserUpdate{Image: &image})
}

// VerifyPassword reports whether candidate matches the user's digest.
func (s *AccountService) VerifyPassword(u domain.User, candidate string) bool {
	return s.Hasher.Compare(candidate, u.PasswordHash)
}

// rehashIfNeeded upgrades a digest made with outdated settings. The caller
// has just verified plaintext against it.
func (s *AccountService) rehashIfNeeded(ctx context.Context, u domain.User, plaintext string) {
	rh, ok := s.Hasher.(rehasher)
	if !ok || !rh.NeedsRehash(plaintext, u.PasswordHash) {
		return
	}

	hash, err := s.Hasher.Hash(plaintext)
	if err == nil {
		err = s.update(ctx, u.ID, store.UserUpdate{PasswordHash: &hash})
	}
	if err != nil {
		slogx.FromContext(ctx).Warn("password rehash failed", slog.String("user_id", u.ID), slog.Any("err", err))
		return
	}
	slogx.FromContext(ctx).Info("password rehashed", slog.String("user_id", u.ID))
}

func (s *AccountService) update(ctx context.Context, id string, upd store.UserUpdate) error {
	parsed, err := idx.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	return mapStoreError("update user", s.Store.Users().UpdateByID(ctx, parsed.String(), upd))
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/redis/go-redis/v9"
)

type usersRepo struct {
	client redis.UniversalClient
	keys   keyspace
}

// userDoc is the stored JSON document.
type userDoc struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Slug         string    `json:"slug"`
	PasswordHash string    `json:"password_hash"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Slug:         u.Slug,
		PasswordHash: u.PasswordHash,
		Image:        u.Image,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDoc) user() domain.User {
	return domain.User{
		ID:           d.ID,
		Email:        d.Email,
		Username:     d.Username,
		Slug:         d.Slug,
		PasswordHash: d.PasswordHash,
		Image:        d.Image,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	payload, err := json.Marshal(toDoc(u))
	if err != nil {
		return fmt.Errorf("redis store: encode user: %w", err)
	}

	userKey, emailKey, slugKey := r.keys.user(u.ID), r.keys.email(u.Email), r.keys.slug(u.Slug)

	return withRetry(ctx, func() error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			taken, err := tx.Exists(ctx, emailKey).Result()
			if err != nil {
				return err
			}
			if taken > 0 {
				return &store.DuplicateKeyError{Field: store.FieldEmail}
			}

			taken, err = tx.Exists(ctx, slugKey).Result()
			if err != nil {
				return err
			}
			if taken > 0 {
				return &store.DuplicateKeyError{Field: store.FieldSlug}
			}

			taken, err = tx.Exists(ctx, userKey).Result()
			if err != nil {
				return err
			}
			if taken > 0 {
				return fmt.Errorf("%w: id %s", store.ErrAlreadyExists, u.ID)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, userKey, payload, 0)
				pipe.Set(ctx, emailKey, u.ID, 0)
				pipe.Set(ctx, slugKey, u.ID, 0)
				return nil
			})
			return err
		}, userKey, emailKey, slugKey)
	})
}

func (r *usersRepo) FindOne(ctx context.Context, f store.UserFilter) (domain.User, error) {
	id := f.ID
	switch {
	case id != "":
	case f.Email != "":
		resolved, err := r.resolve(ctx, r.keys.email(f.Email))
		if err != nil {
			return domain.User{}, err
		}
		id = resolved
	case f.Slug != "":
		resolved, err := r.resolve(ctx, r.keys.slug(f.Slug))
		if err != nil {
			return domain.User{}, err
		}
		id = resolved
	default:
		return domain.User{}, fmt.Errorf("%w: empty filter", store.ErrNotFound)
	}

	doc, err := getDoc(ctx, r.client, r.keys.user(id))
	if err != nil {
		return domain.User{}, err
	}
	return doc.user(), nil
}

func (r *usersRepo) UpdateByID(ctx context.Context, id string, upd store.UserUpdate) error {
	userKey := r.keys.user(id)

	return withRetry(ctx, func() error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			doc, err := getDoc(ctx, tx, userKey)
			if err != nil {
				return err
			}

			oldSlug := doc.Slug
			if upd.Slug != nil && *upd.Slug != oldSlug {
				newSlugKey := r.keys.slug(*upd.Slug)
				if err := tx.Watch(ctx, newSlugKey).Err(); err != nil {
					return err
				}
				owner, err := tx.Get(ctx, newSlugKey).Result()
				switch {
				case errors.Is(err, redis.Nil):
				case err != nil:
					return err
				case owner != id:
					return &store.DuplicateKeyError{Field: store.FieldSlug}
				}
			}

			applyUpdate(&doc, upd)
			payload, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("redis store: encode user: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, userKey, payload, 0)
				if doc.Slug != oldSlug {
					pipe.Del(ctx, r.keys.slug(oldSlug))
					pipe.Set(ctx, r.keys.slug(doc.Slug), id, 0)
				}
				return nil
			})
			return err
		}, userKey)
	})
}

func applyUpdate(doc *userDoc, upd store.UserUpdate) {
	if upd.PasswordHash != nil {
		doc.PasswordHash = *upd.PasswordHash
	}
	if upd.Username != nil {
		doc.Username = *upd.Username
	}
	if upd.Slug != nil {
		doc.Slug = *upd.Slug
	}
	if upd.Image != nil {
		doc.Image = *upd.Image
	}
	doc.UpdatedAt = time.Now().UTC()
}

// resolve follows an index key to the user id it points at.
func (r *usersRepo) resolve(ctx context.Context, indexKey string) (string, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis store: get %s: %w", indexKey, err)
	}
	return id, nil
}

// getter is satisfied by both the client and a watched *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getDoc(ctx context.Context, c getter, key string) (userDoc, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return userDoc{}, store.ErrNotFound
	}
	if err != nil {
		return userDoc{}, fmt.Errorf("redis store: get %s: %w", key, err)
	}

	var doc userDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return userDoc{}, fmt.Errorf("redis store: decode %s: %w", key, err)
	}
	return doc, nil
}

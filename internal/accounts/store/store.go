package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Unique fields a DuplicateKeyError can name.
const (
	FieldEmail = "email"
	FieldSlug  = "slug"
)

// DuplicateKeyError reports which unique field a write collided on. It
// matches ErrAlreadyExists.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("store: duplicate %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the root data access interface implemented by each driver
// (sqlite, redis). It exposes sub-repositories to keep concerns tidy.
type Store interface {
	Users() Users

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend is reachable; it backs the readiness probe.
	Ping(ctx context.Context) error
}

// Migrator is implemented by drivers with a schema to manage.
type Migrator interface {
	ApplyMigrations() error
}

// UserFilter selects a single user. Exactly one field should be set; ID
// wins over Email, which wins over Slug.
type UserFilter struct {
	ID    string
	Email string
	Slug  string
}

// UserUpdate lists the fields to change; nil fields are left alone.
// updated_at is always bumped.
type UserUpdate struct {
	PasswordHash *string
	Username     *string
	Slug         *string
	Image        *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.PasswordHash == nil && u.Username == nil && u.Slug == nil && u.Image == nil
}

type Users interface {
	// Create inserts u. Email or slug collisions return *DuplicateKeyError.
	Create(ctx context.Context, u domain.User) error

	// FindOne returns the user matching f, or ErrNotFound.
	FindOne(ctx context.Context, f UserFilter) (domain.User, error)

	// UpdateByID applies upd to the user with id. Returns ErrNotFound when
	// no such user exists and *DuplicateKeyError when a new slug collides.
	UpdateByID(ctx context.Context, id string, upd UserUpdate) error
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Slug:         u.Slug,
		PasswordHash: u.PasswordHash,
		Image:        u.Image,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	})
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *usersRepo) FindOne(ctx context.Context, f store.UserFilter) (domain.User, error) {
	var (
		row gen.User
		err error
	)
	switch {
	case f.ID != "":
		row, err = r.q.GetUserByID(ctx, f.ID)
	case f.Email != "":
		row, err = r.q.GetUserByEmail(ctx, f.Email)
	case f.Slug != "":
		row, err = r.q.GetUserBySlug(ctx, f.Slug)
	default:
		return domain.User{}, fmt.Errorf("%w: empty filter", store.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) UpdateByID(ctx context.Context, id string, upd store.UserUpdate) error {
	n, err := r.q.UpdateUser(ctx, gen.UpdateUserParams{
		PasswordHash: mapOptionalString(upd.PasswordHash),
		Username:     mapOptionalString(upd.Username),
		Slug:         mapOptionalString(upd.Slug),
		Image:        mapOptionalString(upd.Image),
		UpdatedAt:    time.Now().UTC(),
		ID:           id,
	})
	if err != nil {
		return mapConstraint(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

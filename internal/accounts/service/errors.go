package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

var (
	// ErrDuplicateKey wraps a *store.DuplicateKeyError naming the field.
	ErrDuplicateKey = errors.New("duplicate_key")

	// ErrInvalidCredentials is deliberately vague: it is returned for an
	// unknown email, a wrong password and a wrong current password alike.
	ErrInvalidCredentials = errors.New("email or password mismatch our records")

	ErrNotFound = errors.New("not_found")
)

// mapStoreError translates store sentinels into service errors.
func mapStoreError(op string, err error) error {
	var dup *store.DuplicateKeyError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.As(err, &dup):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, dup)
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

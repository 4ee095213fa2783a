package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AuthService runs the sign-up, sign-in and password change flows on top of
// AccountService and a TokenIssuer.
type AuthService struct {
	Accounts *AccountService
	Tokens   TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

// SignUp creates the account and signs the caller straight in.
func (s *AuthService) SignUp(ctx context.Context, data domain.SignUpData) (domain.AuthResponse, error) {
	u, err := s.Accounts.Create(ctx, data)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	return s.respond(ctx, u)
}

// SignIn checks the credentials and issues a token. Unknown emails and
// wrong passwords are indistinguishable to the caller, in result and in
// timing.
func (s *AuthService) SignIn(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return domain.AuthResponse{}, err
	}
	l := slogx.FromContext(ctx)

	u, err := s.Accounts.FindByEmail(ctx, creds.Email)
	switch {
	case errors.Is(err, ErrNotFound):
		s.burnCompare(creds.Password)
		l.Info("sign-in failed", slog.String("reason", "unknown_email"))
		return domain.AuthResponse{}, ErrInvalidCredentials
	case err != nil:
		return domain.AuthResponse{}, err
	}

	if !s.Accounts.VerifyPassword(u, creds.Password) {
		l.Info("sign-in failed", slog.String("reason", "password_mismatch"), slog.String("user_id", u.ID))
		return domain.AuthResponse{}, ErrInvalidCredentials
	}

	s.Accounts.rehashIfNeeded(ctx, u, creds.Password)
	l.Info("sign-in succeeded", slog.String("user_id", u.ID))
	return s.respond(ctx, u)
}

// ChangePassword replaces the password of user id after checking the
// current one. The stored digest is untouched on any failure.
func (s *AuthService) ChangePassword(ctx context.Context, id string, change domain.PasswordChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	l := slogx.FromContext(ctx)

	u, err := s.Accounts.FindByID(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.burnCompare(change.CurrentPassword)
		l.Info("password change failed", slog.String("reason", "unknown_user"), slog.String("user_id", id))
		return ErrInvalidCredentials
	case err != nil:
		return err
	}

	if !s.Accounts.VerifyPassword(u, change.CurrentPassword) {
		l.Info("password change failed", slog.String("reason", "password_mismatch"), slog.String("user_id", u.ID))
		return ErrInvalidCredentials
	}

	if err := s.Accounts.UpdatePassword(ctx, u.ID, change.NewPassword); err != nil {
		return err
	}
	l.Info("password changed", slog.String("user_id", u.ID))
	return nil
}

// Profile returns the public view of user id.
func (s *AuthService) Profile(ctx context.Context, id string) (domain.UserView, error) {
	u, err := s.Accounts.FindByID(ctx, id)
	if err != nil {
		return domain.UserView{}, err
	}
	return u.View(), nil
}

func (s *AuthService) respond(ctx context.Context, u domain.User) (domain.AuthResponse, error) {
	token, err := s.Tokens.Issue(ctx, u)
	if err != nil {
		return domain.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return domain.AuthResponse{User: u.View(), Token: token}, nil
}

// burnCompare spends the same work as a real password check.
func (s *AuthService) burnCompare(candidate string) {
	s.dummyOnce.Do(func() {
		hash, err := s.Accounts.Hasher.Hash("timing-equaliser-not-a-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	_ = s.Accounts.Hasher.Compare(candidate, s.dummyHash)
}

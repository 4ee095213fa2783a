package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// TokenIssuer mints the bearer token returned on sign-up and sign-in.
type TokenIssuer interface {
	Issue(ctx context.Context, u domain.User) (string, error)
}

// TokenService issues stateless EdDSA JWTs. There is no revocation list;
// a token is valid until it expires.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

var _ TokenIssuer = (*TokenService)(nil)

func (s *TokenService) Issue(_ context.Context, u domain.User) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	claims := jwtx.NewUserClaims(u.ID, u.Username, u.Slug, s.Issuer, s.TTL, now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewUserClaims(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := jwtx.NewUserClaims("user-1", "John Doe", "john-doe", "issuer", time.Hour, now)

	require.Equal(t, "user-1", c.Subject)
	require.Equal(t, "issuer", c.Issuer)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)

	t.Run("default ttl", func(t *testing.T) {
		c := jwtx.NewUserClaims("user-1", "", "", "issuer", 0, now)
		require.Equal(t, now.Add(jwtx.DefaultTokenTTL), c.ExpiresAt.Time)
	})

	t.Run("unique jti", func(t *testing.T) {
		other := jwtx.NewUserClaims("user-1", "", "", "issuer", time.Hour, now)
		require.NotEqual(t, c.ID, other.ID)
	})
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "accounts"}}

	require.NoError(t, c.ValidateIssuer("accounts"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("chat"), jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		claims jwt.RegisteredClaims
		leeway time.Duration
		want   error
	}{
		{"valid", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}, 0, nil},
		{"expired", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}, 0, jwtx.ErrExpired},
		{"expired within leeway", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}, 30 * time.Second, nil},
		{"not yet valid", jwt.RegisteredClaims{NotBefore: jwt.NewNumericDate(now.Add(time.Minute))}, 0, jwtx.ErrNotYetValid},
		{"no exp or nbf", jwt.RegisteredClaims{}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &jwtx.Claims{RegisteredClaims: tt.claims}
			err := c.ValidateExpiry(now, tt.leeway)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func nowUTC() time.Time { return time.Now().UTC() }

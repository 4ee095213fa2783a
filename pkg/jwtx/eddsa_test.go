package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "accounts-test"

func newSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "test-key-eddsa")
	require.NoError(t, signer.Validate())
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	claims := jwtx.NewUserClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZK", "John Doe", "john-doe", exampleIssuer, 5*time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	jwks := keyset.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	parsed, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, parsed.Subject)
	require.Equal(t, claims.Issuer, parsed.Issuer)
	require.Equal(t, "John Doe", parsed.Username)
	require.Equal(t, "john-doe", parsed.Slug)
	require.Equal(t, claims.ID, parsed.ID)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	now := time.Now().UTC()
	valid, err := signer.Sign(jwtx.NewUserClaims("user-1", "", "", exampleIssuer, time.Minute, now))
	require.NoError(t, err)

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keyset, "someone-else").Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("unknown key", func(t *testing.T) {
		other := jwtx.NewKeySet()
		require.NoError(t, other.AddSigner(newSigner(t, "k2")))
		_, err := jwtx.NewVerifierEdDSA(other, exampleIssuer).Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
		require.ErrorIs(t, err, jwtx.ErrNoKey)
	})

	t.Run("same kid different key", func(t *testing.T) {
		other := jwtx.NewKeySet()
		require.NoError(t, other.AddSigner(newSigner(t, "k1")))
		_, err := jwtx.NewVerifierEdDSA(other, exampleIssuer).Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		v := jwtx.NewVerifierEdDSA(keyset, exampleIssuer)
		v.Now = func() time.Time { return now.Add(2 * time.Hour) }
		_, err := v.Verify(valid)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer).Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		hs := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtx.NewUserClaims("user-1", "", "", exampleIssuer, time.Minute, now))
		hs.Header["kid"] = "k1"
		token, err := hs.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(keyset, exampleIssuer).Verify(token)
		require.Error(t, err)
	})
}

func TestNewSignerEdDSAErrors(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("test", []byte("not-a-pem-key"))
	require.ErrorContains(t, err, "invalid PEM")

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	_, err = jwtx.NewSignerEdDSA("", pemKey)
	require.Error(t, err)
}

package http_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	accountshttp "github.com/aussiebroadwan/accounts/internal/accounts/http"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testIssuer = "accounts-test"

type testServer struct {
	*httptest.Server
	client *authsdk.SDKClient
	store  *sqlite.Store
	keys   *jwtx.KeyManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accounts := &service.AccountService{
		Store:  st,
		Hasher: cryptox.PasswordHasher{Scheme: cryptox.SchemeBcrypt, BcryptCost: bcrypt.MinCost},
	}

	router := accountshttp.NewRouter(km.KeySet, km.Verifier, "test", st, logger)
	router.AccountService = accounts
	router.AuthService = &service.AuthService{
		Accounts: accounts,
		Tokens:   &service.TokenService{Signer: km.Signer, Issuer: testIssuer, TTL: time.Hour},
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL)
	client.Validate = false // exercise server-side validation

	return &testServer{Server: srv, client: client, store: st, keys: km}
}

func (s *testServer) signUp(t *testing.T, email, username string) *authsdk.AuthResponse {
	t.Helper()
	resp, err := s.client.SignUp(context.Background(), authsdk.SignUpRequest{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp
}

func requireAPIError(t *testing.T, err error, status int, code string) *authsdk.APIError {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *authsdk.APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func TestSignUpAndSignIn(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	created := s.signUp(t, "Jane@Example.com", "Jane Doe")
	require.NotEmpty(t, created.Token)
	require.Equal(t, "jane@example.com", created.User.Email)
	require.Equal(t, "jane-doe", created.User.Slug)
	require.NotEmpty(t, created.User.ID)

	claims, err := s.keys.Verifier.Verify(created.Token)
	require.NoError(t, err)
	require.Equal(t, created.User.ID, claims.Subject)
	require.Equal(t, testIssuer, claims.Issuer)

	signedIn, err := s.client.SignIn(ctx, authsdk.SignInRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, created.User.ID, signedIn.User.ID)
	require.NotEmpty(t, signedIn.Token)
}

func TestSignUpResponseHasNoPassword(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Post(s.URL+"/v1/auth/signup", "application/json",
		strings.NewReader(`{"email":"a@b.c","username":"abc","password":"password123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotContains(t, strings.ToLower(string(body)), "password")
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSignUpErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.signUp(t, "jane@example.com", "Jane Doe")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.client.SignUp(ctx, authsdk.SignUpRequest{Email: "JANE@example.com", Username: "Other", Password: "password123"})
		apiErr := requireAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeDuplicateKey)
		require.Contains(t, apiErr.Description, "email")
		require.ErrorIs(t, err, authsdk.ErrDuplicateKey)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := s.client.SignUp(ctx, authsdk.SignUpRequest{Email: "other@example.com", Username: "jane doe", Password: "password123"})
		apiErr := requireAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeDuplicateKey)
		require.Contains(t, apiErr.Description, "username")
	})

	t.Run("validation", func(t *testing.T) {
		_, err := s.client.SignUp(ctx, authsdk.SignUpRequest{Email: "not-an-email", Username: "", Password: "short"})
		apiErr := requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)
		require.Contains(t, apiErr.Details, "email")
		require.Contains(t, apiErr.Details, "username")
		require.Contains(t, apiErr.Details, "password")
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(s.URL+"/v1/auth/signup", "application/json", strings.NewReader(`{"email":`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown field", func(t *testing.T) {
		resp, err := http.Post(s.URL+"/v1/auth/signup", "application/json",
			strings.NewReader(`{"email":"x@y.z","username":"x","password":"password123","role":"admin"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSignInFailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.signUp(t, "jane@example.com", "Jane Doe")

	_, wrongPassword := s.client.SignIn(ctx, authsdk.SignInRequest{Email: "jane@example.com", Password: "wrong-password"})
	_, unknownEmail := s.client.SignIn(ctx, authsdk.SignInRequest{Email: "nobody@example.com", Password: "password123"})

	a := requireAPIError(t, wrongPassword, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
	b := requireAPIError(t, unknownEmail, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
	require.Equal(t, a.Description, b.Description)
	require.Equal(t, "email or password mismatch our records", a.Description)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	created := s.signUp(t, "jane@example.com", "Jane Doe")

	session, err := s.client.AuthenticateWithPassword(ctx, "jane@example.com", "password123")
	require.NoError(t, err)

	profile, err := session.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, created.User.ID, profile.ID)
	require.Equal(t, "Jane Doe", profile.Username)
}

func TestProfileRequiresToken(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.NewSession("not-a-jwt").Profile(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	resp, err := http.Get(s.URL + "/v1/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
}

func TestProfileTokenFromOtherIssuerRejected(t *testing.T) {
	s := newTestServer(t)
	created := s.signUp(t, "jane@example.com", "Jane Doe")

	claims := jwtx.NewUserClaims(created.User.ID, "Jane Doe", "jane-doe", "someone-else", time.Hour, time.Now().UTC())
	token, err := s.keys.Signer.Sign(claims)
	require.NoError(t, err)

	_, err = s.client.NewSession(token).Profile(context.Background())
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	created := s.signUp(t, "jane@example.com", "Jane Doe")
	session := s.client.NewSession(created.Token)

	err := session.ChangePassword(ctx, "wrong-password", "new-password-1")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)

	err = session.ChangePassword(ctx, "password123", "short")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)

	require.NoError(t, session.ChangePassword(ctx, "password123", "new-password-1"))

	_, err = s.client.SignIn(ctx, authsdk.SignInRequest{Email: "jane@example.com", Password: "password123"})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)

	_, err = s.client.SignIn(ctx, authsdk.SignInRequest{Email: "jane@example.com", Password: "new-password-1"})
	require.NoError(t, err)
}

func TestChangeUsernameMovesSlug(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	created := s.signUp(t, "jane@example.com", "Jane Doe")
	s.signUp(t, "taken@example.com", "Taken Name")
	session := s.client.NewSession(created.Token)

	require.NoError(t, session.ChangeUsername(ctx, "Jane Q Doe"))

	user, err := s.client.GetUserBySlug(ctx, "jane-q-doe")
	require.NoError(t, err)
	require.Equal(t, created.User.ID, user.ID)
	require.Equal(t, "Jane Q Doe", user.Username)

	_, err = s.client.GetUserBySlug(ctx, "jane-doe")
	requireAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)

	err = session.ChangeUsername(ctx, "taken name")
	requireAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeDuplicateKey)

	err = session.ChangeUsername(ctx, "!!!")
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)
}

func TestChangeImage(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	created := s.signUp(t, "jane@example.com", "Jane Doe")
	session := s.client.NewSession(created.Token)

	require.NoError(t, session.ChangeImage(ctx, "https://example.com/jane.png"))
	profile, err := session.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/jane.png", profile.Image)

	require.NoError(t, session.ChangeImage(ctx, ""))
	profile, err = session.Profile(ctx)
	require.NoError(t, err)
	require.Empty(t, profile.Image)

	err = session.ChangeImage(ctx, "https://example.com/"+strings.Repeat("a", 2100))
	requireAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeValidation)
}

func TestGetUserBySlugNotFound(t *testing.T) {
	s := newTestServer(t)

	_, err := s.client.GetUserBySlug(context.Background(), "nobody")
	require.ErrorIs(t, err, authsdk.ErrNotFound)
}

func TestGetUserBySlugHidesEmail(t *testing.T) {
	s := newTestServer(t)
	created := s.signUp(t, "secret.person@example.com", "Jane Roe")

	resp, err := http.Get(s.URL + "/v1/users/jane-roe")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(body), "secret.person@example.com")
	require.NotContains(t, string(body), `"email"`)
	require.NotContains(t, string(body), "password")

	user, err := s.client.GetUserBySlug(context.Background(), "jane-roe")
	require.NoError(t, err)
	require.Equal(t, created.User.ID, user.ID)
	require.Equal(t, "Jane Roe", user.Username)

	// The owner still sees their address.
	profile, err := s.client.NewSession(created.Token).Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "secret.person@example.com", profile.Email)
}

func TestJWKS(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	created := s.signUp(t, "jane@example.com", "Jane Doe")

	jwks, err := s.client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	// A verifier built only from the published keys accepts issued tokens.
	remote := jwtx.NewKeySet()
	require.NoError(t, remote.AddJWK(jwks.Keys[0]))
	claims, err := jwtx.NewVerifierEdDSA(remote, testIssuer).Verify(created.Token)
	require.NoError(t, err)
	require.Equal(t, created.User.ID, claims.Subject)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Store)
	require.Equal(t, "ok", ready.Checks.Signer)

	require.NoError(t, s.store.Close())
	_, err = s.client.GetReadiness(ctx)
	requireAPIError(t, err, http.StatusServiceUnavailable, authsdk.ErrorCodeServerError)
}

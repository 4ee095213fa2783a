package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleSignUp creates an account and signs it in.
//
//	@Summary		Sign up
//	@Description	Creates an account. The slug is derived from the username. Returns the new user and a token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignUpRequest			true	"New account"
//	@Success		201		{object}	authsdk.AuthResponse			"Created user and token"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Email or username already taken"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignUpRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.AuthService.SignUp(r.Context(), domain.SignUpData{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(resp))
}

// HandleSignIn exchanges credentials for a token.
//
//	@Summary		Sign in
//	@Description	Verifies email and password. Unknown email and wrong password produce the same 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignInRequest			true	"Credentials"
//	@Success		200		{object}	authsdk.AuthResponse			"User and token"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid credentials"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/signin [post].
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SignInRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.AuthService.SignIn(r.Context(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(resp))
}

func toAuthResponse(a domain.AuthResponse) authsdk.AuthResponse {
	return authsdk.AuthResponse{
		User:  toUserResponse(a.User),
		Token: a.Token,
	}
}

func toPublicUserResponse(v domain.UserView) authsdk.PublicUserResponse {
	return authsdk.PublicUserResponse{
		ID:        v.ID,
		Username:  v.Username,
		Slug:      v.Slug,
		Image:     v.Image,
		CreatedAt: v.CreatedAt,
	}
}

func toUserResponse(v domain.UserView) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:        v.ID,
		Email:     v.Email,
		Username:  v.Username,
		Slug:      v.Slug,
		Image:     v.Image,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

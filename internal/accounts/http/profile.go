package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

// ProfileHandler serves the signed-in user's own account. Every route sits
// behind httpx.AuthnMiddleware.
type ProfileHandler struct {
	AuthService    *service.AuthService
	AccountService *service.AccountService
}

// HandleGet returns the caller's account.
//
//	@Summary		Get profile
//	@Description	Returns the account the bearer token belongs to.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"Current user"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Account no longer exists"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	view, err := h.AuthService.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(view))
}

// HandleChangePassword replaces the caller's password.
//
//	@Summary		Change password
//	@Description	Verifies the current password and stores a hash of the new one.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid token or wrong current password"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/profile/password [put].
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.AuthService.ChangePassword(r.Context(), userID, domain.PasswordChange{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangeUsername renames the caller.
//
//	@Summary		Change username
//	@Description	Renames the caller. The slug is recomputed; the old slug stops resolving.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangeUsernameRequest	true	"New username"
//	@Success		204		"Username changed"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account no longer exists"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Username already taken"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/profile/username [put].
func (h *ProfileHandler) HandleChangeUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.ChangeUsernameRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.AccountService.UpdateUsername(r.Context(), userID, req.Username); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangeImage replaces the caller's avatar URL.
//
//	@Summary		Change profile image
//	@Description	Replaces the caller's image URL. An empty image clears it.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangeImageRequest	true	"New image URL"
//	@Success		204		"Image changed"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing access token"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account no longer exists"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/profile/image [put].
func (h *ProfileHandler) HandleChangeImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.ChangeImageRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.AccountService.UpdateImage(r.Context(), userID, req.Image); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

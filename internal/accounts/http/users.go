package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

type UserHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP looks a user up by slug.
//
//	@Summary		Get user by slug
//	@Description	Returns the public view of the user owning the slug.
//	@Tags			Users
//	@Produce		json
//	@Param			slug	path		string					true	"User slug"
//	@Success		200		{object}	authsdk.PublicUserResponse	"User"
//	@Failure		404		{object}	authsdk.ErrorResponse	"No user with this slug"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{slug} [get].
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u, err := h.AccountService.FindBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPublicUserResponse(u.View()))
}

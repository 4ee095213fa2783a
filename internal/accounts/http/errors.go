package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// writeError maps a service error onto the wire. Anything unrecognised is
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		dup  *store.DuplicateKeyError
	)

	switch {
	case errors.As(err, &verr):
		authsdk.WriteValidationError(w, verr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrDuplicateKey):
		if errors.As(err, &dup) {
			authsdk.ErrDuplicateKey.WithDescription(duplicateDescription(dup.Field)).WriteError(w)
			return
		}
		authsdk.ErrDuplicateKey.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("err", err))
		authsdk.ErrServerError.WriteError(w)
	}
}

func duplicateDescription(field string) string {
	switch field {
	case store.FieldEmail:
		return "an account with this email already exists"
	case store.FieldSlug:
		return "this username is already taken"
	default:
		return authsdk.ErrDuplicateKey.Description
	}
}

// decode reads the JSON body into dst, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		authsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return false
	}
	return true
}

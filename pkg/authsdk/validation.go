package authsdk

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Client-side checks only catch what is obviously wrong; the server stays
// authoritative.

const (
	requiredReason    = "required"
	minPasswordLength = 8
	maxPasswordLength = 128
)

// Validate returns field errors for the sign-up request, or nil.
func (r SignUpRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if !strings.Contains(r.Email, "@") {
		errs["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = requiredReason
	}
	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = requiredReason
	}
	checkPassword(errs, "password", r.Password)
	return orNil(errs)
}

// Validate returns field errors for the sign-in request, or nil.
func (r SignInRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = requiredReason
	}
	if r.Password == "" {
		errs["password"] = requiredReason
	}
	return orNil(errs)
}

// Validate returns field errors for the password change, or nil.
func (r ChangePasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.CurrentPassword == "" {
		errs["current_password"] = requiredReason
	}
	checkPassword(errs, "new_password", r.NewPassword)
	return orNil(errs)
}

// Validate returns field errors for the rename, or nil.
func (r ChangeUsernameRequest) Validate() map[string]string {
	if strings.TrimSpace(r.Username) == "" {
		return map[string]string{"username": requiredReason}
	}
	return nil
}

func checkPassword(errs map[string]string, field, pw string) {
	n := utf8.RuneCountInString(pw)
	switch {
	case pw == "":
		errs[field] = requiredReason
	case n < minPasswordLength:
		errs[field] = fmt.Sprintf("too short (min %d)", minPasswordLength)
	case n > maxPasswordLength:
		errs[field] = fmt.Sprintf("too long (max %d)", maxPasswordLength)
	}
}

func orNil(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validationError wraps field errors in the same *APIError a server-side
// validation failure produces.
func validationError(fields map[string]string) error {
	if fields == nil {
		return nil
	}
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidation,
		Description: "request validation failed",
		Details:     fields,
	}
}

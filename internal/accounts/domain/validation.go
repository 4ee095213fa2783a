package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput is matched by every *ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// Field limits.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxUsernameLength = 64
	MaxEmailLength    = 254
	MaxImageLength    = 2048
)

const reasonRequired = "required"

// ValidationError maps field names to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// InvalidField builds a single-field validation error.
func InvalidField(field, reason string) error {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (d SignUpData) Validate() error {
	errs := make(map[string]string)
	validateEmail(errs, "email", d.Email)
	validateUsername(errs, "username", d.Username)
	validatePassword(errs, "password", d.Password)
	validateImage(errs, "image", d.Image)
	return invalid(errs)
}

func (c Credentials) Validate() error {
	errs := make(map[string]string)
	if strings.TrimSpace(c.Email) == "" {
		errs["email"] = reasonRequired
	}
	if c.Password == "" {
		errs["password"] = reasonRequired
	}
	return invalid(errs)
}

func (p PasswordChange) Validate() error {
	errs := make(map[string]string)
	if p.CurrentPassword == "" {
		errs["current_password"] = reasonRequired
	}
	validatePassword(errs, "new_password", p.NewPassword)
	return invalid(errs)
}

// ValidateUsername checks a username on its own, e.g. for a rename.
func ValidateUsername(username string) error {
	errs := make(map[string]string)
	validateUsername(errs, "username", username)
	return invalid(errs)
}

// ValidatePassword checks a new password on its own.
func ValidatePassword(password string) error {
	errs := make(map[string]string)
	validatePassword(errs, "password", password)
	return invalid(errs)
}

// ValidateImage checks a profile image reference; empty clears the image.
func ValidateImage(image string) error {
	errs := make(map[string]string)
	validateImage(errs, "image", image)
	return invalid(errs)
}

func validateEmail(errs map[string]string, field, email string) {
	email = NormalizeEmail(email)
	local, host, ok := strings.Cut(email, "@")
	switch {
	case email == "":
		errs[field] = reasonRequired
	case len(email) > MaxEmailLength:
		errs[field] = fmt.Sprintf("too long (max %d)", MaxEmailLength)
	case !ok || local == "" || host == "" || strings.ContainsAny(email, " \t\r\n") || strings.Contains(host, "@"):
		errs[field] = "must be a valid email address"
	}
}

func validateUsername(errs map[string]string, field, username string) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		errs[field] = reasonRequired
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		errs[field] = fmt.Sprintf("too long (max %d)", MaxUsernameLength)
	case Slugify(username) == "":
		errs[field] = "must contain at least one letter or digit"
	}
}

func validatePassword(errs map[string]string, field, password string) {
	n := utf8.RuneCountInString(password)
	switch {
	case password == "":
		errs[field] = reasonRequired
	case n < MinPasswordLength:
		errs[field] = fmt.Sprintf("too short (min %d)", MinPasswordLength)
	case n > MaxPasswordLength:
		errs[field] = fmt.Sprintf("too long (max %d)", MaxPasswordLength)
	}
}

func validateImage(errs map[string]string, field, image string) {
	if len(image) > MaxImageLength {
		errs[field] = fmt.Sprintf("too long (max %d)", MaxImageLength)
	}
}

package authsdk

import (
	"time"

	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every non-validation error.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the error code (e.g., "invalid_credentials", "duplicate_key")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is always "validation_error"
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Auth Types
// ============================================================================

// SignUpRequest creates a new account.
type SignUpRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Username string `json:"username" example:"Jane Doe"`
	Password string `json:"password" example:"correct horse battery"`

	// Image is an optional avatar URL
	Image string `json:"image,omitempty" example:"https://example.com/jane.png"`
}

// SignInRequest exchanges credentials for a token.
type SignInRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"correct horse battery"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	User UserResponse `json:"user"`

	// Token is an EdDSA signed JWT; send it as "Authorization: Bearer <token>"
	Token string `json:"token"`
}

// ============================================================================
// User Types
// ============================================================================

// UserResponse is the account owner's view, returned only on sign-up,
// sign-in and the bearer profile route. It never carries the password hash.
type UserResponse struct {
	ID        string    `json:"id" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZK"`
	Email     string    `json:"email" example:"jane@example.com"`
	Username  string    `json:"username" example:"Jane Doe"`
	Slug      string    `json:"slug" example:"jane-doe"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUserResponse is what anyone may see of an account by slug. It
// carries no email address.
type PublicUserResponse struct {
	ID        string    `json:"id" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZK"`
	Username  string    `json:"username" example:"Jane Doe"`
	Slug      string    `json:"slug" example:"jane-doe"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangeUsernameRequest renames the caller; the slug follows the new name.
type ChangeUsernameRequest struct {
	Username string `json:"username" example:"Jane Q Doe"`
}

// ChangeImageRequest replaces the caller's avatar URL. An empty image clears it.
type ChangeImageRequest struct {
	Image string `json:"image" example:"https://example.com/jane.png"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Store indicates the user store connection status
	Store string `json:"store"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the JSON Web Key Set.
// This is returned from the GET /.well-known/jwks.json endpoint and contains
// public keys used to verify JWT signatures.
type JWKSResponse jwtx.JWKS

package domain

import (
	"strings"
	"time"
)

// User is a stored account. PasswordHash is an argon2id PHC string or a
// bcrypt digest; the plaintext is never kept.
type User struct {
	ID           string
	Email        string
	Username     string
	Slug         string
	PasswordHash string
	Image        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the only shape of a user that leaves the service.
type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View strips the password hash.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Slug:      u.Slug,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

type SignUpData struct {
	Email    string
	Username string
	Password string
	Image    string
}

type Credentials struct {
	Email    string
	Password string
}

type PasswordChange struct {
	CurrentPassword string
	NewPassword     string
}

// NormalizeEmail trims and lower-cases an address so lookups are case
// insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PasswordHash never leaves this package in
// responses.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ShortlistEntry is one grant a user has saved to pursue, with an optional
// note.
type ShortlistEntry struct {
	GrantID uuid.UUID `json:"grant_id"`
	Name    string    `json:"name"`
	Funder  string    `json:"funder"`
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

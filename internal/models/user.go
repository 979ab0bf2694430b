package models

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique, case-insensitive).
	// Used for login and friend lookup.
	Email string

	// Username is the public handle, derived from the email local-part at sign-up.
	// Unique case-insensitively.
	Username string

	// AvatarURL points at the user's profile picture.
	AvatarURL string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never leaves the server.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID, timestamps and a default avatar.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		AvatarURL:    DefaultAvatarURL(username),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Identity returns the public, authenticated projection of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:            u.ID,
		Username:      u.Username,
		AvatarURL:     u.AvatarURL,
		Email:         u.Email,
		Authenticated: true,
	}
}

// Identity is the active session's view of a user.
type Identity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// DefaultAvatarURL returns a generated initials avatar for the given name.
func DefaultAvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}

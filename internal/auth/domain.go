package auth

import "time"

// User represents a user account. PasswordHash is empty for accounts created
// through Google OAuth that were never given a local password.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	GoogleID       *string   `json:"-"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

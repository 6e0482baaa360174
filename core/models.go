package core

import (
	"time"

	"github.com/google/uuid"
)

// User represents a local account provisioned from an OAuth profile
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"` // Globally unique

	// PasswordHash holds a bcrypt hash of a random throwaway password.
	// OAuth-provisioned accounts never authenticate with it; it only
	// satisfies schemas that require a non-empty credential.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

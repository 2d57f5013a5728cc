package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a post author. Usernames are unique and case-sensitive; optional
// profile fields are nil when absent, never the empty string.
type User struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Email       *string
	Location    *string
	Platform    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser carries the profile fields for lazy user creation. DisplayName
// falls back to Username when blank.
type NewUser struct {
	Username    string
	DisplayName string
	Email       *string
	Location    *string
	Platform    *string
}

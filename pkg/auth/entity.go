package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a library member or staff account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

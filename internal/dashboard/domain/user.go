package domain

import "time"

// DefaultRole is assigned when registration does not name one.
const DefaultRole = "User"

type User struct {
	ID           string
	Email        string // unique, compared case-insensitively
	DisplayName  string
	PasswordHash string // argon2 encoded
	Role         string
	CreatedAt    time.Time
}

package auth

import (
	"strings"
	"time"
)

// User is a domain entity representing a registered traveller.
// ID is assigned by the store on creation.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail returns the canonical form used as the login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

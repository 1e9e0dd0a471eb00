package domain

import "time"

// User is the domain entity for an account. Username is the primary
// identity and never changes after registration.
type User struct {
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

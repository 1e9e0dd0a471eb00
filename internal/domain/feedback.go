package domain

import "time"

// Feedback is a note left by a user. Username references the owning
// account; ownership never moves to another user.
type Feedback struct {
	ID       int64
	Title    string
	Content  string
	Username string

	CreatedAt time.Time
	UpdatedAt time.Time
}

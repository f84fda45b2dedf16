package domain

import "time"

// User represents an identity that can own project memberships and task
// assignments. Email uniqueness is case-insensitive. Password is an opaque
// value; hashing happens outside this module.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

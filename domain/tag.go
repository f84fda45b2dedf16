package domain

import "time"

// Tag is a shared label attachable to many tasks. Name uniqueness is
// case-insensitive.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package spool

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
)

// Item wraps a task history entry awaiting durable persistence. Entries are
// spooled to disk first so a change record survives a primary store outage.
type Item struct {
	ID        string             `json:"id"`
	Entry     domain.TaskHistory `json:"entry"`
	Retries   int                `json:"retries"`
	SpooledAt time.Time          `json:"spooled_at"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.SpooledAt.IsZero() {
		i.SpooledAt = time.Now()
	}
	if i.Entry.Timestamp.IsZero() {
		i.Entry.Timestamp = i.SpooledAt
	}
}

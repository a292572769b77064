package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Interaction is an audit entry for one processed conversation turn.
type Interaction struct {
	ID            string
	CreatedAt     time.Time
	UserMessage   string
	Reply         string
	ExtractedJSON string // staged field set as JSON, "{}" when none
}

// Job is a unit of background work (statement imports).
type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

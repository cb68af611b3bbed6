package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one story generation request.
type Job struct {
	ID          uuid.UUID
	SessionID   string
	Theme       string
	Status      JobStatus
	StoryID     *uuid.UUID // set only when completed
	Error       *string    // set only when failed
	CreatedAt   time.Time
	CompletedAt *time.Time
}

package entity

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrIntegrity    = errors.New("story integrity violation")
	// ErrJobFinalized is returned when a transition is attempted on a job
	// that is already completed or failed.
	ErrJobFinalized = errors.New("job already finalized")
)

package models

import "fmt"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", fmt.Errorf("invalid task status %q", value)
	}
	return s, nil
}

// Advance moves a task one step along pending -> in-progress -> completed.
// Completed stays completed. Any unrecognised current value restarts at pending.
func Advance(current Status) Status {
	switch current {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress, StatusCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

package service

import (
	"errors"

	"github.com/gurkanbulca/projecttracker/internal/repository"
)

var (
	// ErrNotFound is returned when a referenced project or task does not
	// exist or has been soft-deleted.
	ErrNotFound = repository.ErrNotFound

	// ErrUnauthenticated is returned when an operation needs an acting user
	// and none was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries field-level messages. No mutation has happened when
// it is returned.
type ValidationError struct {
	Fields map[string][]string
	order  []string
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Message returns the first message recorded, or a generic one.
func (e *ValidationError) Message() string {
	for _, field := range e.order {
		if msgs := e.Fields[field]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return "The given data was invalid."
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field already failed.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// err returns nil when nothing was recorded so callers can return it directly.
func (e *ValidationError) err() error {
	if e == nil || e.empty() {
		return nil
	}
	return e
}

// IsValidationError unwraps err into a *ValidationError.
func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

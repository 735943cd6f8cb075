package errors

import (
	"fmt"

	"github.com/swiftbuy/storefront/internal/domain"
)

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidStateTransition is returned when a submission cannot move between two statuses
type ErrInvalidStateTransition struct {
	From domain.SubmissionStatus
	To   domain.SubmissionStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// SubmissionError is a failure reported by the backend. Message is the
// backend's own text and is shown to the user as is.
type SubmissionError struct {
	Status  int
	Message string
}

func (e *SubmissionError) Error() string {
	return e.Message
}

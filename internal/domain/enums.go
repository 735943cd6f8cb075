package domain

// SubmissionStatus represents where a coupon form is in its create request
type SubmissionStatus string

const (
	SubmissionStatusIdle       SubmissionStatus = "IDLE"
	SubmissionStatusSubmitting SubmissionStatus = "SUBMITTING"
	SubmissionStatusSucceeded  SubmissionStatus = "SUCCEEDED"
	SubmissionStatusFailed     SubmissionStatus = "FAILED"
)

// IsValid checks if the submission status is valid
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusIdle,
		SubmissionStatusSubmitting,
		SubmissionStatusSucceeded,
		SubmissionStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s SubmissionStatus) CanTransitionTo(newStatus SubmissionStatus) bool {
	switch s {
	case SubmissionStatusIdle:
		return newStatus == SubmissionStatusSubmitting
	case SubmissionStatusSubmitting:
		return newStatus == SubmissionStatusSucceeded ||
			newStatus == SubmissionStatusFailed
	case SubmissionStatusSucceeded, SubmissionStatusFailed:
		// Settled until the next edit or submit
		return newStatus == SubmissionStatusIdle ||
			newStatus == SubmissionStatusSubmitting
	default:
		return false
	}
}

// IsSettled reports whether the last request has completed
func (s SubmissionStatus) IsSettled() bool {
	return s == SubmissionStatusSucceeded || s == SubmissionStatusFailed
}

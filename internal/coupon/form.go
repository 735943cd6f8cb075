package coupon

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/domain"
	apperrors "github.com/swiftbuy/storefront/pkg/errors"
)

// ErrSubmissionInFlight is returned when Submit is called while a create request is pending
var ErrSubmissionInFlight = errors.New("coupon submission already in progress")

// SuccessMessage is shown once the backend accepts the coupon
const SuccessMessage = "Coupon created successfully"

// Severity of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a one-shot message for the user about the last submission
type Notification struct {
	Severity Severity
	Message  string
}

// Submitter sends a validated coupon to the backend
type Submitter interface {
	CreateCoupon(ctx context.Context, c domain.Coupon) error
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, c domain.Coupon) error

func (f SubmitterFunc) CreateCoupon(ctx context.Context, c domain.Coupon) error {
	return f(ctx, c)
}

// Form holds the admin coupon form: its values, the last field errors and
// the state of the single create request it may have in flight.
type Form struct {
	mu           sync.Mutex
	values       Draft
	status       domain.SubmissionStatus
	fieldErrors  FieldErrors
	notification *Notification
	submitter    Submitter
	logger       *zap.Logger
}

// NewForm creates an empty coupon form
func NewForm(submitter Submitter, logger *zap.Logger) *Form {
	return &Form{
		values:    InitialDraft(),
		status:    domain.SubmissionStatusIdle,
		submitter: submitter,
		logger:    logger,
	}
}

// Values returns a copy of the current field values
func (f *Form) Values() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Status returns where the form is in its submission lifecycle
func (f *Form) Status() domain.SubmissionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// FieldErrors returns the violations found by the last Submit, if any
func (f *Form) FieldErrors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.fieldErrors) == 0 {
		return nil
	}
	out := make(FieldErrors, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// CanSubmit is false while a request is pending
func (f *Form) CanSubmit() bool {
	return f.Status() != domain.SubmissionStatusSubmitting
}

// Notification returns the pending notification and clears it
func (f *Form) Notification() (Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notification == nil {
		return Notification{}, false
	}
	n := *f.notification
	f.notification = nil
	return n, true
}

// Edit changes field values. Errors of the fields that changed are
// dropped and a settled form goes back to idle.
func (f *Form) Edit(fn func(*Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.values
	fn(&f.values)
	for field := range f.fieldErrors {
		if before.value(field) != f.values.value(field) {
			delete(f.fieldErrors, field)
		}
	}
	if len(f.fieldErrors) == 0 {
		f.fieldErrors = nil
	}
	if f.status.IsSettled() {
		f.status = domain.SubmissionStatusIdle
	}
}

// Submit validates the form and, when every field passes, sends the coupon.
// Field violations are returned as FieldErrors and nothing is sent.
// On success the form is reset; on failure the values are kept and the
// backend message becomes the notification.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.status == domain.SubmissionStatusSubmitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}

	c, fieldErrs := Validate(f.values)
	if len(fieldErrs) > 0 {
		f.fieldErrors = make(FieldErrors, len(fieldErrs))
		for k, v := range fieldErrs {
			f.fieldErrors[k] = v
		}
		f.mu.Unlock()
		return fieldErrs
	}

	if !f.status.CanTransitionTo(domain.SubmissionStatusSubmitting) {
		from := f.status
		f.mu.Unlock()
		return &apperrors.ErrInvalidStateTransition{From: from, To: domain.SubmissionStatusSubmitting}
	}
	f.status = domain.SubmissionStatusSubmitting
	f.fieldErrors = nil
	f.notification = nil
	f.mu.Unlock()

	err := f.submitter.CreateCoupon(ctx, c)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.status = domain.SubmissionStatusFailed
		f.notification = &Notification{Severity: SeverityError, Message: userMessage(err)}
		f.logger.Warn("Coupon submission failed",
			zap.String("code", c.Code),
			zap.Error(err),
		)
		return err
	}

	f.status = domain.SubmissionStatusSucceeded
	f.values = InitialDraft()
	f.notification = &Notification{Severity: SeveritySuccess, Message: SuccessMessage}
	f.logger.Info("Coupon created", zap.String("code", c.Code))
	return nil
}

// userMessage surfaces backend messages verbatim
func userMessage(err error) string {
	var subErr *apperrors.SubmissionError
	if errors.As(err, &subErr) && subErr.Message != "" {
		return subErr.Message
	}
	return err.Error()
}

package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/coupon"
	"github.com/swiftbuy/storefront/internal/domain"
	"github.com/swiftbuy/storefront/internal/repository"
	apperrors "github.com/swiftbuy/storefront/pkg/errors"
)

// CouponAPI is the backend surface the coupon service needs
type CouponAPI interface {
	CreateCoupon(ctx context.Context, c domain.Coupon, token string) (*backend.CouponResponse, error)
	ListCoupons(ctx context.Context, token string) ([]backend.CouponResponse, error)
}

type couponService struct {
	api    CouponAPI
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(api CouponAPI, repos *repository.Repositories, logger *zap.Logger) *couponService {
	return &couponService{
		api:    api,
		repos:  repos,
		logger: logger,
	}
}

// Create validates the draft and sends it to the backend. Validation
// failures are returned as coupon.FieldErrors without any request; backend
// rejections come back as *errors.SubmissionError untouched.
func (s *couponService) Create(ctx context.Context, draft coupon.Draft, token string) (*CreatedCoupon, error) {
	c, fieldErrs := coupon.Validate(draft)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	requestID := backend.RequestIDFromContext(ctx)

	created, err := s.api.CreateCoupon(ctx, c, token)
	if err != nil {
		s.record(ctx, c.Code, domain.SubmissionStatusFailed, submissionMessage(err), requestID)
		return nil, err
	}

	s.record(ctx, c.Code, domain.SubmissionStatusSucceeded, coupon.SuccessMessage, requestID)

	return &CreatedCoupon{
		ID:        created.ID,
		Coupon:    created.Coupon,
		RequestID: requestID,
	}, nil
}

// List returns the coupons known to the backend
func (s *couponService) List(ctx context.Context, token string) ([]backend.CouponResponse, error) {
	return s.api.ListCoupons(ctx, token)
}

// record writes the audit event. A storage failure does not fail the submission.
func (s *couponService) record(ctx context.Context, code string, status domain.SubmissionStatus, message, requestID string) {
	event := &domain.SubmissionEvent{
		CouponCode: code,
		Status:     status,
		Message:    message,
		RequestID:  requestID,
	}
	if err := s.repos.SubmissionEvent.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record coupon submission", zap.String("code", code), zap.Error(err))
	}
}

func submissionMessage(err error) string {
	var subErr *apperrors.SubmissionError
	if errors.As(err, &subErr) {
		return subErr.Message
	}
	return err.Error()
}

// Submissions returns the most recent recorded submissions of a code.
// The audit log is local, so the token is first checked against the
// backend's admin coupon listing; a rejection comes back as
// *errors.SubmissionError.
func (s *couponService) Submissions(ctx context.Context, code string, limit int, token string) ([]*domain.SubmissionEvent, error) {
	if _, err := s.api.ListCoupons(ctx, token); err != nil {
		return nil, err
	}
	return s.repos.SubmissionEvent.ListByCode(ctx, code, limit)
}

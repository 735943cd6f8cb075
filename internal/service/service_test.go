package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/coupon"
	"github.com/swiftbuy/storefront/internal/domain"
	"github.com/swiftbuy/storefront/internal/presenter"
	"github.com/swiftbuy/storefront/internal/pricing"
	"github.com/swiftbuy/storefront/internal/repository"
	apperrors "github.com/swiftbuy/storefront/pkg/errors"
)

type fakeCarts struct {
	cart *domain.Cart
	err  error
}

func (f *fakeCarts) GetCart(ctx context.Context, token string) (*domain.Cart, error) {
	return f.cart, f.err
}

type fakeCouponAPI struct {
	createErr error
	listErr   error
	created   []domain.Coupon
}

func (f *fakeCouponAPI) CreateCoupon(ctx context.Context, c domain.Coupon, token string) (*backend.CouponResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, c)
	return &backend.CouponResponse{ID: 42, IsActive: true, Coupon: c}, nil
}

func (f *fakeCouponAPI) ListCoupons(ctx context.Context, token string) ([]backend.CouponResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]backend.CouponResponse, 0, len(f.created))
	for i, c := range f.created {
		out = append(out, backend.CouponResponse{ID: int64(i + 1), Coupon: c})
	}
	return out, nil
}

type memoryEvents struct {
	events []*domain.SubmissionEvent
	err    error
}

func (m *memoryEvents) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memoryEvents) ListByCode(ctx context.Context, code string, limit int) ([]*domain.SubmissionEvent, error) {
	return m.events, nil
}

func validDraft() coupon.Draft {
	return coupon.Draft{
		Code:               "SAVE10",
		DiscountPercentage: "10",
		ValidityStartDate:  "2026-11-01",
		ValidityEndDate:    "2026-11-30",
		MinimumOrderValue:  "500",
	}
}

func TestCartPricing(t *testing.T) {
	carts := &fakeCarts{cart: &domain.Cart{ID: "9", Items: []domain.CartItem{
		{Quantity: 2, UnitMrpPrice: decimal.NewFromInt(500), UnitSellingPrice: decimal.NewFromInt(400)},
		{Quantity: 1, UnitMrpPrice: decimal.NewFromInt(300), UnitSellingPrice: decimal.NewFromInt(300)},
	}}}
	svc := NewPricingService(carts, pricing.NewCalculator(pricing.DefaultShippingFee), zap.NewNop(),
		presenter.WithCurrencySymbol("Rs."))

	got, err := svc.CartPricing(context.Background(), "jwt")
	require.NoError(t, err)

	assert.Equal(t, "1179", got.Breakdown.Total.String())
	assert.False(t, got.Anomaly)
	require.Len(t, got.Lines, 5)
	assert.Equal(t, presenter.Line{Label: "Total", Value: "Rs. 1179"}, got.Lines[4])
}

func TestCartPricingBackendError(t *testing.T) {
	carts := &fakeCarts{err: &apperrors.SubmissionError{Status: http.StatusUnauthorized, Message: "Invalid token"}}
	svc := NewPricingService(carts, pricing.NewCalculator(pricing.DefaultShippingFee), zap.NewNop())

	_, err := svc.CartPricing(context.Background(), "jwt")

	var subErr *apperrors.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Invalid token", subErr.Message)
}

func TestCouponCreate(t *testing.T) {
	api := &fakeCouponAPI{}
	events := &memoryEvents{}
	svc := NewCouponService(api, &repository.Repositories{SubmissionEvent: events}, zap.NewNop())

	ctx := backend.WithRequestID(context.Background(), "req-7")
	created, err := svc.Create(ctx, validDraft(), "jwt")
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "req-7", created.RequestID)
	require.Len(t, api.created, 1)
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.SubmissionStatusSucceeded, events.events[0].Status)
	assert.Equal(t, "req-7", events.events[0].RequestID)

	list, err := svc.List(ctx, "jwt")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCouponCreateValidationFailureSendsNothing(t *testing.T) {
	api := &fakeCouponAPI{}
	events := &memoryEvents{}
	svc := NewCouponService(api, &repository.Repositories{SubmissionEvent: events}, zap.NewNop())

	draft := validDraft()
	draft.Code = "AB"
	_, err := svc.Create(context.Background(), draft, "jwt")

	var fieldErrs coupon.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, coupon.FieldCode)
	assert.Empty(t, api.created)
	assert.Empty(t, events.events)
}

func TestCouponCreateBackendRejection(t *testing.T) {
	api := &fakeCouponAPI{createErr: &apperrors.SubmissionError{Status: http.StatusBadRequest, Message: "Coupon code already exists"}}
	events := &memoryEvents{}
	svc := NewCouponService(api, &repository.Repositories{SubmissionEvent: events}, zap.NewNop())

	_, err := svc.Create(context.Background(), validDraft(), "jwt")

	var subErr *apperrors.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "Coupon code already exists", subErr.Message)
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.SubmissionStatusFailed, events.events[0].Status)
	assert.Equal(t, "Coupon code already exists", events.events[0].Message)
}

func TestCouponCreateAuditFailureIgnored(t *testing.T) {
	api := &fakeCouponAPI{}
	events := &memoryEvents{err: errors.New("db down")}
	svc := NewCouponService(api, &repository.Repositories{SubmissionEvent: events}, zap.NewNop())

	_, err := svc.Create(context.Background(), validDraft(), "jwt")
	assert.NoError(t, err)
}

func TestCouponCreateWithNoopRepositories(t *testing.T) {
	svc := NewCouponService(&fakeCouponAPI{}, repository.NewNoopRepositories(), zap.NewNop())

	_, err := svc.Create(context.Background(), validDraft(), "jwt")
	assert.NoError(t, err)
}

func TestCouponSubmissionsRequireBackendAcceptedToken(t *testing.T) {
	api := &fakeCouponAPI{}
	events := &memoryEvents{}
	svc := NewCouponService(api, &repository.Repositories{SubmissionEvent: events}, zap.NewNop())

	_, err := svc.Create(context.Background(), validDraft(), "jwt")
	require.NoError(t, err)

	got, err := svc.Submissions(context.Background(), "SAVE10", 10, "jwt")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	api.listErr = &apperrors.SubmissionError{Status: http.StatusForbidden, Message: "Access denied"}
	got, err = svc.Submissions(context.Background(), "SAVE10", 10, "someone-else")

	var subErr *apperrors.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusForbidden, subErr.Status)
	assert.Nil(t, got)
}

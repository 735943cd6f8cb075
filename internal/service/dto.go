package service

import (
	"github.com/swiftbuy/storefront/internal/domain"
	"github.com/swiftbuy/storefront/internal/presenter"
	"github.com/swiftbuy/storefront/internal/pricing"
)

// CartPricing is the priced cart returned to the storefront
type CartPricing struct {
	Items      []domain.CartItem `json:"items"`
	CouponCode string            `json:"couponCode,omitempty"`
	Breakdown  pricing.Breakdown `json:"breakdown"`
	Lines      []presenter.Line  `json:"lines"`
	Anomaly    bool              `json:"anomaly"`
}

// CreatedCoupon is the outcome of a successful coupon submission
type CreatedCoupon struct {
	ID        int64         `json:"id"`
	Coupon    domain.Coupon `json:"coupon"`
	RequestID string        `json:"requestId,omitempty"`
}

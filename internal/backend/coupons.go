package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/swiftbuy/storefront/internal/domain"
)

const couponsPath = "/api/admin/coupons"

// CouponResponse is the backend's representation of a stored coupon
type CouponResponse struct {
	ID       int64
	IsActive bool
	Coupon   domain.Coupon
}

// UnmarshalJSON reads the flat coupon object the backend returns
func (r *CouponResponse) UnmarshalJSON(data []byte) error {
	var meta struct {
		ID       int64 `json:"id"`
		IsActive bool  `json:"active"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.Coupon); err != nil {
		return err
	}
	r.ID = meta.ID
	r.IsActive = meta.IsActive
	return nil
}

// CreateCoupon posts a validated coupon. The backend decides uniqueness
// of the code and reports rejections as *errors.SubmissionError.
func (c *Client) CreateCoupon(ctx context.Context, coupon domain.Coupon, token string) (*CouponResponse, error) {
	var created CouponResponse
	if err := c.Do(ctx, http.MethodPost, couponsPath, token, coupon, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListCoupons fetches every coupon for the admin console
func (c *Client) ListCoupons(ctx context.Context, token string) ([]CouponResponse, error) {
	var coupons []CouponResponse
	if err := c.Do(ctx, http.MethodGet, couponsPath, token, nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the ISO-8601 form dates take on the wire
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DateLayouts are the date forms accepted from users and from the backend
var DateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses s with the first matching layout in DateLayouts and
// returns it in UTC
func ParseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// CartItem is one line of a cart. Prices are per unit.
type CartItem struct {
	ID               string          `json:"id,omitempty"`
	ProductID        string          `json:"productId,omitempty"`
	Title            string          `json:"title,omitempty"`
	Size             string          `json:"size,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitMrpPrice     decimal.Decimal `json:"unitMrpPrice"`
	UnitSellingPrice decimal.Decimal `json:"unitSellingPrice"`
}

// Validate checks the item invariants. The pricing calculator does not
// call this; a selling price above MRP is carried through as data.
func (i CartItem) Validate() error {
	if i.Quantity < 1 {
		return fmt.Errorf("cart item %q: quantity must be positive, got %d", i.ID, i.Quantity)
	}
	if i.UnitMrpPrice.IsNegative() {
		return fmt.Errorf("cart item %q: negative MRP %s", i.ID, i.UnitMrpPrice)
	}
	if i.UnitSellingPrice.IsNegative() {
		return fmt.Errorf("cart item %q: negative selling price %s", i.ID, i.UnitSellingPrice)
	}
	if i.UnitSellingPrice.GreaterThan(i.UnitMrpPrice) {
		return fmt.Errorf("cart item %q: selling price %s exceeds MRP %s", i.ID, i.UnitSellingPrice, i.UnitMrpPrice)
	}
	return nil
}

// Cart is the user's cart as the backend returns it
type Cart struct {
	ID         string     `json:"id,omitempty"`
	Items      []CartItem `json:"cartItems"`
	CouponCode string     `json:"couponCode,omitempty"`
}

// Coupon is a validated coupon ready to be sent to the backend
type Coupon struct {
	Code               string
	DiscountPercentage decimal.Decimal
	ValidityStartDate  time.Time
	ValidityEndDate    time.Time
	MinimumOrderValue  decimal.Decimal
}

type couponJSON struct {
	Code               string      `json:"code"`
	DiscountPercentage json.Number `json:"discountPercentage"`
	ValidityStartDate  string      `json:"validityStartDate"`
	ValidityEndDate    string      `json:"validityEndDate"`
	MinimumOrderValue  json.Number `json:"minimumOrderValue"`
}

// MarshalJSON writes amounts as JSON numbers and dates as UTC ISO-8601 strings
func (c Coupon) MarshalJSON() ([]byte, error) {
	return json.Marshal(couponJSON{
		Code:               c.Code,
		DiscountPercentage: json.Number(c.DiscountPercentage.String()),
		ValidityStartDate:  c.ValidityStartDate.UTC().Format(TimestampLayout),
		ValidityEndDate:    c.ValidityEndDate.UTC().Format(TimestampLayout),
		MinimumOrderValue:  json.Number(c.MinimumOrderValue.String()),
	})
}

// UnmarshalJSON accepts the wire form written by MarshalJSON or any of DateLayouts
func (c *Coupon) UnmarshalJSON(data []byte) error {
	var raw couponJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := parseTimestamp(raw.ValidityStartDate)
	if err != nil {
		return fmt.Errorf("validityStartDate: %w", err)
	}
	end, err := parseTimestamp(raw.ValidityEndDate)
	if err != nil {
		return fmt.Errorf("validityEndDate: %w", err)
	}

	pct, err := parseNumber(raw.DiscountPercentage)
	if err != nil {
		return fmt.Errorf("discountPercentage: %w", err)
	}
	minOrder, err := parseNumber(raw.MinimumOrderValue)
	if err != nil {
		return fmt.Errorf("minimumOrderValue: %w", err)
	}

	c.Code = raw.Code
	c.DiscountPercentage = pct
	c.ValidityStartDate = start
	c.ValidityEndDate = end
	c.MinimumOrderValue = minOrder
	return nil
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return ParseDate(s)
}

// SubmissionEvent records the outcome of one coupon create request
type SubmissionEvent struct {
	ID         uuid.UUID
	CouponCode string
	Status     SubmissionStatus
	Message    string
	RequestID  string
	CreatedAt  time.Time
}

package coupon

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/swiftbuy/storefront/internal/domain"
)

// Field names as the backend and the form know them
const (
	FieldCode               = "code"
	FieldDiscountPercentage = "discountPercentage"
	FieldValidityStartDate  = "validityStartDate"
	FieldValidityEndDate    = "validityEndDate"
	FieldMinimumOrderValue  = "minimumOrderValue"
)

const (
	minCodeLength = 3
	maxCodeLength = 20
)

var (
	minDiscount   = decimal.NewFromInt(1)
	maxDiscount   = decimal.NewFromInt(100)
	minOrderValue = decimal.NewFromInt(1)
)

// Draft is the coupon form as the user typed it
type Draft struct {
	Code               string `json:"code"`
	DiscountPercentage string `json:"discountPercentage"`
	ValidityStartDate  string `json:"validityStartDate"`
	ValidityEndDate    string `json:"validityEndDate"`
	MinimumOrderValue  string `json:"minimumOrderValue"`
}

func (d Draft) value(field string) string {
	switch field {
	case FieldCode:
		return d.Code
	case FieldDiscountPercentage:
		return d.DiscountPercentage
	case FieldValidityStartDate:
		return d.ValidityStartDate
	case FieldValidityEndDate:
		return d.ValidityEndDate
	case FieldMinimumOrderValue:
		return d.MinimumOrderValue
	}
	return ""
}

// InitialDraft is the empty form
func InitialDraft() Draft {
	return Draft{
		DiscountPercentage: "0",
		MinimumOrderValue:  "0",
	}
}

// FieldErrors maps a field name to the message shown next to it
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks every field of the draft. It returns the coupon with
// dates normalized to UTC when all rules pass, otherwise the violations.
func Validate(d Draft) (domain.Coupon, FieldErrors) {
	errs := FieldErrors{}
	var c domain.Coupon

	code := strings.TrimSpace(d.Code)
	switch n := utf8.RuneCountInString(code); {
	case n == 0:
		errs[FieldCode] = "Coupon code is required"
	case n < minCodeLength:
		errs[FieldCode] = "Code should be at least 3 characters"
	case n > maxCodeLength:
		errs[FieldCode] = "Code should be at most 20 characters"
	default:
		c.Code = code
	}

	if pct, msg := parseAmount(d.DiscountPercentage, "Discount percentage"); msg != "" {
		errs[FieldDiscountPercentage] = msg
	} else if pct.LessThan(minDiscount) {
		errs[FieldDiscountPercentage] = "Discount should be at least 1%"
	} else if pct.GreaterThan(maxDiscount) {
		errs[FieldDiscountPercentage] = "Discount cannot exceed 100%"
	} else {
		c.DiscountPercentage = pct
	}

	start, startMsg := parseDate(d.ValidityStartDate, "Start date is required")
	if startMsg != "" {
		errs[FieldValidityStartDate] = startMsg
	} else {
		c.ValidityStartDate = start
	}

	end, endMsg := parseDate(d.ValidityEndDate, "End date is required")
	if endMsg != "" {
		errs[FieldValidityEndDate] = endMsg
	} else if startMsg == "" && end.Before(start) {
		errs[FieldValidityEndDate] = "End date cannot be before the start date"
	} else {
		c.ValidityEndDate = end
	}

	if minOrder, msg := parseAmount(d.MinimumOrderValue, "Minimum order value"); msg != "" {
		errs[FieldMinimumOrderValue] = msg
	} else if minOrder.LessThan(minOrderValue) {
		errs[FieldMinimumOrderValue] = "Minimum order value should be at least 1"
	} else {
		c.MinimumOrderValue = minOrder
	}

	if len(errs) > 0 {
		return domain.Coupon{}, errs
	}
	return c, nil
}

func parseAmount(raw, label string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, label + " is required"
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, label + " must be a number"
	}
	return v, ""
}

func parseDate(raw, requiredMsg string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, requiredMsg
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, "Invalid date format"
	}
	return t, ""
}

package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/swiftbuy/storefront/internal/domain"
)

// DefaultShippingFee is the flat shipping charge applied to every cart
var DefaultShippingFee = decimal.NewFromInt(79)

var hundred = decimal.NewFromInt(100)

// Breakdown is the derived price summary of a cart
type Breakdown struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	SellingTotal    decimal.Decimal `json:"sellingTotal"`
	Discount        decimal.Decimal `json:"discount"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	TotalItems      int             `json:"totalItems"`
	DiscountPercent int             `json:"discountPercent"`
}

// HasAnomaly reports a negative discount, which only happens when some
// item sells above its MRP. Callers decide whether to surface it.
func (b Breakdown) HasAnomaly() bool {
	return b.Discount.IsNegative()
}

// Calculator derives a Breakdown from cart items. It holds no state
// beyond the configured shipping fee.
type Calculator struct {
	shippingFee decimal.Decimal
}

// NewCalculator creates a calculator charging the given flat shipping fee
func NewCalculator(shippingFee decimal.Decimal) *Calculator {
	return &Calculator{shippingFee: shippingFee}
}

// ShippingFee returns the flat fee added to every breakdown
func (c *Calculator) ShippingFee() decimal.Decimal {
	return c.shippingFee
}

// ComputeBreakdown prices the given items. Discount is not clamped.
func (c *Calculator) ComputeBreakdown(items []domain.CartItem) Breakdown {
	subtotal := SumMrp(items)
	selling := SumSelling(items)

	return Breakdown{
		Subtotal:        subtotal,
		SellingTotal:    selling,
		Discount:        subtotal.Sub(selling),
		Shipping:        c.shippingFee,
		Total:           selling.Add(c.shippingFee),
		TotalItems:      TotalItems(items),
		DiscountPercent: DiscountPercentage(subtotal, selling),
	}
}

// SumMrp returns the list price of the items, unit MRP times quantity
func SumMrp(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitMrpPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// SumSelling returns what the items actually cost, unit selling price times quantity
func SumSelling(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitSellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalItems sums item quantities
func TotalItems(items []domain.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// DiscountPercentage returns the discount as a whole percentage of mrp,
// truncated toward zero. It is 0 when mrp is not positive.
func DiscountPercentage(mrp, selling decimal.Decimal) int {
	if !mrp.IsPositive() {
		return 0
	}
	return int(mrp.Sub(selling).Mul(hundred).Div(mrp).IntPart())
}

package presenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/swiftbuy/storefront/internal/pricing"
)

// Defaults used by the storefront
const (
	DefaultCurrencySymbol = "₹"
	DefaultCheckoutPath   = "/checkout"
	ProceedLabel          = "Proceed to Buy"
	FreeLabel             = "Free"
)

// ErrActionHidden is returned by Proceed when the card was built without a checkout action
var ErrActionHidden = errors.New("checkout action is not shown")

// Line is one row of the pricing card
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ActionKind tells what Proceed did
type ActionKind string

const (
	ActionSubmit   ActionKind = "submit"
	ActionNavigate ActionKind = "navigate"
)

// Action describes the outcome of Proceed
type Action struct {
	Kind ActionKind `json:"kind"`
	Path string     `json:"path,omitempty"`
}

// SubmitHandler replaces navigation with a caller-supplied action, as on the checkout page
type SubmitHandler func(ctx context.Context) error

// Navigator moves the user to another page
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Option configures a PricingCard
type Option func(*PricingCard)

// WithCurrencySymbol changes the symbol amounts are prefixed with
func WithCurrencySymbol(symbol string) Option {
	return func(p *PricingCard) { p.currencySymbol = symbol }
}

// WithCheckoutPath changes where the default action navigates
func WithCheckoutPath(path string) Option {
	return func(p *PricingCard) { p.checkoutPath = path }
}

// WithSubmitHandler makes Proceed call h instead of navigating
func WithSubmitHandler(h SubmitHandler) Option {
	return func(p *PricingCard) { p.submit = h }
}

// WithNavigator sets who performs the navigation to checkout
func WithNavigator(n Navigator) Option {
	return func(p *PricingCard) { p.navigator = n }
}

// PricingCard formats a breakdown for display. It never recomputes totals.
type PricingCard struct {
	breakdown      pricing.Breakdown
	showAction     bool
	currencySymbol string
	checkoutPath   string
	submit         SubmitHandler
	navigator      Navigator
}

// NewPricingCard creates a card for b
func NewPricingCard(b pricing.Breakdown, showCheckoutAction bool, opts ...Option) *PricingCard {
	p := &PricingCard{
		breakdown:      b,
		showAction:     showCheckoutAction,
		currencySymbol: DefaultCurrencySymbol,
		checkoutPath:   DefaultCheckoutPath,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lines returns the summary rows in display order, total last
func (p *PricingCard) Lines() []Line {
	return []Line{
		{Label: "Subtotal", Value: p.FormatAmount(p.breakdown.Subtotal)},
		{Label: "Discount", Value: p.FormatAmount(p.breakdown.Discount)},
		{Label: "Shipping", Value: p.FormatAmount(p.breakdown.Shipping)},
		{Label: "Platform Fee", Value: FreeLabel},
		{Label: "Total", Value: p.FormatAmount(p.breakdown.Total)},
	}
}

// ShowsAction reports whether the card offers the proceed action
func (p *PricingCard) ShowsAction() bool {
	return p.showAction
}

// FormatAmount prefixes the currency symbol and drops trailing zero decimals
func (p *PricingCard) FormatAmount(amount decimal.Decimal) string {
	return p.currencySymbol + " " + amount.Round(2).String()
}

// Proceed runs the card's action: the submit handler when one was given,
// otherwise navigation to the checkout path.
func (p *PricingCard) Proceed(ctx context.Context) (Action, error) {
	if !p.showAction {
		return Action{}, ErrActionHidden
	}

	if p.submit != nil {
		if err := p.submit(ctx); err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionSubmit}, nil
	}

	if p.navigator != nil {
		if err := p.navigator.Navigate(ctx, p.checkoutPath); err != nil {
			return Action{}, fmt.Errorf("failed to navigate to %s: %w", p.checkoutPath, err)
		}
	}
	return Action{Kind: ActionNavigate, Path: p.checkoutPath}, nil
}

// Render writes the card as aligned plain text
func (p *PricingCard) Render(w io.Writer) error {
	lines := p.Lines()

	width := 0
	for _, l := range lines {
		if n := len([]rune(l.Label)) + len([]rune(l.Value)); n > width {
			width = n
		}
	}
	width += 4

	var sb strings.Builder
	for i, l := range lines {
		if i == len(lines)-1 {
			sb.WriteString(strings.Repeat("-", width) + "\n")
		}
		pad := width - len([]rune(l.Label)) - len([]rune(l.Value))
		sb.WriteString(l.Label + strings.Repeat(" ", pad) + l.Value + "\n")
	}
	if p.showAction && p.submit == nil {
		sb.WriteString("[" + ProceedLabel + "]\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/domain"
	"github.com/swiftbuy/storefront/internal/presenter"
	"github.com/swiftbuy/storefront/internal/pricing"
)

// CartSource loads the signed-in user's cart
type CartSource interface {
	GetCart(ctx context.Context, token string) (*domain.Cart, error)
}

type pricingService struct {
	carts      CartSource
	calculator *pricing.Calculator
	cardOpts   []presenter.Option
	logger     *zap.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(carts CartSource, calculator *pricing.Calculator, logger *zap.Logger, cardOpts ...presenter.Option) *pricingService {
	return &pricingService{
		carts:      carts,
		calculator: calculator,
		cardOpts:   cardOpts,
		logger:     logger,
	}
}

// CartPricing fetches the cart and prices it
func (s *pricingService) CartPricing(ctx context.Context, token string) (*CartPricing, error) {
	cart, err := s.carts.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}

	breakdown := s.calculator.ComputeBreakdown(cart.Items)
	if breakdown.HasAnomaly() {
		s.logger.Warn("Cart has items selling above MRP",
			zap.String("cart_id", cart.ID),
			zap.String("discount", breakdown.Discount.String()),
		)
	}

	card := presenter.NewPricingCard(breakdown, true, s.cardOpts...)

	return &CartPricing{
		Items:      cart.Items,
		CouponCode: cart.CouponCode,
		Breakdown:  breakdown,
		Lines:      card.Lines(),
		Anomaly:    breakdown.HasAnomaly(),
	}, nil
}

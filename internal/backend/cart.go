package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/swiftbuy/storefront/internal/domain"
)

const (
	cartPath        = "/api/cart"
	addCartItemPath = "/api/cart_items/add"
	unitPricePlaces = 2
)

// AddCartItemRequest asks the backend to put a product in the user's cart
type AddCartItemRequest struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// cartResponse is the user cart as the backend stores it. Item prices
// there are line totals; the product carries the unit prices.
type cartResponse struct {
	ID         int64              `json:"id"`
	CouponCode string             `json:"couponCode"`
	CartItems  []cartItemResponse `json:"cartItems"`
}

type cartItemResponse struct {
	ID           int64            `json:"id"`
	Size         string           `json:"size"`
	Quantity     int              `json:"quantity"`
	MrpPrice     decimal.Decimal  `json:"mrpPrice"`
	SellingPrice decimal.Decimal  `json:"sellingPrice"`
	Product      *productResponse `json:"product"`
}

type productResponse struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	MrpPrice     *decimal.Decimal `json:"mrpPrice"`
	SellingPrice *decimal.Decimal `json:"sellingPrice"`
}

// GetCart fetches the signed-in user's cart
func (c *Client) GetCart(ctx context.Context, token string) (*domain.Cart, error) {
	var resp cartResponse
	if err := c.Do(ctx, http.MethodGet, cartPath, token, nil, &resp); err != nil {
		return nil, err
	}

	cart := &domain.Cart{
		ID:         fmt.Sprint(resp.ID),
		CouponCode: resp.CouponCode,
		Items:      make([]domain.CartItem, 0, len(resp.CartItems)),
	}
	for _, it := range resp.CartItems {
		cart.Items = append(cart.Items, it.toDomain())
	}

	return cart, nil
}

// AddCartItem adds a product line to the signed-in user's cart. When the
// cart already holds the product in that size the backend returns the
// existing line unchanged.
func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest, token string) (*domain.CartItem, error) {
	var resp cartItemResponse
	if err := c.Do(ctx, http.MethodPost, addCartItemPath, token, req, &resp); err != nil {
		return nil, err
	}

	item := resp.toDomain()
	if item.ProductID == "" {
		item.ProductID = fmt.Sprint(req.ProductID)
	}
	return &item, nil
}

func (it cartItemResponse) toDomain() domain.CartItem {
	item := domain.CartItem{
		ID:       fmt.Sprint(it.ID),
		Size:     it.Size,
		Quantity: it.Quantity,
	}

	// Fall back to dividing the line totals when the product is not embedded
	if it.Quantity > 0 {
		qty := decimal.NewFromInt(int64(it.Quantity))
		item.UnitMrpPrice = it.MrpPrice.DivRound(qty, unitPricePlaces)
		item.UnitSellingPrice = it.SellingPrice.DivRound(qty, unitPricePlaces)
	}

	if p := it.Product; p != nil {
		item.ProductID = fmt.Sprint(p.ID)
		item.Title = p.Title
		if p.MrpPrice != nil {
			item.UnitMrpPrice = *p.MrpPrice
		}
		if p.SellingPrice != nil {
			item.UnitSellingPrice = *p.SellingPrice
		}
	}

	return item
}

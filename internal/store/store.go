package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/domain"
	apperrors "github.com/swiftbuy/storefront/pkg/errors"
)

// CartState is the cart slice of the store
type CartState struct {
	Items      []domain.CartItem
	CouponCode string
	Loading    bool
	Error      string
}

// CouponState is the admin coupon slice of the store
type CouponState struct {
	Loading       bool
	Error         string
	CouponCreated bool
	Coupons       []domain.Coupon
}

// State is a snapshot of everything the store holds
type State struct {
	Cart        CartState
	AdminCoupon CouponState
}

// API is the part of the backend the store dispatches to
type API interface {
	GetCart(ctx context.Context, token string) (*domain.Cart, error)
	AddCartItem(ctx context.Context, req backend.AddCartItemRequest, token string) (*domain.CartItem, error)
	CreateCoupon(ctx context.Context, coupon domain.Coupon, token string) (*backend.CouponResponse, error)
}

// AddToCartArgs is the payload of the add to cart action
type AddToCartArgs struct {
	Item      backend.AddCartItemRequest
	AuthToken string
}

// CreateCouponArgs is the payload of the create coupon action
type CreateCouponArgs struct {
	Coupon    domain.Coupon
	AuthToken string
}

// Listener is called with the new state after every change
type Listener func(State)

// Store is the single writer of cart and coupon state. Views read
// snapshots through the selectors and subscribe to changes.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
	api       API
	logger    *zap.Logger
}

// New creates an empty store dispatching async actions to api
func New(api API, logger *zap.Logger) *Store {
	return &Store{
		listeners: make(map[int]Listener),
		api:       api,
		logger:    logger,
	}
}

// Subscribe registers a listener and returns a function removing it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// State returns a snapshot of the whole store
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// CartItems returns a copy of the cart items
func (s *Store) CartItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.state.Cart.Items)
}

// AdminCoupon returns the admin coupon flags
func (s *Store) AdminCoupon() CouponState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot().AdminCoupon
}

// SetCart replaces the cart contents
func (s *Store) SetCart(cart domain.Cart) {
	s.update(func(st *State) {
		st.Cart.Items = copyItems(cart.Items)
		st.Cart.CouponCode = cart.CouponCode
		st.Cart.Error = ""
	})
}

// AddItem appends an item. A line with the same product and size is
// kept unchanged, as the backend does.
func (s *Store) AddItem(item domain.CartItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.update(func(st *State) {
		if sameLine(st.Cart.Items, item) >= 0 {
			return
		}
		st.Cart.Items = append(st.Cart.Items, item)
	})
	return nil
}

// AddToCart asks the backend to add a product and puts the line it
// returns into the cart, replacing any local copy of that line
func (s *Store) AddToCart(ctx context.Context, args AddToCartArgs) error {
	s.update(func(st *State) {
		st.Cart.Loading = true
		st.Cart.Error = ""
	})

	item, err := s.api.AddCartItem(ctx, args.Item, args.AuthToken)
	if err != nil {
		s.logger.Error("Failed to add cart item",
			zap.Int64("product_id", args.Item.ProductID),
			zap.Error(err),
		)
		s.update(func(st *State) {
			st.Cart.Loading = false
			st.Cart.Error = errorMessage(err)
		})
		return err
	}

	s.update(func(st *State) {
		st.Cart.Loading = false
		if i := sameLine(st.Cart.Items, *item); i >= 0 {
			st.Cart.Items[i] = *item
			return
		}
		st.Cart.Items = append(st.Cart.Items, *item)
	})
	return nil
}

// sameLine returns the index of the line holding item, matched by id or
// by product and size, or -1
func sameLine(items []domain.CartItem, item domain.CartItem) int {
	for i, existing := range items {
		if item.ID != "" && existing.ID == item.ID {
			return i
		}
		if item.ProductID != "" && existing.ProductID == item.ProductID && existing.Size == item.Size {
			return i
		}
	}
	return -1
}

// UpdateQuantity sets the quantity of the item with the given id
func (s *Store) UpdateQuantity(itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	found := false
	s.update(func(st *State) {
		for i := range st.Cart.Items {
			if st.Cart.Items[i].ID == itemID {
				st.Cart.Items[i].Quantity = quantity
				found = true
				return
			}
		}
	})
	if !found {
		return &apperrors.ErrNotFound{Resource: "cart item", ID: itemID}
	}
	return nil
}

// RemoveItem drops the item with the given id
func (s *Store) RemoveItem(itemID string) error {
	found := false
	s.update(func(st *State) {
		for i := range st.Cart.Items {
			if st.Cart.Items[i].ID == itemID {
				st.Cart.Items = append(st.Cart.Items[:i:i], st.Cart.Items[i+1:]...)
				found = true
				return
			}
		}
	})
	if !found {
		return &apperrors.ErrNotFound{Resource: "cart item", ID: itemID}
	}
	return nil
}

// ClearCart empties the cart, as after checkout completes
func (s *Store) ClearCart() {
	s.update(func(st *State) {
		st.Cart = CartState{}
	})
}

// FetchCart loads the user's cart from the backend
func (s *Store) FetchCart(ctx context.Context, token string) error {
	s.update(func(st *State) {
		st.Cart.Loading = true
		st.Cart.Error = ""
	})

	cart, err := s.api.GetCart(ctx, token)
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.Error(err))
		s.update(func(st *State) {
			st.Cart.Loading = false
			st.Cart.Error = errorMessage(err)
		})
		return err
	}

	s.update(func(st *State) {
		st.Cart.Loading = false
		st.Cart.Items = copyItems(cart.Items)
		st.Cart.CouponCode = cart.CouponCode
	})
	return nil
}

// CreateCoupon sends a coupon to the backend, moving the coupon slice
// through loading and then created or error.
func (s *Store) CreateCoupon(ctx context.Context, args CreateCouponArgs) error {
	s.update(func(st *State) {
		st.AdminCoupon.Loading = true
		st.AdminCoupon.Error = ""
		st.AdminCoupon.CouponCreated = false
	})

	created, err := s.api.CreateCoupon(ctx, args.Coupon, args.AuthToken)
	if err != nil {
		s.update(func(st *State) {
			st.AdminCoupon.Loading = false
			st.AdminCoupon.Error = errorMessage(err)
		})
		return err
	}

	s.update(func(st *State) {
		st.AdminCoupon.Loading = false
		st.AdminCoupon.CouponCreated = true
		st.AdminCoupon.Coupons = append(st.AdminCoupon.Coupons, created.Coupon)
	})
	return nil
}

// CouponSubmitter binds the create coupon action to an auth token so a
// coupon form can submit through the store
func (s *Store) CouponSubmitter(token string) *couponSubmitter {
	return &couponSubmitter{store: s, token: token}
}

type couponSubmitter struct {
	store *Store
	token string
}

func (cs *couponSubmitter) CreateCoupon(ctx context.Context, c domain.Coupon) error {
	return cs.store.CreateCoupon(ctx, CreateCouponArgs{Coupon: c, AuthToken: cs.token})
}

// ResetCouponState clears the coupon flags, as when the notification is dismissed
func (s *Store) ResetCouponState() {
	s.update(func(st *State) {
		st.AdminCoupon.Loading = false
		st.AdminCoupon.Error = ""
		st.AdminCoupon.CouponCreated = false
	})
}

// update applies fn under the lock, then notifies listeners outside it
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) snapshot() State {
	st := s.state
	st.Cart.Items = copyItems(s.state.Cart.Items)
	if s.state.AdminCoupon.Coupons != nil {
		st.AdminCoupon.Coupons = append([]domain.Coupon(nil), s.state.AdminCoupon.Coupons...)
	}
	return st
}

func copyItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	return append([]domain.CartItem(nil), items...)
}

func errorMessage(err error) string {
	var subErr *apperrors.SubmissionError
	if errors.As(err, &subErr) {
		return subErr.Message
	}
	return err.Error()
}

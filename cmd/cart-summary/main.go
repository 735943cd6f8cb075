package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/config"
	"github.com/swiftbuy/storefront/internal/presenter"
	"github.com/swiftbuy/storefront/internal/pricing"
	"github.com/swiftbuy/storefront/internal/store"
)

func main() {
	token := os.Getenv("STOREFRONT_JWT")
	if token == "" || (len(os.Args) != 1 && len(os.Args) != 4) {
		fmt.Println("Usage: STOREFRONT_JWT=<token> go run cmd/cart-summary/main.go [<product-id> <size> <quantity>]")
		fmt.Println("Example: STOREFRONT_JWT=... go run cmd/cart-summary/main.go 11 M 2")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := backend.NewClient(cfg.Backend, logger)
	st := store.New(client, logger)

	if len(os.Args) == 4 {
		productID, err := strconv.ParseInt(os.Args[1], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid product id %q\n", os.Args[1])
			os.Exit(1)
		}
		quantity, err := strconv.Atoi(os.Args[3])
		if err != nil || quantity < 1 {
			fmt.Fprintf(os.Stderr, "Invalid quantity %q\n", os.Args[3])
			os.Exit(1)
		}

		err = st.AddToCart(context.Background(), store.AddToCartArgs{
			Item:      backend.AddCartItemRequest{ProductID: productID, Size: os.Args[2], Quantity: quantity},
			AuthToken: token,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s\n", st.State().Cart.Error)
			os.Exit(1)
		}
		fmt.Printf("➕ Added product %d (%s) to cart\n", productID, os.Args[2])
	}

	fmt.Printf("🛒 Fetching cart from %s\n\n", cfg.Backend.BaseURL)

	if err := st.FetchCart(context.Background(), token); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s\n", st.State().Cart.Error)
		os.Exit(1)
	}

	items := st.CartItems()
	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Item\tSize\tQty\tMRP\tPrice")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			item.Title, item.Size, item.Quantity,
			item.UnitMrpPrice.String(), item.UnitSellingPrice.String())
	}
	w.Flush()
	fmt.Println()

	breakdown := pricing.NewCalculator(cfg.Storefront.ShippingFee).ComputeBreakdown(items)
	if breakdown.HasAnomaly() {
		logger.Warn("Cart sells above MRP", zap.String("discount", breakdown.Discount.String()))
	}

	card := presenter.NewPricingCard(breakdown, true,
		presenter.WithCurrencySymbol(cfg.Storefront.CurrencySymbol),
		presenter.WithCheckoutPath(cfg.Storefront.CheckoutPath),
	)
	if err := card.Render(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render summary: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d items, %d%% off MRP\n", breakdown.TotalItems, breakdown.DiscountPercent)
}

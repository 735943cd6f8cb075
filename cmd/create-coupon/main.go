package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/swiftbuy/storefront/internal/backend"
	"github.com/swiftbuy/storefront/internal/config"
	"github.com/swiftbuy/storefront/internal/coupon"
	"github.com/swiftbuy/storefront/internal/store"
)

func main() {
	if len(os.Args) < 6 {
		fmt.Println("Usage: go run cmd/create-coupon/main.go <code> <discount%> <start-date> <end-date> <min-order-value>")
		fmt.Println("Example: STOREFRONT_JWT=... go run cmd/create-coupon/main.go SAVE10 10 2026-11-01 2026-11-30 500")
		os.Exit(1)
	}

	token := os.Getenv("STOREFRONT_JWT")
	if token == "" {
		fmt.Fprintln(os.Stderr, "STOREFRONT_JWT must hold an admin token")
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
	unsubscribe := st.Subscribe(func(s store.State) {
		logger.Debug("Coupon state changed",
			zap.Bool("loading", s.AdminCoupon.Loading),
			zap.Bool("created", s.AdminCoupon.CouponCreated),
			zap.String("error", s.AdminCoupon.Error),
		)
	})
	defer unsubscribe()

	form := coupon.NewForm(st.CouponSubmitter(token), logger)
	form.Edit(func(d *coupon.Draft) {
		d.Code = os.Args[1]
		d.DiscountPercentage = os.Args[2]
		d.ValidityStartDate = os.Args[3]
		d.ValidityEndDate = os.Args[4]
		d.MinimumOrderValue = os.Args[5]
	})

	err = form.Submit(context.Background())

	var fieldErrs coupon.FieldErrors
	if errors.As(err, &fieldErrs) {
		fmt.Fprintln(os.Stderr, "❌ Coupon is invalid:")
		fields := make([]string, 0, len(fieldErrs))
		for field := range fieldErrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, fieldErrs[field])
		}
		os.Exit(1)
	}

	if n, ok := form.Notification(); ok {
		if n.Severity == coupon.SeverityError {
			fmt.Fprintf(os.Stderr, "❌ %s\n", n.Message)
			os.Exit(1)
		}
		fmt.Printf("✅ %s!\n\n", n.Message)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create coupon: %v\n", err)
		os.Exit(1)
	}

	created := st.AdminCoupon().Coupons
	if len(created) > 0 {
		c := created[len(created)-1]
		fmt.Printf("Code: %s\n", c.Code)
		fmt.Printf("Discount: %s%%\n", c.DiscountPercentage.String())
		fmt.Printf("Valid: %s to %s\n", c.ValidityStartDate.Format("2006-01-02"), c.ValidityEndDate.Format("2006-01-02"))
		fmt.Printf("Minimum order: %s %s\n", cfg.Storefront.CurrencySymbol, c.MinimumOrderValue.String())
	}
}

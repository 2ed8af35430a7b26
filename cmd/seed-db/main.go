// Command seed-db loads a demo order, customer, and payment method
// configuration so the transaction endpoint can be exercised locally.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
	"github.com/xenking/checkout-gateway/internal/storage/postgres"
)

func main() {
	var (
		databaseURL     string
		orderID         string
		spaceID         int64
		configurationID int64
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&orderID, "order-id", "", "ID for the seeded demo order (default: random)")
	flag.Int64Var(&spaceID, "space-id", 405, "gateway space ID for the seeded method configuration")
	flag.Int64Var(&configurationID, "configuration-id", 8102, "gateway payment method configuration ID")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, orderID, spaceID, configurationID); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, orderID string, spaceID, configurationID int64) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	methods := postgres.NewMethodConfigurationRepository(pool)
	if err := methods.Upsert(ctx, &payment.MethodConfiguration{
		ID:              "pm-card",
		SpaceID:         spaceID,
		ConfigurationID: configurationID,
		Name:            "Card",
		Active:          true,
	}); err != nil {
		return errors.Wrap(err, "seed method configuration")
	}

	if orderID == "" {
		orderID = uuid.New().String()
	}
	if err := seedOrder(ctx, pool, orderID); err != nil {
		return errors.Wrap(err, "seed order")
	}

	slog.Info("seeded demo order", slog.String("order_id", orderID))
	return nil
}

func seedOrder(ctx context.Context, pool *pgxpool.Pool, orderID string) error {
	addr := order.AddressSnapshot{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Street:     "Analytical Way 1",
		Zip:        "8400",
		City:       "Winterthur",
		Email:      "ada@example.com",
		CountryISO: "CH",
	}
	customer, err := json.Marshal(order.Customer{
		Number:   "C-1001",
		Email:    "ada@example.com",
		Locale:   "de-CH",
		Billing:  addr,
		Shipping: addr,
	})
	if err != nil {
		return errors.Wrap(err, "marshal customer")
	}

	shippingTaxes, err := json.Marshal([]order.CalculatedTax{
		{Rate: decimal.RequireFromString("8.1"), Amount: decimal.RequireFromString("0.37")},
	})
	if err != nil {
		return errors.Wrap(err, "marshal shipping taxes")
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO orders (id, number, transaction_id, sales_channel_id, payment_method_id,
		                    currency, amount_total, shipping_total, shipping_quantity,
		                    shipping_method, shipping_taxes, customer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		orderID, "10001", uuid.New().String(), "storefront", "pm-card",
		"CHF", decimal.RequireFromString("64.80"), decimal.RequireFromString("4.90"), 1,
		"Standard", shippingTaxes, customer)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	lines := []struct {
		label   string
		price   string
		payload *order.LinePayload
	}{
		{label: "Mechanical Keyboard", price: "49.90", payload: &order.LinePayload{
			ProductNumber: "SW-2001",
			Options:       []order.Option{{Group: "Layout", Option: "CH-DE"}},
		}},
		{label: "USB Cable", price: "15.00", payload: &order.LinePayload{ProductNumber: "SW-2002"}},
		{label: "Welcome discount", price: "-5.00", payload: nil},
	}
	for i, l := range lines {
		payloadJSON, err := json.Marshal(l.payload)
		if err != nil {
			return errors.Wrap(err, "marshal line payload")
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, label, quantity, total_price, payload, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New().String(), orderID, uuid.New().String(), l.label, 1,
			decimal.RequireFromString(l.price), payloadJSON, i)
		if err != nil {
			return errors.Wrapf(err, "insert line %d", i)
		}
	}

	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/checkout-gateway/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Tax
// brackets, line payloads, and the customer record are stored as JSONB.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Snapshot loads the immutable order view for one payment build, lines in
// their stored position order. Returns order.ErrSnapshotNotFound when the
// order does not exist.
func (r *OrderRepository) Snapshot(ctx context.Context, orderID string) (*order.Snapshot, error) {
	var (
		snap        order.Snapshot
		shippingTax []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, transaction_id, sales_channel_id, payment_method_id,
		       currency, amount_total, shipping_total, shipping_quantity,
		       shipping_method, shipping_taxes
		FROM orders
		WHERE id = $1`, orderID,
	).Scan(
		&snap.ID, &snap.Number, &snap.TransactionID, &snap.SalesChannelID,
		&snap.PaymentMethodID, &snap.CurrencyCode, &snap.AmountTotal,
		&snap.ShippingTotal, &snap.ShippingQuantity, &snap.ShippingMethod,
		&shippingTax,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading order %q: %w", orderID, err)
	}

	if len(shippingTax) > 0 {
		if err := json.Unmarshal(shippingTax, &snap.ShippingTaxes); err != nil {
			return nil, fmt.Errorf("unmarshaling shipping taxes for order %q: %w", orderID, err)
		}
	}

	lines, err := r.lines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	snap.Lines = lines

	return &snap, nil
}

func (r *OrderRepository) lines(ctx context.Context, orderID string) ([]order.Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, label, quantity, total_price, taxes, payload
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("loading lines for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var lines []order.Line
	for rows.Next() {
		var (
			line    order.Line
			taxes   []byte
			payload []byte
		)
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Label,
			&line.Quantity, &line.TotalPrice, &taxes, &payload); err != nil {
			return nil, fmt.Errorf("scanning line for order %q: %w", orderID, err)
		}
		if len(taxes) > 0 {
			if err := json.Unmarshal(taxes, &line.Taxes); err != nil {
				return nil, fmt.Errorf("unmarshaling taxes for line %q: %w", line.ID, err)
			}
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &line.Payload); err != nil {
				return nil, fmt.Errorf("unmarshaling payload for line %q: %w", line.ID, err)
			}
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lines for order %q: %w", orderID, err)
	}
	return lines, nil
}

// CustomerFor loads the customer record belonging to an order, including
// billing, shipping, and fallback addresses.
func (r *OrderRepository) CustomerFor(ctx context.Context, orderID string) (*order.Customer, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT customer FROM orders WHERE id = $1`, orderID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("loading customer for order %q: %w", orderID, err)
	}

	var cust order.Customer
	if err := json.Unmarshal(raw, &cust); err != nil {
		return nil, fmt.Errorf("unmarshaling customer for order %q: %w", orderID, err)
	}
	return &cust, nil
}

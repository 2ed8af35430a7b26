package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

var _ payment.RecordRepository = (*TransactionRepository)(nil)

// TransactionRepository persists submitted transaction records.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository returns a TransactionRepository that uses the given pool.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts the local trace of one submitted transaction.
func (r *TransactionRepository) Create(ctx context.Context, rec *payment.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, order_id, gateway_transaction_id, space_id, state)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.OrderID, rec.GatewayTransactionID, rec.SpaceID, rec.State)
	if err != nil {
		return fmt.Errorf("creating transaction record %q: %w", rec.ID, err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SettlementRepository stores settled transaction references imported from
// gateway export files.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository returns a SettlementRepository that uses the given pool.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Upsert records one settled reference and its amount. Re-importing the
// same reference overwrites the amount, keeping the import idempotent.
func (r *SettlementRepository) Upsert(ctx context.Context, reference string, amount decimal.Decimal) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settlements (reference, amount, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (reference) DO UPDATE
		SET amount = EXCLUDED.amount,
		    updated_at = now()`,
		reference, amount)
	if err != nil {
		return fmt.Errorf("upserting settlement %q: %w", reference, err)
	}
	return nil
}

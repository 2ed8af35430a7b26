package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

var _ payment.MethodConfigurationRepository = (*MethodConfigurationRepository)(nil)

// MethodConfigurationRepository implements
// payment.MethodConfigurationRepository backed by PostgreSQL.
type MethodConfigurationRepository struct {
	pool *pgxpool.Pool
}

// NewMethodConfigurationRepository returns a repository that uses the given pool.
func NewMethodConfigurationRepository(pool *pgxpool.Pool) *MethodConfigurationRepository {
	return &MethodConfigurationRepository{pool: pool}
}

// FindByID looks up an active gateway configuration for a platform payment
// method. Returns payment.ErrMethodConfigurationNotFound when no active row
// exists.
func (r *MethodConfigurationRepository) FindByID(ctx context.Context, id string) (*payment.MethodConfiguration, error) {
	var mc payment.MethodConfiguration
	err := r.pool.QueryRow(ctx, `
		SELECT id, space_id, configuration_id, name, active
		FROM payment_method_configurations
		WHERE id = $1 AND active`, id,
	).Scan(&mc.ID, &mc.SpaceID, &mc.ConfigurationID, &mc.Name, &mc.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrMethodConfigurationNotFound
		}
		return nil, fmt.Errorf("finding method configuration %q: %w", id, err)
	}
	return &mc, nil
}

// Upsert inserts or updates a method configuration row. Used by seeding and
// by configuration sync.
func (r *MethodConfigurationRepository) Upsert(ctx context.Context, mc *payment.MethodConfiguration) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payment_method_configurations (id, space_id, configuration_id, name, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET space_id = EXCLUDED.space_id,
		    configuration_id = EXCLUDED.configuration_id,
		    name = EXCLUDED.name,
		    active = EXCLUDED.active`,
		mc.ID, mc.SpaceID, mc.ConfigurationID, mc.Name, mc.Active)
	if err != nil {
		return fmt.Errorf("upserting method configuration %q: %w", mc.ID, err)
	}
	return nil
}

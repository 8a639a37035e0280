package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

// SQLPaymentRepository stores per-store payment gateway settings.
type SQLPaymentRepository struct {
	db *sqlx.DB
}

// NewSQLPaymentRepository creates a new SQLPaymentRepository.
func NewSQLPaymentRepository(db *sqlx.DB) *SQLPaymentRepository {
	return &SQLPaymentRepository{db: db}
}

// Get returns a store's gateway configuration.
func (r *SQLPaymentRepository) Get(ctx context.Context, storeID int64) (*PaymentGateway, error) {
	var g PaymentGateway
	query := `SELECT store_id, provider, public_key, secret_key, enabled, updated_at FROM payment_gateways WHERE store_id = ?`
	if err := r.db.GetContext(ctx, &g, query, storeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("payment gateway")
		}
		return nil, fmt.Errorf("failed to get payment gateway: %w", err)
	}
	return &g, nil
}

// Upsert creates or replaces a store's gateway configuration.
func (r *SQLPaymentRepository) Upsert(ctx context.Context, g *PaymentGateway) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx,
			`UPDATE payment_gateways SET provider = :provider, public_key = :public_key, secret_key = :secret_key,
			 enabled = :enabled, updated_at = CURRENT_TIMESTAMP WHERE store_id = :store_id`, g)
		if err != nil {
			return fmt.Errorf("failed to update payment gateway: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n > 0 {
			return nil
		}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO payment_gateways (store_id, provider, public_key, secret_key, enabled)
			 VALUES (:store_id, :provider, :public_key, :secret_key, :enabled)`, g); err != nil {
			return fmt.Errorf("failed to insert payment gateway: %w", err)
		}
		return nil
	})
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const discountColumns = `id, store_id, code, kind, value, active, created_at`

// SQLDiscountRepository stores discount codes using sqlx.
type SQLDiscountRepository struct {
	db *sqlx.DB
}

// NewSQLDiscountRepository creates a new SQLDiscountRepository.
func NewSQLDiscountRepository(db *sqlx.DB) *SQLDiscountRepository {
	return &SQLDiscountRepository{db: db}
}

// ListByStore returns a store's discounts, newest first.
func (r *SQLDiscountRepository) ListByStore(ctx context.Context, storeID int64) ([]*Discount, error) {
	discounts := []*Discount{}
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE store_id = ? ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &discounts, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return discounts, nil
}

// GetByID retrieves a discount by its ID.
func (r *SQLDiscountRepository) GetByID(ctx context.Context, id int64) (*Discount, error) {
	var d Discount
	if err := r.db.GetContext(ctx, &d, `SELECT `+discountColumns+` FROM discounts WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("discount")
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}
	return &d, nil
}

// FindActiveByCode returns the active discount with the given code.
func (r *SQLDiscountRepository) FindActiveByCode(ctx context.Context, storeID int64, code string) (*Discount, error) {
	var d Discount
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE store_id = ? AND code = ? AND active = 1`
	if err := r.db.GetContext(ctx, &d, query, storeID, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("discount")
		}
		return nil, fmt.Errorf("failed to find discount: %w", err)
	}
	return &d, nil
}

// Create inserts a discount and sets its ID.
func (r *SQLDiscountRepository) Create(ctx context.Context, d *Discount) error {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO discounts (store_id, code, kind, value, active) VALUES (:store_id, :code, :kind, :value, :active)`, d)
	if err != nil {
		return fmt.Errorf("failed to create discount: %w",
			mapUnique(err, fmt.Sprintf("discount code %q already exists", d.Code)))
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read discount id: %w", err)
	}
	return nil
}

// Delete removes a discount.
func (r *SQLDiscountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM discounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	return expectOne(res, "discount")
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const productColumns = `id, store_id, category_id, name, slug, description, description_html, price_cents, stock, image_url, active, created_at, updated_at`

// SQLProductRepository stores catalog products using sqlx.
type SQLProductRepository struct {
	db *sqlx.DB
}

// NewSQLProductRepository creates a new SQLProductRepository.
func NewSQLProductRepository(db *sqlx.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

// ListByStore returns a store's products, optionally only those in one category.
func (r *SQLProductRepository) ListByStore(ctx context.Context, storeID int64, categoryID *int64) ([]*Product, error) {
	products := []*Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = ?`
	args := []any{storeID}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY id`
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *SQLProductRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// Create inserts a product and sets its ID.
func (r *SQLProductRepository) Create(ctx context.Context, p *Product) error {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO products (store_id, category_id, name, slug, description, description_html, price_cents, stock, image_url, active)
		 VALUES (:store_id, :category_id, :name, :slug, :description, :description_html, :price_cents, :stock, :image_url, :active)`, p)
	if err != nil {
		return fmt.Errorf("failed to create product: %w",
			mapUnique(err, fmt.Sprintf("a product with slug %q already exists", p.Slug)))
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read product id: %w", err)
	}
	return nil
}

// Update writes every mutable field of a product.
func (r *SQLProductRepository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE products SET category_id = :category_id, name = :name, slug = :slug, description = :description,
		 description_html = :description_html, price_cents = :price_cents, stock = :stock, image_url = :image_url,
		 active = :active, updated_at = CURRENT_TIMESTAMP WHERE id = :id`, p)
	if err != nil {
		return fmt.Errorf("failed to update product: %w",
			mapUnique(err, fmt.Sprintf("a product with slug %q already exists", p.Slug)))
	}
	return expectOne(res, "product")
}

// Delete removes a product. Past order lines keep their name and price.
func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectOne(res, "product")
}

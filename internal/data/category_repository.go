package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// SearchByName returns a store's categories whose name contains query.
func (r *CategoryRepository) SearchByName(ctx context.Context, storeID int64, query string) ([]*Category, error) {
	categories := []*Category{}
	err := r.DB.SelectContext(ctx, &categories,
		"SELECT id, store_id, name, created_at FROM categories WHERE store_id = ? AND name LIKE ? ORDER BY name",
		storeID, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return categories, nil
}

// ListByStore retrieves all categories of a store.
func (r *CategoryRepository) ListByStore(ctx context.Context, storeID int64) ([]*Category, error) {
	categories := []*Category{}
	err := r.DB.SelectContext(ctx, &categories,
		"SELECT id, store_id, name, created_at FROM categories WHERE store_id = ? ORDER BY name", storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Save creates a new category and returns its ID. A name already used in
// the same store is an ErrConflict.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	res, err := r.DB.NamedExecContext(ctx, "INSERT INTO categories (store_id, name) VALUES (:store_id, :name)", category)
	if err != nil {
		return 0, fmt.Errorf("failed to save category: %w",
			mapUnique(err, fmt.Sprintf("category %q already exists", category.Name)))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read category id: %w", err)
	}
	category.ID = id
	return id, nil
}

// Rename changes a category's name.
func (r *CategoryRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("failed to rename category: %w",
			mapUnique(err, fmt.Sprintf("category %q already exists", name)))
	}
	return expectOne(res, "category")
}

// Delete removes a category. Products in it become uncategorised.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectOne(res, "category")
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT id, store_id, name, created_at FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// expectOne turns a write that matched no row into ErrNotFound.
func expectOne(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

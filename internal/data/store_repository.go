package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const storeColumns = `id, name, display_name, currency, owner_id, created_at, updated_at`

// SQLStoreRepository stores tenants' shops using sqlx.
type SQLStoreRepository struct {
	db *sqlx.DB
}

// NewSQLStoreRepository creates a new SQLStoreRepository.
func NewSQLStoreRepository(db *sqlx.DB) *SQLStoreRepository {
	return &SQLStoreRepository{db: db}
}

// Create inserts a store together with its initial pages in one transaction
// and returns the new store ID.
func (r *SQLStoreRepository) Create(ctx context.Context, store *Store, pages []NewPage) (int64, error) {
	var storeID int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO stores (name, display_name, currency, owner_id) VALUES (?, ?, ?, ?)`,
			store.Name, store.DisplayName, store.Currency, store.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to insert store: %w",
				mapUnique(err, fmt.Sprintf("store name %q is already taken", store.Name)))
		}
		if storeID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read store id: %w", err)
		}
		for i, p := range pages {
			if _, err := insertPage(ctx, tx, storeID, p, i+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	store.ID = storeID
	return storeID, nil
}

// GetByID retrieves a store by its ID.
func (r *SQLStoreRepository) GetByID(ctx context.Context, id int64) (*Store, error) {
	return r.getOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = ?`, id)
}

// GetByName retrieves a store by its unique name.
func (r *SQLStoreRepository) GetByName(ctx context.Context, name string) (*Store, error) {
	return r.getOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE name = ?`, name)
}

func (r *SQLStoreRepository) getOne(ctx context.Context, query string, arg any) (*Store, error) {
	var s Store
	if err := r.db.GetContext(ctx, &s, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("store")
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &s, nil
}

// ListByOwner returns the stores owned by a user, oldest first.
func (r *SQLStoreRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Store, error) {
	stores := []*Store{}
	query := `SELECT ` + storeColumns + ` FROM stores WHERE owner_id = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &stores, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// Delete removes a store. Everything the store owns goes with it.
func (r *SQLStoreRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("store")
	}
	return nil
}

// Summary computes the dashboard counters of a store. Cancelled orders do
// not count towards revenue.
func (r *SQLStoreRepository) Summary(ctx context.Context, storeID int64) (*StoreSummary, error) {
	var s StoreSummary
	query := `SELECT
		(SELECT COUNT(*) FROM products WHERE store_id = ?) AS products,
		(SELECT COUNT(*) FROM orders WHERE store_id = ?) AS orders,
		(SELECT COUNT(*) FROM customers WHERE store_id = ?) AS customers,
		(SELECT COALESCE(SUM(total_cents), 0) FROM orders WHERE store_id = ? AND status <> 'CANCELLED') AS revenue`
	row := r.db.QueryRowxContext(ctx, query, storeID, storeID, storeID, storeID)
	if err := row.Scan(&s.Products, &s.Orders, &s.Customers, &s.RevenueCents); err != nil {
		return nil, fmt.Errorf("failed to compute store summary: %w", err)
	}
	return &s, nil
}

// SQLUserRepository stores signed-in users.
type SQLUserRepository struct {
	db *sqlx.DB
}

// NewSQLUserRepository creates a new SQLUserRepository.
func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// UpsertBySubject returns the user with the given OIDC subject, creating it
// on first sign-in and refreshing its profile fields afterwards.
func (r *SQLUserRepository) UpsertBySubject(ctx context.Context, subject, email, name string) (*User, error) {
	var user User
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &user, `SELECT id, subject, email, name, created_at FROM users WHERE subject = ?`, subject)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx, `INSERT INTO users (subject, email, name) VALUES (?, ?, ?)`, subject, email, name)
			if err != nil {
				return fmt.Errorf("failed to insert user: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read user id: %w", err)
			}
			user = User{ID: id, Subject: subject, Email: email, Name: name}
			return nil
		case err != nil:
			return fmt.Errorf("failed to get user: %w", err)
		}
		if user.Email == email && user.Name == name {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE users SET email = ?, name = ? WHERE id = ?`, email, name, user.ID); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		user.Email, user.Name = email, name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, store_id, customer_id, status, subtotal_cents, discount_cents, total_cents, discount_code, created_at, updated_at`

// SQLOrderRepository stores customers and their orders using sqlx.
type SQLOrderRepository struct {
	db *sqlx.DB
}

// NewSQLOrderRepository creates a new SQLOrderRepository.
func NewSQLOrderRepository(db *sqlx.DB) *SQLOrderRepository {
	return &SQLOrderRepository{db: db}
}

// ListCustomers returns a store's customers, newest first.
func (r *SQLOrderRepository) ListCustomers(ctx context.Context, storeID int64) ([]*Customer, error) {
	customers := []*Customer{}
	query := `SELECT id, store_id, email, name, created_at FROM customers WHERE store_id = ? ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &customers, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// CreateOrder persists an order for the customer with the given email,
// creating the customer when the store has not seen it before. The order,
// its items and the customer are written in one transaction.
func (r *SQLOrderRepository) CreateOrder(ctx context.Context, customer *Customer, order *Order) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &customer.ID,
			`SELECT id FROM customers WHERE store_id = ? AND email = ?`, customer.StoreID, customer.Email)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx,
				`INSERT INTO customers (store_id, email, name) VALUES (?, ?, ?)`,
				customer.StoreID, customer.Email, customer.Name)
			if err != nil {
				return fmt.Errorf("failed to insert customer: %w", err)
			}
			if customer.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("failed to read customer id: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up customer: %w", err)
		}

		order.CustomerID = customer.ID
		res, err := tx.NamedExecContext(ctx,
			`INSERT INTO orders (store_id, customer_id, status, subtotal_cents, discount_cents, total_cents, discount_code)
			 VALUES (:store_id, :customer_id, :status, :subtotal_cents, :discount_cents, :total_cents, :discount_code)`, order)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		if order.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read order id: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			res, err := tx.NamedExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, name, unit_price_cents, quantity)
				 VALUES (:order_id, :product_id, :name, :unit_price_cents, :quantity)`, item)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
			if item.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("failed to read order item id: %w", err)
			}
		}
		return nil
	})
}

// GetOrder retrieves an order with its items.
func (r *SQLOrderRepository) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var o Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	o.Items = []OrderItem{}
	query := `SELECT id, order_id, product_id, name, unit_price_cents, quantity FROM order_items WHERE order_id = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &o.Items, query, id); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return &o, nil
}

// ListOrders returns a store's orders without items, newest first.
func (r *SQLOrderRepository) ListOrders(ctx context.Context, storeID int64) ([]*Order, error) {
	orders := []*Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE store_id = ? ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &orders, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order.
func (r *SQLOrderRepository) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return expectOne(res, "order")
}

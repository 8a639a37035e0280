//go:build integration

package data

import (
	"context"
	"errors"
	"testing"

	"go-store-builder/internal/apperr"
)

func TestOrderRepository_CreateOrderReusesCustomer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLOrderRepository(db)
	storeID := seedStore(t, db, "acme")

	product := &Product{StoreID: storeID, Name: "Mug", Slug: "mug", PriceCents: 1200, Active: true}
	if err := NewSQLProductRepository(db).Create(ctx, product); err != nil {
		t.Fatal(err)
	}

	var customerIDs []int64
	for i := 0; i < 2; i++ {
		customer := &Customer{StoreID: storeID, Email: "jo@example.com", Name: "Jo"}
		order := &Order{
			StoreID: storeID, Status: OrderStatusPending, SubtotalCents: 2400, TotalCents: 2400,
			Items: []OrderItem{{ProductID: &product.ID, Name: "Mug", UnitPriceCents: 1200, Quantity: 2}},
		}
		if err := repo.CreateOrder(ctx, customer, order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		customerIDs = append(customerIDs, customer.ID)
	}
	if customerIDs[0] != customerIDs[1] {
		t.Errorf("expected one customer per email, got %v", customerIDs)
	}

	customers, err := repo.ListCustomers(ctx, storeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(customers) != 1 {
		t.Errorf("expected 1 customer, got %d", len(customers))
	}

	orders, err := repo.ListOrders(ctx, storeID)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	got, err := repo.GetOrder(ctx, orders[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 || *got.Items[0].ProductID != product.ID {
		t.Errorf("unexpected items: %+v", got.Items)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewSQLOrderRepository(db)
	storeID := seedStore(t, db, "acme")

	order := &Order{StoreID: storeID, Status: OrderStatusPending}
	if err := repo.CreateOrder(ctx, &Customer{StoreID: storeID, Email: "x@example.com"}, order); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateStatus(ctx, order.ID, OrderStatusShipped); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != OrderStatusShipped {
		t.Errorf("expected SHIPPED, got %s", got.Status)
	}
	if err := repo.UpdateStatus(ctx, 999, OrderStatusPaid); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

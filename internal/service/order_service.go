package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/metrics"
	"go-store-builder/internal/notify"
)

// OrderRepository defines the interface for database operations on orders
// and customers.
type OrderRepository interface {
	ListCustomers(ctx context.Context, storeID int64) ([]*data.Customer, error)
	CreateOrder(ctx context.Context, customer *data.Customer, order *data.Order) error
	GetOrder(ctx context.Context, id int64) (*data.Order, error)
	ListOrders(ctx context.Context, storeID int64) ([]*data.Order, error)
	UpdateStatus(ctx context.Context, id int64, status data.OrderStatus) error
}

// ProductLookup reads catalog entries for pricing.
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*data.Product, error)
}

// DiscountLookup resolves discount codes at checkout.
type DiscountLookup interface {
	FindActiveByCode(ctx context.Context, storeID int64, code string) (*data.Discount, error)
}

// CheckoutItem is one requested order line.
type CheckoutItem struct {
	ProductID int64
	Quantity  int
}

// CheckoutInput is a storefront order request.
type CheckoutInput struct {
	Email        string
	Name         string
	DiscountCode string
	Items        []CheckoutItem
}

// OrderService handles checkout and order administration.
type OrderService struct {
	orders    OrderRepository
	products  ProductLookup
	discounts DiscountLookup
	stores    StoreLookup
	events    Publisher
	log       logger.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders OrderRepository, products ProductLookup, discounts DiscountLookup, stores StoreLookup, events Publisher, log logger.Logger) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		discounts: discounts,
		stores:    stores,
		events:    events,
		log:       log,
	}
}

// Checkout prices the requested items from the catalog, applies an optional
// discount code and stores the order for the customer identified by email.
func (s *OrderService) Checkout(ctx context.Context, storeID int64, in CheckoutInput) (*data.Order, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("an order needs at least one item")
	}

	order := &data.Order{StoreID: storeID, Status: data.OrderStatusPending}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperr.Validation("quantity must be at least 1")
		}
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.Validation("product %d is not available", it.ProductID)
			}
			return nil, err
		}
		if p.StoreID != storeID || !p.Active {
			return nil, apperr.Validation("product %d is not available", it.ProductID)
		}
		productID := p.ID
		order.Items = append(order.Items, data.OrderItem{
			ProductID:      &productID,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       it.Quantity,
		})
		order.SubtotalCents += p.PriceCents * int64(it.Quantity)
	}

	if code := strings.ToUpper(strings.TrimSpace(in.DiscountCode)); code != "" {
		d, err := s.discounts.FindActiveByCode(ctx, storeID, code)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.Validation("discount code %q is not valid", code)
			}
			return nil, err
		}
		order.DiscountCode = d.Code
		order.DiscountCents = Apply(d, order.SubtotalCents)
	}
	order.TotalCents = order.SubtotalCents - order.DiscountCents

	customer := &data.Customer{StoreID: storeID, Email: email, Name: strings.TrimSpace(in.Name)}
	if err := s.orders.CreateOrder(ctx, customer, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	metrics.RecordOrderCreated()
	s.events.Publish(storeID, notify.EventOrderCreated, map[string]int64{"orderId": order.ID, "totalCents": order.TotalCents})
	s.log.With(map[string]interface{}{"store_id": storeID, "order_id": order.ID}).Info("order created")
	return order, nil
}

// ListOrders returns a store's orders. Read failures degrade to an empty list.
func (s *OrderService) ListOrders(ctx context.Context, userID, storeID int64) ([]*data.Order, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx, storeID)
	if err != nil {
		if degrade(s.log, err, "list orders") {
			return []*data.Order{}, nil
		}
		return nil, err
	}
	return orders, nil
}

// GetOrder returns an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, userID, id int64) (*data.Order, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedStore(ctx, s.stores, o.StoreID, userID); err != nil {
		return nil, err
	}
	return o, nil
}

// ParseOrderStatus canonicalises an order status.
func ParseOrderStatus(v string) (data.OrderStatus, error) {
	st := data.OrderStatus(strings.ToUpper(strings.TrimSpace(v)))
	switch st {
	case data.OrderStatusPending, data.OrderStatusPaid, data.OrderStatusShipped, data.OrderStatusCancelled:
		return st, nil
	}
	return "", apperr.Validation("unknown order status %q", v)
}

// UpdateStatus moves an order to a new status.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, id int64, status string) (*data.Order, error) {
	st, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.GetOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, id, st); err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	o.Status = st
	return o, nil
}

// ListCustomers returns a store's customers. Read failures degrade to an
// empty list.
func (s *OrderService) ListCustomers(ctx context.Context, userID, storeID int64) ([]*data.Customer, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	customers, err := s.orders.ListCustomers(ctx, storeID)
	if err != nil {
		if degrade(s.log, err, "list customers") {
			return []*data.Customer{}, nil
		}
		return nil, err
	}
	return customers, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
)

// DiscountRepository defines the interface for database operations on discounts.
type DiscountRepository interface {
	ListByStore(ctx context.Context, storeID int64) ([]*data.Discount, error)
	GetByID(ctx context.Context, id int64) (*data.Discount, error)
	FindActiveByCode(ctx context.Context, storeID int64, code string) (*data.Discount, error)
	Create(ctx context.Context, d *data.Discount) error
	Delete(ctx context.Context, id int64) error
}

// DiscountInput describes a discount code to create.
type DiscountInput struct {
	Code   string
	Kind   string
	Value  int64
	Active bool
}

// DiscountService manages a store's discount codes.
type DiscountService struct {
	discounts DiscountRepository
	stores    StoreLookup
	log       logger.Logger
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(discounts DiscountRepository, stores StoreLookup, log logger.Logger) *DiscountService {
	return &DiscountService{discounts: discounts, stores: stores, log: log}
}

// List returns a store's discounts. Read failures degrade to an empty list.
func (s *DiscountService) List(ctx context.Context, userID, storeID int64) ([]*data.Discount, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	discounts, err := s.discounts.ListByStore(ctx, storeID)
	if err != nil {
		if degrade(s.log, err, "list discounts") {
			return []*data.Discount{}, nil
		}
		return nil, err
	}
	return discounts, nil
}

// Create adds a discount code. Codes are upper-cased and unique per store.
func (s *DiscountService) Create(ctx context.Context, userID, storeID int64, in DiscountInput) (*data.Discount, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, apperr.Validation("discount code is required")
	}
	kind := data.DiscountKind(strings.ToUpper(strings.TrimSpace(in.Kind)))
	switch kind {
	case data.DiscountPercentage:
		if in.Value < 1 || in.Value > 100 {
			return nil, apperr.Validation("percentage must be between 1 and 100")
		}
	case data.DiscountFixed:
		if in.Value < 1 {
			return nil, apperr.Validation("fixed discount must be positive")
		}
	default:
		return nil, apperr.Validation("discount kind must be PERCENTAGE or FIXED")
	}
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}

	d := &data.Discount{StoreID: storeID, Code: code, Kind: kind, Value: in.Value, Active: in.Active}
	if err := s.discounts.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create discount: %w", err)
	}
	return d, nil
}

// Delete removes a discount code.
func (s *DiscountService) Delete(ctx context.Context, userID, id int64) error {
	d, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := ownedStore(ctx, s.stores, d.StoreID, userID); err != nil {
		return err
	}
	return s.discounts.Delete(ctx, id)
}

// Apply returns the amount a discount takes off a subtotal. The result never
// exceeds the subtotal.
func Apply(d *data.Discount, subtotal int64) int64 {
	if d == nil || subtotal <= 0 {
		return 0
	}
	var off int64
	switch d.Kind {
	case data.DiscountPercentage:
		pct := d.Value
		if pct > 100 {
			pct = 100
		}
		off = subtotal * pct / 100
	case data.DiscountFixed:
		off = d.Value
	}
	if off > subtotal {
		off = subtotal
	}
	if off < 0 {
		off = 0
	}
	return off
}

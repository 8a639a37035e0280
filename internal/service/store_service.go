package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/content"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/slug"
)

// StoreRepository defines the interface for database operations on stores.
type StoreRepository interface {
	Create(ctx context.Context, store *data.Store, pages []data.NewPage) (int64, error)
	GetByID(ctx context.Context, id int64) (*data.Store, error)
	GetByName(ctx context.Context, name string) (*data.Store, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*data.Store, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, storeID int64) (*data.StoreSummary, error)
}

// PaymentRepository defines the interface for the payment gateway table.
type PaymentRepository interface {
	Get(ctx context.Context, storeID int64) (*data.PaymentGateway, error)
	Upsert(ctx context.Context, g *data.PaymentGateway) error
}

// WebsiteRemover deletes a store's website document.
type WebsiteRemover interface {
	Delete(ctx context.Context, storeID int64) error
}

// StoreInput describes a store to provision.
type StoreInput struct {
	Name        string
	DisplayName string
	Currency    string
}

// GatewayInput describes a payment gateway configuration change.
type GatewayInput struct {
	Provider  string
	PublicKey string
	SecretKey string
	Enabled   bool
}

// StoreService manages stores and their payment configuration.
type StoreService struct {
	stores   StoreRepository
	payments PaymentRepository
	websites WebsiteRemover
	log      logger.Logger
}

// NewStoreService creates a new StoreService. websites may be nil when no
// document store is configured.
func NewStoreService(stores StoreRepository, payments PaymentRepository, websites WebsiteRemover, log logger.Logger) *StoreService {
	return &StoreService{stores: stores, payments: payments, websites: websites, log: log}
}

// defaultPages is the page set every new store starts with.
func defaultPages() []data.NewPage {
	components := make([]data.NewComponent, 0, 3)
	for _, t := range []content.Type{content.TypeNavbar, content.TypeHero, content.TypeFooter} {
		components = append(components, data.NewComponent{Type: string(t), Content: data.JSON(content.DefaultPayload(t))})
	}
	return []data.NewPage{{
		Title:       "Home",
		Slug:        "home",
		PageType:    data.PageTypeHome,
		IsPublished: true,
		Components:  components,
	}}
}

// Create provisions a store owned by userID together with its HOME page.
func (s *StoreService) Create(ctx context.Context, userID int64, in StoreInput) (*data.Store, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if !slug.IsStoreName(name) {
		return nil, apperr.Validation("store name must be lower-case letters, digits and hyphens, starting with a letter")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	display := strings.TrimSpace(in.DisplayName)
	if display == "" {
		display = name
	}

	store := &data.Store{Name: name, DisplayName: display, Currency: currency, OwnerID: userID}
	if _, err := s.stores.Create(ctx, store, defaultPages()); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	s.log.With(map[string]interface{}{"store_id": store.ID, "owner_id": userID}).Info("store created")
	return store, nil
}

// List returns the user's stores. Read failures degrade to an empty list.
func (s *StoreService) List(ctx context.Context, userID int64) ([]*data.Store, error) {
	stores, err := s.stores.ListByOwner(ctx, userID)
	if err != nil {
		if degrade(s.log, err, "list stores") {
			return []*data.Store{}, nil
		}
		return nil, err
	}
	return stores, nil
}

// Resolve finds a store by numeric id or by name.
func (s *StoreService) Resolve(ctx context.Context, ref string) (*data.Store, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.stores.GetByID(ctx, id)
	}
	return s.stores.GetByName(ctx, strings.ToLower(ref))
}

// GetByID loads a store by id.
func (s *StoreService) GetByID(ctx context.Context, id int64) (*data.Store, error) {
	return s.stores.GetByID(ctx, id)
}

// RequireOwner resolves a store reference and checks that userID owns it.
func (s *StoreService) RequireOwner(ctx context.Context, userID int64, ref string) (*data.Store, error) {
	store, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != userID {
		return nil, apperr.Forbidden("You do not have access to this store")
	}
	return store, nil
}

// Delete removes a store and everything it owns. The website document is
// removed best-effort afterwards.
func (s *StoreService) Delete(ctx context.Context, userID int64, ref string) error {
	store, err := s.RequireOwner(ctx, userID, ref)
	if err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, store.ID); err != nil {
		return fmt.Errorf("delete store %d: %w", store.ID, err)
	}
	if s.websites != nil {
		if err := s.websites.Delete(ctx, store.ID); err != nil {
			s.log.With(map[string]interface{}{"store_id": store.ID, "error": err.Error()}).Warn("failed to delete website configuration")
		}
	}
	return nil
}

// Summary returns the dashboard counters. Failures degrade to zero values.
func (s *StoreService) Summary(ctx context.Context, userID int64, ref string) (*data.StoreSummary, error) {
	store, err := s.RequireOwner(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	sum, err := s.stores.Summary(ctx, store.ID)
	if err != nil {
		if degrade(s.log, err, "store summary") {
			return &data.StoreSummary{}, nil
		}
		return nil, err
	}
	return sum, nil
}

// PaymentGateway returns the store's gateway with the secret masked.
func (s *StoreService) PaymentGateway(ctx context.Context, userID int64, ref string) (*data.PaymentGateway, error) {
	store, err := s.RequireOwner(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	g, err := s.payments.Get(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	g.SecretKey = MaskSecret(g.SecretKey)
	return g, nil
}

var providers = map[string]bool{"STRIPE": true, "PAYPAL": true, "MANUAL": true}

// SavePaymentGateway creates or replaces the store's gateway. An empty
// secret keeps the stored one.
func (s *StoreService) SavePaymentGateway(ctx context.Context, userID int64, ref string, in GatewayInput) (*data.PaymentGateway, error) {
	provider := strings.ToUpper(strings.TrimSpace(in.Provider))
	if !providers[provider] {
		return nil, apperr.Validation("provider must be one of STRIPE, PAYPAL, MANUAL")
	}
	store, err := s.RequireOwner(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	g := &data.PaymentGateway{
		StoreID:   store.ID,
		Provider:  provider,
		PublicKey: strings.TrimSpace(in.PublicKey),
		SecretKey: in.SecretKey,
		Enabled:   in.Enabled,
	}
	if g.SecretKey == "" {
		existing, err := s.payments.Get(ctx, store.ID)
		switch {
		case err == nil:
			g.SecretKey = existing.SecretKey
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
	}
	if err := s.payments.Upsert(ctx, g); err != nil {
		return nil, fmt.Errorf("save payment gateway: %w", err)
	}
	g.SecretKey = MaskSecret(g.SecretKey)
	return g, nil
}

// MaskSecret hides all but the last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

//go:build unit

package service

import (
	"context"
	"errors"
	"testing"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
)

// mockStoreRepository is a mock implementation of the StoreRepository interface.
type mockStoreRepository struct {
	byID         map[int64]*data.Store
	createdPages []data.NewPage
	listErr      error
	summaryErr   error
	deleteCalled bool
}

var _ StoreRepository = (*mockStoreRepository)(nil)

func (m *mockStoreRepository) Create(ctx context.Context, store *data.Store, pages []data.NewPage) (int64, error) {
	for _, s := range m.byID {
		if s.Name == store.Name {
			return 0, apperr.Conflict("store name %q is already taken", store.Name)
		}
	}
	m.createdPages = pages
	store.ID = int64(len(m.byID) + 1)
	m.byID[store.ID] = store
	return store.ID, nil
}

func (m *mockStoreRepository) GetByID(ctx context.Context, id int64) (*data.Store, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("store")
}

func (m *mockStoreRepository) GetByName(ctx context.Context, name string) (*data.Store, error) {
	for _, s := range m.byID {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, apperr.NotFound("store")
}

func (m *mockStoreRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*data.Store, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*data.Store{}
	for _, s := range m.byID {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStoreRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalled = true
	delete(m.byID, id)
	return nil
}

func (m *mockStoreRepository) Summary(ctx context.Context, storeID int64) (*data.StoreSummary, error) {
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	return &data.StoreSummary{Products: 2, Orders: 1, RevenueCents: 500}, nil
}

// mockPaymentRepository is a mock implementation of the PaymentRepository interface.
type mockPaymentRepository struct {
	stored *data.PaymentGateway
}

var _ PaymentRepository = (*mockPaymentRepository)(nil)

func (m *mockPaymentRepository) Get(ctx context.Context, storeID int64) (*data.PaymentGateway, error) {
	if m.stored == nil {
		return nil, apperr.NotFound("payment gateway")
	}
	g := *m.stored
	return &g, nil
}

func (m *mockPaymentRepository) Upsert(ctx context.Context, g *data.PaymentGateway) error {
	stored := *g
	m.stored = &stored
	return nil
}

// mockWebsiteRemover records website deletions.
type mockWebsiteRemover struct {
	deleted []int64
	err     error
}

func (m *mockWebsiteRemover) Delete(ctx context.Context, storeID int64) error {
	m.deleted = append(m.deleted, storeID)
	return m.err
}

func newTestStoreService(repo *mockStoreRepository, payments *mockPaymentRepository, websites WebsiteRemover) *StoreService {
	return NewStoreService(repo, payments, websites, logger.Nop())
}

func TestStoreService_CreateProvisionsHomePage(t *testing.T) {
	repo := &mockStoreRepository{byID: map[int64]*data.Store{}}
	s := newTestStoreService(repo, &mockPaymentRepository{}, nil)

	store, err := s.Create(context.Background(), 7, StoreInput{Name: "Acme", Currency: "eur"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Name != "acme" || store.Currency != "EUR" || store.OwnerID != 7 || store.DisplayName != "acme" {
		t.Errorf("unexpected store: %+v", store)
	}
	if len(repo.createdPages) != 1 || repo.createdPages[0].PageType != data.PageTypeHome {
		t.Fatalf("expected a HOME page, got %+v", repo.createdPages)
	}
	var types []string
	for _, c := range repo.createdPages[0].Components {
		types = append(types, c.Type)
	}
	if len(types) != 3 || types[0] != "NAVBAR" || types[1] != "HERO" || types[2] != "FOOTER" {
		t.Errorf("unexpected default components: %v", types)
	}

	if _, err := s.Create(context.Background(), 8, StoreInput{Name: "acme"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestStoreService_CreateRejectsBadNames(t *testing.T) {
	s := newTestStoreService(&mockStoreRepository{byID: map[int64]*data.Store{}}, &mockPaymentRepository{}, nil)
	for _, name := range []string{"", "42shop", "my shop", "-acme"} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Create(context.Background(), 7, StoreInput{Name: name}); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestStoreService_ResolveAndRequireOwner(t *testing.T) {
	repo := &mockStoreRepository{byID: map[int64]*data.Store{3: {ID: 3, Name: "acme", OwnerID: 7}}}
	s := newTestStoreService(repo, &mockPaymentRepository{}, nil)
	ctx := context.Background()

	for _, ref := range []string{"3", "acme", "ACME"} {
		if st, err := s.Resolve(ctx, ref); err != nil || st.ID != 3 {
			t.Errorf("Resolve(%q) = %v, %v", ref, st, err)
		}
	}
	if _, err := s.Resolve(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RequireOwner(ctx, 8, "acme"); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestStoreService_DeleteRemovesWebsiteBestEffort(t *testing.T) {
	repo := &mockStoreRepository{byID: map[int64]*data.Store{3: {ID: 3, Name: "acme", OwnerID: 7}}}
	websites := &mockWebsiteRemover{err: errors.New("mongo down")}
	s := newTestStoreService(repo, &mockPaymentRepository{}, websites)

	if err := s.Delete(context.Background(), 7, "acme"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.deleteCalled || len(websites.deleted) != 1 || websites.deleted[0] != 3 {
		t.Errorf("expected store and website deletion, got %v %v", repo.deleteCalled, websites.deleted)
	}
}

func TestStoreService_DashboardReadsDegrade(t *testing.T) {
	repo := &mockStoreRepository{
		byID:       map[int64]*data.Store{3: {ID: 3, Name: "acme", OwnerID: 7}},
		listErr:    errors.New("db down"),
		summaryErr: errors.New("db down"),
	}
	s := newTestStoreService(repo, &mockPaymentRepository{}, nil)

	stores, err := s.List(context.Background(), 7)
	if err != nil || len(stores) != 0 {
		t.Errorf("expected empty list, got %v, %v", stores, err)
	}
	sum, err := s.Summary(context.Background(), 7, "3")
	if err != nil || *sum != (data.StoreSummary{}) {
		t.Errorf("expected zero summary, got %+v, %v", sum, err)
	}
}

func TestStoreService_PaymentGateway(t *testing.T) {
	repo := &mockStoreRepository{byID: map[int64]*data.Store{3: {ID: 3, Name: "acme", OwnerID: 7}}}
	payments := &mockPaymentRepository{}
	s := newTestStoreService(repo, payments, nil)
	ctx := context.Background()

	if _, err := s.PaymentGateway(ctx, 7, "acme"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.SavePaymentGateway(ctx, 7, "acme", GatewayInput{Provider: "bitcoin"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	g, err := s.SavePaymentGateway(ctx, 7, "acme", GatewayInput{Provider: "stripe", PublicKey: "pk", SecretKey: "sk_live_12345678", Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.SecretKey != "****5678" || g.Provider != "STRIPE" {
		t.Errorf("unexpected gateway: %+v", g)
	}

	// An empty secret keeps the stored one.
	if _, err := s.SavePaymentGateway(ctx, 7, "acme", GatewayInput{Provider: "STRIPE", PublicKey: "pk2"}); err != nil {
		t.Fatal(err)
	}
	if payments.stored.SecretKey != "sk_live_12345678" || payments.stored.PublicKey != "pk2" {
		t.Errorf("unexpected stored gateway: %+v", payments.stored)
	}
}

func TestMaskSecret(t *testing.T) {
	testCases := map[string]string{
		"":           "",
		"abc":        "****",
		"sk_test_42": "****t_42",
	}
	for in, want := range testCases {
		if got := MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

package service

import (
	"context"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/docstore"
)

// WebsiteRepository reads and writes website documents.
type WebsiteRepository interface {
	Get(ctx context.Context, storeID int64) (*docstore.Website, error)
	Replace(ctx context.Context, w *docstore.Website) error
}

var errWebsiteDisabled = &apperr.Error{Kind: docstore.ErrDisabled, Msg: "website configuration is not available"}

// WebsiteService exposes the free-form website configuration of a store.
type WebsiteService struct {
	repo   WebsiteRepository
	stores StoreLookup
}

// NewWebsiteService creates a new WebsiteService. repo may be nil when no
// document store is configured.
func NewWebsiteService(repo WebsiteRepository, stores StoreLookup) *WebsiteService {
	return &WebsiteService{repo: repo, stores: stores}
}

// Get returns the store's website configuration.
func (s *WebsiteService) Get(ctx context.Context, userID, storeID int64) (*docstore.Website, error) {
	if s.repo == nil {
		return nil, errWebsiteDisabled
	}
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, storeID)
}

// Replace overwrites the store's website configuration.
func (s *WebsiteService) Replace(ctx context.Context, userID, storeID int64, w *docstore.Website) (*docstore.Website, error) {
	if s.repo == nil {
		return nil, errWebsiteDisabled
	}
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	w.StoreID = storeID
	if err := s.repo.Replace(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

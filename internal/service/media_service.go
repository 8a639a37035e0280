package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/media"
)

// MediaRepository defines the interface for database operations on media rows.
type MediaRepository interface {
	ListByStore(ctx context.Context, storeID int64) ([]*data.Media, error)
	GetByID(ctx context.Context, id int64) (*data.Media, error)
	Create(ctx context.Context, m *data.Media) error
	Delete(ctx context.Context, id int64) error
}

// errMediaDisabled is reported as 503 with a readable message.
var errMediaDisabled = &apperr.Error{Kind: media.ErrDisabled, Msg: "media uploads disabled"}

// MediaService stores uploaded files with the upload provider and records
// them per store.
type MediaService struct {
	repo     MediaRepository
	uploader media.Uploader
	stores   StoreLookup
	log      logger.Logger
}

// NewMediaService creates a new MediaService. uploader may be nil when no
// provider is configured.
func NewMediaService(repo MediaRepository, uploader media.Uploader, stores StoreLookup, log logger.Logger) *MediaService {
	return &MediaService{repo: repo, uploader: uploader, stores: stores, log: log}
}

// Upload sends r to the provider and records the result.
func (s *MediaService) Upload(ctx context.Context, userID, storeID int64, filename string, size int64, r io.Reader) (*data.Media, error) {
	if s.uploader == nil {
		return nil, errMediaDisabled
	}
	store, err := ownedStore(ctx, s.stores, storeID, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.uploader.Upload(ctx, r, s.uploader.Folder(store.Name))
	if err != nil {
		return nil, err
	}
	m := &data.Media{
		StoreID:   storeID,
		URL:       res.URL,
		PublicID:  res.PublicID,
		Filename:  filepath.Base(strings.TrimSpace(filename)),
		SizeBytes: size,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		// The row is the only reference to the remote asset.
		if derr := s.uploader.Destroy(ctx, res.PublicID); derr != nil {
			s.log.With(map[string]interface{}{"public_id": res.PublicID, "error": derr.Error()}).Warn("failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("record media: %w", err)
	}
	return m, nil
}

// List returns a store's media. Read failures degrade to an empty list.
func (s *MediaService) List(ctx context.Context, userID, storeID int64) ([]*data.Media, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		if degrade(s.log, err, "list media") {
			return []*data.Media{}, nil
		}
		return nil, err
	}
	return items, nil
}

// Delete destroys the remote asset and then removes the row.
func (s *MediaService) Delete(ctx context.Context, userID, id int64) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := ownedStore(ctx, s.stores, m.StoreID, userID); err != nil {
		return err
	}
	if s.uploader == nil {
		return errMediaDisabled
	}
	if err := s.uploader.Destroy(ctx, m.PublicID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

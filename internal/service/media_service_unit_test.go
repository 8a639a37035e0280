//go:build unit

package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/docstore"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/media"
)

// mockUploader is a mock implementation of the media.Uploader interface.
type mockUploader struct {
	uploadedTo string
	body       string
	destroyed  []string
}

var _ media.Uploader = (*mockUploader)(nil)

func (m *mockUploader) Upload(ctx context.Context, r io.Reader, folder string) (*media.Result, error) {
	b, _ := io.ReadAll(r)
	m.uploadedTo, m.body = folder, string(b)
	return &media.Result{URL: "https://cdn.example.com/a.png", PublicID: folder + "/a"}, nil
}

func (m *mockUploader) Destroy(ctx context.Context, publicID string) error {
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

func (m *mockUploader) Folder(storeName string) string { return "stores/" + storeName }

// mockMediaRepository is a mock implementation of the MediaRepository interface.
type mockMediaRepository struct {
	items     map[int64]*data.Media
	createErr error
	deleted   []int64
}

var _ MediaRepository = (*mockMediaRepository)(nil)

func (m *mockMediaRepository) ListByStore(ctx context.Context, storeID int64) ([]*data.Media, error) {
	return []*data.Media{}, nil
}

func (m *mockMediaRepository) GetByID(ctx context.Context, id int64) (*data.Media, error) {
	if it, ok := m.items[id]; ok {
		return it, nil
	}
	return nil, apperr.NotFound("media")
}

func (m *mockMediaRepository) Create(ctx context.Context, it *data.Media) error {
	if m.createErr != nil {
		return m.createErr
	}
	it.ID = 1
	return nil
}

func (m *mockMediaRepository) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestMediaService_Upload(t *testing.T) {
	up := &mockUploader{}
	s := NewMediaService(&mockMediaRepository{}, up, ownedBy(1, 7), logger.Nop())

	m, err := s.Upload(context.Background(), 7, 1, "../../logo.png", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.uploadedTo != "stores/acme" || up.body != "data" {
		t.Errorf("unexpected upload: %q %q", up.uploadedTo, up.body)
	}
	if m.Filename != "logo.png" || m.PublicID != "stores/acme/a" || m.SizeBytes != 4 {
		t.Errorf("unexpected media: %+v", m)
	}
}

func TestMediaService_UploadRollsBackRemoteOnInsertFailure(t *testing.T) {
	up := &mockUploader{}
	s := NewMediaService(&mockMediaRepository{createErr: errors.New("db down")}, up, ownedBy(1, 7), logger.Nop())

	if _, err := s.Upload(context.Background(), 7, 1, "a.png", 1, strings.NewReader("x")); err == nil {
		t.Fatal("expected an error")
	}
	if len(up.destroyed) != 1 {
		t.Errorf("expected the orphaned upload to be destroyed, got %v", up.destroyed)
	}
}

func TestMediaService_Disabled(t *testing.T) {
	s := NewMediaService(&mockMediaRepository{}, nil, ownedBy(1, 7), logger.Nop())

	_, err := s.Upload(context.Background(), 7, 1, "a.png", 1, strings.NewReader("x"))
	if !errors.Is(err, media.ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	if apperr.StatusCode(err) != http.StatusServiceUnavailable || apperr.Message(err) != "media uploads disabled" {
		t.Errorf("unexpected mapping: %d %q", apperr.StatusCode(err), apperr.Message(err))
	}
}

func TestMediaService_Delete(t *testing.T) {
	up := &mockUploader{}
	repo := &mockMediaRepository{items: map[int64]*data.Media{3: {ID: 3, StoreID: 1, PublicID: "stores/acme/x"}}}
	s := NewMediaService(repo, up, ownedBy(1, 7), logger.Nop())

	if err := s.Delete(context.Background(), 8, 3); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := s.Delete(context.Background(), 7, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(up.destroyed) != 1 || len(repo.deleted) != 1 {
		t.Errorf("expected remote and row deletion, got %v %v", up.destroyed, repo.deleted)
	}
}

// mockWebsiteRepository is a mock implementation of the WebsiteRepository interface.
type mockWebsiteRepository struct {
	saved *docstore.Website
}

func (m *mockWebsiteRepository) Get(ctx context.Context, storeID int64) (*docstore.Website, error) {
	return &docstore.Website{StoreID: storeID, Theme: map[string]interface{}{}}, nil
}

func (m *mockWebsiteRepository) Replace(ctx context.Context, w *docstore.Website) error {
	m.saved = w
	return nil
}

func TestWebsiteService(t *testing.T) {
	repo := &mockWebsiteRepository{}
	s := NewWebsiteService(repo, ownedBy(1, 7))
	ctx := context.Background()

	w, err := s.Replace(ctx, 7, 1, &docstore.Website{StoreID: 99, Theme: map[string]interface{}{"color": "red"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.StoreID != 1 || repo.saved.StoreID != 1 {
		t.Errorf("expected the path store id to win, got %d", repo.saved.StoreID)
	}
	if _, err := s.Get(ctx, 8, 1); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	disabled := NewWebsiteService(nil, ownedBy(1, 7))
	if _, err := disabled.Get(ctx, 7, 1); !errors.Is(err, docstore.ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

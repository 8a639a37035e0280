package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const mediaColumns = `id, store_id, url, public_id, filename, size_bytes, created_at`

// SQLMediaRepository records uploaded files.
type SQLMediaRepository struct {
	db *sqlx.DB
}

// NewSQLMediaRepository creates a new SQLMediaRepository.
func NewSQLMediaRepository(db *sqlx.DB) *SQLMediaRepository {
	return &SQLMediaRepository{db: db}
}

// ListByStore returns a store's media, newest first.
func (r *SQLMediaRepository) ListByStore(ctx context.Context, storeID int64) ([]*Media, error) {
	media := []*Media{}
	query := `SELECT ` + mediaColumns + ` FROM media WHERE store_id = ? ORDER BY id DESC`
	if err := r.db.SelectContext(ctx, &media, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return media, nil
}

// GetByID retrieves a media record by its ID.
func (r *SQLMediaRepository) GetByID(ctx context.Context, id int64) (*Media, error) {
	var m Media
	if err := r.db.GetContext(ctx, &m, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("media")
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return &m, nil
}

// Create inserts a media record and sets its ID.
func (r *SQLMediaRepository) Create(ctx context.Context, m *Media) error {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO media (store_id, url, public_id, filename, size_bytes) VALUES (:store_id, :url, :public_id, :filename, :size_bytes)`, m)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read media id: %w", err)
	}
	return nil
}

// Delete removes a media record.
func (r *SQLMediaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return expectOne(res, "media")
}

package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const componentColumns = `id, page_id, component_type, content, sort_order, version, created_at, updated_at`

// SQLComponentRepository stores page components using sqlx.
type SQLComponentRepository struct {
	db *sqlx.DB
}

// NewSQLComponentRepository creates a new SQLComponentRepository.
func NewSQLComponentRepository(db *sqlx.DB) *SQLComponentRepository {
	return &SQLComponentRepository{db: db}
}

// ListByPage returns a page's components ordered by sort order, then id.
// A page without components yields an empty slice.
func (r *SQLComponentRepository) ListByPage(ctx context.Context, pageID int64) ([]*Component, error) {
	if err := pageExists(ctx, r.db, pageID); err != nil {
		return nil, err
	}
	components := []*Component{}
	query := `SELECT ` + componentColumns + ` FROM components WHERE page_id = ? ORDER BY sort_order, id`
	if err := r.db.SelectContext(ctx, &components, query, pageID); err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	return components, nil
}

// GetByID retrieves a single component by its ID.
func (r *SQLComponentRepository) GetByID(ctx context.Context, id int64) (*Component, error) {
	var c Component
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = ?`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("component")
		}
		return nil, fmt.Errorf("failed to get component by id: %w", err)
	}
	return &c, nil
}

// UpdateContent replaces a component's content and bumps its version. When
// expectedVersion is set and no longer matches, nothing is written and an
// ErrConflict is returned.
func (r *SQLComponentRepository) UpdateContent(ctx context.Context, id int64, content JSON, expectedVersion *int64) (*Component, error) {
	var updated *Component
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current int64
		if err := tx.GetContext(ctx, &current, `SELECT version FROM components WHERE id = ?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("component")
			}
			return fmt.Errorf("failed to read component version: %w", err)
		}
		if expectedVersion != nil && *expectedVersion != current {
			return apperr.Conflict("component %d was modified (version %d, expected %d)", id, current, *expectedVersion)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE components SET content = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			content, id); err != nil {
			return fmt.Errorf("failed to update component: %w", err)
		}
		var c Component
		if err := tx.GetContext(ctx, &c, `SELECT `+componentColumns+` FROM components WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to reload component: %w", err)
		}
		updated = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpsertByType writes a single component of the given type, creating it at
// the end of the page when it does not exist yet.
func (r *SQLComponentRepository) UpsertByType(ctx context.Context, pageID int64, componentType string, content JSON) error {
	return r.ApplyUpdates(ctx, pageID, []ComponentUpdate{{Type: componentType, Content: content}})
}

// ApplyUpdates applies a batch of component writes to one page in a single
// transaction. An existing component of the entry's type has its content
// replaced and keeps its order; otherwise a component is created with order
// max+1, where max includes components created earlier in the same batch.
// Any failure rolls back the whole batch.
func (r *SQLComponentRepository) ApplyUpdates(ctx context.Context, pageID int64, updates []ComponentUpdate) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := pageExists(ctx, tx, pageID); err != nil {
			return err
		}

		var maxOrder int
		if err := tx.GetContext(ctx, &maxOrder, `SELECT COALESCE(MAX(sort_order), 0) FROM components WHERE page_id = ?`, pageID); err != nil {
			return fmt.Errorf("failed to read component order: %w", err)
		}

		for _, u := range updates {
			var existing struct {
				ID      int64 `db:"id"`
				Version int64 `db:"version"`
			}
			err := tx.GetContext(ctx, &existing,
				`SELECT id, version FROM components WHERE page_id = ? AND component_type = ?`, pageID, u.Type)
			switch {
			case err == nil:
				if u.Version != nil && *u.Version != existing.Version {
					return apperr.Conflict("%s component was modified (version %d, expected %d)", u.Type, existing.Version, *u.Version)
				}
				if _, err := tx.ExecContext(ctx,
					`UPDATE components SET content = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
					u.Content, existing.ID); err != nil {
					return fmt.Errorf("failed to update %s component: %w", u.Type, err)
				}
			case errors.Is(err, sql.ErrNoRows):
				if u.Version != nil && *u.Version != 0 {
					return apperr.Conflict("%s component no longer exists", u.Type)
				}
				maxOrder++
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO components (page_id, component_type, content, sort_order) VALUES (?, ?, ?, ?)`,
					pageID, u.Type, u.Content, maxOrder); err != nil {
					return fmt.Errorf("failed to insert %s component: %w", u.Type,
						mapUnique(err, fmt.Sprintf("page already has a %s component", u.Type)))
				}
			default:
				return fmt.Errorf("failed to look up %s component: %w", u.Type, err)
			}
		}
		return nil
	})
}

func pageExists(ctx context.Context, q sqlx.QueryerContext, pageID int64) error {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM pages WHERE id = ?`, pageID); err != nil {
		return fmt.Errorf("failed to check page: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("page")
	}
	return nil
}

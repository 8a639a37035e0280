package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go-store-builder/internal/apperr"

	"github.com/jmoiron/sqlx"
)

const pageColumns = `id, store_id, title, slug, page_type, is_published, page_order, created_at, updated_at`

// SQLPageRepository stores pages using sqlx.
type SQLPageRepository struct {
	db *sqlx.DB
}

// NewSQLPageRepository creates a new SQLPageRepository.
func NewSQLPageRepository(db *sqlx.DB) *SQLPageRepository {
	return &SQLPageRepository{db: db}
}

// GetPageByID retrieves a single page by its ID.
func (r *SQLPageRepository) GetPageByID(ctx context.Context, id int64) (*Page, error) {
	var page Page
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`
	if err := r.db.GetContext(ctx, &page, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("page")
		}
		return nil, fmt.Errorf("failed to get page by id: %w", err)
	}
	return &page, nil
}

// GetPublishedBySlug retrieves a published page of a store by its slug.
func (r *SQLPageRepository) GetPublishedBySlug(ctx context.Context, storeID int64, slug string) (*Page, error) {
	var page Page
	query := `SELECT ` + pageColumns + ` FROM pages WHERE store_id = ? AND slug = ? AND is_published = 1`
	if err := r.db.GetContext(ctx, &page, query, storeID, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("page")
		}
		return nil, fmt.Errorf("failed to get page by slug: %w", err)
	}
	return &page, nil
}

// ListByStore returns a store's pages ordered by page order, narrowed by f.
func (r *SQLPageRepository) ListByStore(ctx context.Context, storeID int64, f PageFilter) ([]*Page, error) {
	var (
		where = []string{"store_id = ?"}
		args  = []any{storeID}
	)
	if f.Slug != "" {
		where = append(where, "slug = ?")
		args = append(args, f.Slug)
	}
	if f.PageType != "" {
		where = append(where, "page_type = ?")
		args = append(args, f.PageType)
	}
	if f.PublishedOnly {
		where = append(where, "is_published = 1")
	}

	pages := []*Page{}
	query := `SELECT ` + pageColumns + ` FROM pages WHERE ` + strings.Join(where, " AND ") + ` ORDER BY page_order, id`
	if err := r.db.SelectContext(ctx, &pages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// CreatePages inserts pages and their components in one transaction and
// returns the new page IDs in input order. Pages without an explicit order
// are appended after the store's current last page.
func (r *SQLPageRepository) CreatePages(ctx context.Context, storeID int64, pages []NewPage) ([]int64, error) {
	ids := make([]int64, 0, len(pages))
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM stores WHERE id = ?`, storeID); err != nil {
			return fmt.Errorf("failed to check store: %w", err)
		}
		if exists == 0 {
			return apperr.NotFound("store")
		}

		var maxOrder int
		if err := tx.GetContext(ctx, &maxOrder, `SELECT COALESCE(MAX(page_order), 0) FROM pages WHERE store_id = ?`, storeID); err != nil {
			return fmt.Errorf("failed to read page order: %w", err)
		}

		for _, p := range pages {
			order := maxOrder + 1
			if p.PageOrder != nil {
				order = *p.PageOrder
			}
			if order > maxOrder {
				maxOrder = order
			}
			id, err := insertPage(ctx, tx, storeID, p, order)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// insertPage writes one page and its components. Components without an
// explicit order are placed after the highest order seen so far.
func insertPage(ctx context.Context, tx *sqlx.Tx, storeID int64, p NewPage, order int) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO pages (store_id, title, slug, page_type, is_published, page_order) VALUES (?, ?, ?, ?, ?, ?)`,
		storeID, p.Title, p.Slug, p.PageType, p.IsPublished, order)
	if err != nil {
		return 0, fmt.Errorf("failed to insert page %q: %w", p.Slug,
			mapUnique(err, fmt.Sprintf("a page with slug %q already exists", p.Slug)))
	}
	pageID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read page id: %w", err)
	}

	maxOrder := 0
	for _, c := range p.Components {
		o := maxOrder + 1
		if c.Order != nil {
			o = *c.Order
		}
		if o > maxOrder {
			maxOrder = o
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO components (page_id, component_type, content, sort_order) VALUES (?, ?, ?, ?)`,
			pageID, c.Type, c.Content, o); err != nil {
			return 0, fmt.Errorf("failed to insert %s component: %w", c.Type,
				mapUnique(err, fmt.Sprintf("page %q already has a %s component", p.Slug, c.Type)))
		}
	}
	return pageID, nil
}

// DeletePage removes a page and, through the foreign key, its components.
func (r *SQLPageRepository) DeletePage(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("page")
	}
	return nil
}

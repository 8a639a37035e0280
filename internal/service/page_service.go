package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/content"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/metrics"
	"go-store-builder/internal/notify"
	"go-store-builder/internal/slug"
)

// PageRepository defines the interface for database operations on pages.
type PageRepository interface {
	GetPageByID(ctx context.Context, id int64) (*data.Page, error)
	GetPublishedBySlug(ctx context.Context, storeID int64, slug string) (*data.Page, error)
	ListByStore(ctx context.Context, storeID int64, f data.PageFilter) ([]*data.Page, error)
	CreatePages(ctx context.Context, storeID int64, pages []data.NewPage) ([]int64, error)
	DeletePage(ctx context.Context, id int64) error
}

// ComponentRepository defines the interface for database operations on components.
type ComponentRepository interface {
	ListByPage(ctx context.Context, pageID int64) ([]*data.Component, error)
	GetByID(ctx context.Context, id int64) (*data.Component, error)
	UpdateContent(ctx context.Context, id int64, content data.JSON, expectedVersion *int64) (*data.Component, error)
	ApplyUpdates(ctx context.Context, pageID int64, updates []data.ComponentUpdate) error
}

// AssembledPage is the render-ready view of a page: its header fields and
// one normalised payload per component type, keyed by the lower-case type.
type AssembledPage struct {
	ID          int64                      `json:"id"`
	Title       string                     `json:"title"`
	Slug        string                     `json:"slug"`
	PageType    data.PageType              `json:"pageType"`
	IsPublished bool                       `json:"isPublished"`
	PageOrder   int                        `json:"pageOrder"`
	Components  map[string]content.Content `json:"components"`
}

// ComponentView is a single component with its normalised payload.
type ComponentView struct {
	ID      int64           `json:"id"`
	PageID  int64           `json:"pageId"`
	Type    content.Type    `json:"componentType"`
	Order   int             `json:"order"`
	Version int64           `json:"version"`
	Content content.Content `json:"content"`
}

// ComponentInput is one entry of a batch component update.
type ComponentInput struct {
	Type    string
	Content json.RawMessage
	Version *int64
}

// NewComponentInput is a component created together with its page.
type NewComponentInput struct {
	Type    string
	Content json.RawMessage
	Order   *int
}

// PageInput describes a page to create.
type PageInput struct {
	Title       string
	Slug        string
	PageType    string
	IsPublished bool
	PageOrder   *int
	Components  []NewComponentInput
}

// PageService provides business logic for the page builder.
type PageService struct {
	pages                   PageRepository
	components              ComponentRepository
	stores                  StoreLookup
	events                  Publisher
	log                     logger.Logger
	checkComponentOwnership bool
}

// NewPageService creates a new PageService. When checkComponentOwnership is
// false the direct component endpoints skip the store ownership check.
func NewPageService(pages PageRepository, components ComponentRepository, stores StoreLookup, events Publisher, log logger.Logger, checkComponentOwnership bool) *PageService {
	return &PageService{
		pages:                   pages,
		components:              components,
		stores:                  stores,
		events:                  events,
		log:                     log,
		checkComponentOwnership: checkComponentOwnership,
	}
}

// AssemblePage loads a page's components and folds their normalised
// payloads into one map. It performs no authorization.
func (s *PageService) AssemblePage(ctx context.Context, page *data.Page) (*AssembledPage, error) {
	components, err := s.components.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("assemble page %d: %w", page.ID, err)
	}

	out := &AssembledPage{
		ID:          page.ID,
		Title:       page.Title,
		Slug:        page.Slug,
		PageType:    page.PageType,
		IsPublished: page.IsPublished,
		PageOrder:   page.PageOrder,
		Components:  make(map[string]content.Content, len(components)),
	}
	for _, c := range components {
		t := content.ParseType(c.Type)
		out.Components[t.Key()] = content.Normalize(c.ID, t, c.Content)
	}
	return out, nil
}

// ownedPage loads a page and checks that userID owns its store.
func (s *PageService) ownedPage(ctx context.Context, userID, pageID int64) (*data.Page, error) {
	page, err := s.pages.GetPageByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedStore(ctx, s.stores, page.StoreID, userID); err != nil {
		return nil, err
	}
	return page, nil
}

// GetPage returns the assembled view of a page the user owns.
func (s *PageService) GetPage(ctx context.Context, userID, pageID int64) (*AssembledPage, error) {
	page, err := s.ownedPage(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	return s.AssemblePage(ctx, page)
}

// UpdateComponents applies a batch of component updates to a page as one
// unit and returns the refreshed page. Entries without a type or content
// are skipped.
func (s *PageService) UpdateComponents(ctx context.Context, userID, pageID int64, inputs []ComponentInput) (*AssembledPage, error) {
	page, err := s.ownedPage(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	updates := make([]data.ComponentUpdate, 0, len(inputs))
	for _, in := range inputs {
		t := content.ParseType(in.Type)
		if t == "" || isAbsent(in.Content) {
			continue
		}
		updates = append(updates, data.ComponentUpdate{Type: string(t), Content: data.JSON(in.Content), Version: in.Version})
	}

	if len(updates) > 0 {
		err := s.components.ApplyUpdates(ctx, page.ID, updates)
		metrics.RecordComponentBatch(err)
		if err != nil {
			return nil, fmt.Errorf("update components of page %d: %w", page.ID, err)
		}
	}

	assembled, err := s.AssemblePage(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		s.events.Publish(page.StoreID, notify.EventPageUpdated, map[string]int64{"pageId": page.ID})
	}
	return assembled, nil
}

// ListPages returns the assembled pages of a store the user owns. Read
// failures degrade to an empty list.
func (s *PageService) ListPages(ctx context.Context, userID, storeID int64, f data.PageFilter) ([]*AssembledPage, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	if f.PageType != "" {
		f.PageType = data.PageType(strings.ToUpper(string(f.PageType)))
	}

	out := []*AssembledPage{}
	pages, err := s.pages.ListByStore(ctx, storeID, f)
	if err != nil {
		if degrade(s.log, err, "list pages") {
			return out, nil
		}
		return nil, err
	}
	for _, p := range pages {
		assembled, err := s.AssemblePage(ctx, p)
		if err != nil {
			if degrade(s.log, err, "assemble page") {
				continue
			}
			return nil, err
		}
		out = append(out, assembled)
	}
	return out, nil
}

// CreatePages validates and creates pages with their initial components in
// one transaction.
func (s *PageService) CreatePages(ctx context.Context, userID, storeID int64, inputs []PageInput) ([]*AssembledPage, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("pages must contain at least one page")
	}
	pages := make([]data.NewPage, 0, len(inputs))
	for i, in := range inputs {
		p, err := newPage(in)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, p)
	}

	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	ids, err := s.pages.CreatePages(ctx, storeID, pages)
	if err != nil {
		return nil, fmt.Errorf("create pages: %w", err)
	}

	out := make([]*AssembledPage, 0, len(ids))
	for _, id := range ids {
		page, err := s.pages.GetPageByID(ctx, id)
		if err != nil {
			return nil, err
		}
		assembled, err := s.AssemblePage(ctx, page)
		if err != nil {
			return nil, err
		}
		out = append(out, assembled)
	}
	return out, nil
}

// newPage validates one page input and fills in defaults.
func newPage(in PageInput) (data.NewPage, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return data.NewPage{}, apperr.Validation("title is required")
	}
	s := slug.Generate(in.Slug)
	if s == "" {
		s = slug.Generate(title)
	}
	if s == "" {
		return data.NewPage{}, apperr.Validation("slug is required")
	}
	pageType, err := ParsePageType(in.PageType)
	if err != nil {
		return data.NewPage{}, err
	}

	seen := make(map[content.Type]bool, len(in.Components))
	components := make([]data.NewComponent, 0, len(in.Components))
	for _, c := range in.Components {
		t := content.ParseType(c.Type)
		if t == "" {
			return data.NewPage{}, apperr.Validation("component type is required")
		}
		if seen[t] {
			return data.NewPage{}, apperr.Validation("page %q has more than one %s component", s, t)
		}
		seen[t] = true

		raw := c.Content
		if isAbsent(raw) {
			raw = content.DefaultPayload(t)
		}
		components = append(components, data.NewComponent{Type: string(t), Content: data.JSON(raw), Order: c.Order})
	}

	return data.NewPage{
		Title:       title,
		Slug:        s,
		PageType:    pageType,
		IsPublished: in.IsPublished,
		PageOrder:   in.PageOrder,
		Components:  components,
	}, nil
}

// ParsePageType canonicalises a page type. An empty value means CUSTOM.
func ParsePageType(v string) (data.PageType, error) {
	t := data.PageType(strings.ToUpper(strings.TrimSpace(v)))
	switch t {
	case "":
		return data.PageTypeCustom, nil
	case data.PageTypeHome, data.PageTypeAbout, data.PageTypeContact, data.PageTypeCollection,
		data.PageTypeProduct, data.PageTypePolicy, data.PageTypeCustom:
		return t, nil
	}
	return "", apperr.Validation("unknown page type %q", v)
}

// DeletePage removes a page the user owns.
func (s *PageService) DeletePage(ctx context.Context, userID, pageID int64) error {
	page, err := s.ownedPage(ctx, userID, pageID)
	if err != nil {
		return err
	}
	return s.pages.DeletePage(ctx, page.ID)
}

// PublicPage returns a published page of a store for the storefront.
func (s *PageService) PublicPage(ctx context.Context, storeID int64, pageSlug string) (*AssembledPage, error) {
	page, err := s.pages.GetPublishedBySlug(ctx, storeID, pageSlug)
	if err != nil {
		return nil, err
	}
	return s.AssemblePage(ctx, page)
}

// PublishedPages lists a store's published pages. Failures degrade to an
// empty list.
func (s *PageService) PublishedPages(ctx context.Context, storeID int64) []*data.Page {
	pages, err := s.pages.ListByStore(ctx, storeID, data.PageFilter{PublishedOnly: true})
	if err != nil {
		degrade(s.log, err, "list published pages")
		return []*data.Page{}
	}
	return pages
}

// componentAccess loads a component and, when enabled, checks ownership of
// the store behind its page.
func (s *PageService) componentAccess(ctx context.Context, userID, id int64) (*data.Component, *data.Page, error) {
	c, err := s.components.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	page, err := s.pages.GetPageByID(ctx, c.PageID)
	if err != nil {
		return nil, nil, err
	}
	if s.checkComponentOwnership {
		if _, err := ownedStore(ctx, s.stores, page.StoreID, userID); err != nil {
			return nil, nil, err
		}
	}
	return c, page, nil
}

// GetComponent returns a single component.
func (s *PageService) GetComponent(ctx context.Context, userID, id int64) (*ComponentView, error) {
	c, _, err := s.componentAccess(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return componentView(c), nil
}

// UpdateComponent replaces a single component's content. A non-nil
// expectedVersion must match the stored version.
func (s *PageService) UpdateComponent(ctx context.Context, userID, id int64, raw json.RawMessage, expectedVersion *int64) (*ComponentView, error) {
	if isAbsent(raw) {
		return nil, apperr.Validation("content is required")
	}
	_, page, err := s.componentAccess(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c, err := s.components.UpdateContent(ctx, id, data.JSON(raw), expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("update component %d: %w", id, err)
	}
	s.events.Publish(page.StoreID, notify.EventPageUpdated, map[string]int64{"pageId": page.ID, "componentId": id})
	return componentView(c), nil
}

func componentView(c *data.Component) *ComponentView {
	t := content.ParseType(c.Type)
	return &ComponentView{
		ID:      c.ID,
		PageID:  c.PageID,
		Type:    t,
		Order:   c.Order,
		Version: c.Version,
		Content: content.Normalize(c.ID, t, c.Content),
	}
}

// isAbsent reports whether a JSON value is missing or null.
func isAbsent(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	return v == "" || v == "null"
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/slug"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// CategoryRepository defines the interface for database operations on categories.
type CategoryRepository interface {
	SearchByName(ctx context.Context, storeID int64, query string) ([]*data.Category, error)
	ListByStore(ctx context.Context, storeID int64) ([]*data.Category, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*data.Category, error)
}

// ProductRepository defines the interface for database operations on products.
type ProductRepository interface {
	ListByStore(ctx context.Context, storeID int64, categoryID *int64) ([]*data.Product, error)
	GetByID(ctx context.Context, id int64) (*data.Product, error)
	Create(ctx context.Context, p *data.Product) error
	Update(ctx context.Context, p *data.Product) error
	Delete(ctx context.Context, id int64) error
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	CategoryID  *int64
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	Stock       int
	ImageURL    string
	Active      bool
}

// CatalogService provides business logic for categories and products.
type CatalogService struct {
	categories CategoryRepository
	products   ProductRepository
	stores     StoreLookup
	log        logger.Logger
	md         goldmark.Markdown
	sanitizer  *bluemonday.Policy
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categories CategoryRepository, products ProductRepository, stores StoreLookup, log logger.Logger) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		stores:     stores,
		log:        log,
		md:         goldmark.New(goldmark.WithExtensions(extension.GFM)),
		// Rendered descriptions are shown on the public storefront.
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// RenderDescription converts markdown to sanitised HTML.
func (s *CatalogService) RenderDescription(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return s.sanitizer.Sanitize(buf.String()), nil
}

// ListCategories returns a store's categories. Read failures degrade to an
// empty list.
func (s *CatalogService) ListCategories(ctx context.Context, userID, storeID int64) ([]*data.Category, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	categories, err := s.categories.ListByStore(ctx, storeID)
	if err != nil {
		if degrade(s.log, err, "list categories") {
			return []*data.Category{}, nil
		}
		return nil, err
	}
	return categories, nil
}

// SearchCategories returns the store's categories whose name contains q.
func (s *CatalogService) SearchCategories(ctx context.Context, userID, storeID int64, q string) ([]*data.Category, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	return s.categories.SearchByName(ctx, storeID, strings.TrimSpace(q))
}

// CreateCategory adds a category. Names are unique within a store.
func (s *CatalogService) CreateCategory(ctx context.Context, userID, storeID int64, name string) (*data.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	c := &data.Category{StoreID: storeID, Name: name}
	id, err := s.categories.Save(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	c.ID = id
	return c, nil
}

// ownedCategory loads a category and checks store ownership.
func (s *CatalogService) ownedCategory(ctx context.Context, userID, id int64) (*data.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedStore(ctx, s.stores, c.StoreID, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// RenameCategory changes a category's name.
func (s *CatalogService) RenameCategory(ctx context.Context, userID, id int64, name string) (*data.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	c, err := s.ownedCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Rename(ctx, id, name); err != nil {
		return nil, fmt.Errorf("rename category %d: %w", id, err)
	}
	c.Name = name
	return c, nil
}

// DeleteCategory removes a category. Its products become uncategorised.
func (s *CatalogService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedCategory(ctx, userID, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

// ListProducts returns a store's products, optionally for one category.
func (s *CatalogService) ListProducts(ctx context.Context, userID, storeID int64, categoryID *int64) ([]*data.Product, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	products, err := s.products.ListByStore(ctx, storeID, categoryID)
	if err != nil {
		if degrade(s.log, err, "list products") {
			return []*data.Product{}, nil
		}
		return nil, err
	}
	return products, nil
}

// GetProduct returns a product of a store the user owns.
func (s *CatalogService) GetProduct(ctx context.Context, userID, id int64) (*data.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedStore(ctx, s.stores, p.StoreID, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct adds a product to a store.
func (s *CatalogService) CreateProduct(ctx context.Context, userID, storeID int64, in ProductInput) (*data.Product, error) {
	if _, err := ownedStore(ctx, s.stores, storeID, userID); err != nil {
		return nil, err
	}
	p := &data.Product{StoreID: storeID}
	if err := s.applyProductInput(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, userID, id int64, in ProductInput) (*data.Product, error) {
	p, err := s.GetProduct(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProductInput(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

// DeleteProduct removes a product. Past order lines keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, userID, id int64) error {
	if _, err := s.GetProduct(ctx, userID, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) applyProductInput(ctx context.Context, p *data.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("product name is required")
	}
	if in.PriceCents < 0 {
		return apperr.Validation("price must not be negative")
	}
	if in.Stock < 0 {
		return apperr.Validation("stock must not be negative")
	}
	productSlug := slug.Generate(in.Slug)
	if productSlug == "" {
		productSlug = slug.Generate(name)
	}
	if productSlug == "" {
		return apperr.Validation("product slug is required")
	}
	if in.CategoryID != nil {
		c, err := s.categories.GetByID(ctx, *in.CategoryID)
		if err != nil || c.StoreID != p.StoreID {
			return apperr.Validation("category %d does not belong to this store", *in.CategoryID)
		}
	}
	html, err := s.RenderDescription(in.Description)
	if err != nil {
		return err
	}

	p.CategoryID = in.CategoryID
	p.Name = name
	p.Slug = productSlug
	p.Description = in.Description
	p.DescriptionHTML = html
	p.PriceCents = in.PriceCents
	p.Stock = in.Stock
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.Active = in.Active
	return nil
}

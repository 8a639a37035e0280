package handler

import (
	"net/http"
	"strconv"

	"go-store-builder/internal/middleware"
	"go-store-builder/internal/service"
)

// CatalogHandler serves categories and products.
type CatalogHandler struct {
	catalog *service.CatalogService
	stores  StoreResolver
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, stores StoreResolver) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, stores: stores}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type productRequest struct {
	CategoryID  *int64 `json:"categoryId"`
	Name        string `json:"name" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"max=200"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents" validate:"min=0"`
	Stock       int    `json:"stock" validate:"min=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Active      *bool  `json:"active"`
}

func (req productRequest) input() service.ProductInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      active,
	}
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var err error
	var out interface{}
	if q := r.URL.Query().Get("q"); q != "" {
		out, err = h.catalog.SearchCategories(r.Context(), userID, store.ID, q)
	} else {
		out, err = h.catalog.ListCategories(r.Context(), userID, store.ID)
	}
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, out)
	return nil
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var req categoryRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	c, err := h.catalog.CreateCategory(r.Context(), userID, store.ID, req.Name)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, c)
	return nil
}

func (h *CatalogHandler) renameCategory(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	var req categoryRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	c, err := h.catalog.RenameCategory(r.Context(), userID, id, req.Name)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, c)
	return nil
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.catalog.DeleteCategory(r.Context(), userID, id); err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, nil)
	return nil
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var categoryID *int64
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return middleware.BadRequest("invalid category")
		}
		categoryID = &id
	}
	products, err := h.catalog.ListProducts(r.Context(), userID, store.ID, categoryID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, products)
	return nil
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	p, err := h.catalog.GetProduct(r.Context(), userID, id)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, p)
	return nil
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var req productRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	p, err := h.catalog.CreateProduct(r.Context(), userID, store.ID, req.input())
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, p)
	return nil
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	var req productRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	p, err := h.catalog.UpdateProduct(r.Context(), userID, id, req.input())
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, p)
	return nil
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.catalog.DeleteProduct(r.Context(), userID, id); err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, nil)
	return nil
}

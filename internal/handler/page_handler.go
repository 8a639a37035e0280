package handler

import (
	"encoding/json"
	"net/http"

	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
	"go-store-builder/internal/middleware"
	"go-store-builder/internal/service"

	"github.com/go-chi/chi/v5"
)

// PageHandler holds the dependencies for the page and component handlers.
type PageHandler struct {
	pageService *service.PageService
	stores      StoreResolver
	log         logger.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(ps *service.PageService, stores StoreResolver, log logger.Logger) *PageHandler {
	return &PageHandler{
		pageService: ps,
		stores:      stores,
		log:         log,
	}
}

type componentUpdateRequest struct {
	ComponentType string          `json:"componentType"`
	Content       json.RawMessage `json:"content"`
	Version       *int64          `json:"version,omitempty"`
}

type updatePageRequest struct {
	ComponentUpdates []componentUpdateRequest `json:"componentUpdates" validate:"required"`
}

type newComponentRequest struct {
	Type    string          `json:"type" validate:"required"`
	Content json.RawMessage `json:"content"`
	Order   *int            `json:"order,omitempty" validate:"omitempty,min=0"`
}

type newPageRequest struct {
	Title       string                `json:"title" validate:"required,max=200"`
	Slug        string                `json:"slug" validate:"max=200"`
	PageType    string                `json:"pageType"`
	IsPublished bool                  `json:"isPublished"`
	PageOrder   *int                  `json:"pageOrder,omitempty" validate:"omitempty,min=0"`
	Components  []newComponentRequest `json:"components" validate:"dive"`
}

type createPagesRequest struct {
	StoreID int64            `json:"storeId" validate:"required,gt=0"`
	Pages   []newPageRequest `json:"pages" validate:"required,min=1,dive"`
}

type updateComponentRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
	Version *int64          `json:"version,omitempty"`
}

// getPage returns the assembled page.
func (h *PageHandler) getPage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	page, err := h.pageService.GetPage(r.Context(), userID, id)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}

// updatePage applies a batch of component updates and returns the page.
func (h *PageHandler) updatePage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	var req updatePageRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}

	inputs := make([]service.ComponentInput, 0, len(req.ComponentUpdates))
	for _, u := range req.ComponentUpdates {
		inputs = append(inputs, service.ComponentInput{Type: u.ComponentType, Content: u.Content, Version: u.Version})
	}
	page, err := h.pageService.UpdateComponents(r.Context(), userID, id, inputs)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}

// deletePage removes a page.
func (h *PageHandler) deletePage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.pageService.DeletePage(r.Context(), userID, id); err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, nil)
	return nil
}

// listStorePages returns the store's pages filtered by ?slug= and ?type=.
func (h *PageHandler) listStorePages(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	filter := data.PageFilter{
		Slug:     r.URL.Query().Get("slug"),
		PageType: data.PageType(r.URL.Query().Get("type")),
	}
	pages, err := h.pageService.ListPages(r.Context(), userID, store.ID, filter)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, pages)
	return nil
}

// createPages creates pages with their initial components.
func (h *PageHandler) createPages(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req createPagesRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}

	inputs := make([]service.PageInput, 0, len(req.Pages))
	for _, p := range req.Pages {
		in := service.PageInput{
			Title:       p.Title,
			Slug:        p.Slug,
			PageType:    p.PageType,
			IsPublished: p.IsPublished,
			PageOrder:   p.PageOrder,
		}
		for _, c := range p.Components {
			in.Components = append(in.Components, service.NewComponentInput{Type: c.Type, Content: c.Content, Order: c.Order})
		}
		inputs = append(inputs, in)
	}
	pages, err := h.pageService.CreatePages(r.Context(), userID, req.StoreID, inputs)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, pages)
	return nil
}

// getComponent returns one component.
func (h *PageHandler) getComponent(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	c, err := h.pageService.GetComponent(r.Context(), userID, id)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, c)
	return nil
}

// updateComponent replaces one component's content.
func (h *PageHandler) updateComponent(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	var req updateComponentRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	c, err := h.pageService.UpdateComponent(r.Context(), userID, id, req.Content, req.Version)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, c)
	return nil
}

// publicPage serves a published page of a store to the storefront.
func (h *PageHandler) publicPage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	page, err := h.pageService.PublicPage(r.Context(), store.ID, chi.URLParam(r, "slug"))
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteJSON(w, http.StatusOK, page)
	return nil
}

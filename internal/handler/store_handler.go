package handler

import (
	"net/http"

	"go-store-builder/internal/docstore"
	"go-store-builder/internal/middleware"
	"go-store-builder/internal/service"

	"github.com/go-chi/chi/v5"
)

// StoreHandler serves stores, their payment gateway and website configuration.
type StoreHandler struct {
	stores   *service.StoreService
	websites *service.WebsiteService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(stores *service.StoreService, websites *service.WebsiteService) *StoreHandler {
	return &StoreHandler{stores: stores, websites: websites}
}

type createStoreRequest struct {
	Name        string `json:"name" validate:"required,max=63"`
	DisplayName string `json:"displayName" validate:"max=200"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
}

type gatewayRequest struct {
	Provider  string `json:"provider" validate:"required"`
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
	Enabled   bool   `json:"enabled"`
}

type websiteRequest struct {
	Theme    map[string]interface{} `json:"theme"`
	SEO      map[string]interface{} `json:"seo"`
	Settings map[string]interface{} `json:"settings"`
}

func (h *StoreHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	stores, err := h.stores.List(r.Context(), userID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, stores)
	return nil
}

func (h *StoreHandler) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req createStoreRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	store, err := h.stores.Create(r.Context(), userID, service.StoreInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Currency:    req.Currency,
	})
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, store)
	return nil
}

func (h *StoreHandler) get(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, err := h.stores.RequireOwner(r.Context(), userID, chi.URLParam(r, "store"))
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, store)
	return nil
}

func (h *StoreHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	if err := h.stores.Delete(r.Context(), userID, chi.URLParam(r, "store")); err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, nil)
	return nil
}

func (h *StoreHandler) summary(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	sum, err := h.stores.Summary(r.Context(), userID, chi.URLParam(r, "store"))
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, sum)
	return nil
}

func (h *StoreHandler) getGateway(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	g, err := h.stores.PaymentGateway(r.Context(), userID, chi.URLParam(r, "store"))
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, g)
	return nil
}

func (h *StoreHandler) saveGateway(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	var req gatewayRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	g, err := h.stores.SavePaymentGateway(r.Context(), userID, chi.URLParam(r, "store"), service.GatewayInput{
		Provider:  req.Provider,
		PublicKey: req.PublicKey,
		SecretKey: req.SecretKey,
		Enabled:   req.Enabled,
	})
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, g)
	return nil
}

func (h *StoreHandler) getWebsite(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	site, err := h.websites.Get(r.Context(), userID, store.ID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, site)
	return nil
}

func (h *StoreHandler) replaceWebsite(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var req websiteRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	site, err := h.websites.Replace(r.Context(), userID, store.ID, &docstore.Website{
		Theme:    req.Theme,
		SEO:      req.SEO,
		Settings: req.Settings,
	})
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, site)
	return nil
}

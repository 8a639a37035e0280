package handler

import (
	"net/http"

	"go-store-builder/internal/middleware"
	"go-store-builder/internal/service"
)

// CommerceHandler serves discounts, orders, customers and storefront checkout.
type CommerceHandler struct {
	discounts *service.DiscountService
	orders    *service.OrderService
	stores    StoreResolver
}

// NewCommerceHandler creates a new CommerceHandler.
func NewCommerceHandler(discounts *service.DiscountService, orders *service.OrderService, stores StoreResolver) *CommerceHandler {
	return &CommerceHandler{discounts: discounts, orders: orders, stores: stores}
}

type discountRequest struct {
	Code   string `json:"code" validate:"required,max=50"`
	Kind   string `json:"kind" validate:"required"`
	Value  int64  `json:"value" validate:"gt=0"`
	Active *bool  `json:"active"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type checkoutItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	Email        string                `json:"email" validate:"required,email"`
	Name         string                `json:"name" validate:"max=200"`
	DiscountCode string                `json:"discountCode"`
	Items        []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (h *CommerceHandler) listDiscounts(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	discounts, err := h.discounts.List(r.Context(), userID, store.ID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, discounts)
	return nil
}

func (h *CommerceHandler) createDiscount(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var req discountRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	active := req.Active == nil || *req.Active
	d, err := h.discounts.Create(r.Context(), userID, store.ID, service.DiscountInput{
		Code: req.Code, Kind: req.Kind, Value: req.Value, Active: active,
	})
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, d)
	return nil
}

func (h *CommerceHandler) deleteDiscount(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.discounts.Delete(r.Context(), userID, id); err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, nil)
	return nil
}

func (h *CommerceHandler) listCustomers(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	customers, err := h.orders.ListCustomers(r.Context(), userID, store.ID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, customers)
	return nil
}

func (h *CommerceHandler) listOrders(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	orders, err := h.orders.ListOrders(r.Context(), userID, store.ID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, orders)
	return nil
}

func (h *CommerceHandler) getOrder(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	o, err := h.orders.GetOrder(r.Context(), userID, id)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, o)
	return nil
}

func (h *CommerceHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	var req orderStatusRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	o, err := h.orders.UpdateStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, o)
	return nil
}

// checkout places a storefront order. No session is required.
func (h *CommerceHandler) checkout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	var req checkoutRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	in := service.CheckoutInput{Email: req.Email, Name: req.Name, DiscountCode: req.DiscountCode}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.orders.Checkout(r.Context(), store.ID, in)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, o)
	return nil
}

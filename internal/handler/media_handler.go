package handler

import (
	"errors"
	"net/http"

	"go-store-builder/internal/middleware"
	"go-store-builder/internal/service"
)

// maxUploadBytes bounds a single media upload.
const maxUploadBytes = 10 << 20

// MediaHandler serves media uploads.
type MediaHandler struct {
	media  *service.MediaService
	stores StoreResolver
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media *service.MediaService, stores StoreResolver) *MediaHandler {
	return &MediaHandler{media: media, stores: stores}
}

func (h *MediaHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	items, err := h.media.List(r.Context(), userID, store.ID)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, items)
	return nil
}

// upload accepts a multipart form with a single "file" part.
func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return middleware.BadRequest("file is too large")
		}
		return middleware.BadRequest("file is required")
	}
	defer file.Close()

	m, err := h.media.Upload(r.Context(), userID, store.ID, header.Filename, header.Size, file)
	if err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusCreated, m)
	return nil
}

func (h *MediaHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}
	if err := h.media.Delete(r.Context(), userID, id); err != nil {
		return middleware.FromError(err)
	}
	middleware.WriteData(w, http.StatusOK, nil)
	return nil
}

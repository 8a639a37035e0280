package service

import (
	"context"
	"fmt"
	"net/http"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/data"
	"go-store-builder/internal/logger"
)

// StoreLookup resolves stores for ownership checks.
type StoreLookup interface {
	GetByID(ctx context.Context, id int64) (*data.Store, error)
}

// Publisher delivers live events to a store's dashboard subscribers.
type Publisher interface {
	Publish(storeID int64, eventType string, data any)
}

// ownedStore loads a store and checks that userID owns it.
func ownedStore(ctx context.Context, stores StoreLookup, storeID, userID int64) (*data.Store, error) {
	store, err := stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load store %d: %w", storeID, err)
	}
	if store.OwnerID != userID {
		return nil, apperr.Forbidden("You do not have access to this store")
	}
	return store, nil
}

// degrade logs a failed dashboard read and reports whether the caller should
// fall back to an empty result. Authorization and lookup failures are never
// swallowed.
func degrade(log logger.Logger, err error, what string) bool {
	if apperr.StatusCode(err) != http.StatusInternalServerError {
		return false
	}
	log.With(map[string]interface{}{"error": err.Error()}).Warn(what + " failed, returning empty result")
	return true
}

// Package docstore keeps free-form per-store website configuration (theme,
// SEO defaults, settings) in MongoDB. Pages and components never live here.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDisabled is returned when no document store is configured.
var ErrDisabled = fmt.Errorf("document store not configured: %w", apperr.ErrUnavailable)

// CollectionName is the collection holding one document per store.
const CollectionName = "website_configs"

// Website is the document stored for a store, keyed by the store ID.
type Website struct {
	StoreID   int64                  `bson:"_id" json:"storeId"`
	Theme     map[string]interface{} `bson:"theme" json:"theme"`
	SEO       map[string]interface{} `bson:"seo" json:"seo"`
	Settings  map[string]interface{} `bson:"settings" json:"settings"`
	UpdatedAt *time.Time             `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// normalize replaces nil maps so callers always see objects.
func (w *Website) normalize() {
	if w.Theme == nil {
		w.Theme = map[string]interface{}{}
	}
	if w.SEO == nil {
		w.SEO = map[string]interface{}{}
	}
	if w.Settings == nil {
		w.Settings = map[string]interface{}{}
	}
}

// Connect opens a client for the configured deployment and verifies it.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// WebsiteStore reads and writes website documents.
type WebsiteStore struct {
	coll *mongo.Collection
}

// NewWebsiteStore creates a WebsiteStore over a collection.
func NewWebsiteStore(coll *mongo.Collection) *WebsiteStore {
	return &WebsiteStore{coll: coll}
}

// Get returns a store's website configuration. A store that never saved one
// gets empty maps.
func (s *WebsiteStore) Get(ctx context.Context, storeID int64) (*Website, error) {
	var w Website
	err := s.coll.FindOne(ctx, bson.M{"_id": storeID}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		w = Website{StoreID: storeID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get website config: %w", err)
	}
	w.normalize()
	return &w, nil
}

// Replace stores w as the store's website configuration, creating the
// document if needed.
func (s *WebsiteStore) Replace(ctx context.Context, w *Website) error {
	w.normalize()
	now := time.Now().UTC()
	w.UpdatedAt = &now
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": w.StoreID}, w, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save website config: %w", err)
	}
	return nil
}

// Delete removes a store's document. A missing document is not an error.
func (s *WebsiteStore) Delete(ctx context.Context, storeID int64) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": storeID}); err != nil {
		return fmt.Errorf("failed to delete website config: %w", err)
	}
	return nil
}

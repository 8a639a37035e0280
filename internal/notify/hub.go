// Package notify is the per-store event registry behind the dashboard's
// live updates. Subscriptions are explicit: a connection subscribes to one
// store on connect and unsubscribes on disconnect.
package notify

import (
	"sync"
	"time"

	"go-store-builder/internal/logger"
	"go-store-builder/internal/metrics"

	"github.com/google/uuid"
)

// Event types published by the services.
const (
	EventPageUpdated  = "page.updated"
	EventOrderCreated = "order.created"
)

// DefaultBuffer is the per-subscriber queue length used by NewHub when a
// non-positive size is given.
const DefaultBuffer = 16

// Event is one notification delivered to a store's subscribers.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	StoreID int64     `json:"storeId"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

// Subscription is a single connection's view of a store's events.
type Subscription struct {
	id      string
	storeID int64
	events  chan Event
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() string { return s.id }

// StoreID is the store the subscription listens to.
func (s *Subscription) StoreID() int64 { return s.storeID }

// Events yields published events. It is closed by Unsubscribe.
func (s *Subscription) Events() <-chan Event { return s.events }

// Hub fans events out to the subscribers of each store.
type Hub struct {
	mu     sync.Mutex
	subs   map[int64]map[string]*Subscription
	buffer int
	log    logger.Logger
}

// NewHub creates an empty Hub.
func NewHub(log logger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[int64]map[string]*Subscription),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a new subscription for a store.
func (h *Hub) Subscribe(storeID int64) *Subscription {
	s := &Subscription{
		id:      uuid.NewString(),
		storeID: storeID,
		events:  make(chan Event, h.buffer),
	}

	h.mu.Lock()
	if h.subs[storeID] == nil {
		h.subs[storeID] = make(map[string]*Subscription)
	}
	h.subs[storeID][s.id] = s
	h.mu.Unlock()

	metrics.SubscriberAdded()
	h.log.With(map[string]interface{}{"store_id": storeID, "subscription": s.id}).Debug("subscription opened")
	return s
}

// Unsubscribe removes a subscription and closes its channel. Calling it
// more than once is harmless.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	byID, ok := h.subs[s.storeID]
	if !ok || byID[s.id] == nil {
		h.mu.Unlock()
		return
	}
	delete(byID, s.id)
	if len(byID) == 0 {
		delete(h.subs, s.storeID)
	}
	close(s.events)
	h.mu.Unlock()

	metrics.SubscriberRemoved()
	h.log.With(map[string]interface{}{"store_id": s.storeID, "subscription": s.id}).Debug("subscription closed")
}

// Publish delivers an event to every subscriber of a store without
// blocking. A subscriber whose queue is full misses the event.
func (h *Hub) Publish(storeID int64, eventType string, data any) {
	ev := Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		StoreID: storeID,
		Data:    data,
		At:      time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs[storeID] {
		select {
		case s.events <- ev:
		default:
			metrics.RecordDroppedEvent(eventType)
			h.log.With(map[string]interface{}{
				"store_id":     storeID,
				"subscription": s.id,
				"event":        eventType,
			}).Warn("dropping event for slow subscriber")
		}
	}
}

// Subscribers reports how many subscriptions a store has.
func (h *Hub) Subscribers(storeID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[storeID])
}

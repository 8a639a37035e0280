package handler

import (
	"net/http"
	"time"

	"go-store-builder/internal/logger"
	"go-store-builder/internal/middleware"
	"go-store-builder/internal/notify"
	"go-store-builder/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// EventsHandler streams a store's notifications over a websocket.
type EventsHandler struct {
	hub      *notify.Hub
	stores   *service.StoreService
	upgrader websocket.Upgrader
	log      logger.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *notify.Hub, stores *service.StoreService, log logger.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		stores: stores,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// hijacker unwraps middleware response writers until one can be hijacked.
func hijacker(w http.ResponseWriter) http.ResponseWriter {
	for cur := w; ; {
		if _, ok := cur.(http.Hijacker); ok {
			return cur
		}
		u, ok := cur.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return w
		}
		cur = u.Unwrap()
	}
}

// subscribe upgrades the connection and forwards the store's events until
// the client goes away.
func (h *EventsHandler) subscribe(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userID, appErr := currentUser(r)
	if appErr != nil {
		return appErr
	}
	store, err := h.stores.RequireOwner(r.Context(), userID, chi.URLParam(r, "store"))
	if err != nil {
		return middleware.FromError(err)
	}

	conn, err := h.upgrader.Upgrade(hijacker(w), r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.log.With(map[string]interface{}{"error": err.Error()}).Debug("websocket upgrade failed")
		return nil
	}
	sub := h.hub.Subscribe(store.ID)
	log := h.log.With(map[string]interface{}{"store_id": store.ID, "subscription": sub.ID()})
	log.Debug("subscriber connected")

	done := make(chan struct{})
	go h.readLoop(conn, done)
	h.writeLoop(conn, sub, done)

	h.hub.Unsubscribe(sub)
	_ = conn.Close()
	log.Debug("subscriber disconnected")
	return nil
}

// readLoop discards client messages and closes done when the peer leaves.
func (h *EventsHandler) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (h *EventsHandler) writeLoop(conn *websocket.Conn, sub *notify.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

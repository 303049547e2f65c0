package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pairing-service/internal/models"
	"pairing-service/internal/observability"
)

// ErrConnectionGone reports a recipient whose connection is no longer
// registered.
var ErrConnectionGone = errors.New("connection gone")

// Hub maintains the active websocket connections, keyed by connection
// id. It is the transport adapter the game service emits through.
type Hub struct {
	conns map[string]*websocket.Conn
	info  map[string]ConnInfo
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*websocket.Conn),
		info:  make(map[string]ConnInfo),
	}
}

// Add registers a websocket connection under its id.
func (h *Hub) Add(conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[info.ConnID] = conn
	h.info[info.ConnID] = info
}

// Remove drops a connection from the hub.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connID)
	delete(h.info, connID)
}

// EmitTo sends one event to a single connection. A missing connection
// returns ErrConnectionGone; a write failure closes and unregisters the
// connection.
func (h *Hub) EmitTo(connID string, event string, payload any) error {
	h.mu.RLock()
	conn, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return ErrConnectionGone
	}

	data, _ := json.Marshal(models.ServerEvent{Event: event, Data: payload})
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("websocket write error: %v", err)
		conn.Close()
		h.publishWSError(connID, err)
		h.Remove(connID)
		return err
	}
	return nil
}

// Broadcast sends one event to every registered connection.
func (h *Hub) Broadcast(event string, payload any) {
	h.mu.RLock()
	conns := make(map[string]*websocket.Conn, len(h.conns))
	for id, conn := range h.conns {
		conns[id] = conn
	}
	h.mu.RUnlock()

	data, _ := json.Marshal(models.ServerEvent{Event: event, Data: payload})
	for id, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.publishWSError(id, err)
			h.Remove(id)
		}
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) publishWSError(connID string, err error) {
	h.mu.RLock()
	info, ok := h.info[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), observability.WSEventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}

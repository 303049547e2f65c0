package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"pairing-service/internal/game"
	"pairing-service/internal/models"
	"pairing-service/internal/observability"
	"pairing-service/internal/repositories"
)

// GameWebSocketHandler owns the single pairing websocket endpoint. Every
// client event arrives here as a tagged envelope and is decoded into its
// typed payload before the game service sees it.
type GameWebSocketHandler struct {
	hub    *Hub
	game   *game.Service
	tokens repositories.TokenRepository
}

// NewGameWebSocketHandler constructs a GameWebSocketHandler.
func NewGameWebSocketHandler(hub *Hub, gameService *game.Service, tokens repositories.TokenRepository) *GameWebSocketHandler {
	return &GameWebSocketHandler{hub: hub, game: gameService, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, registers it with the hub and starts
// the event read loop. Anonymous connections are allowed.
func (h *GameWebSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("pairing-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.Add(conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.publishLifecycle(ctx, info, "ws_connect", "")

	go h.readLoop(ctx, conn, info)
}

func (h *GameWebSocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.game.Leave(info.ConnID)
		h.hub.Remove(info.ConnID)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		h.publishLifecycle(ctx, info, "ws_disconnect", closeReason)
		conn.Close()
	}()

	for {
		var event models.ClientEvent
		if err := conn.ReadJSON(&event); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				h.publishLifecycle(ctx, info, "ws_error", closeReason)
			}
			return
		}
		h.dispatch(ctx, info.ConnID, event)
	}
}

func (h *GameWebSocketHandler) dispatch(ctx context.Context, connID string, event models.ClientEvent) {
	observability.IncWSEvent(event.Event)

	switch event.Event {
	case models.EventJoinWaiting:
		var payload models.JoinWaitingPayload
		if !h.decode(connID, event.Data, &payload) {
			return
		}
		userID := ""
		if payload.Token != "" {
			user, err := h.tokens.Verify(ctx, payload.Token)
			if err != nil {
				h.sendError(connID, "auth_error", "invalid token")
				return
			}
			userID = user.ID
		}
		if err := h.game.Join(connID, payload, userID); err != nil {
			h.reportError(connID, err)
		}

	case models.EventLeaveWaiting:
		h.game.Leave(connID)

	case models.EventStartNewGame:
		h.game.StartNewGame(connID)

	case models.EventSubmitAnswer:
		var payload models.SubmitAnswerPayload
		if !h.decode(connID, event.Data, &payload) {
			return
		}
		if err := h.game.SubmitAnswer(connID, payload); err != nil {
			h.reportError(connID, err)
		}

	case models.EventSubmitActivityAnswer:
		var payload models.SubmitActivityAnswerPayload
		if !h.decode(connID, event.Data, &payload) {
			return
		}
		if err := h.game.SubmitActivityAnswer(connID, payload); err != nil {
			h.reportError(connID, err)
		}

	default:
		h.sendError(connID, "unknown_event", "unrecognized event: "+event.Event)
	}
}

func (h *GameWebSocketHandler) decode(connID string, raw json.RawMessage, into any) bool {
	if len(raw) == 0 {
		h.sendError(connID, "validation_error", "missing event data")
		return false
	}
	if err := json.Unmarshal(raw, into); err != nil {
		h.sendError(connID, "validation_error", "malformed event data")
		return false
	}
	return true
}

func (h *GameWebSocketHandler) reportError(connID string, err error) {
	switch {
	case errors.Is(err, game.ErrValidation), errors.Is(err, game.ErrNotMember):
		h.sendError(connID, "validation_error", err.Error())
	case errors.Is(err, game.ErrSessionNotFound):
		h.sendError(connID, "not_found", "session not found")
	default:
		log.Printf("ws dispatch error for %s: %v", connID, err)
		h.sendError(connID, "server_error", "internal error")
	}
}

func (h *GameWebSocketHandler) sendError(connID, code, message string) {
	if err := h.hub.EmitTo(connID, models.EventError, models.ErrorPayload{Code: code, Message: message}); err != nil {
		log.Printf("error emit failed for %s: %v", connID, err)
	}
}

func (h *GameWebSocketHandler) publishLifecycle(ctx context.Context, info ConnInfo, event, reason string) {
	_ = observability.PublishEvent(ctx, observability.WSEventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairing-service/internal/game"
	"pairing-service/internal/repositories"
	"pairing-service/internal/telemetry"
)

// FriendHandler manages friend-relationship endpoints. All routes
// require an authenticated persistent identity.
type FriendHandler struct {
	friends repositories.FriendRepository
	users   repositories.UserRepository
	game    *game.Service
	audit   *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(friends repositories.FriendRepository, users repositories.UserRepository, gameService *game.Service, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{friends: friends, users: users, game: gameService, audit: audit}
}

// SendRequest handles POST /api/friends/requests. The target is either
// named directly or resolved from a live session's co-member.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		TargetID      string `json:"target_id"`
		SessionID     string `json:"session_id"`
		ConnID        string `json:"connection_id"`
		PartnerConnID string `json:"partner_connection_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID := req.TargetID
	if targetID == "" && req.SessionID != "" {
		partnerID, err := h.game.PartnerUserID(req.SessionID, req.ConnID, req.PartnerConnID)
		if err != nil {
			if errors.Is(err, game.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if partnerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "participant has no account"})
			return
		}
		targetID = partnerID
	}
	if targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id is required"})
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	edge, err := h.friends.SendRequest(c.Request.Context(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSelfFriend):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot friend yourself"})
		case errors.Is(err, repositories.ErrAlreadyFriends):
			c.JSON(http.StatusConflict, gin.H{"error": "already friends", "code": "AlreadyFriends"})
		case errors.Is(err, repositories.ErrDuplicateRequest):
			c.JSON(http.StatusConflict, gin.H{"error": "request already sent", "code": "DuplicateRequest"})
		default:
			h.emitAudit(c, telemetry.LevelError, "friend request failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send request"})
		}
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "friend request sent")
	c.JSON(http.StatusCreated, gin.H{"id": edge.ID, "status": edge.Status})
}

// AcceptRequest handles POST /api/friends/requests/:requester_id/accept.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID := c.GetString("userID")
	requesterID := c.Param("requester_id")

	if err := h.friends.AcceptRequest(c.Request.Context(), userID, requesterID); err != nil {
		if errors.Is(err, repositories.ErrNoPendingRequest) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending friend request"})
			return
		}
		h.emitAudit(c, telemetry.LevelError, "friend accept failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not accept request"})
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "friend request accepted")
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// RejectRequest handles POST /api/friends/requests/:requester_id/reject.
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	userID := c.GetString("userID")
	requesterID := c.Param("requester_id")

	if err := h.friends.RejectRequest(c.Request.Context(), userID, requesterID); err != nil {
		if errors.Is(err, repositories.ErrNoPendingRequest) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending friend request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reject request"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveFriend handles DELETE /api/friends/:friend_id. Idempotent.
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	userID := c.GetString("userID")
	friendID := c.Param("friend_id")

	removed, err := h.friends.RemoveFriend(c.Request.Context(), userID, friendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove friend"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ListFriends handles GET /api/friends.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.GetString("userID")

	friends, err := h.friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// ListIncomingRequests handles GET /api/friends/requests.
func (h *FriendHandler) ListIncomingRequests(c *gin.Context) {
	userID := c.GetString("userID")

	requests, err := h.friends.ListIncomingRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListOutgoingRequests handles GET /api/friends/requests/sent.
func (h *FriendHandler) ListOutgoingRequests(c *gin.Context) {
	userID := c.GetString("userID")

	requests, err := h.friends.ListOutgoingRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sent requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

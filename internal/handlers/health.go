package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pairing-service/internal/game"
	"pairing-service/internal/repositories"
)

// HealthHandler exposes liveness and registry sizes.
type HealthHandler struct {
	game  *game.Service
	users repositories.UserRepository
}

// NewHealthHandler builds a HealthHandler.
func NewHealthHandler(gameService *game.Service, users repositories.UserRepository) *HealthHandler {
	return &HealthHandler{game: gameService, users: users}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *gin.Context) {
	participants, sessions := h.game.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"users":     participants,
		"sessions":  sessions,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// WaitingUsers handles GET /api/users.
func (h *HealthHandler) WaitingUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.game.WaitingList()})
}

// Stats handles GET /api/stats.
func (h *HealthHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

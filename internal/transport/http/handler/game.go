package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mafia-game/mafia-backend/internal/domain"
	"github.com/mafia-game/mafia-backend/internal/transport/http/middleware"
)

// GameHandler serves the placeholder gameplay endpoints and the role
// catalog. Actions validate nothing and mutate nothing — they echo the
// request back for an authenticated caller until the game engine lands.
type GameHandler struct {
	logger *slog.Logger
}

func NewGameHandler(logger *slog.Logger) *GameHandler {
	return &GameHandler{logger: logger.With("component", "game_handler")}
}

type voteRequest struct {
	TargetPlayerID int64 `json:"target_player_id" binding:"required"`
}

// POST /actions/vote
func (h *GameHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"actor":     user.Username,
		"voted_for": req.TargetPlayerID,
	})
}

type mafiaKillRequest struct {
	TargetPlayerID int64 `json:"target_player_id" binding:"required"`
}

// POST /actions/night/mafia-kill
func (h *GameHandler) MafiaKill(c *gin.Context) {
	var req mafiaKillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"actor":             user.Username,
		"target_eliminated": req.TargetPlayerID,
	})
}

// GET /catalog/roles
func (h *GameHandler) Roles(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Roles())
}

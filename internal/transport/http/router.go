package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/mafia-game/mafia-backend/internal/repository"
	"github.com/mafia-game/mafia-backend/internal/transport/http/handler"
	"github.com/mafia-game/mafia-backend/internal/transport/http/middleware"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, gameHandler *handler.GameHandler, userRepo repository.UserRepository, hmacKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(hmacKey)
	loadUser := middleware.LoadUser(userRepo)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.GET("/confirm-email", authHandler.ConfirmEmail)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authMW, loadUser, authHandler.Me)

	// Placeholder gameplay routes — authenticated, no game state yet
	actions := r.Group("/actions", authMW, loadUser)
	actions.POST("/vote", gameHandler.Vote)
	actions.POST("/night/mafia-kill", gameHandler.MafiaKill)

	catalog := r.Group("/catalog")
	catalog.GET("/roles", gameHandler.Roles)

	return r
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mafia-game/mafia-backend/internal/domain"
	"github.com/mafia-game/mafia-backend/internal/metrics"
	"github.com/mafia-game/mafia-backend/internal/transport/http/middleware"
	"github.com/mafia-game/mafia-backend/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, email, username, password string) (*usecase.RegisterOutput, error)
	ConfirmEmail(ctx context.Context, rawToken string) error
	Login(ctx context.Context, username, password string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type publicUser struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := h.authUsecase.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errDuplicateAccount})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	// The account exists even if the confirmation email failed; the
	// user can re-request the link via forgot-password support paths.
	if out.NotifyErr != nil {
		h.logger.ErrorContext(c.Request.Context(), "confirm email not sent", "error", out.NotifyErr)
	}

	metrics.RegistrationsTotal.Inc()
	metrics.EmailTokensIssuedTotal.WithLabelValues(string(domain.PurposeConfirm)).Inc()

	c.JSON(http.StatusOK, publicUser{
		ID:         out.User.ID,
		Username:   out.User.Username,
		Email:      out.User.Email,
		IsVerified: out.User.IsVerified,
	})
}

// GET /auth/confirm-email?token=<raw>
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		return
	}

	err := h.authUsecase.ConfirmEmail(c.Request.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.EmailTokensRedeemedTotal.WithLabelValues(string(domain.PurposeConfirm), "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.EmailTokensRedeemedTotal.WithLabelValues(string(domain.PurposeConfirm), "expired").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "confirm email", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.EmailTokensRedeemedTotal.WithLabelValues(string(domain.PurposeConfirm), "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "email_confirmed"})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
// Unknown username and wrong password answer with the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authUsecase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
		case errors.Is(err, domain.ErrEmailNotConfirmed):
			metrics.LoginsTotal.WithLabelValues("unconfirmed").Inc()
			c.JSON(http.StatusForbidden, gin.H{"error": errEmailNotConfirmed})
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/forgot-password
// Always returns 200 so the response never reveals whether the account
// exists. Failures are logged, not surfaced.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "forgot password", "error", err)
	} else {
		metrics.EmailTokensIssuedTotal.WithLabelValues(string(domain.PurposeReset)).Inc()
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"        binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authUsecase.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.EmailTokensRedeemedTotal.WithLabelValues(string(domain.PurposeReset), "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.EmailTokensRedeemedTotal.WithLabelValues(string(domain.PurposeReset), "expired").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "reset password", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.EmailTokensRedeemedTotal.WithLabelValues(string(domain.PurposeReset), "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "password_reset"})
}

// GET /auth/me
// Runs behind Auth + LoadUser; the account in context is already
// re-checked against the store.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, publicUser{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	})
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/pkg/clients/supabase"
)

// Authenticator is the backend auth surface used by the login view.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (supabase.Session, error)
	SignOut(ctx context.Context) error
}

// AuthHandler serves the login surface.
type AuthHandler struct {
	backend Authenticator
	logger  *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(backend Authenticator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{backend: backend, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login signs the operator in against the remote auth service. Failures are
// reported inline and never retried.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	session, err := h.backend.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign in failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusUnauthorized, errorBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":      session.Email,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout invalidates the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.backend.SignOut(c.Request.Context()); err != nil {
		h.logger.Warn("sign out failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

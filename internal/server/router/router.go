package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/server/handlers"
	"github.com/emreacar/kafepos/pkg/clients/supabase"
)

// SessionGate guards the mutation and reporting views: requests pass only
// with a live backend session, with one silent refresh attempt before the
// caller is sent back to the login surface.
type SessionGate interface {
	Authenticated() bool
	Session() *supabase.Session
	Refresh(ctx context.Context) (supabase.Session, error)
}

// New wires the Gin engine with required routes and middlewares.
func New(gate SessionGate, auth *handlers.AuthHandler, menu *handlers.MenuHandler, panel *handlers.PanelHandler, reports *handlers.ReportsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/api/menu", menu.Menu)
	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/logout", auth.Logout)

	protected := r.Group("/api", sessionRequired(gate, logger))
	protected.GET("/panel", panel.Panel)
	protected.POST("/panel/stock", panel.AdjustStock)
	protected.GET("/reports", reports.Report)
	protected.POST("/expenses", reports.CreateExpense)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func sessionRequired(gate SessionGate, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if gate.Authenticated() {
			c.Next()
			return
		}

		// Expired but refreshable sessions get one silent renewal.
		if gate.Session() != nil {
			if _, err := gate.Refresh(c.Request.Context()); err == nil {
				c.Next()
				return
			} else {
				logger.Warn("session refresh failed", zap.Error(err))
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":    "authentication required",
			"redirect": "/login",
		})
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

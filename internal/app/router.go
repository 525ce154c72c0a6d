package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"coursepay/internal/handler"
	"coursepay/internal/middleware"
)

// Version is reported by the root endpoint. Overridden at build time with -ldflags.
var Version = "1.0.0"

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	WebhookHandler *handler.WebhookHandler
	NewRelicApp    *newrelic.Application
	Logger         *slog.Logger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "LMS payments API", "version": Version})
	})

	v1 := router.Group("/api/v1")
	{
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/payfast", deps.WebhookHandler.PayFastITN)
			webhooks.GET("/health", deps.WebhookHandler.Health)
		}
	}

	return router
}

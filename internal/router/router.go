package router

import (
	"go-bridge/internal/bridge"
	"go-bridge/internal/endpoint"
	"go-bridge/internal/handlers"
	"go-bridge/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// SetupRouter wires the admin and observability surface around the
// endpoint. Value-moving operations are not exposed over HTTP: bridging is
// caller-initiated on-chain and inbound delivery comes from connectors.
func SetupRouter(ep *endpoint.Endpoint, hooks map[string]bridge.Hook, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	statusHandler := handlers.NewStatusHandler(ep)
	authHandler := handlers.NewAuthHandler(logger)
	retryHandler := handlers.NewRetryHandler(ep, logger)
	adminHandler := handlers.NewAdminBridgeHandler(ep, hooks, logger)
	adminAuth := middleware.NewAdminAuthMiddleware(logger)

	r.GET("/health", statusHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/ledger/status", statusHandler.LedgerStatus)
		api.POST("/retry", retryHandler.HandleRetry)

		admin := api.Group("/admin")
		admin.POST("/login", authHandler.Login)

		protected := admin.Group("")
		protected.Use(adminAuth.RequireAdminAuth())
		{
			protected.POST("/pools", adminHandler.UpdatePools)
			protected.POST("/hook", adminHandler.UpdateHook)
		}
	}

	return r
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": c.Writer.Status(),
			"client": c.ClientIP(),
		}).Debug("http request")
	}
}

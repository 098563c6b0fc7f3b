package handlers

import (
	"net/http"
	"time"

	"go-bridge/internal/endpoint"

	"github.com/gin-gonic/gin"
)

// StatusHandler serves the endpoint's observable accounting state.
type StatusHandler struct {
	endpoint  *endpoint.Endpoint
	startedAt time.Time
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(ep *endpoint.Endpoint) *StatusHandler {
	return &StatusHandler{endpoint: ep, startedAt: time.Now()}
}

// LedgerStatus returns the circulating supply, pool balances, bindings and
// pending transfer count.
func (h *StatusHandler) LedgerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": h.endpoint.CurrentStatus()})
}

// Health is the liveness probe.
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

package handlers

import (
	"errors"
	"net/http"

	"go-bridge/internal/bridge"
	"go-bridge/internal/endpoint"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminBridgeHandler exposes the endpoint's administrative operations.
type AdminBridgeHandler struct {
	endpoint *endpoint.Endpoint
	hooks    map[string]bridge.Hook // registered hooks by name, wired in main
	logger   *logrus.Logger
}

// NewAdminBridgeHandler creates the handler. hooks maps operator-facing
// names to the hook implementations available for installation.
func NewAdminBridgeHandler(ep *endpoint.Endpoint, hooks map[string]bridge.Hook, logger *logrus.Logger) *AdminBridgeHandler {
	return &AdminBridgeHandler{endpoint: ep, hooks: hooks, logger: logger}
}

// UpdatePoolsRequest is a bulk connector→pool rebinding.
type UpdatePoolsRequest struct {
	Connectors []string `json:"connectors" binding:"required"`
	PoolIDs    []uint64 `json:"pool_ids" binding:"required"`
}

// UpdatePools rebinds connectors to pools in one atomic batch.
func (h *AdminBridgeHandler) UpdatePools(c *gin.Context) {
	var req UpdatePoolsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if len(req.Connectors) != len(req.PoolIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "connectors and pool_ids must have the same length"})
		return
	}

	connectors := make([]common.Address, len(req.Connectors))
	for i, addr := range req.Connectors {
		if !common.IsHexAddress(addr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid connector address: " + addr})
			return
		}
		connectors[i] = common.HexToAddress(addr)
	}

	if err := h.endpoint.UpdateConnectorPools(c.Request.Context(), connectors, req.PoolIDs); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, bridge.ErrInvalidPoolID) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": len(connectors)})
}

// UpdateHookRequest installs a registered hook by name.
type UpdateHookRequest struct {
	Hook    string `json:"hook" binding:"required"`
	Approve bool   `json:"approve"`
}

// UpdateHook replaces the endpoint's policy hook.
func (h *AdminBridgeHandler) UpdateHook(c *gin.Context) {
	var req UpdateHookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	hook, ok := h.hooks[req.Hook]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown hook: " + req.Hook})
		return
	}

	if err := h.endpoint.UpdateHook(c.Request.Context(), hook, req.Approve); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"hook":    req.Hook,
		"approve": req.Approve,
		"admin":   c.GetString("admin_username"),
	}).Info("hook updated via admin API")
	c.JSON(http.StatusOK, gin.H{"success": true, "hook": hook.Address().Hex()})
}

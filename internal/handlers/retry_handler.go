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

// RetryHandler triggers completion of deferred inbound transfers.
type RetryHandler struct {
	endpoint *endpoint.Endpoint
	logger   *logrus.Logger
}

// NewRetryHandler creates a RetryHandler.
func NewRetryHandler(ep *endpoint.Endpoint, logger *logrus.Logger) *RetryHandler {
	return &RetryHandler{endpoint: ep, logger: logger}
}

// RetryRequest identifies one deferred transfer.
type RetryRequest struct {
	Connector string `json:"connector" binding:"required"`
	MessageID string `json:"message_id" binding:"required"`
}

// HandleRetry re-presents a deferred transfer to the hook layer.
func (h *RetryHandler) HandleRetry(c *gin.Context) {
	var req RetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !common.IsHexAddress(req.Connector) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid connector address"})
		return
	}

	connector := common.HexToAddress(req.Connector)
	messageID := common.HexToHash(req.MessageID)

	err := h.endpoint.Retry(c.Request.Context(), connector, messageID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, bridge.ErrUnknownOrCompletedMessage):
			status = http.StatusNotFound
		case errors.Is(err, bridge.ErrReentrancyDetected):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"connector":  connector.Hex(),
		"message_id": messageID.Hex(),
	}).Info("retry completed via API")
	c.JSON(http.StatusOK, gin.H{"success": true, "message_id": messageID.Hex()})
}

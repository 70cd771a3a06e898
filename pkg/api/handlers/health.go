package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/lampbridge/pkg/api/types"
	"github.com/urmzd/lampbridge/pkg/lamp"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	publisher lamp.Publisher
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(publisher lamp.Publisher) *HealthHandler {
	return &HealthHandler{publisher: publisher}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and the MQTT publisher
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	publisherStatus := "disconnected"
	if h.publisher.IsConnected() {
		publisherStatus = "connected"
	}

	status := "healthy"
	httpStatus := http.StatusOK

	if publisherStatus != "connected" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Publisher: publisherStatus,
		Timestamp: time.Now(),
	})
}

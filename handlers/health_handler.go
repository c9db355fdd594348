package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthService HealthServiceInterface
}

func NewHealthHandler(healthService HealthServiceInterface) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// HealthCheck answers 200 with an empty body while the process is serving.
// @Summary Health check
// @Tags health
// @Success 200
// @Router /health_check [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{Status: string(types.HealthStatusUp)})
}

// ReadinessCheck reports 503 when the database is unreachable.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

// DetailedHealth provides detailed health information
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	c.JSON(http.StatusOK, health)
}

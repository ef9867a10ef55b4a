package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/carrier-gateway/internal/core/service"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe. The gateway
// keeps no local state, so readiness means at least one carrier adapter was
// configured and registered.
type ReadinessHandler struct {
	registry *service.Registry
}

func NewReadinessHandler(registry *service.Registry) *ReadinessHandler {
	return &ReadinessHandler{registry: registry}
}

type readinessResponse struct {
	Status   string   `json:"status"`
	Carriers []string `json:"carriers"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	carriers := h.registry.Names()
	if len(carriers) == 0 {
		return c.JSON(http.StatusServiceUnavailable, readinessResponse{
			Status:   "degraded",
			Carriers: []string{},
		})
	}
	return c.JSON(http.StatusOK, readinessResponse{
		Status:   "ok",
		Carriers: carriers,
	})
}

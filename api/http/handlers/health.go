package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/travelinfo/api/http/presenter"
	"github.com/artem13815/travelinfo/pkg/health"
)

const readinessTimeout = 2 * time.Second

type statusResponse struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct{ svc health.ReadinessUseCase }

func NewHealthHandler(svc health.ReadinessUseCase) *HealthHandler { return &HealthHandler{svc: svc} }

// Health reports that the process is serving.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} statusResponse
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, statusResponse{Status: "ok"})
}

// Ready probes the configured user store. The country upstream is not
// probed: its outages surface per request as 500s.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} statusResponse
// @Failure 503 {object} statusResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		return presenter.JSON(c, http.StatusServiceUnavailable, statusResponse{Status: "not_ready", Details: err.Error()})
	}
	return presenter.JSON(c, http.StatusOK, statusResponse{Status: "ready"})
}

package handlers

import (
	"osa-partnership/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode string
	ping func() error
}

// NewHealthHandler creates a new health handler.
// ping reports database reachability; nil falls back to the shared connection.
func NewHealthHandler(mode string, ping func() error) *HealthHandler {
	if ping == nil {
		ping = config.HealthCheck
	}
	return &HealthHandler{mode: mode, ping: ping}
}

// APIInfo handles the API root
// @Summary API info
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/ [get]
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 OSA Partnership API v1.0 is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
		"version": "1.0.0",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "healthy"
	overall := "ok"
	status := fiber.StatusOK
	if err := h.ping(); err != nil {
		dbStatus = "unhealthy"
		overall = "degraded"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"api":      "healthy",
			"database": dbStatus,
		},
	})
}

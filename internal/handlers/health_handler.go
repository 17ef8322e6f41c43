package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medico-health/portal-api/internal/database"
	"github.com/medico-health/portal-api/internal/dto"
)

type HealthHandler struct {
	dbEnabled bool
}

func NewHealthHandler(dbEnabled bool) *HealthHandler {
	return &HealthHandler{dbEnabled: dbEnabled}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "disabled"
	if h.dbEnabled {
		dbStatus = "ok"
		if err := database.Ping(); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medico-health/portal-api/internal/dto"
)

// PagesHandler serves the navigation surface as minimal page
// descriptors; guarding happens in middleware, rendering belongs to
// the browser client.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Page(name, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dto.PageResponse{Page: name, Title: title})
	}
}

func (h *PagesHandler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Page not found",
	})
}

package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medico-health/portal-api/internal/auth"
	"github.com/medico-health/portal-api/internal/dto"
	"github.com/medico-health/portal-api/internal/guard"
	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/session"
)

// PageGuard gates a navigation target on the session state. While the
// session is loading it renders a placeholder; every denial redirects
// to the sign-in page, whatever the reason.
func PageGuard(sessions *session.Manager, requiredRole *profile.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := guard.Evaluate(sessions.Snapshot(), requiredRole)
		switch result.Decision {
		case guard.Loading:
			return c.JSON(dto.PageResponse{Page: "loading", Title: "Loading"})
		case guard.Denied:
			return c.Redirect(auth.RouteLogin, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RoleOf is a convenience for building PageGuard arguments.
func RoleOf(role profile.Role) *profile.Role {
	return &role
}

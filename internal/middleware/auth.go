package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/medico-health/portal-api/internal/config"
	"github.com/medico-health/portal-api/internal/dto"
	"github.com/medico-health/portal-api/internal/profile"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// RequireRole rejects tokens whose role claim differs from the one
// the route demands. Must run after JWTProtected.
func RequireRole(role profile.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ClaimRole(c) != string(role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "This page is restricted to " + string(role) + " accounts",
			})
		}
		return c.Next()
	}
}

// ClaimRole extracts the role claim from the verified token in the
// request context.
func ClaimRole(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// ClaimSubject extracts the identity key from the verified token.
func ClaimSubject(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

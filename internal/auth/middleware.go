package auth

import (
	"strings"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to access this resource")
	}
}

// ActorFromCtx returns the caller set by JWTMiddleware.
func ActorFromCtx(c *fiber.Ctx) (policy.Actor, error) {
	id, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok || id == 0 {
		return policy.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return policy.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	return policy.Actor{ID: id, Role: role}, nil
}

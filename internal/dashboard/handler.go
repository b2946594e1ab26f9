package dashboard

import (
	"time"

	"marketplace-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/dashboard
func DashboardHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		agg, err := For(db, actor)
		if err != nil {
			return err
		}
		d, err := agg.Build(c.UserContext(), time.Now())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"role":      d.Role(),
			"dashboard": d,
		})
	}
}

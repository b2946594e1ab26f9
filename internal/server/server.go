// Package server wires the HTTP application.
package server

import (
	"log/slog"
	"strings"
	"time"

	"marketplace-backend/internal/admin"
	"marketplace-backend/internal/audit"
	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/dashboard"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/property"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func New(cfg *config.Config, db *gorm.DB, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "marketplace-backend",
		ErrorHandler: errorHandler(log),
	})

	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOriginList(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Trace-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health-check", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	properties := property.NewService(db, log)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))
	api.Get("/marketplace", property.MarketplaceHandler(properties))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))
	protected.Get("/dashboard", dashboard.DashboardHandler(db))

	protected.Get("/properties", property.ListPropertiesHandler(properties))
	protected.Get("/properties/form-options", property.FormOptionsHandler(properties))
	protected.Get("/properties/:id", property.GetPropertyHandler(properties))
	protected.Post("/properties", property.CreatePropertyHandler(properties))
	protected.Put("/properties/:id", property.UpdatePropertyHandler(properties))
	protected.Delete("/properties/:id", property.DeletePropertyHandler(properties))

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", admin.CreateUserHandler(db))
	adminRoutes.Get("/users", admin.ListUsersHandler(db))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	return app
}

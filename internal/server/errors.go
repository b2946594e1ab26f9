package server

import (
	"errors"
	"log/slog"

	"marketplace-backend/internal/property"

	"github.com/gofiber/fiber/v2"
)

// errorHandler maps domain errors onto HTTP responses. Anything it does not
// recognise is logged and reported as a generic 500.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			fe   *fiber.Error
			verr *property.ValidationError
		)
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "The given data was invalid.",
				"fields": verr.Fields,
			})
		case errors.Is(err, property.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You are not allowed to perform this action.",
			})
		case errors.Is(err, property.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Resource not found.",
			})
		case errors.Is(err, property.ErrConstraint):
			log.WarnContext(c.UserContext(), "constraint violation", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "The request conflicts with stored data.",
			})
		case errors.As(err, &fe):
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}

		log.ErrorContext(c.UserContext(), "unexpected error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unexpected server error",
		})
	}
}

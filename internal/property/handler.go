package property

import (
	"marketplace-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func propertyID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Property not found")
	}
	return uint(id), nil
}

// -------------------------
// Public marketplace
// -------------------------

// GET /api/marketplace?search=&type=&listing_type=&min_price=&max_price=&page=
func MarketplaceHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := svc.Marketplace(c.UserContext(), ParseFilters(c.Queries()), c.QueryInt("page", 1))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"properties": NewPageResponse(m.Properties),
			"featured":   NewPropertyList(m.Featured),
			"stats":      m.Stats,
			"filters":    m.Filters,
		})
	}
}

// -------------------------
// Property CRUD
// -------------------------

// GET /api/properties?search=&type=&listing_type=&status=&min_price=&max_price=&page=
func ListPropertiesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		f := ParseFilters(c.Queries())
		page, err := svc.List(c.UserContext(), actor, f, c.QueryInt("page", 1))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"data":       NewPropertyList(page.Data),
			"pagination": page.Pagination,
			"filters":    f.Values(),
		})
	}
}

// GET /api/properties/form-options
func FormOptionsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		opts, err := svc.FormOptions(c.UserContext(), actor)
		if err != nil {
			return err
		}
		return c.JSON(newFormOptionsResponse(opts))
	}
}

// GET /api/properties/:id
func GetPropertyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := propertyID(c)
		if err != nil {
			return err
		}
		p, err := svc.Show(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(NewPropertyResponse(p))
	}
}

// POST /api/properties
func CreatePropertyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		var body Input
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		p, err := svc.Create(c.UserContext(), actor, body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(NewPropertyResponse(p))
	}
}

// PUT /api/properties/:id
func UpdatePropertyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := propertyID(c)
		if err != nil {
			return err
		}
		var body Input
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		p, err := svc.Update(c.UserContext(), actor, id, body)
		if err != nil {
			return err
		}
		return c.JSON(NewPropertyResponse(p))
	}
}

// DELETE /api/properties/:id
func DeletePropertyHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id, err := propertyID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

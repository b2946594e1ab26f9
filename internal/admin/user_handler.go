package admin

import (
	"errors"
	"strings"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
}

// ----------------------------------------
// USERS
// ----------------------------------------

// POST /api/admin/users
//
// Creates an agent or principal account. Admins are only created through the
// bootstrap endpoint.
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}
		if body.Role != models.RoleAgent && body.Role != models.RolePrincipal {
			return fiber.NewError(fiber.StatusBadRequest, "Role must be agent or principal")
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return err
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Role:         body.Role,
			Phone:        strings.TrimSpace(body.Phone),
			Address:      strings.TrimSpace(body.Address),
		}
		if err := db.WithContext(c.UserContext()).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Email is already registered")
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(auth.NewUserResponse(&user))
	}
}

// GET /api/admin/users?role=agent
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.WithContext(c.UserContext()).Model(&models.User{})
		if role := models.UserRole(c.Query("role")); role != "" {
			if !role.Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown role")
			}
			q = q.Where("role = ?", role)
		}

		var users []models.User
		if err := q.Order("name, id").Find(&users).Error; err != nil {
			return err
		}

		resp := make([]auth.UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, auth.NewUserResponse(&users[i]))
		}
		return c.JSON(resp)
	}
}

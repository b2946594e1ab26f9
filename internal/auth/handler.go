package auth

import (
	"errors"
	"strings"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID      uint            `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    models.UserRole `json:"role"`
	Phone   string          `json:"phone,omitempty"`
	Address string          `json:"address,omitempty"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Phone:   u.Phone,
		Address: u.Address,
	}
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fiber.NewError(fiber.StatusUnprocessableEntity, "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// POST /api/auth/register-admin
//
// Only works while no admin exists yet.
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		tx := db.WithContext(c.UserContext())

		var count int64
		if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "An admin already exists")
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return err
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Email is already registered")
			}
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(NewUserResponse(&user))
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := db.WithContext(c.UserContext()).Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.TokenTTL, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  NewUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromCtx(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).First(&user, actor.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "User no longer exists")
			}
			return err
		}

		return c.JSON(NewUserResponse(&user))
	}
}

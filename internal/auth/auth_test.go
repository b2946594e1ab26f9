package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

var testUser = &models.User{ID: 7, Email: "agent@example.test", Role: models.RoleAgent}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := auth.GenerateToken(secret, time.Hour, testUser)
	require.NoError(t, err)

	claims, err := auth.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAgent, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := auth.GenerateToken(secret, -time.Minute, testUser)
	require.NoError(t, err)
	_, err = auth.ParseToken(secret, expired)
	assert.Error(t, err)

	valid, err := auth.GenerateToken(secret, time.Hour, testUser)
	require.NoError(t, err)
	_, err = auth.ParseToken("another-secret-another-secret-xx", valid)
	assert.Error(t, err)

	bogusRole, err := auth.GenerateToken(secret, time.Hour, &models.User{ID: 1, Role: "root"})
	require.NoError(t, err)
	_, err = auth.ParseToken(secret, bogusRole)
	assert.Error(t, err)
}

func newApp() *fiber.App {
	cfg := &config.Config{JWTSecret: secret, TokenTTL: time.Hour}
	app := fiber.New()
	app.Use(auth.JWTMiddleware(cfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		a, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": a.ID, "role": a.Role})
	})
	app.Get("/admin-only", auth.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestJWTMiddleware(t *testing.T) {
	app := newApp()
	token, err := auth.GenerateToken(secret, time.Hour, testUser)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/whoami", ""))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/whoami", "Token "+token))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "/whoami", "Bearer not-a-jwt"))
	assert.Equal(t, fiber.StatusOK, request(t, app, "/whoami", "Bearer "+token))
	assert.Equal(t, fiber.StatusOK, request(t, app, "/whoami", "bearer "+token))
}

func TestRequireRole(t *testing.T) {
	app := newApp()

	agentToken, err := auth.GenerateToken(secret, time.Hour, testUser)
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(secret, time.Hour, &models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "/admin-only", "Bearer "+agentToken))
	assert.Equal(t, fiber.StatusNoContent, request(t, app, "/admin-only", "Bearer "+adminToken))
}

func TestHashPassword(t *testing.T) {
	_, err := auth.HashPassword("short")
	assert.Error(t, err)

	hash, err := auth.HashPassword("long-enough-password")
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough-password", hash)
}

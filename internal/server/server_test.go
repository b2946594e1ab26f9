package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/logging"
	"marketplace-backend/internal/models"
	"marketplace-backend/internal/server"
	"marketplace-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	t   *testing.T
	db  *gorm.DB
	app *fiber.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:   "0123456789abcdef0123456789abcdef",
		TokenTTL:    time.Hour,
		CORSOrigins: "http://localhost:5173",
	}
	return &harness{t: t, db: db, app: server.New(cfg, db, logging.Discard())}
}

func (h *harness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(h.t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (h *harness) login(u models.User) string {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    u.Email,
		"password": testutil.Password,
	})
	require.Equal(h.t, fiber.StatusOK, status, body)
	return body["token"].(string)
}

func propertyBody(ownerID uint, agentIDs ...uint) fiber.Map {
	return fiber.Map{
		"type":         "apartment",
		"title":        "Sudirman Suites",
		"address":      "Jl. Sudirman 10",
		"price":        5000000,
		"listing_type": "rent",
		"rent_period":  "monthly",
		"description":  "Furnished",
		"owner_id":     ownerID,
		"agent_ids":    agentIDs,
	}
}

func TestHealthCheck(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestTraceIDIsKeptWhenValid(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health-check", nil)
	req.Header.Set("X-Trace-ID", "3f1c1a52-8f0e-4a36-9d0c-0c8f3d5d2b11")
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "3f1c1a52-8f0e-4a36-9d0c-0c8f3d5d2b11", resp.Header.Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health-check", nil)
	req.Header.Set("X-Trace-ID", "not a uuid")
	resp, err = h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, "not a uuid", resp.Header.Get("X-Trace-ID"))
}

func TestRegisterAdminOnlyOnce(t *testing.T) {
	h := newHarness(t)
	body := fiber.Map{"name": "Root", "email": "Root@Example.test", "password": "correct-horse"}

	status, resp := h.do(http.MethodPost, "/api/auth/register-admin", "", body)
	require.Equal(t, fiber.StatusCreated, status, resp)
	assert.Equal(t, "root@example.test", resp["email"])
	assert.Equal(t, "admin", resp["role"])

	status, _ = h.do(http.MethodPost, "/api/auth/register-admin", "", body)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, resp = h.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "root@example.test", "password": "correct-horse"})
	require.Equal(t, fiber.StatusOK, status)
	token := resp["token"].(string)

	status, resp = h.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Root", resp["name"])

	status, _ = h.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "root@example.test", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminUsers(t *testing.T) {
	h := newHarness(t)
	admin := testutil.CreateUser(t, h.db, models.RoleAdmin)
	agent := testutil.CreateUser(t, h.db, models.RoleAgent)
	adminToken := h.login(admin)

	status, resp := h.do(http.MethodPost, "/api/admin/users", adminToken, fiber.Map{
		"name": "Budi", "email": "budi@example.test", "password": "budi-password", "role": "principal",
	})
	require.Equal(t, fiber.StatusCreated, status, resp)
	assert.Equal(t, "principal", resp["role"])
	assert.NotContains(t, resp, "password_hash")

	status, _ = h.do(http.MethodPost, "/api/admin/users", adminToken, fiber.Map{
		"name": "Budi", "email": "budi@example.test", "password": "budi-password", "role": "principal",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = h.do(http.MethodPost, "/api/admin/users", adminToken, fiber.Map{
		"name": "Eve", "email": "eve@example.test", "password": "eve-password", "role": "admin",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = h.do(http.MethodGet, "/api/admin/users?role=principal", h.login(agent), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestPropertyLifecycle(t *testing.T) {
	h := newHarness(t)
	admin := testutil.CreateUser(t, h.db, models.RoleAdmin)
	agent := testutil.CreateUser(t, h.db, models.RoleAgent)
	owner := testutil.CreateUser(t, h.db, models.RolePrincipal)
	adminToken := h.login(admin)
	agentToken := h.login(agent)

	status, created := h.do(http.MethodPost, "/api/properties", adminToken, propertyBody(owner.ID, agent.ID))
	require.Equal(t, fiber.StatusCreated, status, created)
	assert.Equal(t, "Rp 5.000.000 / monthly", created["formatted_price"])
	assert.Equal(t, "Apartment", created["type_display"])
	assert.Equal(t, map[string]any{"label": "Available", "color": "green"}, created["status_display"])
	require.Len(t, created["agents"], 1)

	id := uint(created["id"].(float64))
	path := "/api/properties/" + strconv.FormatUint(uint64(id), 10)

	status, list := h.do(http.MethodGet, "/api/properties?type=apartment&search=sudirman", agentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, list["data"], 1)
	assert.EqualValues(t, 1, list["pagination"].(map[string]any)["total"])

	status, _ = h.do(http.MethodDelete, path, agentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	bad := propertyBody(owner.ID, agent.ID)
	delete(bad, "rent_period")
	status, resp := h.do(http.MethodPut, path, agentToken, bad)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, resp["fields"], "rent_period")

	status, resp = h.do(http.MethodGet, "/api/dashboard", agentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "agent", resp["role"])

	status, resp = h.do(http.MethodGet, "/api/admin/audit-logs?entity_type=property", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, resp["total"])

	status, _ = h.do(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = h.do(http.MethodGet, path, adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestMarketplaceIsPublic(t *testing.T) {
	h := newHarness(t)
	owner := testutil.CreateUser(t, h.db, models.RolePrincipal)
	testutil.CreateProperty(t, h.db, owner.ID, nil)
	testutil.CreateProperty(t, h.db, owner.ID, nil, testutil.WithStatus(models.StatusSold))

	status, resp := h.do(http.MethodGet, "/api/marketplace", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, resp["featured"], 1)
	assert.EqualValues(t, 1, resp["stats"].(map[string]any)["totalProperties"])

	status, _ = h.do(http.MethodGet, "/api/properties", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

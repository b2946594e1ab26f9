package audit

import (
	"encoding/json"
	"time"

	"marketplace-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserRole    models.UserRole    `json:"user_role"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	Before      json.RawMessage    `json:"before"`
	After       json.RawMessage    `json:"after"`
}

// GET /api/admin/audit-logs?entity_type=property&entity_id=1&user_id=2&action=update&page=1
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := ListFilter{
			EntityType: c.Query("entity_type"),
			Action:     models.AuditAction(c.Query("action")),
			Page:       c.QueryInt("page", 1),
		}
		if id := c.QueryInt("entity_id"); id > 0 {
			f.EntityID = uint(id)
		}
		if id := c.QueryInt("user_id"); id > 0 {
			f.UserID = uint(id)
		}

		logs, total, err := List(db.WithContext(c.UserContext()), f)
		if err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format(time.RFC3339),
				UserID:      l.UserID,
				UserRole:    l.UserRole,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				Before:      rawOrNull(l.BeforeData),
				After:       rawOrNull(l.AfterData),
			})
		}

		return c.JSON(fiber.Map{
			"data":  resp,
			"total": total,
		})
	}
}

func rawOrNull(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

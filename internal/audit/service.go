package audit

import (
	"encoding/json"
	"fmt"

	"marketplace-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogOptions struct {
	UserID      uint
	UserRole    models.UserRole
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog records one audit entry through db. Pass the transaction handle
// of the mutation so the entry commits or rolls back with it.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	before, err := encode(opts.Before)
	if err != nil {
		return fmt.Errorf("encode audit before data: %w", err)
	}
	after, err := encode(opts.After)
	if err != nil {
		return fmt.Errorf("encode audit after data: %w", err)
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserRole:    opts.UserRole,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  before,
		AfterData:   after,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("save audit log: %w", err)
	}
	return nil
}

// encode stores nil as JSON null rather than SQL NULL.
func encode(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("null"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

type ListFilter struct {
	EntityType string
	EntityID   uint
	UserID     uint
	Action     models.AuditAction
	Page       int
	PerPage    int
}

// List returns entries newest first together with the total match count.
func List(db *gorm.DB, f ListFilter) ([]models.AuditLog, int64, error) {
	query := func() *gorm.DB {
		q := db.Model(&models.AuditLog{})
		if f.EntityType != "" {
			q = q.Where("entity_type = ?", f.EntityType)
		}
		if f.EntityID != 0 {
			q = q.Where("entity_id = ?", f.EntityID)
		}
		if f.UserID != 0 {
			q = q.Where("user_id = ?", f.UserID)
		}
		if f.Action != "" {
			q = q.Where("action = ?", f.Action)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	if f.PerPage <= 0 {
		f.PerPage = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if limit := int((total+int64(f.PerPage)-1)/int64(f.PerPage)) + 1; f.Page > limit {
		f.Page = limit
	}

	var logs []models.AuditLog
	err := query().Order("created_at DESC, id DESC").
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}

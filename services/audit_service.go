package services

import (
	"coworking_app_go/models"
	"encoding/json"
	"log"

	"gorm.io/gorm"
)

// AuditContext carries who performed a request and from where
type AuditContext struct {
	ActorID   string
	ActorName string
	ActorRole string
	IPAddress string
	UserAgent string
}

// AuditEvent is one operation to record
type AuditEvent struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	ResourceName string
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// RecordAuditEvent writes an audit entry synchronously
func RecordAuditEvent(db *gorm.DB, ctx AuditContext, ev AuditEvent) error {
	entry := models.AuditLog{
		ActorID:      ptrIfNotEmpty(ctx.ActorID),
		ActorName:    ctx.ActorName,
		ActorRole:    ctx.ActorRole,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		ResourceName: ev.ResourceName,
		Action:       ev.Action,
		Description:  ev.Description,
		OldValues:    marshalAuditValues(ev.OldValues),
		NewValues:    marshalAuditValues(ev.NewValues),
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}
	return db.Create(&entry).Error
}

// LogAuditEvent records an audit entry in a goroutine; failures are logged, never returned
func LogAuditEvent(db *gorm.DB, ctx AuditContext, ev AuditEvent) {
	go func() {
		if err := RecordAuditEvent(db, ctx, ev); err != nil {
			log.Printf("[AUDIT] Failed to create audit log: %v", err)
		}
	}()
}

func marshalAuditValues(v interface{}) string {
	if v == nil {
		return ""
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AuditLogFilter narrows ListAuditLogs; empty fields are ignored
type AuditLogFilter struct {
	ActorID      string
	ResourceType string
	ResourceID   string
	Action       string
}

// ListAuditLogs returns a page of audit entries, newest first
func ListAuditLogs(db *gorm.DB, filter AuditLogFilter, skip, limit int) ([]models.AuditLog, int64, error) {
	if err := ValidatePagination(skip, limit); err != nil {
		return nil, 0, err
	}

	query := db.Model(&models.AuditLog{})
	if filter.ActorID != "" {
		query = query.Where("actor_id = ?", filter.ActorID)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		query = query.Where("resource_id = ?", filter.ResourceID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	return listPage[models.AuditLog](query, "created_at DESC, id DESC", skip, limit)
}

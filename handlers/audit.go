package handlers

import (
	"net/http"

	"coworking_app_go/db"
	"coworking_app_go/middleware"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// recordAudit writes an audit row for a successful mutation in the background
func recordAudit(c echo.Context, action models.AuditAction, resourceType, id, name, description string, oldValues, newValues interface{}) {
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), services.AuditEvent{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   id,
		ResourceName: name,
		Description:  description,
		OldValues:    oldValues,
		NewValues:    newValues,
	})
}

// GetAuditLogsHandler lists audit rows, newest first
func GetAuditLogsHandler(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}

	filter := services.AuditLogFilter{
		ActorID:      c.QueryParam("actor_id"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
		Action:       c.QueryParam("action"),
	}

	logs, total, err := services.ListAuditLogs(db.DB, filter, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, logs, skip, limit, total)
}

// historyEntry is one audit row with its field-level diff
type historyEntry struct {
	models.AuditLog
	Changes []models.AuditChange `json:"changes"`
}

// GetResourceHistoryHandler returns the audit trail of one resource, each entry with its field changes
func GetResourceHistoryHandler(c echo.Context) error {
	filter := services.AuditLogFilter{
		ResourceType: c.Param("type"),
		ResourceID:   c.Param("id"),
	}
	logs, _, err := services.ListAuditLogs(db.DB, filter, 0, services.MaxLimit)
	if err != nil {
		return err
	}
	history := make([]historyEntry, len(logs))
	for i := range logs {
		history[i] = historyEntry{AuditLog: logs[i], Changes: logs[i].Changes()}
	}
	return c.JSON(http.StatusOK, history)
}

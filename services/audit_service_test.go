package services

import (
	"encoding/json"
	"testing"
	"time"

	"coworking_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuditEvent(t *testing.T) {
	db := setupTestDB(t)
	actor := AuditContext{ActorID: "analyst-1", ActorName: "Carla", ActorRole: RoleAnalyst, IPAddress: "10.0.0.1"}

	err := RecordAuditEvent(db, actor, AuditEvent{
		Action:       models.AuditActionUpdate,
		ResourceType: "Room",
		ResourceID:   "room-1",
		ResourceName: "Sala 1",
		OldValues:    map[string]interface{}{"name": "Sala 1"},
		NewValues:    map[string]interface{}{"name": "Sala Um"},
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, db.First(&entry, "resource_id = ?", "room-1").Error)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "analyst-1", *entry.ActorID)
	assert.Equal(t, RoleAnalyst, entry.ActorRole)

	var newVals map[string]string
	require.NoError(t, json.Unmarshal([]byte(entry.NewValues), &newVals))
	assert.Equal(t, "Sala Um", newVals["name"])

	changes := entry.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "name", changes[0].Field)

	t.Run("entries are immutable", func(t *testing.T) {
		assert.Error(t, db.Model(&entry).Update("description", "x").Error)
		assert.Error(t, db.Delete(&entry).Error)
	})
}

func TestLogAuditEvent_Async(t *testing.T) {
	db := setupTestDB(t)

	LogAuditEvent(db, AuditContext{}, AuditEvent{
		Action: models.AuditActionFinalize, ResourceType: "Session", ResourceID: "session-1",
	})

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&models.AuditLog{}).Where("resource_id = ?", "session-1").Count(&count)
		return count == 1
	}, 2*time.Second, 20*time.Millisecond)

	var entry models.AuditLog
	require.NoError(t, db.First(&entry, "resource_id = ?", "session-1").Error)
	assert.Nil(t, entry.ActorID)
}

func TestListAuditLogs(t *testing.T) {
	db := setupTestDB(t)
	events := []AuditEvent{
		{Action: models.AuditActionCreate, ResourceType: "Session", ResourceID: "s1"},
		{Action: models.AuditActionFinalize, ResourceType: "Session", ResourceID: "s1"},
		{Action: models.AuditActionCreate, ResourceType: "Room", ResourceID: "r1"},
	}
	for _, ev := range events {
		require.NoError(t, RecordAuditEvent(db, AuditContext{ActorID: "a1"}, ev))
	}

	logs, total, err := ListAuditLogs(db, AuditLogFilter{ResourceType: "Session", ResourceID: "s1"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)

	_, total, err = ListAuditLogs(db, AuditLogFilter{Action: string(models.AuditActionCreate)}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = ListAuditLogs(db, AuditLogFilter{}, 0, 0)
	assert.Error(t, err)
}

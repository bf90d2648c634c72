package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report records a generated usage report; the markdown body lives in storage under StorageKey
type Report struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	AnalystID    string `gorm:"type:uuid;not null;index" json:"analyst_id"`
	SubsectionID string `gorm:"type:uuid;not null;index" json:"subsection_id"`
	UnitID       string `gorm:"type:uuid;not null" json:"unit_id"`
	RoomID       string `gorm:"type:uuid;not null;index" json:"room_id"`
	Year         *int   `json:"year,omitempty"`

	TotalSessions  int64  `json:"total_sessions"`
	ActiveSessions int64  `json:"active_sessions"`
	StorageKey     string `gorm:"not null" json:"storage_key"`
	Model          string `gorm:"size:100" json:"model"`
}

// BeforeCreate hook to generate UUID
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Report) TableName() string {
	return "reports"
}

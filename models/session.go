package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a lawyer occupying a computer for an interval, under a room admin's responsibility.
//
// Lifecycle: created active with no end time; finalize sets EndTime and clears Active;
// deactivate clears Active only. Nothing re-activates a session.
type Session struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date      time.Time  `gorm:"type:date;not null;index" json:"date"`
	StartTime time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time `gorm:"index" json:"end_time,omitempty"`
	Active    bool       `gorm:"not null;index" json:"active"`

	ComputerID string      `gorm:"type:uuid;not null;index" json:"computer_id"`
	Computer   *Computer   `gorm:"foreignKey:ComputerID" json:"-"`
	LawyerID   string      `gorm:"type:uuid;not null;index" json:"lawyer_id"`
	Lawyer     *LawyerUser `gorm:"foreignKey:LawyerID" json:"-"`
	AdminID    string      `gorm:"type:uuid;not null;index" json:"admin_id"`
	Admin      *RoomAdmin  `gorm:"foreignKey:AdminID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsOpen reports whether the session is active with no end time recorded
func (s *Session) IsOpen() bool {
	return s.Active && s.EndTime == nil
}

package models

import "time"

// SessionAnalyst links an IT analyst to a session they supported
type SessionAnalyst struct {
	SessionID string    `gorm:"type:uuid;primaryKey" json:"session_id"`
	AnalystID string    `gorm:"type:uuid;primaryKey;index" json:"analyst_id"`
	CreatedAt time.Time `json:"created_at"`

	Session *Session   `gorm:"foreignKey:SessionID" json:"-"`
	Analyst *ITAnalyst `gorm:"foreignKey:AnalystID" json:"-"`
}

// TableName specifies the table name
func (SessionAnalyst) TableName() string {
	return "session_analysts"
}

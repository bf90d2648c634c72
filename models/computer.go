package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Computer is a workstation, optionally placed in a room
type Computer struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	IP       string `gorm:"column:ip;size:45;not null;uniqueIndex" json:"ip"`
	AssetTag string `gorm:"size:50;not null;uniqueIndex" json:"asset_tag"` // Patrimony number

	RoomID *string `gorm:"type:uuid;index" json:"room_id,omitempty"`
	Room   *Room   `gorm:"foreignKey:RoomID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (c *Computer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Computer) TableName() string {
	return "computers"
}

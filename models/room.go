package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a coworking room inside a unit.
// Its unit must belong to the same subsection; services enforce this, not the schema.
type Room struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:150;not null" json:"name"`

	SubsectionID string      `gorm:"type:uuid;not null;index" json:"subsection_id"`
	Subsection   *Subsection `gorm:"foreignKey:SubsectionID" json:"-"`
	UnitID       string      `gorm:"type:uuid;not null;index" json:"unit_id"`
	Unit         *Unit       `gorm:"foreignKey:UnitID" json:"-"`
	AdminID      *string     `gorm:"type:uuid;index" json:"admin_id,omitempty"`
	Admin        *RoomAdmin  `gorm:"foreignKey:AdminID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Room) TableName() string {
	return "rooms"
}

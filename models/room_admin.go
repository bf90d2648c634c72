package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomAdmin is responsible for the sessions opened in a room
type RoomAdmin struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username       string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash   string `gorm:"not null" json:"-"`
	IsLocalAdmin   bool   `gorm:"not null" json:"is_local_admin"`
	IsCentralAdmin bool   `gorm:"not null" json:"is_central_admin"`

	RegistrationID string        `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Registration   *Registration `gorm:"foreignKey:RegistrationID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (a *RoomAdmin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (RoomAdmin) TableName() string {
	return "room_admins"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ITAnalyst supports sessions and is the only role allowed to generate reports and seed data
type ITAnalyst struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`

	RegistrationID string        `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Registration   *Registration `gorm:"foreignKey:RegistrationID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (a *ITAnalyst) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ITAnalyst) TableName() string {
	return "it_analysts"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LawyerUser is a bar member allowed to use the coworking computers
type LawyerUser struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BarNumber        string `gorm:"size:20;not null;uniqueIndex" json:"bar_number"`
	SecurityCodeHash string `gorm:"not null" json:"-"`
	InGoodStanding   bool   `gorm:"not null" json:"in_good_standing"`

	RegistrationID string        `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Registration   *Registration `gorm:"foreignKey:RegistrationID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (l *LawyerUser) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (LawyerUser) TableName() string {
	return "lawyer_users"
}

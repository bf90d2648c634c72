package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration is the personal record behind every lawyer, analyst and room admin
type Registration struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string  `gorm:"size:150;not null;index" json:"name"`
	Email      string  `gorm:"size:150;not null;uniqueIndex" json:"email"`
	TaxID      string  `gorm:"size:14;not null;uniqueIndex" json:"tax_id"` // CPF
	Phone      *string `gorm:"size:20" json:"phone,omitempty"`
	NationalID *string `gorm:"size:20" json:"national_id,omitempty"` // RG
	Address    *string `gorm:"size:255" json:"address,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Registration) TableName() string {
	return "registrations"
}

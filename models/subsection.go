package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subsection is a bar-association chapter, the root of the hierarchy
type Subsection struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:150;not null;uniqueIndex" json:"name"`
}

// BeforeCreate hook to generate UUID
func (s *Subsection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Subsection) TableName() string {
	return "subsections"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit hierarchy kinds
const (
	UnitHierarchyHeadquarters = "SEDE"
	UnitHierarchyBranch       = "FILIAL"
)

// IsValidUnitHierarchy reports whether h is SEDE or FILIAL
func IsValidUnitHierarchy(h string) bool {
	return h == UnitHierarchyHeadquarters || h == UnitHierarchyBranch
}

// Unit is a physical site (headquarters or branch) of a subsection
type Unit struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string   `gorm:"size:150;not null" json:"name"`
	Hierarchy string   `gorm:"size:10;not null" json:"hierarchy"`
	Address   *string  `gorm:"size:255" json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	SubsectionID string      `gorm:"type:uuid;not null;index" json:"subsection_id"`
	Subsection   *Subsection `gorm:"foreignKey:SubsectionID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Unit) TableName() string {
	return "units"
}

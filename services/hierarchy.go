package services

import (
	"coworking_app_go/models"

	"gorm.io/gorm"
)

// HierarchyScope is a validated subsection → unit → room path
type HierarchyScope struct {
	Subsection models.Subsection
	Unit       models.Unit
	Room       models.Room
}

// ValidateRoomPath confirms the room exists and is declared under both unitID and subsectionID.
// A missing room is NotFound; a room sitting elsewhere in the hierarchy is a Validation error.
func ValidateRoomPath(db *gorm.DB, subsectionID, unitID, roomID string) (*models.Room, error) {
	room, err := findByID[models.Room](db, roomID, "room")
	if err != nil {
		return nil, err
	}
	if room.UnitID != unitID || room.SubsectionID != subsectionID {
		return nil, ValidationError("room does not belong to the given unit and subsection")
	}
	return room, nil
}

// EnsureUnitInSubsection resolves both ids and checks the unit is declared under the subsection
func EnsureUnitInSubsection(db *gorm.DB, unitID, subsectionID string) (*models.Unit, error) {
	if _, err := findByID[models.Subsection](db, subsectionID, "subsection"); err != nil {
		return nil, err
	}
	unit, err := findByID[models.Unit](db, unitID, "unit")
	if err != nil {
		return nil, err
	}
	if unit.SubsectionID != subsectionID {
		return nil, ValidationError("unit does not belong to the given subsection")
	}
	return unit, nil
}

// ValidateDashboardScope resolves subsection, unit and room, checking each link of the chain.
// Checks run top-down so the first broken link is the one reported.
func ValidateDashboardScope(db *gorm.DB, subsectionID, unitID, roomID string) (*HierarchyScope, error) {
	subsection, err := findByID[models.Subsection](db, subsectionID, "subsection")
	if err != nil {
		return nil, err
	}
	unit, err := findByID[models.Unit](db, unitID, "unit")
	if err != nil {
		return nil, err
	}
	if unit.SubsectionID != subsection.ID {
		return nil, ValidationError("unit does not belong to the given subsection")
	}
	room, err := ValidateRoomPath(db, subsectionID, unitID, roomID)
	if err != nil {
		return nil, err
	}

	return &HierarchyScope{Subsection: *subsection, Unit: *unit, Room: *room}, nil
}

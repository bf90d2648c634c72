package services

import (
	"coworking_app_go/models"
	"strings"

	"gorm.io/gorm"
)

// UnitInput carries create and partial-update fields
type UnitInput struct {
	Name         *string  `json:"name"`
	Hierarchy    *string  `json:"hierarchy"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	SubsectionID *string  `json:"subsection_id"`
}

func applyUnitInput(tx *gorm.DB, unit *models.Unit, in UnitInput, creating bool) error {
	if creating || in.Name != nil {
		name, err := required(in.Name, "name")
		if err != nil {
			return err
		}
		unit.Name = name
	}
	if creating || in.Hierarchy != nil {
		h, err := required(in.Hierarchy, "hierarchy")
		if err != nil {
			return err
		}
		h = strings.ToUpper(h)
		if !models.IsValidUnitHierarchy(h) {
			return ValidationError("hierarchy must be %s or %s", models.UnitHierarchyHeadquarters, models.UnitHierarchyBranch)
		}
		unit.Hierarchy = h
	}
	if in.Address != nil {
		unit.Address = trimmed(in.Address)
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return ValidationError("latitude must be between -90 and 90")
		}
		unit.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return ValidationError("longitude must be between -180 and 180")
		}
		unit.Longitude = in.Longitude
	}
	if creating || in.SubsectionID != nil {
		subID, err := required(in.SubsectionID, "subsection_id")
		if err != nil {
			return err
		}
		if _, err := findByID[models.Subsection](tx, subID, "subsection"); err != nil {
			return err
		}
		if !creating && subID != unit.SubsectionID {
			// Rooms carry their own subsection_id; moving the unit would break their path.
			if err := ensureNoDependents(tx, unit.ID,
				dependent{&models.Room{}, "unit_id", "unit still has rooms and cannot change subsection"},
			); err != nil {
				return err
			}
		}
		unit.SubsectionID = subID
	}
	return nil
}

// CreateUnit stores a unit under an existing subsection
func CreateUnit(db *gorm.DB, in UnitInput) (*models.Unit, error) {
	unit := &models.Unit{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyUnitInput(tx, unit, in, true); err != nil {
			return err
		}
		return tx.Create(unit).Error
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// GetUnitByID retrieves a unit by ID
func GetUnitByID(db *gorm.DB, id string) (*models.Unit, error) {
	return findByID[models.Unit](db, id, "unit")
}

// ListUnits returns units ordered by name, optionally restricted to one subsection
func ListUnits(db *gorm.DB, subsectionID string, skip, limit int) ([]models.Unit, int64, error) {
	query := db
	if subsectionID != "" {
		query = query.Where("subsection_id = ?", subsectionID)
	}
	return listPage[models.Unit](query, "name ASC, id ASC", skip, limit)
}

// UpdateUnit applies the supplied fields of in
func UpdateUnit(db *gorm.DB, id string, in UnitInput) (*models.Unit, error) {
	var unit *models.Unit
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if unit, err = findByID[models.Unit](tx, id, "unit"); err != nil {
			return err
		}
		if err := applyUnitInput(tx, unit, in, false); err != nil {
			return err
		}
		return tx.Save(unit).Error
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit removes a unit that has no rooms
func DeleteUnit(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Unit](tx, id, "unit"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.Room{}, "unit_id", "unit still has rooms"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.Unit{}, "id = ?", id).Error
	})
}

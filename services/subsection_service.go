package services

import (
	"coworking_app_go/models"

	"gorm.io/gorm"
)

// SubsectionInput carries create and partial-update fields
type SubsectionInput struct {
	Name *string `json:"name"`
}

// CreateSubsection stores a subsection with a unique name
func CreateSubsection(db *gorm.DB, in SubsectionInput) (*models.Subsection, error) {
	name, err := required(in.Name, "name")
	if err != nil {
		return nil, err
	}
	sub := &models.Subsection{Name: name}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Subsection{}, "name", sub.Name, "", "subsection name already registered"); err != nil {
			return err
		}
		return translateStoreError(tx.Create(sub).Error, "subsection name already registered")
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubsectionByID retrieves a subsection by ID
func GetSubsectionByID(db *gorm.DB, id string) (*models.Subsection, error) {
	return findByID[models.Subsection](db, id, "subsection")
}

// ListSubsections returns subsections ordered by name
func ListSubsections(db *gorm.DB, skip, limit int) ([]models.Subsection, int64, error) {
	return listPage[models.Subsection](db, "name ASC, id ASC", skip, limit)
}

// UpdateSubsection renames a subsection
func UpdateSubsection(db *gorm.DB, id string, in SubsectionInput) (*models.Subsection, error) {
	var sub *models.Subsection
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if sub, err = findByID[models.Subsection](tx, id, "subsection"); err != nil {
			return err
		}
		if in.Name != nil {
			name, err := required(in.Name, "name")
			if err != nil {
				return err
			}
			if err := ensureUnique(tx, &models.Subsection{}, "name", name, sub.ID, "subsection name already registered"); err != nil {
				return err
			}
			sub.Name = name
		}
		return translateStoreError(tx.Save(sub).Error, "subsection name already registered")
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// DeleteSubsection removes a subsection that has no units or rooms
func DeleteSubsection(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Subsection](tx, id, "subsection"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.Unit{}, "subsection_id", "subsection still has units"},
			dependent{&models.Room{}, "subsection_id", "subsection still has rooms"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.Subsection{}, "id = ?", id).Error
	})
}

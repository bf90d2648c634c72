package services

import (
	"coworking_app_go/models"
	"strings"

	"gorm.io/gorm"
)

// StaffInput carries create and partial-update fields shared by analysts and room admins.
// Password is plaintext and stored hashed. The admin flags are ignored for analysts.
type StaffInput struct {
	RegistrationID *string `json:"registration_id"`
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	IsLocalAdmin   *bool   `json:"is_local_admin"`
	IsCentralAdmin *bool   `json:"is_central_admin"`
}

// applyStaffCredentials validates registration, username and password for either staff table
func applyStaffCredentials(tx *gorm.DB, model interface{}, id string, in StaffInput, creating bool, regID, username, passwordHash *string) error {
	if creating || in.RegistrationID != nil {
		v, err := required(in.RegistrationID, "registration_id")
		if err != nil {
			return err
		}
		if _, err := findByID[models.Registration](tx, v, "registration"); err != nil {
			return err
		}
		if err := ensureUnique(tx, model, "registration_id", v, id, "registration already has this profile"); err != nil {
			return err
		}
		*regID = v
	}
	if creating || in.Username != nil {
		v, err := required(in.Username, "username")
		if err != nil {
			return err
		}
		v = strings.ToLower(v)
		if err := ensureUnique(tx, model, "username", v, id, "username already registered"); err != nil {
			return err
		}
		*username = v
	}
	if creating || in.Password != nil {
		if in.Password == nil {
			return ValidationError("password is required")
		}
		if err := ValidatePassword(*in.Password); err != nil {
			return err
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		*passwordHash = hash
	}
	return nil
}

// CreateAnalyst stores an IT analyst for an existing registration
func CreateAnalyst(db *gorm.DB, in StaffInput) (*models.ITAnalyst, error) {
	analyst := &models.ITAnalyst{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyStaffCredentials(tx, &models.ITAnalyst{}, "", in, true, &analyst.RegistrationID, &analyst.Username, &analyst.PasswordHash); err != nil {
			return err
		}
		return translateStoreError(tx.Create(analyst).Error, "analyst already registered")
	})
	if err != nil {
		return nil, err
	}
	return analyst, nil
}

// GetAnalystByID retrieves an analyst by ID
func GetAnalystByID(db *gorm.DB, id string) (*models.ITAnalyst, error) {
	return findByID[models.ITAnalyst](db, id, "analyst")
}

// ListAnalysts returns analysts ordered by username
func ListAnalysts(db *gorm.DB, skip, limit int) ([]models.ITAnalyst, int64, error) {
	return listPage[models.ITAnalyst](db, "username ASC, id ASC", skip, limit)
}

// UpdateAnalyst applies the supplied fields of in
func UpdateAnalyst(db *gorm.DB, id string, in StaffInput) (*models.ITAnalyst, error) {
	var analyst *models.ITAnalyst
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if analyst, err = findByID[models.ITAnalyst](tx, id, "analyst"); err != nil {
			return err
		}
		if err := applyStaffCredentials(tx, &models.ITAnalyst{}, analyst.ID, in, false, &analyst.RegistrationID, &analyst.Username, &analyst.PasswordHash); err != nil {
			return err
		}
		return translateStoreError(tx.Save(analyst).Error, "analyst already registered")
	})
	if err != nil {
		return nil, err
	}
	return analyst, nil
}

// DeleteAnalyst removes an analyst not linked to any session
func DeleteAnalyst(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.ITAnalyst](tx, id, "analyst"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.SessionAnalyst{}, "analyst_id", "analyst is linked to sessions"},
			dependent{&models.Report{}, "analyst_id", "analyst has generated reports"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.ITAnalyst{}, "id = ?", id).Error
	})
}

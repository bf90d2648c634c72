package services

import (
	"coworking_app_go/models"
	"strings"

	"gorm.io/gorm"
)

// LawyerInput carries create and partial-update fields. SecurityCode is plaintext and stored hashed.
type LawyerInput struct {
	RegistrationID *string `json:"registration_id"`
	BarNumber      *string `json:"bar_number"`
	SecurityCode   *string `json:"security_code"`
	InGoodStanding *bool   `json:"in_good_standing"`
}

func applyLawyerInput(tx *gorm.DB, lawyer *models.LawyerUser, in LawyerInput, creating bool) error {
	if creating || in.RegistrationID != nil {
		regID, err := required(in.RegistrationID, "registration_id")
		if err != nil {
			return err
		}
		if _, err := findByID[models.Registration](tx, regID, "registration"); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.LawyerUser{}, "registration_id", regID, lawyer.ID, "registration already has a lawyer profile"); err != nil {
			return err
		}
		lawyer.RegistrationID = regID
	}
	if creating || in.BarNumber != nil {
		bar, err := required(in.BarNumber, "bar_number")
		if err != nil {
			return err
		}
		bar = strings.ToUpper(bar)
		if err := ensureUnique(tx, &models.LawyerUser{}, "bar_number", bar, lawyer.ID, "bar_number already registered"); err != nil {
			return err
		}
		lawyer.BarNumber = bar
	}
	if creating || in.SecurityCode != nil {
		code, err := required(in.SecurityCode, "security_code")
		if err != nil {
			return err
		}
		if err := ValidateSecurityCode(code); err != nil {
			return err
		}
		if lawyer.SecurityCodeHash, err = HashPassword(code); err != nil {
			return err
		}
	}
	if in.InGoodStanding != nil {
		lawyer.InGoodStanding = *in.InGoodStanding
	} else if creating {
		lawyer.InGoodStanding = true
	}
	return nil
}

// CreateLawyer stores a lawyer profile for an existing registration
func CreateLawyer(db *gorm.DB, in LawyerInput) (*models.LawyerUser, error) {
	lawyer := &models.LawyerUser{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyLawyerInput(tx, lawyer, in, true); err != nil {
			return err
		}
		return translateStoreError(tx.Create(lawyer).Error, "lawyer already registered")
	})
	if err != nil {
		return nil, err
	}
	return lawyer, nil
}

// GetLawyerByID retrieves a lawyer by ID
func GetLawyerByID(db *gorm.DB, id string) (*models.LawyerUser, error) {
	return findByID[models.LawyerUser](db, id, "lawyer")
}

// GetLawyerByBarNumber retrieves a lawyer by bar registration number
func GetLawyerByBarNumber(db *gorm.DB, barNumber string) (*models.LawyerUser, error) {
	var lawyer models.LawyerUser
	err := db.Where("bar_number = ?", strings.ToUpper(strings.TrimSpace(barNumber))).First(&lawyer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundError("lawyer not found")
		}
		return nil, err
	}
	return &lawyer, nil
}

// ListLawyers returns lawyers ordered by bar number
func ListLawyers(db *gorm.DB, skip, limit int) ([]models.LawyerUser, int64, error) {
	return listPage[models.LawyerUser](db, "bar_number ASC, id ASC", skip, limit)
}

// UpdateLawyer applies the supplied fields of in
func UpdateLawyer(db *gorm.DB, id string, in LawyerInput) (*models.LawyerUser, error) {
	var lawyer *models.LawyerUser
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if lawyer, err = findByID[models.LawyerUser](tx, id, "lawyer"); err != nil {
			return err
		}
		if err := applyLawyerInput(tx, lawyer, in, false); err != nil {
			return err
		}
		return translateStoreError(tx.Save(lawyer).Error, "lawyer already registered")
	})
	if err != nil {
		return nil, err
	}
	return lawyer, nil
}

// DeleteLawyer removes a lawyer with no sessions
func DeleteLawyer(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.LawyerUser](tx, id, "lawyer"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.Session{}, "lawyer_id", "lawyer has sessions"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.LawyerUser{}, "id = ?", id).Error
	})
}

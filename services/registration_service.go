package services

import (
	"coworking_app_go/models"
	"net/mail"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// RegistrationInput carries create and partial-update fields; nil means "not supplied"
type RegistrationInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	TaxID      *string `json:"tax_id"`
	Phone      *string `json:"phone"`
	NationalID *string `json:"national_id"`
	Address    *string `json:"address"`
}

// NormalizeTaxID strips CPF punctuation and requires exactly 11 digits
func NormalizeTaxID(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ':
		default:
			return "", ValidationError("tax_id must contain only digits")
		}
	}
	if b.Len() != 11 {
		return "", ValidationError("tax_id must have 11 digits")
	}
	return b.String(), nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address != strings.TrimSpace(raw) {
		return "", ValidationError("email is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}

func applyRegistrationInput(reg *models.Registration, in RegistrationInput, creating bool) error {
	if creating || in.Name != nil {
		name, err := required(in.Name, "name")
		if err != nil {
			return err
		}
		reg.Name = name
	}
	if creating || in.Email != nil {
		raw, err := required(in.Email, "email")
		if err != nil {
			return err
		}
		if reg.Email, err = normalizeEmail(raw); err != nil {
			return err
		}
	}
	if creating || in.TaxID != nil {
		raw, err := required(in.TaxID, "tax_id")
		if err != nil {
			return err
		}
		if reg.TaxID, err = NormalizeTaxID(raw); err != nil {
			return err
		}
	}
	if in.Phone != nil {
		reg.Phone = trimmed(in.Phone)
	}
	if in.NationalID != nil {
		reg.NationalID = trimmed(in.NationalID)
	}
	if in.Address != nil {
		reg.Address = trimmed(in.Address)
	}
	return nil
}

func checkRegistrationUnique(tx *gorm.DB, reg *models.Registration) error {
	if err := ensureUnique(tx, &models.Registration{}, "email", reg.Email, reg.ID, "email already registered"); err != nil {
		return err
	}
	return ensureUnique(tx, &models.Registration{}, "tax_id", reg.TaxID, reg.ID, "tax_id already registered")
}

// CreateRegistration validates and stores a new registration
func CreateRegistration(db *gorm.DB, in RegistrationInput) (*models.Registration, error) {
	reg := &models.Registration{}
	if err := applyRegistrationInput(reg, in, true); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkRegistrationUnique(tx, reg); err != nil {
			return err
		}
		return translateStoreError(tx.Create(reg).Error, "registration already exists")
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// GetRegistrationByID retrieves a registration by ID
func GetRegistrationByID(db *gorm.DB, id string) (*models.Registration, error) {
	return findByID[models.Registration](db, id, "registration")
}

// ListRegistrations returns registrations ordered by name
func ListRegistrations(db *gorm.DB, skip, limit int) ([]models.Registration, int64, error) {
	return listPage[models.Registration](db, "name ASC, id ASC", skip, limit)
}

// UpdateRegistration applies the supplied fields of in
func UpdateRegistration(db *gorm.DB, id string, in RegistrationInput) (*models.Registration, error) {
	var reg *models.Registration
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if reg, err = findByID[models.Registration](tx, id, "registration"); err != nil {
			return err
		}
		if err := applyRegistrationInput(reg, in, false); err != nil {
			return err
		}
		if err := checkRegistrationUnique(tx, reg); err != nil {
			return err
		}
		return translateStoreError(tx.Save(reg).Error, "registration already exists")
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// DeleteRegistration removes a registration no role row references
func DeleteRegistration(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Registration](tx, id, "registration"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.LawyerUser{}, "registration_id", "registration is used by a lawyer"},
			dependent{&models.ITAnalyst{}, "registration_id", "registration is used by an IT analyst"},
			dependent{&models.RoomAdmin{}, "registration_id", "registration is used by a room admin"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.Registration{}, "id = ?", id).Error
	})
}

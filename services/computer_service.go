package services

import (
	"coworking_app_go/models"
	"net"

	"gorm.io/gorm"
)

// ComputerInput carries create and partial-update fields.
// An empty RoomID on update takes the computer out of its room.
type ComputerInput struct {
	IP       *string `json:"ip"`
	AssetTag *string `json:"asset_tag"`
	RoomID   *string `json:"room_id"`
}

func applyComputerInput(tx *gorm.DB, comp *models.Computer, in ComputerInput, creating bool) error {
	if creating || in.IP != nil {
		ip, err := required(in.IP, "ip")
		if err != nil {
			return err
		}
		if net.ParseIP(ip) == nil {
			return ValidationError("ip is not a valid address")
		}
		if err := ensureUnique(tx, &models.Computer{}, "ip", ip, comp.ID, "ip already registered"); err != nil {
			return err
		}
		comp.IP = ip
	}
	if creating || in.AssetTag != nil {
		tag, err := required(in.AssetTag, "asset_tag")
		if err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Computer{}, "asset_tag", tag, comp.ID, "asset_tag already registered"); err != nil {
			return err
		}
		comp.AssetTag = tag
	}
	if in.RoomID != nil {
		roomID := trimmed(in.RoomID)
		if roomID != nil {
			if _, err := findByID[models.Room](tx, *roomID, "room"); err != nil {
				return err
			}
		}
		comp.RoomID = roomID
	}
	return nil
}

// CreateComputer stores a computer with a unique IP and asset tag
func CreateComputer(db *gorm.DB, in ComputerInput) (*models.Computer, error) {
	comp := &models.Computer{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyComputerInput(tx, comp, in, true); err != nil {
			return err
		}
		return translateStoreError(tx.Create(comp).Error, "computer already registered")
	})
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// GetComputerByID retrieves a computer by ID
func GetComputerByID(db *gorm.DB, id string) (*models.Computer, error) {
	return findByID[models.Computer](db, id, "computer")
}

// ListComputers returns computers ordered by IP, optionally restricted to a room
func ListComputers(db *gorm.DB, roomID string, skip, limit int) ([]models.Computer, int64, error) {
	query := db
	if roomID != "" {
		query = query.Where("room_id = ?", roomID)
	}
	return listPage[models.Computer](query, "ip ASC, id ASC", skip, limit)
}

// UpdateComputer applies the supplied fields of in
func UpdateComputer(db *gorm.DB, id string, in ComputerInput) (*models.Computer, error) {
	var comp *models.Computer
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if comp, err = findByID[models.Computer](tx, id, "computer"); err != nil {
			return err
		}
		if err := applyComputerInput(tx, comp, in, false); err != nil {
			return err
		}
		return translateStoreError(tx.Save(comp).Error, "computer already registered")
	})
	if err != nil {
		return nil, err
	}
	return comp, nil
}

// DeleteComputer removes a computer that has never hosted a session
func DeleteComputer(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Computer](tx, id, "computer"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.Session{}, "computer_id", "computer has sessions"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.Computer{}, "id = ?", id).Error
	})
}

package services

import (
	"coworking_app_go/models"

	"gorm.io/gorm"
)

// RoomInput carries create and partial-update fields.
// An empty AdminID on update clears the room's admin.
type RoomInput struct {
	Name         *string `json:"name"`
	SubsectionID *string `json:"subsection_id"`
	UnitID       *string `json:"unit_id"`
	AdminID      *string `json:"admin_id"`
}

func applyRoomInput(tx *gorm.DB, room *models.Room, in RoomInput, creating bool) error {
	if creating || in.Name != nil {
		name, err := required(in.Name, "name")
		if err != nil {
			return err
		}
		room.Name = name
	}

	if creating || in.SubsectionID != nil || in.UnitID != nil {
		subID, unitID := room.SubsectionID, room.UnitID
		if creating || in.SubsectionID != nil {
			v, err := required(in.SubsectionID, "subsection_id")
			if err != nil {
				return err
			}
			subID = v
		}
		if creating || in.UnitID != nil {
			v, err := required(in.UnitID, "unit_id")
			if err != nil {
				return err
			}
			unitID = v
		}
		if _, err := EnsureUnitInSubsection(tx, unitID, subID); err != nil {
			return err
		}
		room.SubsectionID, room.UnitID = subID, unitID
	}

	if in.AdminID != nil {
		adminID := trimmed(in.AdminID)
		if adminID != nil {
			if _, err := findByID[models.RoomAdmin](tx, *adminID, "room admin"); err != nil {
				return err
			}
		}
		room.AdminID = adminID
	}
	return nil
}

// CreateRoom stores a room after checking its unit belongs to its subsection
func CreateRoom(db *gorm.DB, in RoomInput) (*models.Room, error) {
	room := &models.Room{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyRoomInput(tx, room, in, true); err != nil {
			return err
		}
		return tx.Create(room).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoomByID retrieves a room by ID
func GetRoomByID(db *gorm.DB, id string) (*models.Room, error) {
	return findByID[models.Room](db, id, "room")
}

// ListRooms returns rooms ordered by name, optionally restricted to a unit
func ListRooms(db *gorm.DB, unitID string, skip, limit int) ([]models.Room, int64, error) {
	query := db
	if unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	return listPage[models.Room](query, "name ASC, id ASC", skip, limit)
}

// UpdateRoom applies the supplied fields of in, re-validating the hierarchy when it moves
func UpdateRoom(db *gorm.DB, id string, in RoomInput) (*models.Room, error) {
	var room *models.Room
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if room, err = findByID[models.Room](tx, id, "room"); err != nil {
			return err
		}
		if err := applyRoomInput(tx, room, in, false); err != nil {
			return err
		}
		return tx.Save(room).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// DeleteRoom removes a room with no computers
func DeleteRoom(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Room](tx, id, "room"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.Computer{}, "room_id", "room still has computers"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, "id = ?", id).Error
	})
}

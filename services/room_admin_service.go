package services

import (
	"coworking_app_go/models"

	"gorm.io/gorm"
)

func applyRoomAdminFlags(admin *models.RoomAdmin, in StaffInput) {
	if in.IsLocalAdmin != nil {
		admin.IsLocalAdmin = *in.IsLocalAdmin
	}
	if in.IsCentralAdmin != nil {
		admin.IsCentralAdmin = *in.IsCentralAdmin
	}
}

// CreateRoomAdmin stores a room admin for an existing registration
func CreateRoomAdmin(db *gorm.DB, in StaffInput) (*models.RoomAdmin, error) {
	admin := &models.RoomAdmin{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := applyStaffCredentials(tx, &models.RoomAdmin{}, "", in, true, &admin.RegistrationID, &admin.Username, &admin.PasswordHash); err != nil {
			return err
		}
		applyRoomAdminFlags(admin, in)
		return translateStoreError(tx.Create(admin).Error, "room admin already registered")
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// GetRoomAdminByID retrieves a room admin by ID
func GetRoomAdminByID(db *gorm.DB, id string) (*models.RoomAdmin, error) {
	return findByID[models.RoomAdmin](db, id, "room admin")
}

// ListRoomAdmins returns room admins ordered by username
func ListRoomAdmins(db *gorm.DB, skip, limit int) ([]models.RoomAdmin, int64, error) {
	return listPage[models.RoomAdmin](db, "username ASC, id ASC", skip, limit)
}

// UpdateRoomAdmin applies the supplied fields of in
func UpdateRoomAdmin(db *gorm.DB, id string, in StaffInput) (*models.RoomAdmin, error) {
	var admin *models.RoomAdmin
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if admin, err = findByID[models.RoomAdmin](tx, id, "room admin"); err != nil {
			return err
		}
		if err := applyStaffCredentials(tx, &models.RoomAdmin{}, admin.ID, in, false, &admin.RegistrationID, &admin.Username, &admin.PasswordHash); err != nil {
			return err
		}
		applyRoomAdminFlags(admin, in)
		return translateStoreError(tx.Save(admin).Error, "room admin already registered")
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// DeleteRoomAdmin removes an admin with no sessions and no rooms
func DeleteRoomAdmin(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.RoomAdmin](tx, id, "room admin"); err != nil {
			return err
		}
		if err := ensureNoDependents(tx, id,
			dependent{&models.Session{}, "admin_id", "room admin has sessions"},
			dependent{&models.Room{}, "admin_id", "room admin is responsible for rooms"},
		); err != nil {
			return err
		}
		return tx.Delete(&models.RoomAdmin{}, "id = ?", id).Error
	})
}

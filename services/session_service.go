package services

import (
	"coworking_app_go/models"
	"sort"
	"time"

	"gorm.io/gorm"
)

// now is the clock used for finalize and default start times; tests replace it
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// normalizeInstant stores every instant as UTC with second precision so comparisons are dialect-independent
func normalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// dayOf returns midnight UTC of t's calendar day
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateSessionInput opens a session. A zero StartTime means now; a nil Date means StartTime's day.
type CreateSessionInput struct {
	ComputerID string
	LawyerID   string
	AdminID    string
	StartTime  time.Time
	Date       *time.Time
	AnalystIDs []string
}

// UpdateSessionInput is a partial update; nil fields are left untouched.
// A non-nil AnalystIDs replaces the whole analyst set, an empty slice clears it.
type UpdateSessionInput struct {
	Date       *time.Time
	StartTime  *time.Time
	ComputerID *string
	LawyerID   *string
	AdminID    *string
	AnalystIDs *[]string
}

// CreateSession opens an active session on a free computer, with its analysts, atomically
func CreateSession(db *gorm.DB, in CreateSessionInput) (*models.Session, error) {
	start := now()
	if !in.StartTime.IsZero() {
		start = normalizeInstant(in.StartTime)
	}
	date := dayOf(start)
	if in.Date != nil {
		date = dayOf(*in.Date)
	}

	session := &models.Session{
		Date:       date,
		StartTime:  start,
		Active:     true,
		ComputerID: in.ComputerID,
		LawyerID:   in.LawyerID,
		AdminID:    in.AdminID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return insertSession(tx, session, in.AnalystIDs)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// insertSession resolves every reference, enforces one active session per computer and writes the row plus its links
func insertSession(tx *gorm.DB, session *models.Session, analystIDs []string) error {
	if _, err := findByID[models.Computer](tx, session.ComputerID, "computer"); err != nil {
		return err
	}
	if _, err := findByID[models.LawyerUser](tx, session.LawyerID, "lawyer"); err != nil {
		return err
	}
	if _, err := findByID[models.RoomAdmin](tx, session.AdminID, "room admin"); err != nil {
		return err
	}
	if session.EndTime != nil && session.EndTime.Before(session.StartTime) {
		return ValidationError("end_time must not be before start_time")
	}
	if session.Active {
		if err := ensureComputerFree(tx, session.ComputerID, ""); err != nil {
			return err
		}
	}

	if err := translateStoreError(tx.Create(session).Error, "computer already has an active session"); err != nil {
		return err
	}
	_, err := setSessionAnalysts(tx, session.ID, analystIDs)
	return err
}

// ensureComputerFree fails with Conflict when computerID already has an active session other than excludeID
func ensureComputerFree(tx *gorm.DB, computerID, excludeID string) error {
	var count int64
	query := tx.Model(&models.Session{}).Where("computer_id = ? AND active = ?", computerID, true)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ConflictError("computer already has an active session")
	}
	return nil
}

// setSessionAnalysts replaces the analyst set of a session. Every id must resolve or nothing changes.
func setSessionAnalysts(tx *gorm.DB, sessionID string, analystIDs []string) ([]string, error) {
	ids := uniqueStrings(analystIDs)

	if len(ids) > 0 {
		var found []string
		if err := tx.Model(&models.ITAnalyst{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return nil, err
		}
		if len(found) != len(ids) {
			known := make(map[string]bool, len(found))
			for _, id := range found {
				known[id] = true
			}
			for _, id := range ids {
				if !known[id] {
					return nil, NotFoundError("analyst not found: %s", id)
				}
			}
		}
	}

	if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionAnalyst{}).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}

	links := make([]models.SessionAnalyst, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.SessionAnalyst{SessionID: sessionID, AnalystID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// uniqueStrings drops blanks and duplicates, keeping first-seen order
func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// GetSessionByID retrieves a session by ID
func GetSessionByID(db *gorm.DB, id string) (*models.Session, error) {
	return findByID[models.Session](db, id, "session")
}

// GetSessionAnalystIDs returns the analyst ids linked to a session, sorted
func GetSessionAnalystIDs(db *gorm.DB, sessionID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.SessionAnalyst{}).
		Where("session_id = ?", sessionID).
		Order("analyst_id ASC").
		Pluck("analyst_id", &ids).Error
	return ids, err
}

// UpdateSession applies a partial update. Moving an active session to another computer
// re-checks that the target computer has no other active session.
func UpdateSession(db *gorm.DB, id string, in UpdateSessionInput) (*models.Session, error) {
	var session *models.Session
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if session, err = findByID[models.Session](tx, id, "session"); err != nil {
			return err
		}

		if in.ComputerID != nil && *in.ComputerID != session.ComputerID {
			if _, err := findByID[models.Computer](tx, *in.ComputerID, "computer"); err != nil {
				return err
			}
			if session.Active {
				if err := ensureComputerFree(tx, *in.ComputerID, session.ID); err != nil {
					return err
				}
			}
			session.ComputerID = *in.ComputerID
		}
		if in.LawyerID != nil && *in.LawyerID != session.LawyerID {
			if _, err := findByID[models.LawyerUser](tx, *in.LawyerID, "lawyer"); err != nil {
				return err
			}
			session.LawyerID = *in.LawyerID
		}
		if in.AdminID != nil && *in.AdminID != session.AdminID {
			if _, err := findByID[models.RoomAdmin](tx, *in.AdminID, "room admin"); err != nil {
				return err
			}
			session.AdminID = *in.AdminID
		}
		if in.StartTime != nil {
			session.StartTime = normalizeInstant(*in.StartTime)
			if session.EndTime != nil && session.EndTime.Before(session.StartTime) {
				return ValidationError("start_time must not be after end_time")
			}
		}
		if in.Date != nil {
			session.Date = dayOf(*in.Date)
		}

		if err := translateStoreError(tx.Save(session).Error, "computer already has an active session"); err != nil {
			return err
		}
		if in.AnalystIDs != nil {
			if _, err := setSessionAnalysts(tx, session.ID, *in.AnalystIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ReplaceAnalysts sets the full analyst membership of a session and returns the stored ids
func ReplaceAnalysts(db *gorm.DB, sessionID string, analystIDs []string) ([]string, error) {
	var ids []string
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Session](tx, sessionID, "session"); err != nil {
			return err
		}
		var err error
		ids, err = setSessionAnalysts(tx, sessionID, analystIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FinalizeSession records the end time and deactivates the session.
// A session that already has an end time is rejected with Conflict and left untouched.
// A session finalized before its start time ends at its start time.
func FinalizeSession(db *gorm.DB, id string) (*models.Session, error) {
	var session *models.Session
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if session, err = findByID[models.Session](tx, id, "session"); err != nil {
			return err
		}
		if session.EndTime != nil {
			return ConflictError("session already finalized")
		}

		end := now()
		if end.Before(session.StartTime) {
			end = session.StartTime
		}
		session.EndTime = &end
		session.Active = false
		return tx.Save(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeactivateSession clears the active flag without recording an end time
func DeactivateSession(db *gorm.DB, id string) (*models.Session, error) {
	var session *models.Session
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if session, err = findByID[models.Session](tx, id, "session"); err != nil {
			return err
		}
		if !session.Active {
			return ConflictError("session already inactive")
		}
		session.Active = false
		return tx.Save(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session and its analyst links permanently
func DeleteSession(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findByID[models.Session](tx, id, "session"); err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionAnalyst{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, "id = ?", id).Error
	})
}

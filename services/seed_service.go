package services

import (
	"coworking_app_go/models"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
)

// SeedSkip explains why one input item was not inserted
type SeedSkip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SeedResult accounts for every item of a bulk load: created ids in input order and the skipped indexes
type SeedResult struct {
	Created      []string   `json:"created"`
	CreatedCount int        `json:"created_count"`
	Skipped      []SeedSkip `json:"skipped"`
}

// seedEach inserts items one by one, each in its own savepoint, so a bad item never undoes the good ones
func seedEach[T any](db *gorm.DB, resource string, items []T, create func(tx *gorm.DB, item T) (string, error)) (*SeedResult, error) {
	result := &SeedResult{Created: []string{}, Skipped: []SeedSkip{}}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, item := range items {
			var id string
			err := tx.Transaction(func(sp *gorm.DB) error {
				var err error
				id, err = create(sp, item)
				return err
			})
			if err != nil {
				if KindOf(err) == KindInternal {
					return err
				}
				result.Skipped = append(result.Skipped, SeedSkip{Index: i, Reason: err.Error()})
				continue
			}
			result.Created = append(result.Created, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.CreatedCount = len(result.Created)
	log.Printf("[SEED] %s: %d created, %d skipped", resource, result.CreatedCount, len(result.Skipped))
	return result, nil
}

func SeedRegistrations(db *gorm.DB, items []RegistrationInput) (*SeedResult, error) {
	return seedEach(db, "registrations", items, func(tx *gorm.DB, in RegistrationInput) (string, error) {
		reg, err := CreateRegistration(tx, in)
		if err != nil {
			return "", err
		}
		return reg.ID, nil
	})
}

func SeedSubsections(db *gorm.DB, items []SubsectionInput) (*SeedResult, error) {
	return seedEach(db, "subsections", items, func(tx *gorm.DB, in SubsectionInput) (string, error) {
		sub, err := CreateSubsection(tx, in)
		if err != nil {
			return "", err
		}
		return sub.ID, nil
	})
}

func SeedUnits(db *gorm.DB, items []UnitInput) (*SeedResult, error) {
	return seedEach(db, "units", items, func(tx *gorm.DB, in UnitInput) (string, error) {
		unit, err := CreateUnit(tx, in)
		if err != nil {
			return "", err
		}
		return unit.ID, nil
	})
}

func SeedRooms(db *gorm.DB, items []RoomInput) (*SeedResult, error) {
	return seedEach(db, "rooms", items, func(tx *gorm.DB, in RoomInput) (string, error) {
		room, err := CreateRoom(tx, in)
		if err != nil {
			return "", err
		}
		return room.ID, nil
	})
}

func SeedComputers(db *gorm.DB, items []ComputerInput) (*SeedResult, error) {
	return seedEach(db, "computers", items, func(tx *gorm.DB, in ComputerInput) (string, error) {
		comp, err := CreateComputer(tx, in)
		if err != nil {
			return "", err
		}
		return comp.ID, nil
	})
}

func SeedLawyers(db *gorm.DB, items []LawyerInput) (*SeedResult, error) {
	return seedEach(db, "lawyers", items, func(tx *gorm.DB, in LawyerInput) (string, error) {
		lawyer, err := CreateLawyer(tx, in)
		if err != nil {
			return "", err
		}
		return lawyer.ID, nil
	})
}

func SeedAnalysts(db *gorm.DB, items []StaffInput) (*SeedResult, error) {
	return seedEach(db, "analysts", items, func(tx *gorm.DB, in StaffInput) (string, error) {
		analyst, err := CreateAnalyst(tx, in)
		if err != nil {
			return "", err
		}
		return analyst.ID, nil
	})
}

func SeedRoomAdmins(db *gorm.DB, items []StaffInput) (*SeedResult, error) {
	return seedEach(db, "room admins", items, func(tx *gorm.DB, in StaffInput) (string, error) {
		admin, err := CreateRoomAdmin(tx, in)
		if err != nil {
			return "", err
		}
		return admin.ID, nil
	})
}

// SeedSessionInput is a historical session. With EndTime set the session defaults to inactive.
type SeedSessionInput struct {
	ComputerID string     `json:"computer_id"`
	LawyerID   string     `json:"lawyer_id"`
	AdminID    string     `json:"admin_id"`
	Date       *time.Time `json:"date"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	Active     *bool      `json:"active"`
	AnalystIDs []string   `json:"analyst_ids"`
}

// SeedSessions loads historical sessions; the one-active-session-per-computer rule still applies
func SeedSessions(db *gorm.DB, items []SeedSessionInput) (*SeedResult, error) {
	return seedEach(db, "sessions", items, func(tx *gorm.DB, in SeedSessionInput) (string, error) {
		if in.StartTime.IsZero() {
			return "", ValidationError("start_time is required")
		}
		session := &models.Session{
			StartTime:  normalizeInstant(in.StartTime),
			ComputerID: in.ComputerID,
			LawyerID:   in.LawyerID,
			AdminID:    in.AdminID,
			Active:     in.EndTime == nil,
		}
		session.Date = dayOf(session.StartTime)
		if in.Date != nil {
			session.Date = dayOf(*in.Date)
		}
		if in.EndTime != nil {
			end := normalizeInstant(*in.EndTime)
			session.EndTime = &end
		}
		if in.Active != nil {
			session.Active = *in.Active
		}
		if session.Active && session.EndTime != nil {
			return "", ValidationError("an active session cannot have an end_time")
		}
		if err := insertSession(tx, session, in.AnalystIDs); err != nil {
			return "", err
		}
		return session.ID, nil
	})
}

// SeedAnalystFromEnv creates the first IT analyst from BOOTSTRAP_ANALYST_* variables.
// It does nothing unless username and password are set, and nothing once any analyst exists.
func SeedAnalystFromEnv(db *gorm.DB) error {
	username := os.Getenv("BOOTSTRAP_ANALYST_USERNAME")
	password := os.Getenv("BOOTSTRAP_ANALYST_PASSWORD")
	if username == "" || password == "" {
		return nil
	}
	name := os.Getenv("BOOTSTRAP_ANALYST_NAME")
	if name == "" {
		name = "Analista de TI"
	}
	email := os.Getenv("BOOTSTRAP_ANALYST_EMAIL")
	if email == "" {
		email = username + "@coworking.local"
	}
	taxID := os.Getenv("BOOTSTRAP_ANALYST_TAX_ID")
	if taxID == "" {
		taxID = "00000000000"
	}

	var count int64
	if err := db.Model(&models.ITAnalyst{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[SEED] An IT analyst already exists, skipping bootstrap")
		return nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		reg, err := CreateRegistration(tx, RegistrationInput{Name: &name, Email: &email, TaxID: &taxID})
		if err != nil {
			return err
		}
		_, err = CreateAnalyst(tx, StaffInput{RegistrationID: &reg.ID, Username: &username, Password: &password})
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("[SEED] Created bootstrap IT analyst: %s", username)
	return nil
}

package services

import (
	"coworking_app_go/models"
	"time"

	"gorm.io/gorm"
)

// RefView is an id/name pair for a hierarchy level
type RefView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionView is a session flattened with the entities it reaches through its computer and lawyer
type SessionView struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Active     bool       `json:"active"`
	ComputerID string     `json:"computer_id"`
	ComputerIP string     `json:"computer_ip,omitempty"`
	LawyerID   string     `json:"lawyer_id"`
	LawyerName string     `json:"lawyer_name,omitempty"`
	BarNumber  string     `json:"bar_number,omitempty"`
	AdminID    string     `json:"admin_id"`
	AnalystIDs []string   `json:"analyst_ids"`
	Room       *RefView   `json:"room,omitempty"`
	Unit       *RefView   `json:"unit,omitempty"`
	Subsection *RefView   `json:"subsection,omitempty"`
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// loadIndex loads the rows with the given ids in one query and indexes them by id
func loadIndex[T any](db *gorm.DB, ids []string, idOf func(*T) string) (map[string]*T, error) {
	index := make(map[string]*T, len(ids))
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return index, nil
	}
	var rows []T
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		index[idOf(&rows[i])] = &rows[i]
	}
	return index, nil
}

// BuildSessionViews flattens sessions with one query per referenced table, joining in memory.
// Output order matches the input order.
func BuildSessionViews(db *gorm.DB, sessions []models.Session) ([]SessionView, error) {
	views := make([]SessionView, 0, len(sessions))
	if len(sessions) == 0 {
		return views, nil
	}

	var sessionIDs, computerIDs, lawyerIDs []string
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
		computerIDs = append(computerIDs, s.ComputerID)
		lawyerIDs = append(lawyerIDs, s.LawyerID)
	}

	computers, err := loadIndex(db, computerIDs, func(c *models.Computer) string { return c.ID })
	if err != nil {
		return nil, err
	}
	var roomIDs []string
	for _, c := range computers {
		if c.RoomID != nil {
			roomIDs = append(roomIDs, *c.RoomID)
		}
	}
	rooms, err := loadIndex(db, roomIDs, func(r *models.Room) string { return r.ID })
	if err != nil {
		return nil, err
	}
	var unitIDs, subsectionIDs []string
	for _, r := range rooms {
		unitIDs = append(unitIDs, r.UnitID)
		subsectionIDs = append(subsectionIDs, r.SubsectionID)
	}
	units, err := loadIndex(db, unitIDs, func(u *models.Unit) string { return u.ID })
	if err != nil {
		return nil, err
	}
	subsections, err := loadIndex(db, subsectionIDs, func(s *models.Subsection) string { return s.ID })
	if err != nil {
		return nil, err
	}

	lawyers, err := loadIndex(db, lawyerIDs, func(l *models.LawyerUser) string { return l.ID })
	if err != nil {
		return nil, err
	}
	var registrationIDs []string
	for _, l := range lawyers {
		registrationIDs = append(registrationIDs, l.RegistrationID)
	}
	registrations, err := loadIndex(db, registrationIDs, func(r *models.Registration) string { return r.ID })
	if err != nil {
		return nil, err
	}

	var links []models.SessionAnalyst
	if err := db.Where("session_id IN ?", sessionIDs).Order("analyst_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	analysts := make(map[string][]string, len(sessions))
	for _, link := range links {
		analysts[link.SessionID] = append(analysts[link.SessionID], link.AnalystID)
	}

	for _, s := range sessions {
		view := SessionView{
			ID:         s.ID,
			Date:       s.Date.UTC().Format(DateLayout),
			StartTime:  s.StartTime.UTC(),
			Active:     s.Active,
			ComputerID: s.ComputerID,
			LawyerID:   s.LawyerID,
			AdminID:    s.AdminID,
			AnalystIDs: analysts[s.ID],
		}
		if view.AnalystIDs == nil {
			view.AnalystIDs = []string{}
		}
		if s.EndTime != nil {
			end := s.EndTime.UTC()
			view.EndTime = &end
		}
		if lawyer, ok := lawyers[s.LawyerID]; ok {
			view.BarNumber = lawyer.BarNumber
			if reg, ok := registrations[lawyer.RegistrationID]; ok {
				view.LawyerName = reg.Name
			}
		}
		if comp, ok := computers[s.ComputerID]; ok {
			view.ComputerIP = comp.IP
			if comp.RoomID != nil {
				if room, ok := rooms[*comp.RoomID]; ok {
					view.Room = &RefView{ID: room.ID, Name: room.Name}
					if unit, ok := units[room.UnitID]; ok {
						view.Unit = &RefView{ID: unit.ID, Name: unit.Name}
					}
					if sub, ok := subsections[room.SubsectionID]; ok {
						view.Subsection = &RefView{ID: sub.ID, Name: sub.Name}
					}
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}

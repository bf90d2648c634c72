package services

import (
	"coworking_app_go/models"
	"sort"
	"time"

	"gorm.io/gorm"
)

// monthNames are the Portuguese month names shown on the dashboard and in reports
var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name of month m (1-12)
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// PeakAccess is the start-time hour bucket with the most sessions
type PeakAccess struct {
	Hour  time.Time `json:"hour"`
	Count int64     `json:"count"`
}

// BusiestRoom is the room of a unit with the most sessions
type BusiestRoom struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
	Count  int64  `json:"count"`
}

// MonthlyFrequency counts the sessions of one calendar month
type MonthlyFrequency struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int64  `json:"count"`
}

// Dashboard aggregates the usage metrics of one room
type Dashboard struct {
	Subsection       RefView            `json:"subsection"`
	Unit             RefView            `json:"unit"`
	Room             RefView            `json:"room"`
	Year             *int               `json:"year,omitempty"`
	ActiveSessions   int64              `json:"active_sessions"`
	TotalSessions    int64              `json:"total_sessions"`
	PeakAccess       *PeakAccess        `json:"peak_access"`
	BusiestRoom      *BusiestRoom       `json:"busiest_room"`
	MonthlyFrequency []MonthlyFrequency `json:"monthly_frequency"`
}

// roomSessions scopes sessions to the computers of a room and, optionally, to a year of their date
func roomSessions(db *gorm.DB, roomID string, year *int) *gorm.DB {
	computers := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Computer{}).
		Select("id").
		Where("room_id = ?", roomID)
	query := db.Model(&models.Session{}).Where("sessions.computer_id IN (?)", computers)
	if year != nil {
		from, to := yearRange(*year)
		query = query.Where("sessions.date >= ? AND sessions.date < ?", from, to)
	}
	return query
}

// CountActiveSessions counts sessions in progress on the room's computers; years do not apply
func CountActiveSessions(db *gorm.DB, roomID string) (int64, error) {
	var count int64
	err := roomSessions(db, roomID, nil).
		Where("sessions.active = ? AND sessions.end_time IS NULL", true).
		Count(&count).Error
	return count, err
}

// CountTotalSessions counts all sessions on the room's computers, optionally within a year
func CountTotalSessions(db *gorm.DB, roomID string, year *int) (int64, error) {
	var count int64
	err := roomSessions(db, roomID, year).Count(&count).Error
	return count, err
}

// GetPeakAccess returns the hour with the most session starts, or nil with no sessions.
// Ties go to the earliest hour.
func GetPeakAccess(db *gorm.DB, roomID string, year *int) (*PeakAccess, error) {
	var starts []time.Time
	if err := roomSessions(db, roomID, year).Pluck("sessions.start_time", &starts).Error; err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return nil, nil
	}

	buckets := make(map[time.Time]int64)
	for _, s := range starts {
		buckets[s.UTC().Truncate(time.Hour)]++
	}

	var peak *PeakAccess
	for hour, count := range buckets {
		if peak == nil || count > peak.Count || (count == peak.Count && hour.Before(peak.Hour)) {
			peak = &PeakAccess{Hour: hour, Count: count}
		}
	}
	return peak, nil
}

// GetBusiestRoom returns the room of the subsection/unit with the most sessions, or nil when none has any.
// Ties go to the room name, then id, ascending.
func GetBusiestRoom(db *gorm.DB, subsectionID, unitID string, year *int) (*BusiestRoom, error) {
	type busiestRow struct {
		RoomID       string
		Name         string
		SessionCount int64
	}

	query := db.Table("rooms").
		Select("rooms.id AS room_id, rooms.name AS name, COUNT(sessions.id) AS session_count").
		Joins("JOIN computers ON computers.room_id = rooms.id").
		Joins("JOIN sessions ON sessions.computer_id = computers.id").
		Where("rooms.subsection_id = ? AND rooms.unit_id = ?", subsectionID, unitID)
	if year != nil {
		from, to := yearRange(*year)
		query = query.Where("sessions.date >= ? AND sessions.date < ?", from, to)
	}

	var rows []busiestRow
	err := query.
		Group("rooms.id, rooms.name").
		Order("COUNT(sessions.id) DESC, rooms.name ASC, rooms.id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &BusiestRoom{RoomID: rows[0].RoomID, Name: rows[0].Name, Count: rows[0].SessionCount}, nil
}

// GetMonthlyFrequency counts sessions per (year, month) of their date, ascending; empty months are omitted
func GetMonthlyFrequency(db *gorm.DB, roomID string, year *int) ([]MonthlyFrequency, error) {
	var dates []time.Time
	if err := roomSessions(db, roomID, year).Pluck("sessions.date", &dates).Error; err != nil {
		return nil, err
	}

	type yearMonth struct{ year, month int }
	counts := make(map[yearMonth]int64)
	for _, d := range dates {
		u := d.UTC()
		counts[yearMonth{u.Year(), int(u.Month())}]++
	}

	result := make([]MonthlyFrequency, 0, len(counts))
	for ym, count := range counts {
		result = append(result, MonthlyFrequency{
			Year:      ym.year,
			Month:     ym.month,
			MonthName: MonthName(ym.month),
			Count:     count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

// BuildDashboard validates the hierarchy path and computes every metric for the room
func BuildDashboard(db *gorm.DB, subsectionID, unitID, roomID string, year *int) (*Dashboard, error) {
	scope, err := ValidateDashboardScope(db, subsectionID, unitID, roomID)
	if err != nil {
		return nil, err
	}
	return buildDashboardForScope(db, scope, year)
}

func buildDashboardForScope(db *gorm.DB, scope *HierarchyScope, year *int) (*Dashboard, error) {
	dash := &Dashboard{
		Subsection: RefView{ID: scope.Subsection.ID, Name: scope.Subsection.Name},
		Unit:       RefView{ID: scope.Unit.ID, Name: scope.Unit.Name},
		Room:       RefView{ID: scope.Room.ID, Name: scope.Room.Name},
		Year:       year,
	}

	var err error
	if dash.ActiveSessions, err = CountActiveSessions(db, scope.Room.ID); err != nil {
		return nil, err
	}
	if dash.TotalSessions, err = CountTotalSessions(db, scope.Room.ID, year); err != nil {
		return nil, err
	}
	if dash.PeakAccess, err = GetPeakAccess(db, scope.Room.ID, year); err != nil {
		return nil, err
	}
	if dash.BusiestRoom, err = GetBusiestRoom(db, scope.Subsection.ID, scope.Unit.ID, year); err != nil {
		return nil, err
	}
	if dash.MonthlyFrequency, err = GetMonthlyFrequency(db, scope.Room.ID, year); err != nil {
		return nil, err
	}
	return dash, nil
}

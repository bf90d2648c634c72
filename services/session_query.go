package services

import (
	"coworking_app_go/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Date sort modes
const (
	SortMostRecent = "most_recent"
	SortOldest     = "oldest"
)

// inclusiveEnd resolves an upper range bound. Midnight stands for the whole day, so it
// becomes that day's last second; stored instants are truncated to seconds.
func inclusiveEnd(t time.Time) time.Time {
	t = normalizeInstant(t)
	if t.Equal(dayOf(t)) {
		return t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return t
}

// SessionFilter combines optional predicates with AND. Zero values mean "no restriction".
//
// SpecificDate takes priority over the StartFrom/StartTo range. TimeFrom/TimeTo are clock
// offsets from midnight and are only valid together with SpecificDate.
// StartTo and EndTo are inclusive; a bound at midnight UTC (a bare date) covers that whole day.
type SessionFilter struct {
	AdminID    string
	ComputerID string
	LawyerID   string

	SpecificDate *time.Time
	TimeFrom     *time.Duration
	TimeTo       *time.Duration
	StartFrom    *time.Time
	StartTo      *time.Time
	EndFrom      *time.Time
	EndTo        *time.Time
	Year         *int

	IPSubstring string
	ActiveOnly  *bool

	SortByUserName bool
	SortByDate     string

	Skip  int
	Limit int
}

// NewSessionFilter returns a filter with the default page size and sort
func NewSessionFilter() SessionFilter {
	return SessionFilter{Limit: DefaultLimit, SortByDate: SortMostRecent}
}

// Validate rejects inconsistent combinations before any query runs
func (f SessionFilter) Validate() error {
	if err := ValidatePagination(f.Skip, f.Limit); err != nil {
		return err
	}
	if (f.TimeFrom != nil || f.TimeTo != nil) && f.SpecificDate == nil {
		return ValidationError("time_from and time_to require specific_date")
	}
	for _, d := range []*time.Duration{f.TimeFrom, f.TimeTo} {
		if d != nil && (*d < 0 || *d >= 24*time.Hour) {
			return ValidationError("time of day must be between 00:00 and 23:59")
		}
	}
	if f.TimeFrom != nil && f.TimeTo != nil && *f.TimeFrom > *f.TimeTo {
		return ValidationError("time_from must not be after time_to")
	}
	if f.StartFrom != nil && f.StartTo != nil && f.StartFrom.After(inclusiveEnd(*f.StartTo)) {
		return ValidationError("start_from must not be after start_to")
	}
	if f.EndFrom != nil && f.EndTo != nil && f.EndFrom.After(inclusiveEnd(*f.EndTo)) {
		return ValidationError("end_from must not be after end_to")
	}
	switch f.SortByDate {
	case "", SortMostRecent, SortOldest:
	default:
		return ValidationError("sort_by_date must be %s or %s", SortMostRecent, SortOldest)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// yearRange returns [Jan 1 of year, Jan 1 of year+1) in UTC
func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// applySessionFilter adds every supplied predicate. It never joins: the IP match is a
// semi-join on computers, so each session appears at most once.
func applySessionFilter(db *gorm.DB, f SessionFilter) *gorm.DB {
	query := db.Model(&models.Session{})

	if f.AdminID != "" {
		query = query.Where("sessions.admin_id = ?", f.AdminID)
	}
	if f.ComputerID != "" {
		query = query.Where("sessions.computer_id = ?", f.ComputerID)
	}
	if f.LawyerID != "" {
		query = query.Where("sessions.lawyer_id = ?", f.LawyerID)
	}

	if f.SpecificDate != nil {
		day := dayOf(*f.SpecificDate)
		query = query.Where("sessions.date >= ? AND sessions.date < ?", day, day.AddDate(0, 0, 1))
		if f.TimeFrom != nil {
			query = query.Where("sessions.start_time >= ?", day.Add(*f.TimeFrom))
		}
		if f.TimeTo != nil {
			// Inclusive up to the last second of the given minute
			query = query.Where("sessions.start_time <= ?", day.Add(*f.TimeTo+time.Minute-time.Second))
		}
	} else {
		if f.StartFrom != nil {
			query = query.Where("sessions.start_time >= ?", normalizeInstant(*f.StartFrom))
		}
		if f.StartTo != nil {
			query = query.Where("sessions.start_time <= ?", inclusiveEnd(*f.StartTo))
		}
	}
	if f.EndFrom != nil {
		query = query.Where("sessions.end_time >= ?", normalizeInstant(*f.EndFrom))
	}
	if f.EndTo != nil {
		query = query.Where("sessions.end_time <= ?", inclusiveEnd(*f.EndTo))
	}
	if f.Year != nil {
		from, to := yearRange(*f.Year)
		query = query.Where("sessions.date >= ? AND sessions.date < ?", from, to)
	}

	if ip := strings.TrimSpace(f.IPSubstring); ip != "" {
		pattern := "%" + escapeLike(strings.ToLower(ip)) + "%"
		computers := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Computer{}).
			Select("id").
			Where(`LOWER(ip) LIKE ? ESCAPE '\'`, pattern)
		query = query.Where("sessions.computer_id IN (?)", computers)
	}

	if f.ActiveOnly != nil {
		if *f.ActiveOnly {
			query = query.Where("sessions.active = ? AND sessions.end_time IS NULL", true)
		} else {
			query = query.Where("(sessions.active = ? OR sessions.end_time IS NOT NULL)", false)
		}
	}

	return query
}

// applySessionOrder sorts by lawyer name when requested, otherwise by start time.
// The name sort joins to-one relations only, so it cannot multiply rows.
func applySessionOrder(query *gorm.DB, f SessionFilter) *gorm.DB {
	direction := "DESC"
	if f.SortByDate == SortOldest {
		direction = "ASC"
	}

	if f.SortByUserName {
		return query.
			Joins("JOIN lawyer_users ON lawyer_users.id = sessions.lawyer_id").
			Joins("JOIN registrations ON registrations.id = lawyer_users.registration_id").
			Order("registrations.name ASC").
			Order("sessions.start_time " + direction).
			Order("sessions.id ASC")
	}
	return query.Order("sessions.start_time " + direction).Order("sessions.id ASC")
}

// CountSessions returns how many sessions match f, ignoring pagination
func CountSessions(db *gorm.DB, f SessionFilter) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	var total int64
	err := applySessionFilter(db, f).Count(&total).Error
	return total, err
}

// findSessions runs the filtered, sorted, paginated query and returns raw rows
func findSessions(db *gorm.DB, f SessionFilter) ([]models.Session, error) {
	var sessions []models.Session
	err := applySessionOrder(applySessionFilter(db, f), f).
		Select("sessions.*").
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&sessions).Error
	return sessions, err
}

// ListSessions returns one page of flattened sessions matching f, plus the total match count
func ListSessions(db *gorm.DB, f SessionFilter) ([]SessionView, int64, error) {
	if f.SortByDate == "" {
		f.SortByDate = SortMostRecent
	}
	total, err := CountSessions(db, f)
	if err != nil {
		return nil, 0, err
	}
	sessions, err := findSessions(db, f)
	if err != nil {
		return nil, 0, err
	}
	views, err := BuildSessionViews(db, sessions)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListActiveSessions returns sessions currently in progress
func ListActiveSessions(db *gorm.DB, skip, limit int) ([]SessionView, int64, error) {
	active := true
	f := NewSessionFilter()
	f.ActiveOnly = &active
	f.Skip, f.Limit = skip, limit
	return ListSessions(db, f)
}

// ListSessionsByLawyer returns a lawyer's sessions, most recent first
func ListSessionsByLawyer(db *gorm.DB, lawyerID string, skip, limit int) ([]SessionView, int64, error) {
	if _, err := findByID[models.LawyerUser](db, lawyerID, "lawyer"); err != nil {
		return nil, 0, err
	}
	f := NewSessionFilter()
	f.LawyerID = lawyerID
	f.Skip, f.Limit = skip, limit
	return ListSessions(db, f)
}

// ListSessionsByDate returns the sessions of one calendar day, most recent first
func ListSessionsByDate(db *gorm.DB, date time.Time, skip, limit int) ([]SessionView, int64, error) {
	f := NewSessionFilter()
	f.SpecificDate = &date
	f.Skip, f.Limit = skip, limit
	return ListSessions(db, f)
}

// GetSessionView returns one session flattened with its hierarchy
func GetSessionView(db *gorm.DB, id string) (*SessionView, error) {
	session, err := findByID[models.Session](db, id, "session")
	if err != nil {
		return nil, err
	}
	views, err := BuildSessionViews(db, []models.Session{*session})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

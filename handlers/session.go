package handlers

import (
	"fmt"
	"net/http"
	"time"

	"coworking_app_go/db"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

type createSessionRequest struct {
	ComputerID string     `json:"computer_id"`
	LawyerID   string     `json:"lawyer_id"`
	AdminID    string     `json:"admin_id"`
	Date       *string    `json:"date"`
	StartTime  *time.Time `json:"start_time"`
	AnalystIDs []string   `json:"analyst_ids"`
}

// Neither active nor end_time can be set here; finalize and deactivate own those
type updateSessionRequest struct {
	ComputerID *string    `json:"computer_id"`
	LawyerID   *string    `json:"lawyer_id"`
	AdminID    *string    `json:"admin_id"`
	Date       *string    `json:"date"`
	StartTime  *time.Time `json:"start_time"`
	AnalystIDs *[]string  `json:"analyst_ids"`
}

type replaceAnalystsRequest struct {
	AnalystIDs []string `json:"analyst_ids"`
}

func optionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := parseDate("date", *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// sessionFilterFromQuery builds the list filter from query parameters.
// The same parameters drive GET /api/sessions and GET /api/sessions/export.
func sessionFilterFromQuery(c echo.Context) (services.SessionFilter, error) {
	f := services.NewSessionFilter()
	f.AdminID = c.QueryParam("admin_id")
	f.ComputerID = c.QueryParam("computer_id")
	f.LawyerID = c.QueryParam("lawyer_id")
	f.IPSubstring = c.QueryParam("ip_substring")

	if raw := c.QueryParam("specific_date"); raw != "" {
		d, err := parseDate("specific_date", raw)
		if err != nil {
			return f, err
		}
		f.SpecificDate = &d
	}
	for _, p := range []struct {
		name string
		dest **time.Duration
	}{{"time_from", &f.TimeFrom}, {"time_to", &f.TimeTo}} {
		if raw := c.QueryParam(p.name); raw != "" {
			d, err := parseClock(p.name, raw)
			if err != nil {
				return f, err
			}
			*p.dest = &d
		}
	}
	for _, p := range []struct {
		name string
		dest **time.Time
	}{{"start_from", &f.StartFrom}, {"start_to", &f.StartTo}, {"end_from", &f.EndFrom}, {"end_to", &f.EndTo}} {
		if raw := c.QueryParam(p.name); raw != "" {
			t, err := parseInstant(p.name, raw)
			if err != nil {
				return f, err
			}
			*p.dest = &t
		}
	}

	var err error
	if f.Year, err = queryIntPtr(c, "year"); err != nil {
		return f, err
	}
	if f.ActiveOnly, err = queryBoolPtr(c, "active_only"); err != nil {
		return f, err
	}
	sortByName, err := queryBoolPtr(c, "sort_by_user_name")
	if err != nil {
		return f, err
	}
	f.SortByUserName = sortByName != nil && *sortByName
	if raw := c.QueryParam("sort_by_date"); raw != "" {
		f.SortByDate = raw
	}
	if f.Skip, f.Limit, err = parsePagination(c); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// GetSessions lists sessions matching the query filters
func GetSessions(c echo.Context) error {
	f, err := sessionFilterFromQuery(c)
	if err != nil {
		return err
	}
	views, total, err := services.ListSessions(db.DB, f)
	if err != nil {
		return err
	}
	return listResponse(c, views, f.Skip, f.Limit, total)
}

// GetActiveSessions lists sessions currently in progress
func GetActiveSessions(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	views, total, err := services.ListActiveSessions(db.DB, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, views, skip, limit, total)
}

func GetSessionsByLawyer(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	views, total, err := services.ListSessionsByLawyer(db.DB, c.Param("lawyer_id"), skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, views, skip, limit, total)
}

func GetSessionsByDate(c echo.Context) error {
	date, err := parseDate("date", c.Param("date"))
	if err != nil {
		return err
	}
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	views, total, err := services.ListSessionsByDate(db.DB, date, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, views, skip, limit, total)
}

// ExportSessions streams the filtered sessions as an xlsx workbook
func ExportSessions(c echo.Context) error {
	f, err := sessionFilterFromQuery(c)
	if err != nil {
		return err
	}
	buf, err := services.ExportSessionsXLSX(db.DB, f)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("sessoes_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func GetSession(c echo.Context) error {
	view, err := services.GetSessionView(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// CreateSession opens a session; start_time defaults to now
func CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		return err
	}
	in := services.CreateSessionInput{
		ComputerID: req.ComputerID,
		LawyerID:   req.LawyerID,
		AdminID:    req.AdminID,
		Date:       date,
		AnalystIDs: req.AnalystIDs,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}

	session, err := services.CreateSession(db.DB, in)
	if err != nil {
		return err
	}
	return respondWithSession(c, http.StatusCreated, models.AuditActionCreate, "Session opened", nil, session)
}

func UpdateSession(c echo.Context) error {
	var req updateSessionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	date, err := optionalDate(req.Date)
	if err != nil {
		return err
	}

	old, err := services.GetSessionByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	session, err := services.UpdateSession(db.DB, old.ID, services.UpdateSessionInput{
		Date:       date,
		StartTime:  req.StartTime,
		ComputerID: req.ComputerID,
		LawyerID:   req.LawyerID,
		AdminID:    req.AdminID,
		AnalystIDs: req.AnalystIDs,
	})
	if err != nil {
		return err
	}
	return respondWithSession(c, http.StatusOK, models.AuditActionUpdate, "Session updated", old, session)
}

// ReplaceSessionAnalysts sets the session's analysts to exactly the given ids
func ReplaceSessionAnalysts(c echo.Context) error {
	var req replaceAnalystsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	sessionID := c.Param("id")
	oldIDs, err := services.GetSessionAnalystIDs(db.DB, sessionID)
	if err != nil {
		return err
	}
	ids, err := services.ReplaceAnalysts(db.DB, sessionID, req.AnalystIDs)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "Session", sessionID, "", "Session analysts replaced",
		map[string]interface{}{"analyst_ids": oldIDs}, map[string]interface{}{"analyst_ids": ids})
	return c.JSON(http.StatusOK, map[string]interface{}{"session_id": sessionID, "analyst_ids": ids})
}

func FinalizeSession(c echo.Context) error {
	session, err := services.FinalizeSession(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return respondWithSession(c, http.StatusOK, models.AuditActionFinalize, "Session finalized", nil, session)
}

func DeactivateSession(c echo.Context) error {
	session, err := services.DeactivateSession(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return respondWithSession(c, http.StatusOK, models.AuditActionDeactivate, "Session deactivated", nil, session)
}

func DeleteSession(c echo.Context) error {
	old, err := services.GetSessionByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteSession(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "Session", old.ID, "", "Session deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// respondWithSession audits the mutation and renders the flattened session
func respondWithSession(c echo.Context, status int, action models.AuditAction, description string, old interface{}, session *models.Session) error {
	recordAudit(c, action, "Session", session.ID, "", description, old, session)
	view, err := services.GetSessionView(db.DB, session.ID)
	if err != nil {
		return err
	}
	return c.JSON(status, view)
}

package handlers

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"coworking_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSessionLifecycleEndpoints(t *testing.T) {
	database := setupTestDB(t)
	e := newTestServer(t)
	f := newFixture(t, database)

	start := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	body := map[string]interface{}{
		"computer_id": f.ComputerID,
		"lawyer_id":   f.LawyerID,
		"admin_id":    f.AdminID,
		"start_time":  start,
		"analyst_ids": []string{f.AnalystID},
	}

	rec := request(t, e, http.MethodPost, "/api/sessions", f.AdminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[services.SessionView](t, rec)
	assert.True(t, created.Active)
	assert.Equal(t, "2025-01-15", created.Date)
	assert.Equal(t, []string{f.AnalystID}, created.AnalystIDs)
	require.NotNil(t, created.Room)
	assert.Equal(t, f.RoomID, created.Room.ID)

	t.Run("SecondSessionOnBusyComputer", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/sessions", f.AdminToken, body)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "conflict", decode[ErrorResponse](t, rec).Kind)
	})

	t.Run("UnknownLawyer", func(t *testing.T) {
		bad := map[string]interface{}{"computer_id": f.ComputerID, "lawyer_id": "missing", "admin_id": f.AdminID}
		rec := request(t, e, http.MethodPost, "/api/sessions", f.AdminToken, bad)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Get", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions/"+created.ID, f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created.ID, decode[services.SessionView](t, rec).ID)
	})

	t.Run("ReplaceAnalysts", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, "/api/sessions/"+created.ID+"/analysts", f.AdminToken,
			map[string]interface{}{"analyst_ids": []string{}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		ids, err := services.GetSessionAnalystIDs(database, created.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)

		rec = request(t, e, http.MethodPut, "/api/sessions/"+created.ID+"/analysts", f.AdminToken,
			map[string]interface{}{"analyst_ids": []string{f.AnalystID, "missing"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Update", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, "/api/sessions/"+created.ID, f.AdminToken,
			map[string]interface{}{"date": "2025-01-16"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "2025-01-16", decode[services.SessionView](t, rec).Date)

		rec = request(t, e, http.MethodPut, "/api/sessions/"+created.ID, f.AdminToken,
			map[string]interface{}{"date": "16/01/2025"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("FinalizeTwice", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/sessions/"+created.ID+"/finalize", f.AdminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		finalized := decode[services.SessionView](t, rec)
		assert.False(t, finalized.Active)
		require.NotNil(t, finalized.EndTime)

		rec = request(t, e, http.MethodPost, "/api/sessions/"+created.ID+"/finalize", f.AdminToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = request(t, e, http.MethodPost, "/api/sessions/"+created.ID+"/deactivate", f.AdminToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		rec := request(t, e, http.MethodDelete, "/api/sessions/"+created.ID, f.AdminToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = request(t, e, http.MethodGet, "/api/sessions/"+created.ID, f.AdminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("RequiresToken", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/sessions", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSessionListEndpoints(t *testing.T) {
	database := setupTestDB(t)
	e := newTestServer(t)
	f := newFixture(t, database)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	first, err := services.CreateSession(database, services.CreateSessionInput{
		ComputerID: f.ComputerID, LawyerID: f.LawyerID, AdminID: f.AdminID, StartTime: day.Add(8 * time.Hour),
	})
	require.NoError(t, err)
	_, err = services.FinalizeSession(database, first.ID)
	require.NoError(t, err)
	second, err := services.CreateSession(database, services.CreateSessionInput{
		ComputerID: f.ComputerID, LawyerID: f.LawyerID, AdminID: f.AdminID, StartTime: day.Add(14 * time.Hour),
	})
	require.NoError(t, err)

	t.Run("DefaultOrderMostRecentFirst", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions", f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		list := decode[listBody[services.SessionView]](t, rec)
		require.Len(t, list.Data, 2)
		assert.Equal(t, second.ID, list.Data[0].ID)
		assert.Equal(t, first.ID, list.Data[1].ID)
		assert.Equal(t, Pagination{Skip: 0, Limit: services.DefaultLimit, Total: 2}, list.Pagination)
	})

	t.Run("OldestAndPaging", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions?sort_by_date=oldest&limit=1", f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[listBody[services.SessionView]](t, rec)
		require.Len(t, list.Data, 1)
		assert.Equal(t, first.ID, list.Data[0].ID)
		assert.Equal(t, int64(2), list.Pagination.Total)
	})

	t.Run("ActiveOnly", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions?active_only=true", f.LawyerToken, nil)
		list := decode[listBody[services.SessionView]](t, rec)
		require.Len(t, list.Data, 1)
		assert.Equal(t, second.ID, list.Data[0].ID)

		rec = request(t, e, http.MethodGet, "/api/sessions/active", f.LawyerToken, nil)
		assert.Len(t, decode[listBody[services.SessionView]](t, rec).Data, 1)
	})

	t.Run("SpecificDateAndClock", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions?specific_date=2025-03-10&time_from=07:00&time_to=09:00", f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		list := decode[listBody[services.SessionView]](t, rec)
		require.Len(t, list.Data, 1)
		assert.Equal(t, first.ID, list.Data[0].ID)
	})

	t.Run("StartRangeWithBareDates", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions?start_to=2025-03-10", f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, decode[listBody[services.SessionView]](t, rec).Data, 2)

		rec = request(t, e, http.MethodGet, "/api/sessions?start_to=2025-03-09", f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[listBody[services.SessionView]](t, rec).Data)

		rec = request(t, e, http.MethodGet, "/api/sessions?start_from=2025-03-10T12:00:00Z&start_to=2025-03-10", f.LawyerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		list := decode[listBody[services.SessionView]](t, rec)
		require.Len(t, list.Data, 1)
		assert.Equal(t, second.ID, list.Data[0].ID)
	})

	t.Run("ClockWithoutDateIsRejected", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions?time_from=07:00", f.LawyerToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", decode[ErrorResponse](t, rec).Kind)
	})

	t.Run("BadParameters", func(t *testing.T) {
		for _, query := range []string{"limit=0", "limit=1001", "skip=-1", "sort_by_date=newest", "active_only=maybe", "year=abc"} {
			rec := request(t, e, http.MethodGet, "/api/sessions?"+query, f.LawyerToken, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		}
	})

	t.Run("IPSubstring", func(t *testing.T) {
		comp, err := services.GetComputerByID(database, f.ComputerID)
		require.NoError(t, err)

		rec := request(t, e, http.MethodGet, "/api/sessions?ip_substring="+comp.IP[3:], f.LawyerToken, nil)
		assert.Len(t, decode[listBody[services.SessionView]](t, rec).Data, 2)

		rec = request(t, e, http.MethodGet, "/api/sessions?ip_substring=172.31", f.LawyerToken, nil)
		assert.Empty(t, decode[listBody[services.SessionView]](t, rec).Data)
	})

	t.Run("ByLawyerAndDate", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions/by-lawyer/"+f.LawyerID, f.LawyerToken, nil)
		assert.Len(t, decode[listBody[services.SessionView]](t, rec).Data, 2)

		rec = request(t, e, http.MethodGet, "/api/sessions/by-lawyer/missing", f.LawyerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = request(t, e, http.MethodGet, "/api/sessions/by-date/2025-03-11", f.LawyerToken, nil)
		assert.Empty(t, decode[listBody[services.SessionView]](t, rec).Data)

		rec = request(t, e, http.MethodGet, "/api/sessions/by-date/yesterday", f.LawyerToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Export", func(t *testing.T) {
		rec := request(t, e, http.MethodGet, "/api/sessions/export?active_only=false", f.AnalystToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

		file, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer file.Close()
		rows, err := file.GetRows(file.GetSheetName(0))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, first.ID, rows[1][0])
	})
}

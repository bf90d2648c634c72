package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"coworking_app_go/config"
	"coworking_app_go/db"
	"coworking_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handlers-test-secret-0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		JWTSecret:     testSecret,
		TokenTTL:      time.Hour,
		EmailTestMode: true,
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async audit writes
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	// Set global DB
	db.DB = testDB
	services.Storage = services.NewLocalStorage(t.TempDir())
	services.Monitor = services.NewSecurityEventMonitor()

	t.Cleanup(func() {
		// let background audit writes drain before the database goes away
		time.Sleep(20 * time.Millisecond)
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", testConfig())

	return e, c, rec
}

// newTestServer wires the full route table the way cmd/server does
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	RegisterRoutes(e, testConfig())
	return e
}

// request performs an HTTP call against e; body is JSON-encoded unless it is nil
func request(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	// every call gets its own address so the login limiter never trips across tests
	req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("198.51.100.%d", nextSeq()%250+1))
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ptr[T any](v T) *T {
	return &v
}

var seq int

func nextSeq() int {
	seq++
	return seq
}

type fixture struct {
	SubsectionID string
	UnitID       string
	RoomID       string
	ComputerID   string
	LawyerID     string
	AdminID      string
	AnalystID    string

	LawyerToken  string
	AdminToken   string
	AnalystToken string
}

func createRegistration(t *testing.T, database *gorm.DB, name string) *services.Principal {
	t.Helper()
	reg, err := services.CreateRegistration(database, services.RegistrationInput{
		Name:  ptr(name),
		Email: ptr(uuid.New().String()[:8] + "@oab.org.br"),
		TaxID: ptr(fmt.Sprintf("%011d", nextSeq())),
	})
	require.NoError(t, err)
	return &services.Principal{RegistrationID: reg.ID, Name: reg.Name, Email: reg.Email}
}

func tokenFor(t *testing.T, p *services.Principal) string {
	t.Helper()
	token, _, err := services.IssueToken(testSecret, p, time.Hour)
	require.NoError(t, err)
	return token
}

// newFixture builds one subsection/unit/room/computer plus a lawyer, a room admin and an analyst with tokens
func newFixture(t *testing.T, database *gorm.DB) *fixture {
	t.Helper()
	num := nextSeq()
	n := strconv.Itoa(num)

	sub, err := services.CreateSubsection(database, services.SubsectionInput{Name: ptr("Subseção " + n)})
	require.NoError(t, err)
	unit, err := services.CreateUnit(database, services.UnitInput{Name: ptr("Sede " + n), Hierarchy: ptr("SEDE"), SubsectionID: &sub.ID})
	require.NoError(t, err)
	room, err := services.CreateRoom(database, services.RoomInput{Name: ptr("Sala " + n), SubsectionID: &sub.ID, UnitID: &unit.ID})
	require.NoError(t, err)
	comp, err := services.CreateComputer(database, services.ComputerInput{IP: ptr(fmt.Sprintf("10.1.%d.%d", num/256%256, num%256)), AssetTag: ptr("PAT-" + n), RoomID: &room.ID})
	require.NoError(t, err)

	f := &fixture{SubsectionID: sub.ID, UnitID: unit.ID, RoomID: room.ID, ComputerID: comp.ID}

	lawyerP := createRegistration(t, database, "Advogado "+n)
	lawyer, err := services.CreateLawyer(database, services.LawyerInput{
		RegistrationID: &lawyerP.RegistrationID, BarNumber: ptr("SP" + n), SecurityCode: ptr("1234"),
	})
	require.NoError(t, err)
	lawyerP.ID, lawyerP.Role = lawyer.ID, services.RoleLawyer

	adminP := createRegistration(t, database, "Admin "+n)
	admin, err := services.CreateRoomAdmin(database, services.StaffInput{
		RegistrationID: &adminP.RegistrationID, Username: ptr("admin" + n), Password: ptr("Senha1234"),
	})
	require.NoError(t, err)
	adminP.ID, adminP.Role = admin.ID, services.RoleAdmin

	analystP := createRegistration(t, database, "Analista "+n)
	analyst, err := services.CreateAnalyst(database, services.StaffInput{
		RegistrationID: &analystP.RegistrationID, Username: ptr("analista" + n), Password: ptr("Senha1234"),
	})
	require.NoError(t, err)
	analystP.ID, analystP.Role = analyst.ID, services.RoleAnalyst

	f.LawyerID, f.AdminID, f.AnalystID = lawyer.ID, admin.ID, analyst.ID
	f.LawyerToken = tokenFor(t, lawyerP)
	f.AdminToken = tokenFor(t, adminP)
	f.AnalystToken = tokenFor(t, analystP)
	return f
}

// listBody is the decoded shape of every list endpoint
type listBody[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

package services

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	database "coworking_app_go/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Shared cache so every pooled connection sees the same in-memory database
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

// freezeClock pins the session clock for the duration of a test
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at.UTC().Truncate(time.Second) }
	t.Cleanup(func() { now = prev })
}

// fixture is one subsection → unit → room → computer chain with the people needed to open sessions
type fixture struct {
	SubsectionID string
	UnitID       string
	RoomID       string
	ComputerID   string
	LawyerID     string
	AdminID      string
	AnalystID    string
}

var fixtureSeq int

func nextSeq() int {
	fixtureSeq++
	return fixtureSeq
}

func createRegistration(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	n := nextSeq()
	reg, err := CreateRegistration(db, RegistrationInput{
		Name:  ptr(name),
		Email: ptr(uuid.New().String()[:8] + "@oab.org.br"),
		TaxID: ptr(taxIDFor(n)),
	})
	require.NoError(t, err)
	return reg.ID
}

// taxIDFor builds a distinct 11-digit tax id
func taxIDFor(n int) string {
	return fmt.Sprintf("%011d", n)
}

// ipFor builds a distinct IPv4 address in 10.0.0.0/8
func ipFor(n int) string {
	return fmt.Sprintf("10.%d.%d.%d", n/65536%256, n/256%256, n%256)
}

func createLawyer(t *testing.T, db *gorm.DB, name, bar string) string {
	t.Helper()
	lawyer, err := CreateLawyer(db, LawyerInput{
		RegistrationID: ptr(createRegistration(t, db, name)),
		BarNumber:      ptr(bar),
		SecurityCode:   ptr("1234"),
	})
	require.NoError(t, err)
	return lawyer.ID
}

func createAnalyst(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	analyst, err := CreateAnalyst(db, StaffInput{
		RegistrationID: ptr(createRegistration(t, db, "Analista "+username)),
		Username:       ptr(username),
		Password:       ptr("Senha1234"),
	})
	require.NoError(t, err)
	return analyst.ID
}

func createRoomAdmin(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	admin, err := CreateRoomAdmin(db, StaffInput{
		RegistrationID: ptr(createRegistration(t, db, "Admin "+username)),
		Username:       ptr(username),
		Password:       ptr("Senha1234"),
		IsLocalAdmin:   ptr(true),
	})
	require.NoError(t, err)
	return admin.ID
}

func createRoom(t *testing.T, db *gorm.DB, subsectionID, unitID, name string) string {
	t.Helper()
	room, err := CreateRoom(db, RoomInput{Name: ptr(name), SubsectionID: ptr(subsectionID), UnitID: ptr(unitID)})
	require.NoError(t, err)
	return room.ID
}

func createComputer(t *testing.T, db *gorm.DB, roomID, ip string) string {
	t.Helper()
	comp, err := CreateComputer(db, ComputerInput{IP: ptr(ip), AssetTag: ptr("PAT-" + ip), RoomID: ptr(roomID)})
	require.NoError(t, err)
	return comp.ID
}

func newFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	seq := nextSeq()
	n := strconv.Itoa(seq)
	sub, err := CreateSubsection(db, SubsectionInput{Name: ptr("Subseção " + n)})
	require.NoError(t, err)
	unit, err := CreateUnit(db, UnitInput{Name: ptr("Sede " + n), Hierarchy: ptr("SEDE"), SubsectionID: ptr(sub.ID)})
	require.NoError(t, err)

	f := &fixture{SubsectionID: sub.ID, UnitID: unit.ID}
	f.RoomID = createRoom(t, db, sub.ID, unit.ID, "Sala "+n)
	f.ComputerID = createComputer(t, db, f.RoomID, ipFor(seq))
	f.LawyerID = createLawyer(t, db, "Advogado "+n, "SP"+n)
	f.AdminID = createRoomAdmin(t, db, "admin"+n)
	f.AnalystID = createAnalyst(t, db, "analista"+n)
	return f
}

// openSession starts a session on computerID at start
func (f *fixture) openSession(t *testing.T, db *gorm.DB, computerID string, start time.Time) string {
	t.Helper()
	s, err := CreateSession(db, CreateSessionInput{
		ComputerID: computerID,
		LawyerID:   f.LawyerID,
		AdminID:    f.AdminID,
		StartTime:  start,
	})
	require.NoError(t, err)
	return s.ID
}

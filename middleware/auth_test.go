package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coworking_app_go/config"
	"coworking_app_go/db"
	"coworking_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "middleware-test-secret-0123456789abcdef"

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := "file:mem_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	// Set the global DB variable used by middleware
	db.DB = testDB
	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB
}

var taxSeq int

func createAnalyst(t *testing.T, testDB *gorm.DB) *services.Principal {
	taxSeq++
	name, email, taxID := "Analista", uuid.NewString()[:8]+"@oab.org.br", fmt.Sprintf("%011d", taxSeq)
	reg, err := services.CreateRegistration(testDB, services.RegistrationInput{Name: &name, Email: &email, TaxID: &taxID})
	require.NoError(t, err)
	username, password := "ti_"+uuid.NewString()[:6], "Senha1234"
	_, err = services.CreateAnalyst(testDB, services.StaffInput{RegistrationID: &reg.ID, Username: &username, Password: &password})
	require.NoError(t, err)

	principal, err := services.LoginAnalyst(testDB, username, password)
	require.NoError(t, err)
	return principal
}

func newAuthContext(e *echo.Echo, header string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyConfig, &config.Config{JWTSecret: testSecret})
	return c, rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()
	principal := createAnalyst(t, testDB)

	token, _, err := services.IssueToken(testSecret, principal, time.Hour)
	require.NoError(t, err)

	t.Run("ValidToken", func(t *testing.T) {
		c, rec := newAuthContext(e, "Bearer "+token)

		err := RequireAuth()(okHandler)(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		current := GetCurrentPrincipal(c)
		require.NotNil(t, current)
		assert.Equal(t, principal.ID, current.ID)
		assert.Equal(t, services.RoleAnalyst, current.Role)
	})

	t.Run("SchemeIsCaseInsensitive", func(t *testing.T) {
		c, _ := newAuthContext(e, "bearer "+token)
		assert.NoError(t, RequireAuth()(okHandler)(c))
	})

	t.Run("MissingHeader", func(t *testing.T) {
		c, _ := newAuthContext(e, "")
		err := RequireAuth()(okHandler)(c)
		assert.Equal(t, services.KindUnauthorized, services.KindOf(err))
		assert.Nil(t, GetCurrentPrincipal(c))
	})

	t.Run("WrongScheme", func(t *testing.T) {
		c, _ := newAuthContext(e, "Basic "+token)
		err := RequireAuth()(okHandler)(c)
		assert.Equal(t, services.KindUnauthorized, services.KindOf(err))
	})

	t.Run("ForeignSignature", func(t *testing.T) {
		forged, _, err := services.IssueToken("another-secret-another-secret-0000", principal, time.Hour)
		require.NoError(t, err)

		c, _ := newAuthContext(e, "Bearer "+forged)
		err = RequireAuth()(okHandler)(c)
		assert.Equal(t, services.KindUnauthorized, services.KindOf(err))
	})

	t.Run("DeletedPrincipal", func(t *testing.T) {
		other := createAnalyst(t, testDB)
		otherToken, _, err := services.IssueToken(testSecret, other, time.Hour)
		require.NoError(t, err)
		require.NoError(t, services.DeleteAnalyst(testDB, other.ID))

		c, _ := newAuthContext(e, "Bearer "+otherToken)
		err = RequireAuth()(okHandler)(c)
		assert.Equal(t, services.KindUnauthorized, services.KindOf(err))
	})

	t.Run("NoConfig", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := RequireAuth()(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, he.Code)
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	t.Run("AllowedRole", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(ContextKeyPrincipal, &services.Principal{ID: "a1", Role: services.RoleAnalyst})

		assert.NoError(t, RequireRole(services.RoleAdmin, services.RoleAnalyst)(okHandler)(c))
	})

	t.Run("ForbiddenRole", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(ContextKeyPrincipal, &services.Principal{ID: "l1", Role: services.RoleLawyer})

		err := RequireRole(services.RoleAnalyst)(okHandler)(c)
		assert.Equal(t, services.KindForbidden, services.KindOf(err))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		err := RequireRole(services.RoleAnalyst)(okHandler)(c)
		assert.Equal(t, services.KindUnauthorized, services.KindOf(err))
	})
}

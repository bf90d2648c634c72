package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-at-least-32-characters!"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Segredo123")
	require.NoError(t, err)
	assert.NotEqual(t, "Segredo123", hash)
	assert.True(t, CheckPassword("Segredo123", hash))
	assert.False(t, CheckPassword("errada", hash))
}

func TestLoginLawyer(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	lawyer, err := GetLawyerByID(db, f.LawyerID)
	require.NoError(t, err)

	p, err := LoginLawyer(db, " "+lawyer.BarNumber+" ", "1234")
	require.NoError(t, err)
	assert.Equal(t, RoleLawyer, p.Role)
	assert.Equal(t, lawyer.ID, p.ID)
	assert.Equal(t, lawyer.RegistrationID, p.RegistrationID)
	assert.NotEmpty(t, p.Name)

	_, err = LoginLawyer(db, lawyer.BarNumber, "9999")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	_, err = LoginLawyer(db, "NOPE1", "1234")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	t.Run("not in good standing is forbidden", func(t *testing.T) {
		_, err := UpdateLawyer(db, lawyer.ID, LawyerInput{InGoodStanding: ptr(false)})
		require.NoError(t, err)
		_, err = LoginLawyer(db, lawyer.BarNumber, "1234")
		assert.True(t, errors.Is(err, ErrForbidden))
	})
}

func TestLoginStaff(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)
	analyst, err := GetAnalystByID(db, f.AnalystID)
	require.NoError(t, err)
	admin, err := GetRoomAdminByID(db, f.AdminID)
	require.NoError(t, err)

	p, err := LoginAnalyst(db, analyst.Username, "Senha1234")
	require.NoError(t, err)
	assert.Equal(t, RoleAnalyst, p.Role)

	p, err = LoginAdmin(db, admin.Username, "Senha1234")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, p.Role)

	// Credentials of one role do not open another
	_, err = LoginAdmin(db, analyst.Username, "Senha1234")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	_, err = LoginAnalyst(db, analyst.Username, "wrong")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestResolvePrincipal(t *testing.T) {
	db := setupTestDB(t)
	f := newFixture(t, db)

	p, err := ResolvePrincipal(db, RoleAdmin, f.AdminID)
	require.NoError(t, err)
	assert.Equal(t, f.AdminID, p.ID)

	_, err = ResolvePrincipal(db, RoleAnalyst, f.AdminID)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	_, err = ResolvePrincipal(db, "superuser", f.AdminID)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	id := createAnalyst(t, db, "removido")
	require.NoError(t, DeleteAnalyst(db, id))
	_, err = ResolvePrincipal(db, RoleAnalyst, id)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestTokenRoundTrip(t *testing.T) {
	p := &Principal{ID: "lawyer-1", Role: RoleLawyer}

	token, expiresAt, err := IssueToken(testSecret, p, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "lawyer-1", claims.Subject)
	assert.Equal(t, RoleLawyer, claims.Role)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseToken("another-secret-another-secret-xx", token)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		expired, _, err := IssueToken(testSecret, p, -time.Minute)
		require.NoError(t, err)
		_, err = ParseToken(testSecret, expired)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := TokenClaims{Role: RoleLawyer, RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "lawyer-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = ParseToken(testSecret, signed)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("unknown role", func(t *testing.T) {
		bad, _, err := IssueToken(testSecret, &Principal{ID: "x", Role: "root"}, time.Hour)
		require.NoError(t, err)
		_, err = ParseToken(testSecret, bad)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})
}

package services

import (
	"coworking_app_go/models"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

// timingHash is compared against when the login name is unknown so both paths cost one bcrypt check
var timingHash, _ = bcrypt.GenerateFromPassword([]byte("timing-mitigation"), BcryptCost)

// Roles carried in bearer tokens
const (
	RoleLawyer  = "lawyer"
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
)

// IsValidRole reports whether role is one of the three principal roles
func IsValidRole(role string) bool {
	return role == RoleLawyer || role == RoleAdmin || role == RoleAnalyst
}

// Principal is an authenticated caller: a lawyer, room admin or IT analyst
type Principal struct {
	ID             string `json:"user_id"`
	Role           string `json:"role"`
	RegistrationID string `json:"registration_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

// errInvalidCredentials is deliberately vague so callers cannot probe which part was wrong
var errInvalidCredentials = UnauthorizedError("invalid credentials")

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// LoginLawyer authenticates a lawyer by bar number and card security code.
// Lawyers not in good standing are refused with Forbidden even when the code matches.
func LoginLawyer(db *gorm.DB, barNumber, securityCode string) (*Principal, error) {
	var lawyer models.LawyerUser
	err := db.Where("bar_number = ?", strings.ToUpper(strings.TrimSpace(barNumber))).First(&lawyer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			bcrypt.CompareHashAndPassword(timingHash, []byte(securityCode))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(securityCode, lawyer.SecurityCodeHash) {
		return nil, errInvalidCredentials
	}
	if !lawyer.InGoodStanding {
		LogSecurityEvent("LOGIN_REFUSED_STANDING", lawyer.ID, "lawyer not in good standing")
		return nil, ForbiddenError("lawyer is not in good standing with the bar association")
	}
	return principalFor(db, RoleLawyer, lawyer.ID, lawyer.RegistrationID)
}

// LoginAdmin authenticates a room admin by username and password
func LoginAdmin(db *gorm.DB, username, password string) (*Principal, error) {
	var admin models.RoomAdmin
	if err := findByUsername(db, &admin, username, password); err != nil {
		return nil, err
	}
	if !CheckPassword(password, admin.PasswordHash) {
		return nil, errInvalidCredentials
	}
	return principalFor(db, RoleAdmin, admin.ID, admin.RegistrationID)
}

// LoginAnalyst authenticates an IT analyst by username and password
func LoginAnalyst(db *gorm.DB, username, password string) (*Principal, error) {
	var analyst models.ITAnalyst
	if err := findByUsername(db, &analyst, username, password); err != nil {
		return nil, err
	}
	if !CheckPassword(password, analyst.PasswordHash) {
		return nil, errInvalidCredentials
	}
	return principalFor(db, RoleAnalyst, analyst.ID, analyst.RegistrationID)
}

func findByUsername(db *gorm.DB, dest interface{}, username, password string) error {
	err := db.Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bcrypt.CompareHashAndPassword(timingHash, []byte(password))
		return errInvalidCredentials
	}
	return err
}

// ResolvePrincipal re-loads the principal a token refers to; a deleted principal is Unauthorized
func ResolvePrincipal(db *gorm.DB, role, id string) (*Principal, error) {
	var registrationID string
	var err error
	switch role {
	case RoleLawyer:
		var lawyer *models.LawyerUser
		if lawyer, err = findByID[models.LawyerUser](db, id, "lawyer"); err == nil {
			registrationID = lawyer.RegistrationID
		}
	case RoleAdmin:
		var admin *models.RoomAdmin
		if admin, err = findByID[models.RoomAdmin](db, id, "room admin"); err == nil {
			registrationID = admin.RegistrationID
		}
	case RoleAnalyst:
		var analyst *models.ITAnalyst
		if analyst, err = findByID[models.ITAnalyst](db, id, "analyst"); err == nil {
			registrationID = analyst.RegistrationID
		}
	default:
		return nil, UnauthorizedError("unknown role")
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, UnauthorizedError("user no longer exists")
		}
		return nil, err
	}
	return principalFor(db, role, id, registrationID)
}

func principalFor(db *gorm.DB, role, id, registrationID string) (*Principal, error) {
	p := &Principal{ID: id, Role: role, RegistrationID: registrationID}
	var reg models.Registration
	err := db.First(&reg, "id = ?", registrationID).Error
	switch {
	case err == nil:
		p.Name = reg.Name
		p.Email = reg.Email
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Role rows outliving their registration still authenticate, without a display name
	default:
		return nil, err
	}
	return p, nil
}

// LogSecurityEvent logs security-related events
func LogSecurityEvent(eventType, userID, details string) {
	log.Printf("[SECURITY] %s | User: %s | Details: %s", eventType, userID, details)
}

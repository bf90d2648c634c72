package handlers

import (
	"net/http"
	"strings"
	"time"

	"coworking_app_go/db"
	"coworking_app_go/middleware"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// LoginResponse carries the bearer token and who it was issued to
type LoginResponse struct {
	AccessToken    string    `json:"access_token"`
	TokenType      string    `json:"token_type"`
	Role           string    `json:"role"`
	UserID         string    `json:"user_id"`
	RegistrationID string    `json:"registration_id"`
	Name           string    `json:"name"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type lawyerLoginRequest struct {
	BarNumber    string `json:"bar_number"`
	SecurityCode string `json:"security_code"`
}

type staffLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginLawyerHandler authenticates a lawyer by bar number and security code
func LoginLawyerHandler(c echo.Context) error {
	var req lawyerLoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.BarNumber) == "" || req.SecurityCode == "" {
		return services.ValidationError("bar_number and security_code are required")
	}

	principal, err := services.LoginLawyer(db.DB, req.BarNumber, req.SecurityCode)
	return completeLogin(c, services.RoleLawyer, req.BarNumber, principal, err)
}

// LoginAdminHandler authenticates a room admin
func LoginAdminHandler(c echo.Context) error {
	return staffLogin(c, services.RoleAdmin, services.LoginAdmin)
}

// LoginAnalystHandler authenticates an IT analyst
func LoginAnalystHandler(c echo.Context) error {
	return staffLogin(c, services.RoleAnalyst, services.LoginAnalyst)
}

func staffLogin(c echo.Context, role string, login func(*gorm.DB, string, string) (*services.Principal, error)) error {
	var req staffLoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return services.ValidationError("username and password are required")
	}

	principal, err := login(db.DB, req.Username, req.Password)
	return completeLogin(c, role, req.Username, principal, err)
}

// completeLogin records the attempt and issues a token on success
func completeLogin(c echo.Context, role, login string, principal *services.Principal, err error) error {
	if err != nil {
		if kind := services.KindOf(err); kind == services.KindUnauthorized || kind == services.KindForbidden {
			if services.Monitor != nil {
				services.Monitor.TrackFailedLogin(c.RealIP(), role, login)
			}
			services.LogSecurityEvent("LOGIN_FAILED", "", role+" login from "+c.RealIP())
		}
		return err
	}

	cfg := getConfig(c)
	token, expiresAt, err := services.IssueToken(cfg.JWTSecret, principal, cfg.TokenTTL)
	if err != nil {
		return err
	}

	auditCtx := services.AuditContext{
		ActorID:   principal.ID,
		ActorName: principal.Name,
		ActorRole: principal.Role,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	services.LogAuditEvent(db.DB, auditCtx, services.AuditEvent{
		Action:       models.AuditActionLogin,
		ResourceType: "Principal",
		ResourceID:   principal.ID,
		ResourceName: principal.Name,
		Description:  principal.Role + " logged in",
	})

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken:    token,
		TokenType:      "bearer",
		Role:           principal.Role,
		UserID:         principal.ID,
		RegistrationID: principal.RegistrationID,
		Name:           principal.Name,
		ExpiresAt:      expiresAt,
	})
}

// MeHandler returns the authenticated principal
func MeHandler(c echo.Context) error {
	principal := middleware.GetCurrentPrincipal(c)
	if principal == nil {
		return services.UnauthorizedError("not authenticated")
	}
	return c.JSON(http.StatusOK, principal)
}

package handlers

import (
	"net/http"

	"coworking_app_go/db"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// Registrations

func GetRegistrations(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListRegistrations(db.DB, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetRegistration(c echo.Context) error {
	reg, err := services.GetRegistrationByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reg)
}

// HeaderTurnstileToken carries the bot challenge answer on public registration
const HeaderTurnstileToken = "X-Turnstile-Token"

// CreateRegistration is open to anonymous callers so a lawyer can sign up before having credentials
func CreateRegistration(c echo.Context) error {
	var in services.RegistrationInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if cfg := getConfig(c); cfg != nil {
		token := c.Request().Header.Get(HeaderTurnstileToken)
		if err := services.CheckRegistrationChallenge(c.Request().Context(), cfg.TurnstileSecretKey, token, c.RealIP()); err != nil {
			return err
		}
	}
	reg, err := services.CreateRegistration(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "Registration", reg.ID, reg.Name, "Registration created", nil, reg)
	return c.JSON(http.StatusCreated, reg)
}

func UpdateRegistration(c echo.Context) error {
	var in services.RegistrationInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetRegistrationByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	reg, err := services.UpdateRegistration(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "Registration", reg.ID, reg.Name, "Registration updated", old, reg)
	return c.JSON(http.StatusOK, reg)
}

func DeleteRegistration(c echo.Context) error {
	old, err := services.GetRegistrationByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteRegistration(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "Registration", old.ID, old.Name, "Registration deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// Lawyers

func GetLawyers(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListLawyers(db.DB, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetLawyer(c echo.Context) error {
	lawyer, err := services.GetLawyerByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lawyer)
}

// GetLawyerByBarNumber looks a lawyer up by the number on their bar card
func GetLawyerByBarNumber(c echo.Context) error {
	lawyer, err := services.GetLawyerByBarNumber(db.DB, c.Param("bar_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lawyer)
}

func CreateLawyer(c echo.Context) error {
	var in services.LawyerInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	lawyer, err := services.CreateLawyer(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "LawyerUser", lawyer.ID, lawyer.BarNumber, "Lawyer created", nil, lawyer)
	return c.JSON(http.StatusCreated, lawyer)
}

func UpdateLawyer(c echo.Context) error {
	var in services.LawyerInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetLawyerByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	lawyer, err := services.UpdateLawyer(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "LawyerUser", lawyer.ID, lawyer.BarNumber, "Lawyer updated", old, lawyer)
	return c.JSON(http.StatusOK, lawyer)
}

func DeleteLawyer(c echo.Context) error {
	old, err := services.GetLawyerByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteLawyer(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "LawyerUser", old.ID, old.BarNumber, "Lawyer deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// IT analysts

func GetAnalysts(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListAnalysts(db.DB, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetAnalyst(c echo.Context) error {
	analyst, err := services.GetAnalystByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyst)
}

func CreateAnalyst(c echo.Context) error {
	var in services.StaffInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	analyst, err := services.CreateAnalyst(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "ITAnalyst", analyst.ID, analyst.Username, "IT analyst created", nil, analyst)
	return c.JSON(http.StatusCreated, analyst)
}

func UpdateAnalyst(c echo.Context) error {
	var in services.StaffInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetAnalystByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	analyst, err := services.UpdateAnalyst(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "ITAnalyst", analyst.ID, analyst.Username, "IT analyst updated", old, analyst)
	return c.JSON(http.StatusOK, analyst)
}

func DeleteAnalyst(c echo.Context) error {
	old, err := services.GetAnalystByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteAnalyst(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "ITAnalyst", old.ID, old.Username, "IT analyst deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// Room admins

func GetRoomAdmins(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListRoomAdmins(db.DB, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetRoomAdmin(c echo.Context) error {
	admin, err := services.GetRoomAdminByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admin)
}

func CreateRoomAdmin(c echo.Context) error {
	var in services.StaffInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	admin, err := services.CreateRoomAdmin(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "RoomAdmin", admin.ID, admin.Username, "Room admin created", nil, admin)
	return c.JSON(http.StatusCreated, admin)
}

func UpdateRoomAdmin(c echo.Context) error {
	var in services.StaffInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetRoomAdminByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	admin, err := services.UpdateRoomAdmin(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "RoomAdmin", admin.ID, admin.Username, "Room admin updated", old, admin)
	return c.JSON(http.StatusOK, admin)
}

func DeleteRoomAdmin(c echo.Context) error {
	old, err := services.GetRoomAdminByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteRoomAdmin(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "RoomAdmin", old.ID, old.Username, "Room admin deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

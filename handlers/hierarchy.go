package handlers

import (
	"net/http"

	"coworking_app_go/db"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// Subsections

func GetSubsections(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListSubsections(db.DB, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetSubsection(c echo.Context) error {
	sub, err := services.GetSubsectionByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

func CreateSubsection(c echo.Context) error {
	var in services.SubsectionInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	sub, err := services.CreateSubsection(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "Subsection", sub.ID, sub.Name, "Subsection created", nil, sub)
	return c.JSON(http.StatusCreated, sub)
}

func UpdateSubsection(c echo.Context) error {
	var in services.SubsectionInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetSubsectionByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	sub, err := services.UpdateSubsection(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "Subsection", sub.ID, sub.Name, "Subsection updated", old, sub)
	return c.JSON(http.StatusOK, sub)
}

func DeleteSubsection(c echo.Context) error {
	old, err := services.GetSubsectionByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteSubsection(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "Subsection", old.ID, old.Name, "Subsection deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// Units

// GetUnits lists units, optionally only those of ?subsection_id
func GetUnits(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListUnits(db.DB, c.QueryParam("subsection_id"), skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetUnit(c echo.Context) error {
	unit, err := services.GetUnitByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unit)
}

func CreateUnit(c echo.Context) error {
	var in services.UnitInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	unit, err := services.CreateUnit(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "Unit", unit.ID, unit.Name, "Unit created", nil, unit)
	return c.JSON(http.StatusCreated, unit)
}

func UpdateUnit(c echo.Context) error {
	var in services.UnitInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetUnitByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	unit, err := services.UpdateUnit(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "Unit", unit.ID, unit.Name, "Unit updated", old, unit)
	return c.JSON(http.StatusOK, unit)
}

func DeleteUnit(c echo.Context) error {
	old, err := services.GetUnitByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteUnit(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "Unit", old.ID, old.Name, "Unit deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// Rooms

// GetRooms lists rooms, optionally only those of ?unit_id
func GetRooms(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListRooms(db.DB, c.QueryParam("unit_id"), skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetRoom(c echo.Context) error {
	room, err := services.GetRoomByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

func CreateRoom(c echo.Context) error {
	var in services.RoomInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	room, err := services.CreateRoom(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "Room", room.ID, room.Name, "Room created", nil, room)
	return c.JSON(http.StatusCreated, room)
}

func UpdateRoom(c echo.Context) error {
	var in services.RoomInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetRoomByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	room, err := services.UpdateRoom(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "Room", room.ID, room.Name, "Room updated", old, room)
	return c.JSON(http.StatusOK, room)
}

func DeleteRoom(c echo.Context) error {
	old, err := services.GetRoomByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteRoom(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "Room", old.ID, old.Name, "Room deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

// Computers

// GetComputers lists computers, optionally only those of ?room_id
func GetComputers(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	items, total, err := services.ListComputers(db.DB, c.QueryParam("room_id"), skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, items, skip, limit, total)
}

func GetComputer(c echo.Context) error {
	comp, err := services.GetComputerByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comp)
}

func CreateComputer(c echo.Context) error {
	var in services.ComputerInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	comp, err := services.CreateComputer(db.DB, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionCreate, "Computer", comp.ID, comp.IP, "Computer created", nil, comp)
	return c.JSON(http.StatusCreated, comp)
}

func UpdateComputer(c echo.Context) error {
	var in services.ComputerInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	old, err := services.GetComputerByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	comp, err := services.UpdateComputer(db.DB, old.ID, in)
	if err != nil {
		return err
	}
	recordAudit(c, models.AuditActionUpdate, "Computer", comp.ID, comp.IP, "Computer updated", old, comp)
	return c.JSON(http.StatusOK, comp)
}

func DeleteComputer(c echo.Context) error {
	old, err := services.GetComputerByID(db.DB, c.Param("id"))
	if err != nil {
		return err
	}
	if err := services.DeleteComputer(db.DB, old.ID); err != nil {
		return err
	}
	recordAudit(c, models.AuditActionDelete, "Computer", old.ID, old.IP, "Computer deleted", old, nil)
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"coworking_app_go/db"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler returns the usage metrics of one room; subsection_id, unit_id and room_id are required
func DashboardHandler(c echo.Context) error {
	subsectionID := c.QueryParam("subsection_id")
	unitID := c.QueryParam("unit_id")
	roomID := c.QueryParam("room_id")
	if subsectionID == "" || unitID == "" || roomID == "" {
		return services.ValidationError("subsection_id, unit_id and room_id are required")
	}
	year, err := queryIntPtr(c, "year")
	if err != nil {
		return err
	}

	dash, err := services.BuildDashboard(db.DB, subsectionID, unitID, roomID, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

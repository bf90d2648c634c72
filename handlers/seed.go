package handlers

import (
	"fmt"
	"net/http"

	"coworking_app_go/db"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// maxSeedItems bounds one bulk request
const maxSeedItems = 5000

// seedHandler binds a JSON array of T and loads it item by item, reporting created ids and skipped indexes
func seedHandler[T any](resource string, seed func(*gorm.DB, []T) (*services.SeedResult, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		var items []T
		if err := bindBody(c, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			return services.ValidationError("request body must be a non-empty array")
		}
		if len(items) > maxSeedItems {
			return services.ValidationError("at most %d items per request", maxSeedItems)
		}

		result, err := seed(db.DB, items)
		if err != nil {
			return err
		}

		recordAudit(c, models.AuditActionSeed, resource, "", "",
			fmt.Sprintf("Bulk load of %s: %d created, %d skipped", resource, result.CreatedCount, len(result.Skipped)), nil, nil)
		return c.JSON(http.StatusOK, result)
	}
}

var (
	SeedRegistrationsHandler = seedHandler("registrations", services.SeedRegistrations)
	SeedSubsectionsHandler   = seedHandler("subsections", services.SeedSubsections)
	SeedUnitsHandler         = seedHandler("units", services.SeedUnits)
	SeedRoomsHandler         = seedHandler("rooms", services.SeedRooms)
	SeedComputersHandler     = seedHandler("computers", services.SeedComputers)
	SeedLawyersHandler       = seedHandler("lawyers", services.SeedLawyers)
	SeedAnalystsHandler      = seedHandler("analysts", services.SeedAnalysts)
	SeedRoomAdminsHandler    = seedHandler("room_admins", services.SeedRoomAdmins)
	SeedSessionsHandler      = seedHandler("sessions", services.SeedSessions)
)

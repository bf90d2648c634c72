package handlers

import (
	"net/http"

	"coworking_app_go/config"
	"coworking_app_go/db"
	"coworking_app_go/middleware"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the database answers
func HealthHandler(c echo.Context) error {
	status := map[string]string{"status": "ok", "database": "ok"}
	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		status["status"], status["database"] = "degraded", "unreachable"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}

// RegisterRoutes mounts the whole API on e
func RegisterRoutes(e *echo.Echo, cfg *config.Config) {
	// Make config available to handlers and middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextKeyConfig, cfg)
			return next(c)
		}
	})

	e.GET("/health", HealthHandler)

	// Public routes
	login := e.Group("/api/auth/login")
	login.Use(middleware.LoginRateLimiter.Middleware())
	{
		login.POST("/lawyer", LoginLawyerHandler)
		login.POST("/admin", LoginAdminHandler)
		login.POST("/analyst", LoginAnalystHandler)
	}
	e.POST("/api/registrations", CreateRegistration, middleware.AuditContext())

	// Any authenticated role
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	api.Use(middleware.AuditContext())
	{
		api.GET("/auth/me", MeHandler)

		api.GET("/registrations", GetRegistrations)
		api.GET("/registrations/:id", GetRegistration)
		api.PUT("/registrations/:id", UpdateRegistration)
		api.DELETE("/registrations/:id", DeleteRegistration)

		api.GET("/subsections", GetSubsections)
		api.POST("/subsections", CreateSubsection)
		api.GET("/subsections/:id", GetSubsection)
		api.PUT("/subsections/:id", UpdateSubsection)
		api.DELETE("/subsections/:id", DeleteSubsection)

		api.GET("/units", GetUnits)
		api.POST("/units", CreateUnit)
		api.GET("/units/:id", GetUnit)
		api.PUT("/units/:id", UpdateUnit)
		api.DELETE("/units/:id", DeleteUnit)

		api.GET("/rooms", GetRooms)
		api.POST("/rooms", CreateRoom)
		api.GET("/rooms/:id", GetRoom)
		api.PUT("/rooms/:id", UpdateRoom)
		api.DELETE("/rooms/:id", DeleteRoom)

		api.GET("/computers", GetComputers)
		api.POST("/computers", CreateComputer)
		api.GET("/computers/:id", GetComputer)
		api.PUT("/computers/:id", UpdateComputer)
		api.DELETE("/computers/:id", DeleteComputer)

		api.GET("/lawyers", GetLawyers)
		api.POST("/lawyers", CreateLawyer)
		api.GET("/lawyers/by-bar-number/:bar_number", GetLawyerByBarNumber)
		api.GET("/lawyers/:id", GetLawyer)
		api.PUT("/lawyers/:id", UpdateLawyer)
		api.DELETE("/lawyers/:id", DeleteLawyer)

		api.GET("/analysts", GetAnalysts)
		api.POST("/analysts", CreateAnalyst)
		api.GET("/analysts/:id", GetAnalyst)
		api.PUT("/analysts/:id", UpdateAnalyst)
		api.DELETE("/analysts/:id", DeleteAnalyst)

		api.GET("/room-admins", GetRoomAdmins)
		api.POST("/room-admins", CreateRoomAdmin)
		api.GET("/room-admins/:id", GetRoomAdmin)
		api.PUT("/room-admins/:id", UpdateRoomAdmin)
		api.DELETE("/room-admins/:id", DeleteRoomAdmin)

		api.POST("/sessions", CreateSession)
		api.GET("/sessions", GetSessions)
		api.GET("/sessions/active", GetActiveSessions)
		api.GET("/sessions/export", ExportSessions)
		api.GET("/sessions/by-lawyer/:lawyer_id", GetSessionsByLawyer)
		api.GET("/sessions/by-date/:date", GetSessionsByDate)
		api.GET("/sessions/:id", GetSession)
		api.PUT("/sessions/:id", UpdateSession)
		api.DELETE("/sessions/:id", DeleteSession)
		api.POST("/sessions/:id/finalize", FinalizeSession)
		api.POST("/sessions/:id/deactivate", DeactivateSession)
		api.PUT("/sessions/:id/analysts", ReplaceSessionAnalysts)

		api.GET("/dashboard", DashboardHandler)

		// Analyst-only routes
		requireAnalyst := middleware.RequireRole(services.RoleAnalyst)
		api.POST("/reports", GenerateReportHandler, requireAnalyst)
		api.GET("/reports", GetReportsHandler, requireAnalyst)
		api.GET("/reports/:id/content", GetReportContentHandler, requireAnalyst)
		api.GET("/audit-logs", GetAuditLogsHandler, requireAnalyst)
		api.GET("/audit-logs/:type/:id", GetResourceHistoryHandler, requireAnalyst)

		seed := api.Group("/seed")
		seed.Use(middleware.RequireRole(services.RoleAnalyst))
		seed.Use(middleware.SeedRateLimiter.Middleware())
		{
			seed.POST("/registrations", SeedRegistrationsHandler)
			seed.POST("/subsections", SeedSubsectionsHandler)
			seed.POST("/units", SeedUnitsHandler)
			seed.POST("/rooms", SeedRoomsHandler)
			seed.POST("/computers", SeedComputersHandler)
			seed.POST("/lawyers", SeedLawyersHandler)
			seed.POST("/analysts", SeedAnalystsHandler)
			seed.POST("/room-admins", SeedRoomAdminsHandler)
			seed.POST("/sessions", SeedSessionsHandler)
		}
	}
}

package handlers

import (
	"log"
	"net/http"

	"coworking_app_go/config"
	"coworking_app_go/db"
	"coworking_app_go/middleware"
	"coworking_app_go/models"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// newReportGenerator builds the LLM client for a request; tests swap it for a stub
var newReportGenerator = func(cfg *config.Config) services.ReportGenerator {
	return services.NewGeminiClient(cfg)
}

// GenerateReportHandler produces a markdown usage report for one room (analysts only)
func GenerateReportHandler(c echo.Context) error {
	var req services.ReportRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	cfg := getConfig(c)
	analyst := middleware.GetCurrentPrincipal(c)
	result, err := services.GenerateReport(c.Request().Context(), db.DB, newReportGenerator(cfg), services.Storage, req, analyst)
	if err != nil {
		return err
	}

	recordAudit(c, models.AuditActionGenerate, "Report", result.ID, result.RoomName,
		"Usage report generated for "+result.SubsectionName+" / "+result.UnitName+" / "+result.RoomName, nil, nil)

	if req.SendEmail {
		sendReportEmail(cfg, analyst, result)
	}
	return c.JSON(http.StatusOK, result)
}

// sendReportEmail mails the report to the analyst; failures are only logged
func sendReportEmail(cfg *config.Config, analyst *services.Principal, result *services.ReportResult) {
	if analyst.Email == "" {
		log.Printf("[WARNING] Report %s not emailed: analyst %s has no email", result.ID, analyst.ID)
		return
	}
	scope := result.SubsectionName + " / " + result.UnitName + " (" + result.UnitHierarchy + ") / " + result.RoomName
	email, err := services.BuildReportEmail(analyst.Email, "Relatório de uso - "+result.RoomName, scope, result.Markdown)
	if err != nil {
		log.Printf("[WARNING] Failed to build report email: %v", err)
		return
	}
	services.SendEmailAsync(cfg, email)
}

// GetReportsHandler lists archived reports, filterable by subsection_id, room_id and analyst_id
func GetReportsHandler(c echo.Context) error {
	skip, limit, err := parsePagination(c)
	if err != nil {
		return err
	}
	filter := services.ReportFilter{
		SubsectionID: c.QueryParam("subsection_id"),
		RoomID:       c.QueryParam("room_id"),
		AnalystID:    c.QueryParam("analyst_id"),
	}
	reports, total, err := services.ListReports(db.DB, filter, skip, limit)
	if err != nil {
		return err
	}
	return listResponse(c, reports, skip, limit, total)
}

// GetReportContentHandler returns the archived markdown of a report
func GetReportContentHandler(c echo.Context) error {
	if services.Storage == nil {
		return services.NotFoundError("report archive is not configured")
	}
	report, content, err := services.GetReportContent(c.Request().Context(), db.DB, services.Storage, c.Param("id"))
	if err != nil {
		return err
	}
	if c.QueryParam("format") == "raw" {
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"report":   report,
		"markdown": content,
	})
}

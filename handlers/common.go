package handlers

import (
	"net/http"
	"strconv"
	"time"

	"coworking_app_go/config"
	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// Pagination echoes the page a list response covers
type Pagination struct {
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse wraps one page of any list endpoint
type ListResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func listResponse(c echo.Context, data interface{}, skip, limit int, total int64) error {
	return c.JSON(http.StatusOK, ListResponse{
		Data:       data,
		Pagination: Pagination{Skip: skip, Limit: limit, Total: total},
	})
}

// parsePagination reads skip and limit, defaulting to 0 and services.DefaultLimit
func parsePagination(c echo.Context) (int, int, error) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit", services.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if err := services.ValidatePagination(skip, limit); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ValidationError("%s must be an integer", name)
	}
	return n, nil
}

func queryIntPtr(c echo.Context, name string) (*int, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}
	n, err := queryInt(c, name, 0)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryBoolPtr(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, services.ValidationError("%s must be true or false", name)
	}
	return &b, nil
}

// parseDate reads a calendar date in services.DateLayout
func parseDate(name, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(services.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, services.ValidationError("%s must be a date (YYYY-MM-DD)", name)
	}
	return t, nil
}

// parseInstant accepts RFC3339 timestamps or a bare date (midnight UTC; as an upper bound it covers the whole day)
func parseInstant(name, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(services.DateLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, services.ValidationError("%s must be an RFC3339 timestamp or a date", name)
}

// parseClock reads a time of day (HH:MM) as an offset from midnight
func parseClock(name, raw string) (time.Duration, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, services.ValidationError("%s must be a time of day (HH:MM)", name)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func bindBody(c echo.Context, dest interface{}) error {
	if err := c.Bind(dest); err != nil {
		return services.ValidationError("invalid request body")
	}
	return nil
}

func getConfig(c echo.Context) *config.Config {
	cfg, _ := c.Get("config").(*config.Config)
	return cfg
}

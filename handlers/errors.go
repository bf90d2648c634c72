package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"coworking_app_go/services"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var kindStatus = map[services.ErrorKind]int{
	services.KindNotFound:     http.StatusNotFound,
	services.KindConflict:     http.StatusConflict,
	services.KindValidation:   http.StatusBadRequest,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindForbidden:    http.StatusForbidden,
	services.KindUpstream:     http.StatusBadGateway,
	services.KindInternal:     http.StatusInternalServerError,
}

var statusKind = map[int]services.ErrorKind{
	http.StatusNotFound:             services.KindNotFound,
	http.StatusMethodNotAllowed:     services.KindNotFound,
	http.StatusConflict:             services.KindConflict,
	http.StatusBadRequest:           services.KindValidation,
	http.StatusUnsupportedMediaType: services.KindValidation,
	http.StatusUnauthorized:         services.KindUnauthorized,
	http.StatusForbidden:            services.KindForbidden,
	http.StatusBadGateway:           services.KindUpstream,
}

// errorResponse maps err to a status code and body
func errorResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		kind, ok := statusKind[he.Code]
		switch {
		case ok:
		case he.Code == http.StatusTooManyRequests:
			kind = "too_many_requests"
		default:
			kind = services.KindInternal
		}
		return he.Code, ErrorResponse{Kind: string(kind), Message: fmt.Sprint(he.Message)}
	}

	kind := services.KindOf(err)
	status := kindStatus[kind]
	if kind == services.KindInternal {
		return status, ErrorResponse{Kind: string(kind), Message: "internal server error"}
	}

	var appErr *services.AppError
	if errors.As(err, &appErr) {
		return status, ErrorResponse{Kind: string(kind), Message: appErr.Message}
	}
	// raw store errors translated by KindOf
	switch kind {
	case services.KindNotFound:
		return status, ErrorResponse{Kind: string(kind), Message: "resource not found"}
	default:
		return status, ErrorResponse{Kind: string(kind), Message: "resource conflicts with existing data"}
	}
}

// HTTPErrorHandler renders every error as {"kind", "message"}
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Printf("[ERROR] failed to write error response: %v", err)
	}
}

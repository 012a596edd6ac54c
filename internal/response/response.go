package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the standard success response shape for read endpoints.
type APIResponse struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
}

// StatusMessage is the body of a completed ingestion.
type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorBody is the error response shape.
type ErrorBody struct {
	Error string `json:"error"`
}

// MsgInternalError is the only detail exposed when a request fails server-side.
const MsgInternalError = "Internal server error"

// pathFromContext returns the request path from Echo context.
func pathFromContext(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().URL.Path
}

// OK sends a 200 response with data.
func OK(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, APIResponse{
		Data:    data,
		Status:  http.StatusOK,
		Message: message,
		Path:    pathFromContext(c),
	})
}

// Ingested sends the 200 body of a successful ingestion.
func Ingested(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusMessage{Status: "OK", Message: "Ingested"})
}

// Error sends a JSON error response.
func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorBody{Error: msg})
}

// BadRequest sends 400 with the given detail.
func BadRequest(c echo.Context, msg string) error {
	return Error(c, http.StatusBadRequest, msg)
}

// NotFound sends 404 with the given detail.
func NotFound(c echo.Context, msg string) error {
	return Error(c, http.StatusNotFound, msg)
}

// InternalError sends 500 without leaking the cause.
func InternalError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, MsgInternalError)
}

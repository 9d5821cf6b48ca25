package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/fantalega/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// resultResponse is the envelope of mutation endpoints.
type resultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// JSONBlob writes an already encoded JSON payload.
func JSONBlob(c echo.Context, payload []byte) error {
	return c.JSONBlob(http.StatusOK, payload)
}

func Success(c echo.Context) error {
	return c.JSON(http.StatusOK, resultResponse{Success: true})
}

func SeeOther(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}

func BadRequest(c echo.Context, err error) error {
	logFor(c, slog.LevelDebug, "bad request", err.Error())
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	logFor(c, slog.LevelDebug, "bad request", msg)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	logFor(c, slog.LevelDebug, "not found", msg)
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	logFor(c, slog.LevelError, "internal error", err.Error())
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// Error maps a usecase error onto {"error": msg}.
func Error(c echo.Context, err error) error {
	status := StatusOf(err)
	switch status {
	case http.StatusBadRequest:
		return BadRequest(c, err)
	case http.StatusNotFound:
		return NotFound(c, err.Error())
	case http.StatusInternalServerError:
		return InternalError(c, err)
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

// Failure maps a usecase error onto {"success": false, "error": msg}.
func Failure(c echo.Context, err error) error {
	status := StatusOf(err)
	level := slog.LevelDebug
	if status == http.StatusInternalServerError {
		level = slog.LevelError
	}
	logFor(c, level, "request failed", err.Error())
	return c.JSON(status, resultResponse{Success: false, Error: err.Error()})
}

// StatusOf is the HTTP status for an error of the domain taxonomy. Anything
// unrecognised is a 500.
func StatusOf(err error) int {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthorizationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &authErr):
		if authErr.Reason == domain.DenyForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func logFor(c echo.Context, level slog.Level, msg, detail string) {
	req := c.Request()
	slog.Log(
		req.Context(), level, msg,
		slog.String("method", req.Method),
		slog.String("path", c.Path()),
		slog.String("error", detail),
		slog.String("module", "presenter"),
	)
}

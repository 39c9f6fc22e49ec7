package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skillshare-hub/backend/internal/apperrors"
)

// getUserIDFromContext returns the pre-validated caller identity set by the
// identity middleware, or "" when absent.
func getUserIDFromContext(c echo.Context) string {
	userID, _ := c.Get("userID").(string)
	return userID
}

// httpError maps the service error taxonomy onto transport status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrTransientStore):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

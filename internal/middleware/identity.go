package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// IdentityHeader carries the caller's user id, set by the gateway in front
// of this service after it has validated the session. This service does no
// authentication of its own.
const IdentityHeader = "X-User-ID"

// Identity extracts the pre-validated caller identity and stores it in the
// request context under "userID".
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(IdentityHeader)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			c.Set("userID", userID)
			return next(c)
		}
	}
}

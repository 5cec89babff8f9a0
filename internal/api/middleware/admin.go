package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/core/domain"
)

// AdminOnly gates a route to identities whose IsAdmin flag is set. It must
// run after Protect; the two guards are independent and ordered, so a route
// composes them as e.Use(Protect(...), AdminOnly()). IsAdmin is the sole
// authority for the check; Role is never consulted.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(IdentityKey).(*domain.User)
			if user == nil || !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Not authorized as admin")
			}
			return next(c)
		}
	}
}

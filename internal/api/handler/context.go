package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Protect middleware and
// fast-fails before any service call when it is absent. A missing identity on
// a protected route means the middleware chain is miswired, which surfaces as
// 401 rather than a nil dereference.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.IdentityKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return user, nil
}

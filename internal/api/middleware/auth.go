package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/token"
	"github.com/accounthub/user-service/internal/infrastructure/metrics"
)

// IdentityKey is the echo context key under which Protect stores the
// resolved *domain.User.
const IdentityKey = "identity"

// Protect verifies the bearer token, resolves the user it names through the
// directory (password hash excluded), and injects the identity into the
// request context. All verification failure kinds collapse into 401; the
// distinction survives only in logs and metrics.
func Protect(tokens *token.Manager, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			userID, err := tokens.Verify(parts[1])
			if err != nil {
				result := "invalid"
				if errors.Is(err, token.ErrExpired) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// A valid token may outlive its account (deleted after issuance).
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("no_user").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token payload")
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(IdentityKey, user.Public())

			return next(c)
		}
	}
}

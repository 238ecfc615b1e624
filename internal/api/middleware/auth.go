package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-api/internal/api/metrics"
	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

// PrincipalKey is the echo context key under which Auth stores the
// authenticated principal.
const PrincipalKey = "principal"

// Auth is the authorization gate's authentication half: it validates the
// bearer token and injects the principal into the request context. Every
// parse/verify failure produces the same 401 so the response cannot be used
// as an oracle for why a token was rejected.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.TokenValidationFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(PrincipalKey, domain.Principal{
				UserID:   claims.UserID,
				Username: claims.Username,
				Roles:    claims.Roles,
			})

			return next(c)
		}
	}
}

// failureReason maps token errors to metric labels. The label granularity is
// internal only; clients always see the same generic 401.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

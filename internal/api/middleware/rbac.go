package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-api/internal/core/domain"
)

// RequireRole is the authorization gate's role half: the declared per-resource
// policy consulted before the handler runs. The decision is derived solely
// from the principal's token claims; no storage is touched.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			for _, role := range roles {
				if principal.HasRole(role) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

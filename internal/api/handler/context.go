package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-api/internal/api/middleware"
	"github.com/identitylab/auth-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. Its
// absence means the route was registered without the middleware; treat that
// as unauthenticated rather than panicking.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SecuredHandler serves the protected demo resources gated by the Auth and
// RequireRole middleware.
type SecuredHandler struct{}

func NewSecuredHandler() *SecuredHandler {
	return &SecuredHandler{}
}

type securedResponse struct {
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
}

// Get returns a greeting for any authenticated principal.
//
// @Summary      Access a protected resource
// @Tags         secured
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  securedResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/secured [get]
func (h *SecuredHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, securedResponse{
		Message: "This is a secured endpoint",
		User:    principal.Username,
	})
}

// AdminOnly is reachable only by principals holding the Admin role.
//
// @Summary      Access an admin-only resource
// @Tags         secured
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  securedResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/secured/admin [get]
func (h *SecuredHandler) AdminOnly(c echo.Context) error {
	return c.JSON(http.StatusOK, securedResponse{
		Message: "This is an admin-only endpoint",
	})
}

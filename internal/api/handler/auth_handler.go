package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-api/internal/api/metrics"
	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the canonical envelope for both auth endpoints. The
// refreshToken field is reserved and always null: the service issues no
// refresh tokens.
type authResponse struct {
	IsSuccess    bool       `json:"isSuccess"`
	Message      string     `json:"message"`
	Token        *string    `json:"token"`
	RefreshToken *string    `json:"refreshToken"`
	Expiration   *time.Time `json:"expiration"`
}

func failure(message string) authResponse {
	return authResponse{IsSuccess: false, Message: message}
}

// Register creates a new user account. A successful registration assigns the
// default "User" role and never authenticates the caller.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, failure("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, failure(err.Error()))
	}

	err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RemoteIP:  c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, failure(err.Error()))
		case errors.Is(err, domain.ErrWeakPassword), errors.Is(err, domain.ErrInvalidInput):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, failure(err.Error()))
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		IsSuccess: true,
		Message:   "User registered successfully",
	})
}

// Login authenticates credentials and returns a signed bearer token. Unknown
// email and wrong password produce byte-identical responses.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  authResponse
// @Failure      401   {object}  authResponse
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failure("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failure(err.Error()))
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, failure("Invalid email or password"))
		case errors.Is(err, domain.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, failure(err.Error()))
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	expiration := result.ExpiresAt
	return c.JSON(http.StatusOK, authResponse{
		IsSuccess:  true,
		Message:    "Login successful",
		Token:      &result.Token,
		Expiration: &expiration,
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/service"
)

func newGateContext(header string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, _, err := tokens.Issue(&domain.User{ID: "user-1", Username: "alice"}, []string{"User", "Admin"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, c, rec := newGateContext("Bearer " + token)

	called := false
	mw := Auth(tokens)
	handler := mw(func(c echo.Context) error {
		called = true
		principal, ok := c.Get(PrincipalKey).(domain.Principal)
		if !ok {
			t.Fatalf("principal not set")
		}
		if principal.UserID != "user-1" || principal.Username != "alice" {
			t.Fatalf("unexpected principal: %+v", principal)
		}
		if !principal.HasRole("Admin") {
			t.Fatalf("roles not carried: %+v", principal.Roles)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	e, c, rec := newGateContext("")

	mw := Auth(tokens)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	e, c, rec := newGateContext("Token abc")

	mw := Auth(tokens)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_UniformRejection(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	// An expired token, signed with the right secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	// A well-formed token signed with the wrong secret.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	forgedToken, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var bodies []string
	for _, token := range []string{expiredToken, forgedToken, "garbage"} {
		e, c, rec := newGateContext("Bearer " + token)
		mw := Auth(tokens)
		handler := mw(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// Expired, forged, and malformed tokens must be indistinguishable to the
	// caller.
	if bodies[0] != bodies[1] || bodies[1] != bodies[2] {
		t.Fatalf("rejection bodies differ: %q / %q / %q", bodies[0], bodies[1], bodies[2])
	}
}

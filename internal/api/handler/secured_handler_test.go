package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-api/internal/api/middleware"
	"github.com/identitylab/auth-api/internal/core/domain"
)

func TestSecuredHandler_Get(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/secured", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.PrincipalKey, domain.Principal{UserID: "user-1", Username: "alice", Roles: []string{"User"}})

	handler := NewSecuredHandler()
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["user"] != "alice" {
		t.Fatalf("expected username in response: %+v", resp)
	}
}

func TestSecuredHandler_Get_NoPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/secured", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewSecuredHandler()
	if err := handler.Get(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

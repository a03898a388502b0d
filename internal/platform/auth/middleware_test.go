package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.String(http.StatusOK, "ok")
	}
}

func TestRequire_MissingToken(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Require(s, RolePatient)(okHandler(&called))(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if called {
		t.Error("handler must not run without a token")
	}
}

func TestRequire_MalformedHeader(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic deadbeef")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Require(s, RolePatient)(okHandler(&called))(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if called {
		t.Error("handler must not run with a malformed header")
	}
}

func TestRequire_WrongRole(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	token, err := s.Issue(uuid.New(), RoleDoctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	gateErr := Require(s, RoleHospital)(okHandler(&called))(c)

	he, ok := gateErr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", gateErr)
	}
	if called {
		t.Error("handler must not run with the wrong role")
	}
}

func TestRequire_BindsActorToContext(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	id := uuid.New()
	token, err := s.Issue(id, RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		ctx := c.Request().Context()
		if ActorIDFromContext(ctx) != id {
			t.Errorf("expected actor id %s in context", id)
		}
		if RoleFromContext(ctx) != RolePatient {
			t.Errorf("expected role patient in context")
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := Require(s, RolePatient)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		required, actual string
		want             bool
	}{
		{RoleHospital, RoleHospital, true},
		{RoleHospital, RoleDoctor, false},
		{RolePatient, RolePatient, true},
		{RolePatient, "", false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.required, tc.actual); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.required, tc.actual, got, tc.want)
		}
	}
}

func TestRequireOwner(t *testing.T) {
	s := NewSigner("test-secret", time.Hour)
	id := uuid.New()
	token, _ := s.Issue(id, RolePatient)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if err := RequireOwner(c, id); err != nil {
			t.Errorf("owner check should pass for own id: %v", err)
		}
		if err := RequireOwner(c, uuid.New()); err == nil {
			t.Error("owner check should fail for a foreign id")
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := Require(s, RolePatient)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/service"
)

func TestResolveError_DomainMappings(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid mobile", service.ErrInvalidMobile, http.StatusBadRequest},
		{"empty needs", service.ErrEmptyNeeds, http.StatusBadRequest},
		{"short password", service.ErrPasswordTooShort, http.StatusBadRequest},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"admin only", service.ErrAdminOnly, http.StatusForbidden},
		{"not assignee", domain.ErrNotAssignee, http.StatusForbidden},
		{"code mismatch", domain.ErrInviteCodeMismatch, http.StatusForbidden},
		{"invite not found", domain.ErrInviteNotFound, http.StatusNotFound},
		{"request not found", domain.ErrRequestNotFound, http.StatusNotFound},
		{"invite used", domain.ErrInviteUsed, http.StatusConflict},
		{"not pending", domain.ErrApplicationNotPending, http.StatusConflict},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"invite expired", domain.ErrInviteExpired, http.StatusGone},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			code, _ := resolveError(tc.err, zerolog.Nop(), c)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
		})
	}
}

func TestResolveError_InternalErrorIsOpaque(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_, msg := resolveError(errors.New("connection reset by peer"), zerolog.Nop(), c)
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHTTPErrorHandler(zerolog.Nop())
	h(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

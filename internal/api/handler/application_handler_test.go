package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
)

type stubApplicationService struct {
	submitFn   func(ctx context.Context, input ports.SubmitApplicationInput) (*ports.SubmitApplicationResult, error)
	approveFn  func(ctx context.Context, input ports.ApproveApplicationInput) (*ports.ApproveApplicationResult, error)
	completeFn func(ctx context.Context, input ports.CompleteRegistrationInput) (*ports.CompleteRegistrationResult, error)
}

func (s *stubApplicationService) Submit(ctx context.Context, input ports.SubmitApplicationInput) (*ports.SubmitApplicationResult, error) {
	return s.submitFn(ctx, input)
}

func (s *stubApplicationService) Approve(ctx context.Context, input ports.ApproveApplicationInput) (*ports.ApproveApplicationResult, error) {
	return s.approveFn(ctx, input)
}

func (s *stubApplicationService) CompleteRegistration(ctx context.Context, input ports.CompleteRegistrationInput) (*ports.CompleteRegistrationResult, error) {
	return s.completeFn(ctx, input)
}

func (s *stubApplicationService) HandleChange(ctx context.Context, change ports.ApplicationChange) error {
	return nil
}

func TestApplicationHandler_Submit_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		submitFn: func(ctx context.Context, input ports.SubmitApplicationInput) (*ports.SubmitApplicationResult, error) {
			if input.Name != "Grace" || input.Email != "grace@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.SubmitApplicationResult{ApplicationID: "app_1", Status: domain.ApplicationPending}, nil
		},
	}
	handler := NewApplicationHandler(stub)

	body := `{"name":"Grace","email":"grace@example.com","phone":"+15550002222","specializations":["cbt"]}`
	c, rec := newJSONContext(e, http.MethodPost, "/v1/applications", body)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["application_id"] != "app_1" || resp["status"] != "pending" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestApplicationHandler_Submit_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewApplicationHandler(&stubApplicationService{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/applications", `{"name":"Grace"}`)

	err := handler.Submit(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestApplicationHandler_Approve_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		approveFn: func(ctx context.Context, input ports.ApproveApplicationInput) (*ports.ApproveApplicationResult, error) {
			if input.ApplicationID != "app_1" || input.CallerRole != domain.RoleAdmin {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ApproveApplicationResult{
				Token:        "tok_1",
				Code:         "12345678",
				RegisterLink: "http://localhost:8080/register?token=tok_1",
				ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
			}, nil
		},
	}
	handler := NewApplicationHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/applications/app_1/approve", "")
	c.SetParamNames("id")
	c.SetParamValues("app_1")
	c.Set("user_id", "admin_1")
	c.Set("role", domain.RoleAdmin)

	if err := handler.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok_1" || resp["code"] != "12345678" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestApplicationHandler_Approve_AlreadyApproved(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		approveFn: func(ctx context.Context, input ports.ApproveApplicationInput) (*ports.ApproveApplicationResult, error) {
			return nil, domain.ErrApplicationNotPending
		},
	}
	handler := NewApplicationHandler(stub)

	c, _ := newJSONContext(e, http.MethodPost, "/v1/applications/app_1/approve", "")
	c.SetParamNames("id")
	c.SetParamValues("app_1")
	c.Set("user_id", "admin_1")
	c.Set("role", domain.RoleAdmin)

	if err := handler.Approve(c); !errors.Is(err, domain.ErrApplicationNotPending) {
		t.Fatalf("expected ErrApplicationNotPending, got %v", err)
	}
}

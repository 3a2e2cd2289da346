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

type stubInviteService struct {
	createClientFn       func(ctx context.Context, input ports.CreateClientInviteInput) (*ports.ClientInviteResult, error)
	verifyClientFn       func(ctx context.Context, subjectID, mobile, code string) (*ports.VerifyClientInviteResult, error)
	createPractitionerFn func(ctx context.Context, issuerID string, payload domain.PractitionerInvitePayload) (*ports.PractitionerInviteResult, error)
	verifyPractitionerFn func(ctx context.Context, token, code string) (*domain.Invite, error)
	claimPractitionerFn  func(ctx context.Context, token, subjectID string) error
}

func (s *stubInviteService) CreateClientInvite(ctx context.Context, input ports.CreateClientInviteInput) (*ports.ClientInviteResult, error) {
	return s.createClientFn(ctx, input)
}

func (s *stubInviteService) VerifyClientInvite(ctx context.Context, subjectID, mobile, code string) (*ports.VerifyClientInviteResult, error) {
	return s.verifyClientFn(ctx, subjectID, mobile, code)
}

func (s *stubInviteService) CreatePractitionerInvite(ctx context.Context, issuerID string, payload domain.PractitionerInvitePayload) (*ports.PractitionerInviteResult, error) {
	return s.createPractitionerFn(ctx, issuerID, payload)
}

func (s *stubInviteService) VerifyPractitionerInvite(ctx context.Context, token, code string) (*domain.Invite, error) {
	return s.verifyPractitionerFn(ctx, token, code)
}

func (s *stubInviteService) ClaimPractitionerInvite(ctx context.Context, token, subjectID string) error {
	return s.claimPractitionerFn(ctx, token, subjectID)
}

func TestInviteHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubInviteService{
		createClientFn: func(ctx context.Context, input ports.CreateClientInviteInput) (*ports.ClientInviteResult, error) {
			if input.IssuerID != "prac_1" || input.Mobile != "+15550001111" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ClientInviteResult{
				InviteID:  "inv_1",
				Code:      "123456",
				Link:      "http://localhost:8080/invite?id=inv_1",
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}
	handler := NewInviteHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/invites", `{"mobile":"+15550001111","client_name":"Dana"}`)
	c.Set("user_id", "u1")
	c.Set("role", domain.RolePractitioner)
	c.Set("practitioner_id", "prac_1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["invite_id"] != "inv_1" || resp["code"] != "123456" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInviteHandler_Create_MissingClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewInviteHandler(&stubInviteService{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/invites", `{"mobile":"+15550001111"}`)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestInviteHandler_Create_PractitionerWithoutProfile(t *testing.T) {
	e := newTestEcho()
	handler := NewInviteHandler(&stubInviteService{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/invites", `{"mobile":"+15550001111"}`)
	c.Set("user_id", "u1")
	c.Set("role", domain.RolePractitioner)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestInviteHandler_Verify_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubInviteService{
		verifyClientFn: func(ctx context.Context, subjectID, mobile, code string) (*ports.VerifyClientInviteResult, error) {
			if subjectID != "u2" || code != "123456" {
				t.Fatalf("unexpected args: %s %s", subjectID, code)
			}
			return &ports.VerifyClientInviteResult{InviteID: "inv_1", PractitionerID: "prac_1"}, nil
		},
	}
	handler := NewInviteHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/v1/invites/verify", `{"mobile":"+15550001111","code":"123456"}`)
	c.Set("user_id", "u2")
	c.Set("role", domain.RoleClient)

	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["practitioner_id"] != "prac_1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInviteHandler_Verify_Expired(t *testing.T) {
	e := newTestEcho()
	stub := &stubInviteService{
		verifyClientFn: func(ctx context.Context, subjectID, mobile, code string) (*ports.VerifyClientInviteResult, error) {
			return nil, domain.ErrInviteExpired
		},
	}
	handler := NewInviteHandler(stub)

	c, _ := newJSONContext(e, http.MethodPost, "/v1/invites/verify", `{"mobile":"+15550001111","code":"123456"}`)
	c.Set("user_id", "u2")
	c.Set("role", domain.RoleClient)

	if err := handler.Verify(c); !errors.Is(err, domain.ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
}

func TestInviteHandler_Verify_BadCodeLength(t *testing.T) {
	e := newTestEcho()
	handler := NewInviteHandler(&stubInviteService{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/invites/verify", `{"mobile":"+15550001111","code":"123"}`)
	c.Set("user_id", "u2")
	c.Set("role", domain.RoleClient)

	err := handler.Verify(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

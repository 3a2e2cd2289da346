package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
)

func TestRegistrationHandler_Verify_Success(t *testing.T) {
	e := newTestEcho()
	invites := &stubInviteService{
		verifyPractitionerFn: func(ctx context.Context, token, code string) (*domain.Invite, error) {
			if token != "tok_1" || code != "12345678" {
				t.Fatalf("unexpected args: %s %s", token, code)
			}
			return &domain.Invite{
				ID:        token,
				Kind:      domain.InviteKindPractitioner,
				ExpiresAt: time.Now().Add(time.Hour),
				PractitionerPayload: &domain.PractitionerInvitePayload{
					Name:            "Grace",
					Email:           "grace@example.com",
					Phone:           "+15550002222",
					Specializations: []string{"cbt"},
				},
			}, nil
		},
	}
	handler := NewRegistrationHandler(invites, &stubApplicationService{})

	c, rec := newJSONContext(e, http.MethodPost, "/v1/registration/verify", `{"token":"tok_1","code":"12345678"}`)

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
	if resp["name"] != "Grace" || resp["email"] != "grace@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRegistrationHandler_Verify_WrongCode(t *testing.T) {
	e := newTestEcho()
	invites := &stubInviteService{
		verifyPractitionerFn: func(ctx context.Context, token, code string) (*domain.Invite, error) {
			return nil, domain.ErrInviteCodeMismatch
		},
	}
	handler := NewRegistrationHandler(invites, &stubApplicationService{})

	c, _ := newJSONContext(e, http.MethodPost, "/v1/registration/verify", `{"token":"tok_1","code":"00000000"}`)

	if err := handler.Verify(c); !errors.Is(err, domain.ErrInviteCodeMismatch) {
		t.Fatalf("expected ErrInviteCodeMismatch, got %v", err)
	}
}

func TestRegistrationHandler_Complete_Success(t *testing.T) {
	e := newTestEcho()
	applications := &stubApplicationService{
		completeFn: func(ctx context.Context, input ports.CompleteRegistrationInput) (*ports.CompleteRegistrationResult, error) {
			if input.Token != "tok_1" || input.Password != "hunter22" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.CompleteRegistrationResult{UserID: "u9", PractitionerCode: "654321"}, nil
		},
	}
	handler := NewRegistrationHandler(&stubInviteService{}, applications)

	body := `{"token":"tok_1","code":"12345678","password":"hunter22"}`
	c, rec := newJSONContext(e, http.MethodPost, "/v1/registration/complete", body)

	if err := handler.Complete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["user_id"] != "u9" || resp["practitioner_code"] != "654321" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRegistrationHandler_Complete_ExistingAccount(t *testing.T) {
	e := newTestEcho()
	applications := &stubApplicationService{
		completeFn: func(ctx context.Context, input ports.CompleteRegistrationInput) (*ports.CompleteRegistrationResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewRegistrationHandler(&stubInviteService{}, applications)

	body := `{"token":"tok_1","code":"12345678","password":"hunter22"}`
	c, _ := newJSONContext(e, http.MethodPost, "/v1/registration/complete", body)

	if err := handler.Complete(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

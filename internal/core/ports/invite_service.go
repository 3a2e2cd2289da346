package ports

import (
	"context"
	"time"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// CreateClientInviteInput carries the data a practitioner supplies when
// inviting a client. Mobile is optional; when present it must normalize to
// at least ten digits.
type CreateClientInviteInput struct {
	IssuerID   string
	Mobile     string
	ClientName string
	Note       string
}

// ClientInviteResult is returned after minting a client invite.
type ClientInviteResult struct {
	InviteID  string
	Code      string
	Link      string
	ExpiresAt time.Time
}

// VerifyClientInviteResult identifies the issuing practitioner after a
// client invite is verified and claimed.
type VerifyClientInviteResult struct {
	InviteID       string
	PractitionerID string
}

// PractitionerInviteResult is returned after minting a registration invite
// for an approved applicant.
type PractitionerInviteResult struct {
	Token     string
	Code      string
	Link      string
	ExpiresAt time.Time
}

// InviteService is the invite ledger: it mints, verifies and claims the two
// invite kinds. Verification detects expiry lazily and marks the document.
type InviteService interface {
	CreateClientInvite(ctx context.Context, input CreateClientInviteInput) (*ClientInviteResult, error)

	// VerifyClientInvite resolves the newest pending invite for
	// (mobile, code), claims it for subjectID and links the subject's
	// profile to the issuing practitioner.
	VerifyClientInvite(ctx context.Context, subjectID, mobile, code string) (*VerifyClientInviteResult, error)

	// CreatePractitionerInvite mints a registration invite carrying the
	// applicant's identity fields. Used by the approval workflow.
	CreatePractitionerInvite(ctx context.Context, issuerID string, payload domain.PractitionerInvitePayload) (*PractitionerInviteResult, error)

	// VerifyPractitionerInvite checks a registration invite by token and
	// code without claiming it.
	VerifyPractitionerInvite(ctx context.Context, token, code string) (*domain.Invite, error)

	// ClaimPractitionerInvite consumes a verified registration invite.
	ClaimPractitionerInvite(ctx context.Context, token, subjectID string) error
}

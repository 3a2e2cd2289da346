package ports

import (
	"context"
	"time"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// SubmitApplicationInput carries a practitioner onboarding application.
// Submission is open: no caller identity is required.
type SubmitApplicationInput struct {
	Name            string
	Email           string
	Phone           string
	Specializations []string
	Message         string
}

// SubmitApplicationResult is returned after a successful submission.
type SubmitApplicationResult struct {
	ApplicationID string
	Status        domain.ApplicationStatus
}

// ApproveApplicationInput identifies the application and the caller whose
// admin role gates the approval.
type ApproveApplicationInput struct {
	ApplicationID string
	CallerID      string
	CallerRole    string
}

// ApproveApplicationResult carries the minted registration invite.
type ApproveApplicationResult struct {
	Token        string
	Code         string
	RegisterLink string
	ExpiresAt    time.Time
}

// CompleteRegistrationInput finishes practitioner onboarding by consuming
// the registration invite.
type CompleteRegistrationInput struct {
	Token    string
	Code     string
	Password string
}

// CompleteRegistrationResult reports the provisioned identity.
type CompleteRegistrationResult struct {
	UserID           string
	PractitionerCode string
}

// ApplicationChange describes one observed update of an application
// document, as delivered by the change-notification mechanism. Delivery is
// at least once; OldStatus may be empty when the source cannot recover it.
type ApplicationChange struct {
	ApplicationID string
	OldStatus     domain.ApplicationStatus
	NewStatus     domain.ApplicationStatus
}

// ApplicationService is the approval workflow for practitioner onboarding.
type ApplicationService interface {
	Submit(ctx context.Context, input SubmitApplicationInput) (*SubmitApplicationResult, error)
	Approve(ctx context.Context, input ApproveApplicationInput) (*ApproveApplicationResult, error)
	CompleteRegistration(ctx context.Context, input CompleteRegistrationInput) (*CompleteRegistrationResult, error)

	// HandleChange reacts to an application document update. It is a no-op
	// unless the change is exactly pending→approved, and sends at most one
	// welcome notification per application.
	HandleChange(ctx context.Context, change ApplicationChange) error
}

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	Create(ctx context.Context, a *domain.PractitionerApplication) error
	FindByID(ctx context.Context, id string) (*domain.PractitionerApplication, error)

	// MarkApproved stores the invite token and flips status to approved,
	// conditional on the application still being pending. Returns
	// domain.ErrApplicationNotPending when the conditional update misses.
	MarkApproved(ctx context.Context, id, inviteToken string) error

	// MarkApprovalEmailSent flips the idempotency flag, conditional on the
	// application being approved with the flag still unset. Reports whether
	// this caller won the flip.
	MarkApprovalEmailSent(ctx context.Context, id string) (bool, error)
}

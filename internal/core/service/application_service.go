package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
	"github.com/carebridge/practice-api/internal/metrics"
)

const minPasswordLength = 6

var ErrMissingApplicantFields = errors.New("name, email and specializations are required")
var ErrPasswordTooShort = errors.New("password must be at least 6 characters")
var ErrAdminOnly = errors.New("approval requires an administrator")

// ApprovalDedup suppresses redelivered application change events. It is a
// fast path only: the approval_email_sent flag on the document is the
// authoritative guard.
type ApprovalDedup interface {
	IsDuplicate(ctx context.Context, applicationID string) (bool, error)
	Mark(ctx context.Context, applicationID string) error
}

// ApplicationService implements the practitioner onboarding workflow:
// open submission, admin approval minting a registration invite, a reactive
// welcome notification, and registration completion.
type ApplicationService struct {
	applications  ports.ApplicationRepository
	practitioners ports.PractitionerRepository
	users         ports.UserRepository
	invites       ports.InviteService
	notify        ports.Notifier
	dedup         ApprovalDedup
	operatorEmail string
	logger        zerolog.Logger
}

func NewApplicationService(
	applications ports.ApplicationRepository,
	practitioners ports.PractitionerRepository,
	users ports.UserRepository,
	invites ports.InviteService,
	notify ports.Notifier,
	dedup ApprovalDedup,
	operatorEmail string,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications:  applications,
		practitioners: practitioners,
		users:         users,
		invites:       invites,
		notify:        notify,
		dedup:         dedup,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// Submit stores a new application. Submission is open to anyone; the
// operator notification is best effort and never fails the call.
func (s *ApplicationService) Submit(ctx context.Context, input ports.SubmitApplicationInput) (*ports.SubmitApplicationResult, error) {
	if input.Name == "" || input.Email == "" || len(input.Specializations) == 0 {
		return nil, ErrMissingApplicantFields
	}

	now := time.Now().UTC()
	application := &domain.PractitionerApplication{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Email:           strings.ToLower(input.Email),
		Phone:           input.Phone,
		Specializations: input.Specializations,
		Message:         input.Message,
		Status:          domain.ApplicationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.applications.Create(ctx, application); err != nil {
		s.logger.Error().Err(err).Msg("failed to create application")
		return nil, err
	}
	metrics.ApplicationsSubmittedTotal.Inc()

	if s.operatorEmail != "" {
		body := fmt.Sprintf("New practitioner application from %s (%s).", application.Name, application.Email)
		if err := s.notify.SendEmail(ctx, s.operatorEmail, "New practitioner application", body); err != nil {
			s.logger.Warn().Err(err).Str("application_id", application.ID).Msg("operator notification failed")
		}
	}

	s.logger.Info().Str("application_id", application.ID).Msg("application submitted")

	return &ports.SubmitApplicationResult{
		ApplicationID: application.ID,
		Status:        application.Status,
	}, nil
}

// Approve transitions a pending application to approved and mints the
// registration invite. The status flip is a conditional update, so a second
// approval attempt fails with a precondition error and no second invite is
// ever observable.
func (s *ApplicationService) Approve(ctx context.Context, input ports.ApproveApplicationInput) (*ports.ApproveApplicationResult, error) {
	if input.CallerRole != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	application, err := s.applications.FindByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if application.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationNotPending
	}

	invite, err := s.invites.CreatePractitionerInvite(ctx, input.CallerID, domain.PractitionerInvitePayload{
		Name:            application.Name,
		Email:           application.Email,
		Phone:           application.Phone,
		Specializations: application.Specializations,
	})
	if err != nil {
		return nil, fmt.Errorf("approve application: %w", err)
	}

	// Conditional on the application still being pending. Losing here means
	// a concurrent approval won; the invite minted above simply expires.
	if err := s.applications.MarkApproved(ctx, application.ID, invite.Token); err != nil {
		return nil, err
	}

	if err := s.notify.SendEmail(ctx, application.Email, "Your application was approved",
		fmt.Sprintf("Complete your registration with code %s: %s", invite.Code, invite.Link)); err != nil {
		s.logger.Warn().Err(err).Str("application_id", application.ID).Msg("registration link email failed")
	}

	s.logger.Info().
		Str("application_id", application.ID).
		Str("approved_by", input.CallerID).
		Msg("application approved")

	return &ports.ApproveApplicationResult{
		Token:        invite.Token,
		Code:         invite.Code,
		RegisterLink: invite.Link,
		ExpiresAt:    invite.ExpiresAt,
	}, nil
}

// HandleChange reacts to an observed application update. Delivery is at
// least once, so the welcome email is guarded twice: a redis fast path and
// the authoritative approval_email_sent conditional flip.
func (s *ApplicationService) HandleChange(ctx context.Context, change ports.ApplicationChange) error {
	if change.NewStatus != domain.ApplicationApproved {
		metrics.ApprovalEventsTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	if change.OldStatus != "" && change.OldStatus != domain.ApplicationPending {
		metrics.ApprovalEventsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	isDup, err := s.dedup.IsDuplicate(ctx, change.ApplicationID)
	if err != nil {
		s.logger.Warn().Err(err).Str("application_id", change.ApplicationID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.ApprovalEventsTotal.WithLabelValues("duplicate").Inc()
		s.logger.Debug().Str("application_id", change.ApplicationID).Msg("duplicate approval event skipped")
		return nil
	}

	won, err := s.applications.MarkApprovalEmailSent(ctx, change.ApplicationID)
	if err != nil {
		return fmt.Errorf("handle approval event: %w", err)
	}
	if !won {
		metrics.ApprovalEventsTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if err := s.dedup.Mark(ctx, change.ApplicationID); err != nil {
		s.logger.Warn().Err(err).Str("application_id", change.ApplicationID).Msg("failed to set dedup key")
	}

	application, err := s.applications.FindByID(ctx, change.ApplicationID)
	if err != nil {
		return fmt.Errorf("handle approval event: %w", err)
	}

	if err := s.notify.SendEmail(ctx, application.Email, "Welcome to CareBridge",
		fmt.Sprintf("Hello %s, your practitioner application has been approved.", application.Name)); err != nil {
		s.logger.Warn().Err(err).Str("application_id", application.ID).Msg("welcome email failed")
	}
	metrics.ApprovalEventsTotal.WithLabelValues("sent").Inc()

	s.logger.Info().Str("application_id", application.ID).Msg("approval welcome email dispatched")
	return nil
}

// CompleteRegistration consumes a registration invite and provisions the
// practitioner's identity and directory entry, with a fresh rotation
// counter and referral code.
func (s *ApplicationService) CompleteRegistration(ctx context.Context, input ports.CompleteRegistrationInput) (*ports.CompleteRegistrationResult, error) {
	invite, err := s.invites.VerifyPractitionerInvite(ctx, input.Token, input.Code)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	payload := invite.PractitionerPayload
	if payload == nil {
		return nil, domain.ErrInviteNotFound
	}

	if _, err := s.users.FindByEmail(ctx, payload.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Role:         domain.RolePractitioner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	practitioner := &domain.Practitioner{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Name:            payload.Name,
		Email:           payload.Email,
		Phone:           payload.Phone,
		Code:            GenerateCode(PractitionerRefCodeLength),
		RotationIndex:   0,
		Specializations: payload.Specializations,
		CreatedAt:       now,
	}
	if err := s.practitioners.Create(ctx, practitioner); err != nil {
		return nil, err
	}

	if err := s.users.LinkPractitioner(ctx, user.ID, practitioner.ID); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to link practitioner profile")
	}

	if err := s.invites.ClaimPractitionerInvite(ctx, invite.ID, user.ID); err != nil {
		s.logger.Error().Err(err).Str("invite_id", invite.ID).Msg("failed to mark invite completed")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("practitioner_id", practitioner.ID).
		Msg("practitioner registration completed")

	return &ports.CompleteRegistrationResult{
		UserID:           user.ID,
		PractitionerCode: practitioner.Code,
	}, nil
}

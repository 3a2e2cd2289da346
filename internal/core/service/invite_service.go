package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
	"github.com/carebridge/practice-api/internal/metrics"
)

const (
	clientInviteTTL       = 24 * time.Hour
	practitionerInviteTTL = 7 * 24 * time.Hour

	minMobileDigits = 10
)

var ErrInvalidMobile = errors.New("mobile must contain at least 10 digits")

// InviteService implements the invite ledger: it mints, verifies and claims
// client invites and practitioner registration invites.
type InviteService struct {
	invites ports.InviteRepository
	users   ports.UserRepository
	notify  ports.Notifier
	baseURL string
	logger  zerolog.Logger
}

func NewInviteService(invites ports.InviteRepository, users ports.UserRepository, notify ports.Notifier, baseURL string, logger zerolog.Logger) *InviteService {
	return &InviteService{
		invites: invites,
		users:   users,
		notify:  notify,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// CreateClientInvite mints a 6-digit, 24-hour invite from a practitioner to
// a prospective client. When a mobile number is supplied the invite is also
// texted to it, best effort.
func (s *InviteService) CreateClientInvite(ctx context.Context, input ports.CreateClientInviteInput) (*ports.ClientInviteResult, error) {
	mobile, err := normalizeMobile(input.Mobile)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invite := &domain.Invite{
		ID:        uuid.NewString(),
		Kind:      domain.InviteKindClient,
		Code:      GenerateCode(ClientInviteCodeLength),
		MatchKey:  mobile,
		IssuerID:  input.IssuerID,
		Status:    domain.InvitePending,
		CreatedAt: now,
		ExpiresAt: now.Add(clientInviteTTL),
		ClientPayload: &domain.ClientInvitePayload{
			ClientName: input.ClientName,
			Note:       input.Note,
		},
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		s.logger.Error().Err(err).Msg("failed to create client invite")
		return nil, err
	}
	metrics.InvitesCreatedTotal.WithLabelValues(string(domain.InviteKindClient)).Inc()

	link := s.inviteLink(invite)
	if mobile != "" {
		msg := fmt.Sprintf("You have been invited to CareBridge. Your code is %s: %s", invite.Code, link)
		if err := s.notify.SendSMS(ctx, mobile, msg); err != nil {
			s.logger.Warn().Err(err).Str("invite_id", invite.ID).Msg("invite SMS failed")
		}
	}

	s.logger.Info().Str("invite_id", invite.ID).Str("issuer_id", input.IssuerID).Msg("client invite created")

	return &ports.ClientInviteResult{
		InviteID:  invite.ID,
		Code:      invite.Code,
		Link:      link,
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

// VerifyClientInvite resolves the newest pending invite for (mobile, code),
// claims it for the caller and links the caller's profile to the issuing
// practitioner.
func (s *InviteService) VerifyClientInvite(ctx context.Context, subjectID, mobile, code string) (*ports.VerifyClientInviteResult, error) {
	normalized, err := normalizeMobile(mobile)
	if err != nil {
		return nil, err
	}
	if normalized == "" || code == "" {
		return nil, ErrInvalidMobile
	}

	invite, err := s.invites.FindPendingByMatchKey(ctx, normalized, code)
	if err != nil {
		metrics.InviteVerificationsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	if invite.ExpiredAt(time.Now().UTC()) {
		s.expire(ctx, invite)
		metrics.InviteVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrInviteExpired
	}

	if err := s.invites.Claim(ctx, invite.ID, subjectID, domain.InviteAccepted); err != nil {
		metrics.InviteVerificationsTotal.WithLabelValues("already_used").Inc()
		return nil, err
	}
	metrics.InviteVerificationsTotal.WithLabelValues("ok").Inc()

	// Connect the client's profile to the inviting practitioner. Idempotent
	// upsert; a failure here does not undo the claim.
	if err := s.users.LinkPractitioner(ctx, subjectID, invite.IssuerID); err != nil {
		s.logger.Error().Err(err).Str("invite_id", invite.ID).Str("user_id", subjectID).Msg("failed to link client to practitioner")
	}

	s.logger.Info().Str("invite_id", invite.ID).Str("subject_id", subjectID).Msg("client invite claimed")

	return &ports.VerifyClientInviteResult{
		InviteID:       invite.ID,
		PractitionerID: invite.IssuerID,
	}, nil
}

// CreatePractitionerInvite mints an 8-digit, 7-day registration invite
// carrying the applicant's identity fields.
func (s *InviteService) CreatePractitionerInvite(ctx context.Context, issuerID string, payload domain.PractitionerInvitePayload) (*ports.PractitionerInviteResult, error) {
	now := time.Now().UTC()
	invite := &domain.Invite{
		ID:                  uuid.NewString(),
		Kind:                domain.InviteKindPractitioner,
		Code:                GenerateCode(PractitionerInviteCodeLength),
		MatchKey:            strings.ToLower(payload.Email),
		IssuerID:            issuerID,
		Status:              domain.InvitePending,
		CreatedAt:           now,
		ExpiresAt:           now.Add(practitionerInviteTTL),
		PractitionerPayload: &payload,
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		s.logger.Error().Err(err).Msg("failed to create practitioner invite")
		return nil, err
	}
	metrics.InvitesCreatedTotal.WithLabelValues(string(domain.InviteKindPractitioner)).Inc()

	return &ports.PractitionerInviteResult{
		Token:     invite.ID,
		Code:      invite.Code,
		Link:      s.inviteLink(invite),
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

// VerifyPractitionerInvite checks a registration invite by token and code
// without consuming it. Expiry is detected here and marked on the document.
func (s *InviteService) VerifyPractitionerInvite(ctx context.Context, token, code string) (*domain.Invite, error) {
	invite, err := s.invites.FindByID(ctx, token)
	if err != nil {
		metrics.InviteVerificationsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	if invite.Kind != domain.InviteKindPractitioner {
		metrics.InviteVerificationsTotal.WithLabelValues("not_found").Inc()
		return nil, domain.ErrInviteNotFound
	}
	if invite.Code != code {
		metrics.InviteVerificationsTotal.WithLabelValues("code_mismatch").Inc()
		return nil, domain.ErrInviteCodeMismatch
	}
	if invite.Status != domain.InvitePending {
		metrics.InviteVerificationsTotal.WithLabelValues("already_used").Inc()
		return nil, domain.ErrInviteUsed
	}
	if invite.ExpiredAt(time.Now().UTC()) {
		s.expire(ctx, invite)
		metrics.InviteVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrInviteExpired
	}

	metrics.InviteVerificationsTotal.WithLabelValues("ok").Inc()
	return invite, nil
}

// ClaimPractitionerInvite consumes a verified registration invite.
func (s *InviteService) ClaimPractitionerInvite(ctx context.Context, token, subjectID string) error {
	return s.invites.Claim(ctx, token, subjectID, domain.InviteCompleted)
}

// expire lazily marks an invite whose deadline has passed. Losing the
// conditional update means another reader got there first.
func (s *InviteService) expire(ctx context.Context, invite *domain.Invite) {
	if err := s.invites.MarkExpired(ctx, invite.ID); err != nil {
		s.logger.Warn().Err(err).Str("invite_id", invite.ID).Msg("failed to mark invite expired")
	}
}

func (s *InviteService) inviteLink(invite *domain.Invite) string {
	if invite.Kind == domain.InviteKindPractitioner {
		return fmt.Sprintf("%s/register?token=%s", s.baseURL, invite.ID)
	}
	return fmt.Sprintf("%s/invite?id=%s", s.baseURL, invite.ID)
}

// normalizeMobile strips whitespace and common punctuation from a mobile
// number. An empty input is allowed; a non-empty input must keep at least
// ten digits after stripping.
func normalizeMobile(mobile string) (string, error) {
	if mobile == "" {
		return "", nil
	}

	var b strings.Builder
	digits := 0
	for _, r := range mobile {
		switch {
		case unicode.IsDigit(r):
			digits++
			b.WriteRune(r)
		case r == '+':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '(', r == ')', r == '.':
			// stripped
		default:
			return "", ErrInvalidMobile
		}
	}
	if digits < minMobileDigits {
		return "", ErrInvalidMobile
	}
	return b.String(), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
	"github.com/carebridge/practice-api/internal/metrics"
)

var ErrEmptyNeeds = errors.New("needs cannot be empty")
var ErrUnknownAction = errors.New("action must be accept or decline")

// RequestService drives a client request through the assignment state
// machine using the rotation selector for the initial pick and every
// decline-triggered reassignment.
type RequestService struct {
	requests ports.RequestRepository
	users    ports.UserRepository
	selector *RotationSelector
	notify   ports.Notifier
	logger   zerolog.Logger
}

func NewRequestService(
	requests ports.RequestRepository,
	users ports.UserRepository,
	selector *RotationSelector,
	notify ports.Notifier,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		selector: selector,
		notify:   notify,
		logger:   logger,
	}
}

// Create validates and persists a new client request, assigning the next
// practitioner in rotation. With an empty directory the request is stored
// unassigned rather than rejected.
func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*ports.RequestResult, error) {
	if len(input.Needs) == 0 {
		return nil, ErrEmptyNeeds
	}

	winner, err := s.selector.SelectNext(ctx, nil, input.Needs)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	now := time.Now().UTC()
	request := &domain.ClientRequest{
		ID:         uuid.NewString(),
		ClientID:   input.ClientID,
		Needs:      input.Needs,
		Message:    input.Message,
		DeclinedBy: []string{},
		Status:     domain.RequestUnassigned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if winner != nil {
		request.AssignedPractitionerID = winner.ID
		request.Status = domain.RequestPending
	}

	if err := s.requests.Create(ctx, request); err != nil {
		s.logger.Error().Err(err).Msg("failed to create request")
		return nil, err
	}

	if winner != nil {
		metrics.AssignmentsTotal.WithLabelValues("initial").Inc()
		s.notifyAssignment(ctx, winner, request)
	}

	s.logger.Info().
		Str("request_id", request.ID).
		Str("client_id", input.ClientID).
		Str("assigned_to", request.AssignedPractitionerID).
		Msg("request created")

	return &ports.RequestResult{
		RequestID:              request.ID,
		Status:                 request.Status,
		AssignedPractitionerID: request.AssignedPractitionerID,
	}, nil
}

// Respond applies a practitioner's accept or decline to a pending request.
// Only the current assignee may respond. A decline appends the caller to
// the decliner list and re-runs the selector against everyone left;
// reassignment deliberately does not re-apply the original needs filter.
func (s *RequestService) Respond(ctx context.Context, input ports.RespondInput) (*ports.RequestResult, error) {
	request, err := s.requests.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	if request.AssignedPractitionerID != input.PractitionerID {
		return nil, domain.ErrNotAssignee
	}
	if request.Status != domain.RequestPending {
		return nil, domain.ErrRequestNotPending
	}

	switch input.Action {
	case ports.ActionAccept:
		return s.accept(ctx, request, input.PractitionerID)
	case ports.ActionDecline:
		return s.decline(ctx, request, input.PractitionerID)
	default:
		return nil, ErrUnknownAction
	}
}

func (s *RequestService) accept(ctx context.Context, request *domain.ClientRequest, practitionerID string) (*ports.RequestResult, error) {
	request.Status = domain.RequestAccepted
	request.UpdatedAt = time.Now().UTC()

	if err := s.requests.Update(ctx, request); err != nil {
		s.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to accept request")
		return nil, err
	}

	// Connect the client's profile to the accepting practitioner.
	// Idempotent upsert; failure does not undo the acceptance.
	if err := s.users.LinkPractitioner(ctx, request.ClientID, practitionerID); err != nil {
		s.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to link client to practitioner")
	}

	s.logger.Info().Str("request_id", request.ID).Str("practitioner_id", practitionerID).Msg("request accepted")

	return &ports.RequestResult{
		RequestID:              request.ID,
		Status:                 request.Status,
		AssignedPractitionerID: request.AssignedPractitionerID,
	}, nil
}

func (s *RequestService) decline(ctx context.Context, request *domain.ClientRequest, practitionerID string) (*ports.RequestResult, error) {
	request.DeclinedBy = append(request.DeclinedBy, practitionerID)

	winner, err := s.selector.SelectNext(ctx, request.DeclinedBy, nil)
	if err != nil {
		return nil, fmt.Errorf("reassign request: %w", err)
	}

	if winner != nil {
		request.AssignedPractitionerID = winner.ID
		request.Status = domain.RequestPending
	} else {
		request.AssignedPractitionerID = ""
		request.Status = domain.RequestUnassigned
	}
	request.UpdatedAt = time.Now().UTC()

	if err := s.requests.Update(ctx, request); err != nil {
		s.logger.Error().Err(err).Str("request_id", request.ID).Msg("failed to reassign request")
		return nil, err
	}

	if winner != nil {
		metrics.AssignmentsTotal.WithLabelValues("reassign").Inc()
		s.notifyAssignment(ctx, winner, request)
	} else {
		metrics.RequestsExhaustedTotal.Inc()
		s.logger.Warn().Str("request_id", request.ID).Msg("candidate pool exhausted, request unassigned")
	}

	s.logger.Info().
		Str("request_id", request.ID).
		Str("declined_by", practitionerID).
		Str("reassigned_to", request.AssignedPractitionerID).
		Msg("request declined")

	return &ports.RequestResult{
		RequestID:              request.ID,
		Status:                 request.Status,
		AssignedPractitionerID: request.AssignedPractitionerID,
	}, nil
}

// notifyAssignment tells the practitioner about the new request, best
// effort over both channels.
func (s *RequestService) notifyAssignment(ctx context.Context, p *domain.Practitioner, request *domain.ClientRequest) {
	body := fmt.Sprintf("A new client request (%s) has been assigned to you.", request.ID)
	if p.Email != "" {
		if err := s.notify.SendEmail(ctx, p.Email, "New client request", body); err != nil {
			s.logger.Warn().Err(err).Str("request_id", request.ID).Msg("assignment email failed")
		}
	}
	if p.Phone != "" {
		if err := s.notify.SendSMS(ctx, p.Phone, body); err != nil {
			s.logger.Warn().Err(err).Str("request_id", request.ID).Msg("assignment SMS failed")
		}
	}
}

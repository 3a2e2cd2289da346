package ports

import (
	"context"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// RequestAction is a practitioner's response to an assigned request.
type RequestAction string

const (
	ActionAccept  RequestAction = "accept"
	ActionDecline RequestAction = "decline"
)

// CreateRequestInput carries the data for a new client request.
type CreateRequestInput struct {
	ClientID string
	Needs    []string
	Message  string
}

// RequestResult reports the request's state after creation or a response.
type RequestResult struct {
	RequestID              string
	Status                 domain.RequestStatus
	AssignedPractitionerID string
}

// RespondInput carries a practitioner's accept/decline decision.
type RespondInput struct {
	RequestID      string
	PractitionerID string
	Action         RequestAction
}

// RequestService drives the assignment state machine: round-robin initial
// assignment and decline-and-reassign.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*RequestResult, error)
	Respond(ctx context.Context, input RespondInput) (*RequestResult, error)
}

// RequestRepository defines persistence operations for client requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.ClientRequest) error
	FindByID(ctx context.Context, id string) (*domain.ClientRequest, error)
	// Update persists the mutable assignment fields (status, assignee,
	// declined_by, updated_at) as a single document update.
	Update(ctx context.Context, r *domain.ClientRequest) error
}

package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a client request.
type RequestStatus string

const (
	RequestUnassigned RequestStatus = "unassigned"
	RequestPending    RequestStatus = "pending"
	RequestAccepted   RequestStatus = "accepted"
)

// requestTransitions defines the allowed state machine transitions.
// pending→pending (reassignment after a decline) is implicit; accepted is
// terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestUnassigned: {RequestPending},
	RequestPending:    {RequestAccepted, RequestUnassigned},
}

var ErrRequestNotFound = errors.New("request not found")
var ErrNotAssignee = errors.New("caller is not the assigned practitioner")
var ErrRequestNotPending = errors.New("request is not pending")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s == RequestPending && next == RequestPending {
		return true
	}
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ClientRequest tracks a client's ask for a practitioner through the
// round-robin assignment state machine. DeclinedBy is append-only; a
// decliner never re-enters the candidate pool for this request.
type ClientRequest struct {
	ID                     string        `json:"id" bson:"_id"`
	ClientID               string        `json:"client_id" bson:"client_id"`
	Needs                  []string      `json:"needs" bson:"needs"`
	Message                string        `json:"message,omitempty" bson:"message,omitempty"`
	AssignedPractitionerID string        `json:"assigned_practitioner_id,omitempty" bson:"assigned_practitioner_id,omitempty"`
	DeclinedBy             []string      `json:"declined_by" bson:"declined_by"`
	Status                 RequestStatus `json:"status" bson:"status"`
	CreatedAt              time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at" bson:"updated_at"`
}

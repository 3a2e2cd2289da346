package domain

import (
	"errors"
	"time"
)

// InviteKind distinguishes the two invite flows sharing the ledger.
type InviteKind string

const (
	InviteKindClient       InviteKind = "client"
	InviteKindPractitioner InviteKind = "practitioner"
)

// InviteStatus represents the lifecycle state of an invite.
type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteAccepted  InviteStatus = "accepted"
	InviteExpired   InviteStatus = "expired"
	InviteCompleted InviteStatus = "completed"
)

// inviteTransitions defines the allowed state machine transitions.
// Accepted, completed and expired are terminal.
var inviteTransitions = map[InviteStatus][]InviteStatus{
	InvitePending: {InviteAccepted, InviteCompleted, InviteExpired},
}

var ErrInviteNotFound = errors.New("invite not found")
var ErrInviteExpired = errors.New("invite expired")
var ErrInviteUsed = errors.New("invite already used")
var ErrInviteCodeMismatch = errors.New("invite code mismatch")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s InviteStatus) CanTransitionTo(next InviteStatus) bool {
	for _, allowed := range inviteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ClientInvitePayload carries the fields specific to client invites.
type ClientInvitePayload struct {
	ClientName string `json:"client_name" bson:"client_name"`
	Note       string `json:"note,omitempty" bson:"note,omitempty"`
}

// PractitionerInvitePayload carries the applicant identity fields attached
// to a registration invite when an application is approved.
type PractitionerInvitePayload struct {
	Name            string   `json:"name" bson:"name"`
	Email           string   `json:"email" bson:"email"`
	Phone           string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Specializations []string `json:"specializations" bson:"specializations"`
}

// Invite is a single-use, time-bounded credential linking a secret code to
// an issuer and an eventual claimant. Exactly one of the payload fields is
// set, according to Kind.
type Invite struct {
	ID        string       `json:"id" bson:"_id"`
	Kind      InviteKind   `json:"kind" bson:"kind"`
	Code      string       `json:"code" bson:"code"`
	MatchKey  string       `json:"match_key,omitempty" bson:"match_key,omitempty"`
	IssuerID  string       `json:"issuer_id" bson:"issuer_id"`
	SubjectID string       `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Status    InviteStatus `json:"status" bson:"status"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time    `json:"expires_at" bson:"expires_at"`

	ClientPayload       *ClientInvitePayload       `json:"client_payload,omitempty" bson:"client_payload,omitempty"`
	PractitionerPayload *PractitionerInvitePayload `json:"practitioner_payload,omitempty" bson:"practitioner_payload,omitempty"`
}

// ExpiredAt reports whether the invite's deadline has passed at the given
// instant. Expiry is detected lazily at read time; there is no sweeper.
func (i *Invite) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

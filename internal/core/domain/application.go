package domain

import (
	"errors"
	"time"
)

// ApplicationStatus represents the lifecycle state of a practitioner
// application. Approval is terminal here; registration completion is a
// separate flow that consumes the minted invite.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
)

var ErrApplicationNotFound = errors.New("application not found")
var ErrApplicationNotPending = errors.New("application is not pending")

// PractitionerApplication is an onboarding request submitted by a would-be
// practitioner. ApprovalEmailSent is the idempotency flag consulted by the
// reactive approval handler under at-least-once event delivery.
type PractitionerApplication struct {
	ID                string            `json:"id" bson:"_id"`
	Name              string            `json:"name" bson:"name"`
	Email             string            `json:"email" bson:"email"`
	Phone             string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Specializations   []string          `json:"specializations" bson:"specializations"`
	Message           string            `json:"message,omitempty" bson:"message,omitempty"`
	Status            ApplicationStatus `json:"status" bson:"status"`
	InviteToken       string            `json:"invite_token,omitempty" bson:"invite_token,omitempty"`
	ApprovalEmailSent bool              `json:"approval_email_sent" bson:"approval_email_sent"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

package handler

import "time"

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	PractitionerID string `json:"practitioner_id,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Invites ---

type createInviteRequest struct {
	Mobile     string `json:"mobile"`
	ClientName string `json:"client_name"`
	Note       string `json:"note"`
}

type createInviteResponse struct {
	InviteID  string    `json:"invite_id"`
	Code      string    `json:"code"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}

type verifyInviteRequest struct {
	Mobile string `json:"mobile" validate:"required"`
	Code   string `json:"code"   validate:"required,len=6"`
}

type verifyInviteResponse struct {
	InviteID       string `json:"invite_id"`
	PractitionerID string `json:"practitioner_id"`
}

// --- Requests ---

type createRequestRequest struct {
	Needs   []string `json:"needs"   validate:"required,min=1"`
	Message string   `json:"message"`
}

type respondRequestRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

type requestResponse struct {
	RequestID              string `json:"request_id"`
	Status                 string `json:"status"`
	AssignedPractitionerID string `json:"assigned_practitioner_id,omitempty"`
}

// --- Applications ---

type submitApplicationRequest struct {
	Name            string   `json:"name"            validate:"required"`
	Email           string   `json:"email"           validate:"required,email"`
	Phone           string   `json:"phone"           validate:"required"`
	Specializations []string `json:"specializations" validate:"required,min=1"`
	Message         string   `json:"message"`
}

type submitApplicationResponse struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

type approveApplicationResponse struct {
	Token        string    `json:"token"`
	Code         string    `json:"code"`
	RegisterLink string    `json:"register_link"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// --- Registration ---

type verifyRegistrationRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"code"  validate:"required,len=8"`
}

type verifyRegistrationResponse struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Specializations []string  `json:"specializations"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type completeRegistrationRequest struct {
	Token    string `json:"token"    validate:"required"`
	Code     string `json:"code"     validate:"required,len=8"`
	Password string `json:"password" validate:"required,min=6"`
}

type completeRegistrationResponse struct {
	UserID           string `json:"user_id"`
	PractitionerCode string `json:"practitioner_code"`
}

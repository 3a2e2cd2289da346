package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin        = "admin"
	RolePractitioner = "practitioner"
	RoleClient       = "client"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an authenticated actor in the system. PractitionerID carries
// the role-specific link: for practitioners it is their own directory entry,
// for clients it is the practitioner their profile is connected to.
type User struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	Role           string    `json:"role" bson:"role"`
	PractitionerID string    `json:"practitioner_id,omitempty" bson:"practitioner_id,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

package domain

import (
	"errors"
	"time"
)

var ErrPractitionerNotFound = errors.New("practitioner not found")

// ErrRotationConflict is returned by a conditional rotation-index increment
// when another selection bumped the counter first.
var ErrRotationConflict = errors.New("rotation index changed concurrently")

// Practitioner is the subset of a user profile the assignment core reads and
// mutates. RotationIndex only ever grows: it is bumped by one each time the
// practitioner is selected as an assignment target.
type Practitioner struct {
	ID              string    `json:"id" bson:"_id"`
	UserID          string    `json:"user_id" bson:"user_id"`
	Name            string    `json:"name" bson:"name"`
	Email           string    `json:"email" bson:"email"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Code            string    `json:"code" bson:"code"`
	RotationIndex   int       `json:"rotation_index" bson:"rotation_index"`
	Specializations []string  `json:"specializations" bson:"specializations"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// MatchesAny reports whether the practitioner covers at least one of the
// requested needs.
func (p *Practitioner) MatchesAny(needs []string) bool {
	for _, need := range needs {
		for _, s := range p.Specializations {
			if s == need {
				return true
			}
		}
	}
	return false
}

package ports

import (
	"context"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// PractitionerRepository defines persistence operations for the
// practitioner directory.
type PractitionerRepository interface {
	Create(ctx context.Context, p *domain.Practitioner) error
	FindByID(ctx context.Context, id string) (*domain.Practitioner, error)
	FindByEmail(ctx context.Context, email string) (*domain.Practitioner, error)

	// List returns the full directory, sorted by created_at ascending.
	List(ctx context.Context) ([]*domain.Practitioner, error)

	// IncrementRotation bumps the practitioner's rotation index by one,
	// conditional on it still holding the expected value. Returns
	// domain.ErrRotationConflict when a concurrent selection won.
	IncrementRotation(ctx context.Context, id string, expected int) error
}

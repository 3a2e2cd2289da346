package ports

import (
	"context"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// LinkPractitioner records the practitioner a client's profile is
	// connected to. The write is an idempotent single-field upsert.
	LinkPractitioner(ctx context.Context, userID, practitionerID string) error
}

// AuthService authenticates callers and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

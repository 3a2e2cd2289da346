package ports

import (
	"context"

	"github.com/carebridge/practice-api/internal/core/domain"
)

// InviteRepository defines persistence operations for the invite ledger.
// Claim and MarkExpired are single conditional document updates: the store
// applies them atomically in isolation, which closes the verify-then-claim
// race without multi-document transactions.
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) error
	FindByID(ctx context.Context, id string) (*domain.Invite, error)

	// FindPendingByMatchKey returns the most recently created pending
	// invite matching (matchKey, code), or domain.ErrInviteNotFound. The
	// newest-first ordering means a fresh invite always shadows a logically
	// expired duplicate that has not been marked yet; expiry itself is the
	// caller's check.
	FindPendingByMatchKey(ctx context.Context, matchKey, code string) (*domain.Invite, error)

	// Claim transitions the invite to next and binds subjectID, but only
	// while the invite is still pending. Returns domain.ErrInviteUsed when
	// the conditional update matches nothing.
	Claim(ctx context.Context, id, subjectID string, next domain.InviteStatus) error

	// MarkExpired flips a pending invite to expired. Losing the conditional
	// update is not an error: some other reader already marked it.
	MarkExpired(ctx context.Context, id string) error
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// ApprovalDedup provides a fast-path idempotency check for approval events
// backed by Redis. The database flag is authoritative; this only cuts down
// on redundant work when the change stream redelivers.
// Key format: approval:<application_id>
type ApprovalDedup struct {
	client *redis.Client
}

// NewApprovalDedup creates an ApprovalDedup wrapping the given Redis client.
func NewApprovalDedup(client *redis.Client) *ApprovalDedup {
	return &ApprovalDedup{client: client}
}

// IsDuplicate reports whether this application's approval has already been
// handled.
func (d *ApprovalDedup) IsDuplicate(ctx context.Context, applicationID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(applicationID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this application's approval has been handled (expires
// after dedupTTL).
func (d *ApprovalDedup) Mark(ctx context.Context, applicationID string) error {
	return d.client.Set(ctx, d.key(applicationID), "1", dedupTTL).Err()
}

func (d *ApprovalDedup) key(applicationID string) string {
	return fmt.Sprintf("approval:%s", applicationID)
}

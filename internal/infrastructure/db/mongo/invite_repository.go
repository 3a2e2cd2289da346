package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/practice-api/internal/core/domain"
)

const collectionInvites = "invites"

// InviteRepository implements ports.InviteRepository on MongoDB. State
// transitions are conditional single-document updates, so a pending invite
// can be consumed exactly once even under concurrent verification.
type InviteRepository struct {
	col *mongo.Collection
}

func NewInviteRepository(db *mongo.Database) *InviteRepository {
	return &InviteRepository{col: db.Collection(collectionInvites)}
}

func (r *InviteRepository) Create(ctx context.Context, invite *domain.Invite) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, invite)
	return err
}

func (r *InviteRepository) FindByID(ctx context.Context, id string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var invite domain.Invite
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&invite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// FindPendingByMatchKey returns the newest pending invite for the
// (matchKey, code) pair. Sorting by created_at descending makes the most
// recent invite win when duplicates exist.
func (r *InviteRepository) FindPendingByMatchKey(ctx context.Context, matchKey, code string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"match_key": matchKey,
		"code":      code,
		"status":    string(domain.InvitePending),
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var invite domain.Invite
	err := r.col.FindOne(ctx, filter, opts).Decode(&invite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// Claim consumes the invite, conditional on it still being pending. A zero
// match count means another caller claimed (or expired) it first.
func (r *InviteRepository) Claim(ctx context.Context, id, subjectID string, next domain.InviteStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(domain.InvitePending)}
	update := bson.M{"$set": bson.M{
		"status":     string(next),
		"subject_id": subjectID,
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInviteUsed
	}
	return nil
}

// MarkExpired flips a pending invite to expired. Matching nothing is fine:
// some other reader already marked it.
func (r *InviteRepository) MarkExpired(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(domain.InvitePending)}
	update := bson.M{"$set": bson.M{"status": string(domain.InviteExpired)}}

	_, err := r.col.UpdateOne(ctx, filter, update)
	return err
}

// EnsureIndexes creates necessary indexes on the invites collection.
func (r *InviteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "match_key", Value: 1},
			{Key: "code", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/practice-api/internal/core/domain"
)

const collectionRequests = "client_requests"

// RequestRepository implements ports.RequestRepository on MongoDB.
type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.ClientRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, req)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.ClientRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.ClientRequest
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Update persists the mutable assignment fields as one document update.
// An empty assignee is stored by unsetting the field so queries for
// unassigned requests stay simple.
func (r *RequestRepository) Update(ctx context.Context, req *domain.ClientRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":      string(req.Status),
		"declined_by": req.DeclinedBy,
		"updated_at":  req.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if req.AssignedPractitionerID != "" {
		set["assigned_practitioner_id"] = req.AssignedPractitionerID
	} else {
		update["$unset"] = bson.M{"assigned_practitioner_id": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": req.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the client_requests collection.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_practitioner_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

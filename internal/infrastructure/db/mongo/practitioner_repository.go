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

const collectionPractitioners = "practitioners"

// PractitionerRepository implements ports.PractitionerRepository on MongoDB.
type PractitionerRepository struct {
	col *mongo.Collection
}

func NewPractitionerRepository(db *mongo.Database) *PractitionerRepository {
	return &PractitionerRepository{col: db.Collection(collectionPractitioners)}
}

func (r *PractitionerRepository) Create(ctx context.Context, p *domain.Practitioner) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PractitionerRepository) FindByID(ctx context.Context, id string) (*domain.Practitioner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Practitioner
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPractitionerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PractitionerRepository) FindByEmail(ctx context.Context, email string) (*domain.Practitioner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Practitioner
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPractitionerNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns the full directory sorted by created_at ascending, the
// secondary tie-break order the rotation selector relies on.
func (r *PractitionerRepository) List(ctx context.Context) ([]*domain.Practitioner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domain.Practitioner
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementRotation bumps the rotation index by one, conditional on it
// still holding the value the caller's selection sort used. A zero match
// count means a concurrent selection already bumped it.
func (r *PractitionerRepository) IncrementRotation(ctx context.Context, id string, expected int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "rotation_index": expected}
	update := bson.M{"$inc": bson.M{"rotation_index": 1}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRotationConflict
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the practitioners collection.
func (r *PractitionerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "rotation_index", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

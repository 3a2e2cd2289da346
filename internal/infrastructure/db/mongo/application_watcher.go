package mongo

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
)

// ChangeSink receives application status changes observed on the collection.
type ChangeSink interface {
	Enqueue(change ports.ApplicationChange)
}

// ApplicationWatcher tails the applications collection change stream and
// forwards status updates to a sink. Requires the deployment to be a
// replica set, which is what change streams need.
type ApplicationWatcher struct {
	col    *mongo.Collection
	sink   ChangeSink
	logger zerolog.Logger
}

func NewApplicationWatcher(db *mongo.Database, sink ChangeSink, logger zerolog.Logger) *ApplicationWatcher {
	return &ApplicationWatcher{
		col:    db.Collection(collectionApplications),
		sink:   sink,
		logger: logger.With().Str("component", "application_watcher").Logger(),
	}
}

type changeEvent struct {
	DocumentKey struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	UpdateDescription struct {
		UpdatedFields bson.M `bson:"updatedFields"`
	} `bson:"updateDescription"`
}

// Run blocks consuming the change stream until the context is cancelled.
func (w *ApplicationWatcher) Run(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"operationType": "update"}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := w.col.Watch(ctx, pipeline, opts)
	if err != nil {
		return err
	}
	defer stream.Close(context.Background())

	w.logger.Info().Msg("watching application changes")

	for stream.Next(ctx) {
		var evt changeEvent
		if err := stream.Decode(&evt); err != nil {
			w.logger.Error().Err(err).Msg("decode change event")
			continue
		}

		status, ok := evt.UpdateDescription.UpdatedFields["status"].(string)
		if !ok {
			continue
		}

		w.sink.Enqueue(ports.ApplicationChange{
			ApplicationID: evt.DocumentKey.ID,
			NewStatus:     domain.ApplicationStatus(status),
		})
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

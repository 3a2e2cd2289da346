package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/carebridge/practice-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ChangeHandler consumes application status changes.
type ChangeHandler interface {
	HandleChange(ctx context.Context, change ports.ApplicationChange) error
}

// Dispatcher routes application changes to a fixed set of workers using
// consistent hashing on the application ID, guaranteeing per-application
// ordering.
type Dispatcher struct {
	workers []chan ports.ApplicationChange
	handler ChangeHandler
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ChangeHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ApplicationChange, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ApplicationChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a change to the worker responsible for its application.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(change ports.ApplicationChange) {
	d.workers[d.shardIndex(change.ApplicationID)] <- change
}

// shardIndex maps an application ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(applicationID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(applicationID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ApplicationChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := d.handler.HandleChange(ctx, change); err != nil {
				d.log.Error().Err(err).
					Str("application_id", change.ApplicationID).
					Int("worker_id", id).
					Msg("change processing failed")
			}
		}
	}
}

package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
)

type recordingHandler struct {
	mu      sync.Mutex
	changes []ports.ApplicationChange
	done    chan struct{}
	want    int
}

func (h *recordingHandler) HandleChange(_ context.Context, change ports.ApplicationChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, change)
	if len(h.changes) == h.want {
		close(h.done)
	}
	return nil
}

func TestDispatcherDeliversAllChanges(t *testing.T) {
	handler := &recordingHandler{done: make(chan struct{}), want: 20}
	d := NewDispatcher(4, handler, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Enqueue(ports.ApplicationChange{
			ApplicationID: string(rune('a' + i%5)),
			NewStatus:     domain.ApplicationApproved,
		})
	}

	select {
	case <-handler.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected 20 changes, got %d", len(handler.changes))
	}
}

func TestDispatcherShardIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingHandler{}, zerolog.Nop())

	first := d.shardIndex("app-123")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("app-123"); got != first {
			t.Fatalf("shard index changed: got %d, want %d", got, first)
		}
	}
}

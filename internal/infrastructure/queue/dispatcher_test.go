package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitylab/auth-api/internal/core/domain"
)

type captureRecorder struct {
	mu     sync.Mutex
	events []domain.LoginEvent
	done   chan struct{}
	want   int
}

func newCaptureRecorder(want int) *captureRecorder {
	return &captureRecorder{done: make(chan struct{}), want: want}
}

func (r *captureRecorder) Record(_ context.Context, event domain.LoginEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func TestDispatcher_DeliversEventsInOrderPerEmail(t *testing.T) {
	recorder := newCaptureRecorder(3)
	d := NewDispatcher(2, recorder, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	outcomes := []domain.AuditOutcome{
		domain.OutcomeInvalidCredentials,
		domain.OutcomeInvalidCredentials,
		domain.OutcomeSuccess,
	}
	for _, outcome := range outcomes {
		d.Enqueue(domain.LoginEvent{
			Email:     "alice@example.com",
			Action:    domain.AuditActionLogin,
			Outcome:   outcome,
			Timestamp: time.Now().UTC(),
		})
	}

	select {
	case <-recorder.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events")
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	for i, outcome := range outcomes {
		if recorder.events[i].Outcome != outcome {
			t.Fatalf("event %d out of order: got %s, want %s", i, recorder.events[i].Outcome, outcome)
		}
	}
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	// No workers started: buffers fill up and further events must be dropped
	// without blocking the caller.
	d := NewDispatcher(1, newCaptureRecorder(1), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.LoginEvent{Email: "alice@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Enqueue blocked on a full queue")
	}
}

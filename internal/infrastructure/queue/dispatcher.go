package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/identitylab/auth-api/internal/api/metrics"
	"github.com/identitylab/auth-api/internal/core/domain"
	"github.com/identitylab/auth-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans audit events out to a fixed set of workers using consistent
// hashing on the email, so events for one account are recorded in order.
// Enqueue never blocks: when a worker's buffer is full the event is dropped,
// which keeps the login path independent of audit storage latency.
type Dispatcher struct {
	workers  []chan domain.LoginEvent
	recorder ports.AuditRecorder
	log      zerolog.Logger
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.AuditRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.LoginEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LoginEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue routes an event to the worker responsible for its email.
func (d *Dispatcher) Enqueue(event domain.LoginEvent) {
	idx := d.shard(event.Email)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("email", event.Email).Msg("audit queue full, event dropped")
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan domain.LoginEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.log.Debug().Int("worker_id", id).Msg("audit worker stopped")
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.recorder.Record(ctx, event); err != nil {
				d.log.Warn().Err(err).Str("email", event.Email).Msg("failed to record audit event")
			}
		}
	}
}

func (d *Dispatcher) shard(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/auvet/auth-service/internal/api/metrics"
	"github.com/auvet/auth-service/internal/core/domain"
	"github.com/auvet/auth-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the cpf, guaranteeing per-user event ordering in the trail.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuthEventService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuthEventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record sends an event to the worker responsible for its cpf. The call is
// non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Record(event domain.AuthEvent) {
	d.workers[d.shardIndex(event.CPF)] <- event
}

// shardIndex maps a cpf deterministically to a worker index.
func (d *Dispatcher) shardIndex(cpf string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cpf))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				metrics.AuthEventsRecordedTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("cpf", event.CPF).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("auth event recording failed")
				continue
			}
			metrics.AuthEventsRecordedTotal.WithLabelValues("ok").Inc()
		}
	}
}

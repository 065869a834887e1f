// Package worker applies queued outcome observations one at a time.
//
// A single worker is the only consumer of the observation queue, so
// calibration updates coming through the asynchronous path are applied in
// arrival order by exactly one goroutine.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/venturecast/internal/domain/types"
	"github.com/okian/venturecast/pkg/logger"
	"github.com/okian/venturecast/pkg/metrics"
)

// Observation is what the worker reads off the queue.
type Observation = types.Observation

// Applier records one observed outcome.
type Applier interface {
	ApplyObservation(ctx context.Context, o Observation) error
}

// Queue defines how the worker receives observations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Observation
}

// Stats are the worker's lifetime counters.
type Stats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// InMemoryWorker drains a Queue into an Applier.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	name    string
	logger  logger.Logger

	processed atomic.Int64
	failed    atomic.Int64

	started atomic.Bool
	done    chan struct{}
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:   q,
		applier: applier,
		name:    "outcome-applier",
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Start runs the worker loop in its own goroutine. Calling it again is a no-op.
func (w *InMemoryWorker) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.Run(ctx)
}

// Run consumes observations until the queue is closed and drained or ctx is
// canceled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)
	metrics.UpdateWorkerCount(1)
	defer metrics.UpdateWorkerCount(0)

	ch := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-ch:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, o); err != nil {
				w.logger.Warn(ctx, "observation not applied",
					logger.String("observation_id", o.ObservationID),
					logger.String("venture_id", o.VentureID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown waits for the worker loop to exit. Callers close the queue first
// so the remaining observations are applied before Run returns.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	if !w.started.Load() {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("worker %s shutdown: %w", w.name, ctx.Err())
	}
}

// Stats returns the lifetime counters.
func (w *InMemoryWorker) Stats() Stats {
	return Stats{Processed: w.processed.Load(), Failed: w.failed.Load()}
}

func (w *InMemoryWorker) process(ctx context.Context, o Observation) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()
	if !o.ReceivedAt.IsZero() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(o.ReceivedAt).Microseconds()) / 1000)
	}

	if err := w.applier.ApplyObservation(ctx, o); err != nil {
		w.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "apply_failed")
		return fmt.Errorf("apply observation %s: %w", o.ObservationID, err)
	}
	w.processed.Add(1)
	metrics.RecordWorkerProcessed()
	return nil
}

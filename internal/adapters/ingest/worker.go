package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapters/repository"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/pkg/logger"
	"github.com/jobdeck/jobdeck/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Normalizer maps a raw posting into the canonical job shape.
type Normalizer interface {
	Normalize(raw model.RawJob, source string) model.NormalizedJob
}

// Checker decides whether a normalized job duplicates a stored one.
type Checker interface {
	Detect(ctx context.Context, job model.NormalizedJob) model.DuplicateResult
}

// Writer persists normalized jobs and returns the stored form.
type Writer interface {
	Create(ctx context.Context, job model.NormalizedJob) (model.NormalizedJob, error)
}

// Source defines how workers receive items.
type Source interface {
	Dequeue(ctx context.Context) <-chan Item
}

// Worker drains items off the queue and runs each through the pipeline.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining items before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing raw postings.
type InMemoryWorker struct {
	source     Source
	normalizer Normalizer
	checker    Checker
	writer     Writer
	name       string

	// Shutdown control
	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(source Source, normalizer Normalizer, checker Checker, writer Writer, opts ...WorkerOption) *InMemoryWorker {
	w := &InMemoryWorker{
		source:     source,
		normalizer: normalizer,
		checker:    checker,
		writer:     writer,
		name:       "worker", // default name
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("ingest"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	itemChan := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case it, ok := <-itemChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processItem(ctx, it); err != nil {
				w.logger.Error(ctx, "error processing posting", logger.Error(err))
			}
		}
	}
}

// signalStop asks the worker loop to exit. Safe to call more than once.
func (w *InMemoryWorker) signalStop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signalStop()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processItem runs one raw posting through normalize, duplicate check, and
// persist. A duplicate is dropped silently; any other failure is surfaced so
// the caller can log it without stopping the worker.
func (w *InMemoryWorker) processItem(ctx context.Context, it Item) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	job := w.normalizer.Normalize(it.Raw, it.Source)
	metrics.RecordFieldsDefaulted(len(job.FieldsDefaulted))

	res := w.checker.Detect(ctx, job)
	if res.IsDuplicate {
		metrics.RecordJobDuplicate()
		w.logger.Debug(ctx, "dropping duplicate posting",
			logger.String("jobID", job.ID),
			logger.String("existingJobID", res.ExistingJobID),
			logger.Float64("similarity", res.Similarity),
		)
		return nil
	}

	if _, err := w.writer.Create(ctx, job); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			// Lost a race against another worker writing the same posting.
			metrics.RecordJobDuplicate()
			return nil
		}
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "persist failed for posting",
			logger.String("jobID", job.ID),
			logger.Error(err),
		)
		return fmt.Errorf("persist job %s: %w", job.ID, err)
	}

	metrics.RecordJobIngested()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	source  Source

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, source Source, normalizer Normalizer, checker Checker, writer Writer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		source:  source,
		logger:  logger.Get().Named("ingest-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			source,
			normalizer,
			checker,
			writer,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop stops all workers without touching the queue. In-flight items
// finish; queued items stay behind.
func (p *Pool) Stop() {
	for _, worker := range p.workers {
		worker.signalStop()
	}

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new items
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalStop()
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}

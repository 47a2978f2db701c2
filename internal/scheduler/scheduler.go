// Package scheduler wires up the cron job that periodically refreshes the
// repository with fresh postings for the configured queries.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/jobdeck/jobdeck/pkg/logger"
)

// Refresher fetches and ingests postings for one query across countries.
type Refresher interface {
	Refresh(ctx context.Context, query string, countries []string) int
}

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // cron spec, e.g. "@every 6h"
	queries   []string
	countries []string
	logger    logger.Logger
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scheduler that refreshes the given queries on the given
// cron spec.
func New(refresher Refresher, spec string, queries, countries []string, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      spec,
		queries:   queries,
		countries: countries,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scheduler")
	}
	return s
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the repository is populated without waiting for the
// first tick. A scheduler with no queries is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.queries) == 0 {
		s.logger.Info(ctx, "no refresh queries configured, scheduler idle")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info(ctx, "refresh scheduler started",
		logger.String("spec", s.spec),
		logger.Int("queries", len(s.queries)),
	)

	// Run immediately on startup (non-blocking)
	go s.runRefresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info(context.Background(), "refresh scheduler stopped")
}

// runRefresh runs one refresh cycle over every configured query.
func (s *Scheduler) runRefresh(ctx context.Context) {
	s.logger.Info(ctx, "refresh cycle started")

	total := 0
	for _, query := range s.queries {
		select {
		case <-ctx.Done():
			return
		default:
		}
		total += s.refresher.Refresh(ctx, query, s.countries)
	}

	s.logger.Info(ctx, "refresh cycle complete", logger.Int("enqueued", total))
}

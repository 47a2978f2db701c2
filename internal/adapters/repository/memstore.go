package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// MemStore is an in-memory Store. It backs tests and zero-dependency
// runs; the filter semantics are the reference for other backends.
type MemStore struct {
	mu     sync.RWMutex
	jobs   map[string]model.NormalizedJob
	closed bool
	now    func() time.Time
}

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithMemClock overrides the time source. Used in tests.
func WithMemClock(now func() time.Time) MemOption {
	return func(s *MemStore) {
		s.now = now
	}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		jobs: make(map[string]model.NormalizedJob),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Find returns jobs matching the filter, newest posting first.
func (s *MemStore) Find(ctx context.Context, f Filter) ([]model.NormalizedJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	excluded := make(map[string]struct{}, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	var out []model.NormalizedJob
	for _, job := range s.jobs {
		if _, skip := excluded[job.ID]; skip {
			continue
		}
		if matches(job, f) {
			out = append(out, job)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].PostedAt.After(out[j].PostedAt)
		}
		return out[i].ID < out[j].ID
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Count returns the number of matching jobs, ignoring the limit.
func (s *MemStore) Count(ctx context.Context, f Filter) (int, error) {
	f.Limit = 0
	jobs, err := s.Find(ctx, f)
	if err != nil {
		return 0, err
	}
	return len(jobs), nil
}

// Create persists a job, assigning an ID and creation stamp as needed.
func (s *MemStore) Create(ctx context.Context, job model.NormalizedJob) (model.NormalizedJob, error) {
	if err := ctx.Err(); err != nil {
		return model.NormalizedJob{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.NormalizedJob{}, ErrClosed
	}

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if _, exists := s.jobs[job.ID]; exists {
		return model.NormalizedJob{}, ErrDuplicateID
	}

	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.now()
	}
	job.IsActive = true

	s.jobs[job.ID] = job
	return job, nil
}

// Close marks the store closed. Subsequent calls fail with ErrClosed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// matches applies every set filter field to one job.
func matches(job model.NormalizedJob, f Filter) bool {
	if f.ActiveOnly && !job.IsActive {
		return false
	}
	if !f.CreatedAfter.IsZero() && !job.CreatedAt.After(f.CreatedAfter) {
		return false
	}
	if f.Source != "" && job.Source != f.Source {
		return false
	}
	if f.Country != "" && !strings.EqualFold(job.Country, f.Country) {
		return false
	}
	if f.Company != "" && !containsFold(job.Company, f.Company) {
		return false
	}
	if f.Location != "" && !containsFold(job.Location, f.Location) {
		return false
	}
	if f.City != "" && !containsFold(job.Location, f.City) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(job.Title), q) &&
			!strings.Contains(strings.ToLower(job.Description), q) &&
			!strings.Contains(strings.ToLower(job.Company), q) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Package repository defines the job store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// Filter narrows a Find or Count. Zero-valued fields are ignored; set
// fields combine with AND. Query matches title, description, or company
// case-insensitively; Location, Company, and City match as substrings;
// Source and Country match exactly.
type Filter struct {
	Query        string
	Location     string
	Company      string
	Source       string
	Country      string
	City         string
	ActiveOnly   bool
	CreatedAfter time.Time
	ExcludeIDs   []string
	Limit        int
}

// Store provides read/write access to persisted job postings.
type Store interface {
	// Find returns jobs matching the filter, newest posting first.
	Find(ctx context.Context, f Filter) ([]model.NormalizedJob, error)

	// Count returns the number of jobs matching the filter, ignoring
	// the filter's limit.
	Count(ctx context.Context, f Filter) (int, error)

	// Create persists a job and returns the stored form. A missing ID
	// is assigned; CreatedAt is stamped and the posting enters active.
	// Returns ErrDuplicateID if the ID already exists.
	Create(ctx context.Context, job model.NormalizedJob) (model.NormalizedJob, error)

	// Close releases the store's resources.
	Close() error
}

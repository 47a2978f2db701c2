package repository

import (
	"context"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/dedupe"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// CandidateFinder adapts a Store to the duplicate detector. Candidates
// are recent active postings sharing the job's source or company.
type CandidateFinder struct {
	store Store
}

// NewCandidateFinder wraps store for duplicate-candidate lookups.
func NewCandidateFinder(store Store) *CandidateFinder {
	return &CandidateFinder{store: store}
}

// Candidates merges the same-source and same-company result sets.
func (f *CandidateFinder) Candidates(ctx context.Context, job model.NormalizedJob, since time.Time) ([]dedupe.Candidate, error) {
	seen := make(map[string]struct{})
	var out []dedupe.Candidate

	collect := func(filter Filter) error {
		filter.ActiveOnly = true
		filter.CreatedAfter = since
		jobs, err := f.store.Find(ctx, filter)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if _, dup := seen[j.ID]; dup {
				continue
			}
			seen[j.ID] = struct{}{}
			out = append(out, dedupe.Candidate{
				ID:       j.ID,
				Title:    j.Title,
				Company:  j.Company,
				Location: j.Location,
				Source:   j.Source,
				SourceID: j.SourceID,
			})
		}
		return nil
	}

	if job.Source != "" {
		if err := collect(Filter{Source: job.Source}); err != nil {
			return nil, err
		}
	}
	if job.Company != "" {
		if err := collect(Filter{Company: job.Company}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

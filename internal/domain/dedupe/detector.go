// Package dedupe detects duplicate job postings by fuzzy field comparison.
package dedupe

import (
	"context"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/pkg/logger"
)

// Field weights for the composite similarity score. They sum to 1.0.
const (
	titleWeight    = 0.40
	companyWeight  = 0.30
	locationWeight = 0.15
	sourceWeight   = 0.10
	sourceIDWeight = 0.05
)

const (
	// DefaultThreshold is the composite similarity a candidate must exceed
	// to be considered a duplicate.
	DefaultThreshold = 0.8

	// DefaultWindow bounds how far back candidate postings are fetched.
	DefaultWindow = 30 * 24 * time.Hour
)

// Candidate is an existing posting considered for duplicate comparison.
type Candidate struct {
	ID       string
	Title    string
	Company  string
	Location string
	Source   string
	SourceID string
}

// Finder supplies candidate postings for comparison. Implementations
// should restrict results to active postings created after since that
// share the job's source or company.
type Finder interface {
	Candidates(ctx context.Context, job model.NormalizedJob, since time.Time) ([]Candidate, error)
}

// Detector scores incoming jobs against recent stored postings.
type Detector struct {
	finder    Finder
	threshold float64
	window    time.Duration
	now       func() time.Time
	logger    logger.Logger
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithThreshold overrides the duplicate similarity threshold.
func WithThreshold(t float64) Option {
	return func(d *Detector) {
		if t > 0 && t <= 1 {
			d.threshold = t
		}
	}
}

// WithWindow overrides the candidate lookback window.
func WithWindow(w time.Duration) Option {
	return func(d *Detector) {
		if w > 0 {
			d.window = w
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// WithLogger sets a custom logger for the detector.
func WithLogger(l logger.Logger) Option {
	return func(d *Detector) {
		d.logger = l
	}
}

// New creates a Detector backed by the given candidate finder.
func New(finder Finder, opts ...Option) *Detector {
	d := &Detector{
		finder:    finder,
		threshold: DefaultThreshold,
		window:    DefaultWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get().Named("dedupe")
	}
	return d
}

// Detect compares job against recent candidates and reports the best match.
// A finder failure degrades to "not a duplicate" so ingestion never stalls
// on a storage error.
func (d *Detector) Detect(ctx context.Context, job model.NormalizedJob) model.DuplicateResult {
	since := d.now().Add(-d.window)

	candidates, err := d.finder.Candidates(ctx, job, since)
	if err != nil {
		d.logger.Warn(ctx, "candidate lookup failed, treating job as unique",
			logger.String("jobID", job.ID),
			logger.Error(err))
		return model.DuplicateResult{}
	}

	var (
		bestID    string
		bestScore float64
	)
	for _, c := range candidates {
		if c.ID == job.ID {
			continue
		}
		score := d.score(job, c)
		if score > bestScore {
			bestScore = score
			bestID = c.ID
		}
	}

	if bestScore > d.threshold {
		return model.DuplicateResult{
			IsDuplicate:   true,
			ExistingJobID: bestID,
			Similarity:    bestScore,
		}
	}
	return model.DuplicateResult{Similarity: bestScore}
}

// score computes the weighted composite similarity of a job and a candidate.
// Title, company and location compare fuzzily; source and sourceID only
// count when they match exactly.
func (d *Detector) score(job model.NormalizedJob, c Candidate) float64 {
	return titleWeight*similarity(fold(job.Title), fold(c.Title)) +
		companyWeight*similarity(fold(job.Company), fold(c.Company)) +
		locationWeight*similarity(fold(job.Location), fold(c.Location)) +
		sourceWeight*exact(fold(job.Source), fold(c.Source)) +
		sourceIDWeight*exact(fold(job.SourceID), fold(c.SourceID))
}

func exact(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

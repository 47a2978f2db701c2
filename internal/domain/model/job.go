// Package model contains domain models passed between pipeline stages.
package model

import "time"

// RawJob is an opaque posting as returned by one external provider.
// Field names vary per provider; the normalizer resolves them through
// an alias table. The payload is never mutated.
type RawJob struct {
	Provider string
	Fields   map[string]any
}

// String returns the first string value found under any of the given keys.
func (r RawJob) String(keys ...string) string {
	for _, k := range keys {
		if v, ok := r.Fields[k].(string); ok {
			return v
		}
	}
	return ""
}

// Float returns the first numeric value found under any of the given keys.
func (r RawJob) Float(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := r.Fields[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

// Bool returns the first boolean value found under any of the given keys.
func (r RawJob) Bool(keys ...string) (bool, bool) {
	for _, k := range keys {
		if v, ok := r.Fields[k].(bool); ok {
			return v, true
		}
	}
	return false, false
}

// JobType is the canonical employment type.
type JobType string

// Canonical job types. Unrecognized input maps to JobTypeFullTime.
const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeFreelance  JobType = "Freelance"
	JobTypeRemote     JobType = "Remote"
	JobTypeHybrid     JobType = "Hybrid"
)

// ExperienceLevel is the canonical seniority band.
type ExperienceLevel string

// Canonical experience levels. Unrecognized input maps to ExperienceMid.
const (
	ExperienceEntry     ExperienceLevel = "Entry Level"
	ExperienceMid       ExperienceLevel = "Mid Level"
	ExperienceSenior    ExperienceLevel = "Senior Level"
	ExperienceLead      ExperienceLevel = "Lead"
	ExperienceExecutive ExperienceLevel = "Executive"
)

// Salary holds a normalized compensation range. Min/Max are nil when the
// source supplied neither explicit values nor a parseable display string.
type Salary struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
	Display  string   `json:"display"`
}

// NormalizedJob is the canonical posting shape every pipeline stage
// operates on. An empty Title is representable; callers validate before
// persisting.
type NormalizedJob struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Type            JobType         `json:"type"`
	Salary          Salary          `json:"salary"`
	Category        string          `json:"category"`
	PostedAt        time.Time       `json:"posted_at"`
	Source          string          `json:"source"`
	SourceID        string          `json:"source_id"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements,omitempty"`
	ApplyURL        string          `json:"apply_url,omitempty"`
	SourceURL       string          `json:"source_url,omitempty"`
	IsRemote        bool            `json:"is_remote"`
	IsHybrid        bool            `json:"is_hybrid"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Skills          []string        `json:"skills"`
	Sector          string          `json:"sector"`
	IsFeatured      bool            `json:"is_featured"`
	IsUrgent        bool            `json:"is_urgent"`
	Country         string          `json:"country"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	Raw             RawJob          `json:"-"`

	// FieldsDefaulted names every field that fell back to a default during
	// normalization, so data quality stays observable without failing the
	// ingest.
	FieldsDefaulted []string `json:"-"`
}

// CategorizationResult is the ephemeral outcome of one classify call.
type CategorizationResult struct {
	Category      string
	Confidence    float64
	Subcategories []string
	Keywords      []string
}

// DuplicateResult is the ephemeral outcome of one duplicate-detection call.
type DuplicateResult struct {
	IsDuplicate   bool
	ExistingJobID string
	Similarity    float64
}

// Breakdown carries the four component scores behind a ranking score.
type Breakdown struct {
	Keyword   float64 `json:"keyword"`
	Location  float64 `json:"location"`
	Freshness float64 `json:"freshness"`
	History   float64 `json:"history"`
}

// RankingResult scores one job against one search request. Never cached:
// the score depends on query, location, and user context.
type RankingResult struct {
	JobID     string    `json:"job_id"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// UserHistory is a read-only projection of a user's past activity,
// assembled on demand from externally owned records.
type UserHistory struct {
	RecentSearches     []string
	AppliedTitles      []string
	BookmarkedTitles   []string
	PreferredCompanies []string
	PreferredLocations []string
	PreferredSectors   []string
}

// Empty reports whether the history carries no signal at all.
func (h UserHistory) Empty() bool {
	return len(h.RecentSearches) == 0 &&
		len(h.PreferredCompanies) == 0 &&
		len(h.PreferredLocations) == 0 &&
		len(h.PreferredSectors) == 0
}

// Package types contains common types used across the application
package types

import "github.com/jobdeck/jobdeck/internal/domain/model"

// SearchParams describes one search request.
type SearchParams struct {
	Query     string   `json:"query"`
	Location  string   `json:"location"`
	Countries []string `json:"countries,omitempty"`
	UserID    string   `json:"user_id,omitempty"`
	Offset    int      `json:"offset"`
	Limit     int      `json:"limit"`
}

// UserLocation is the caller's resolved geography, when known.
type UserLocation struct {
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// Pagination describes the window applied to the ranked result set.
type Pagination struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// SourceCounts reports how many jobs each source contributed before
// pagination.
type SourceCounts struct {
	Database int `json:"database"`
	External int `json:"external"`
	Sample   int `json:"sample"`
}

// SearchResponse is the full search result.
type SearchResponse struct {
	Jobs              []model.NormalizedJob `json:"jobs"`
	Rankings          []model.RankingResult `json:"rankings,omitempty"`
	Pagination        Pagination            `json:"pagination"`
	Strategy          string                `json:"strategy,omitempty"`
	Phase             string                `json:"phase,omitempty"`
	Sources           SourceCounts          `json:"sources"`
	DuplicatesRemoved int                   `json:"duplicates_removed"`
}

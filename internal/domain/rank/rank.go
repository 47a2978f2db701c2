// Package rank scores jobs against a search request and orders them.
package rank

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// Weights control the blend of the four ranking factors. They are
// expected to sum to 1.0.
type Weights struct {
	Keyword   float64
	Location  float64
	Freshness float64
	History   float64
}

// DefaultWeights mirror the product defaults. Keyword relevance dominates.
func DefaultWeights() Weights {
	return Weights{
		Keyword:   0.4,
		Location:  0.3,
		Freshness: 0.2,
		History:   0.1,
	}
}

// HistorySource loads a user's activity profile for personalization.
type HistorySource interface {
	History(ctx context.Context, userID string) (model.UserHistory, error)
}

// Ranker scores and orders jobs.
type Ranker struct {
	weights Weights
	now     func() time.Time
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithWeights overrides the factor weights.
func WithWeights(w Weights) Option {
	return func(r *Ranker) {
		r.weights = w
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) {
		r.now = now
	}
}

// New creates a Ranker with the default weights.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		weights: DefaultWeights(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Weights returns the active factor weights.
func (r *Ranker) Weights() Weights {
	return r.weights
}

// Rank scores every job against the query and location, blends in the
// user's history when present, and returns results ordered by score
// descending. Equal scores order by job ID so pagination is stable.
func (r *Ranker) Rank(jobs []model.NormalizedJob, query, location string, history model.UserHistory) []model.RankingResult {
	results := make([]model.RankingResult, 0, len(jobs))

	for _, job := range jobs {
		b := model.Breakdown{
			Keyword:   r.keywordScore(job, query),
			Location:  locationScore(job, location),
			Freshness: r.freshnessScore(job),
		}
		if !history.Empty() {
			b.History = r.historyScore(job, history)
		}

		score := b.Keyword*r.weights.Keyword +
			b.Location*r.weights.Location +
			b.Freshness*r.weights.Freshness +
			b.History*r.weights.History

		results = append(results, model.RankingResult{
			JobID:     job.ID,
			Score:     score,
			Breakdown: b,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].JobID < results[j].JobID
	})
	return results
}

// keywordScore measures query relevance. Title hits score highest, then
// company, description, and skills; loose word overlap scores lowest.
// The result is normalized by the number of query words and clamped.
func (r *Ranker) keywordScore(job model.NormalizedJob, query string) float64 {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return 0.5
	}

	words := splitWords(query, 2)
	if len(words) == 0 {
		return 0.5
	}

	title := strings.ToLower(job.Title)
	company := strings.ToLower(job.Company)
	description := strings.ToLower(job.Description)
	skills := strings.ToLower(strings.Join(job.Skills, " "))
	jobText := title + " " + description + " " + company + " " + skills

	var score float64
	for _, word := range words {
		switch {
		case strings.Contains(title, word):
			score += 1.0
		case strings.Contains(company, word):
			score += 0.8
		case strings.Contains(description, word):
			score += 0.6
		case strings.Contains(skills, word):
			score += 0.4
		case wordOverlap(jobText, word):
			score += 0.2
		}
	}

	return min(score/float64(len(words)), 1.0)
}

// locationScore measures how well the job's location matches the
// requested one. Substring containment either way is a full match;
// otherwise the token overlap ratio decides.
func locationScore(job model.NormalizedJob, searchLocation string) float64 {
	searchLocation = strings.TrimSpace(strings.ToLower(searchLocation))
	if searchLocation == "" {
		return 0.5
	}

	jobLocation := strings.ToLower(job.Location)
	if jobLocation == "" {
		return 0.3
	}

	if strings.Contains(jobLocation, searchLocation) || strings.Contains(searchLocation, jobLocation) {
		return 1.0
	}

	searchWords := splitLocation(searchLocation)
	jobWords := splitLocation(jobLocation)

	var matched int
	for _, word := range searchWords {
		if len(word) <= 2 {
			continue
		}
		for _, jw := range jobWords {
			if strings.Contains(jw, word) || strings.Contains(word, jw) {
				matched++
				break
			}
		}
	}

	if len(searchWords) == 0 {
		return 0
	}
	return float64(matched) / float64(len(searchWords))
}

// freshnessScore decays with posting age in fixed bands.
func (r *Ranker) freshnessScore(job model.NormalizedJob) float64 {
	posted := job.PostedAt
	if posted.IsZero() {
		posted = r.now()
	}
	days := int(r.now().Sub(posted).Hours() / 24)

	switch {
	case days <= 1:
		return 1.0
	case days <= 7:
		return 0.9
	case days <= 30:
		return 0.7
	case days <= 90:
		return 0.5
	case days <= 180:
		return 0.3
	default:
		return 0.1
	}
}

// historyScore averages the preference factors that actually fired, so a
// single strong signal is not diluted by absent ones.
func (r *Ranker) historyScore(job model.NormalizedJob, history model.UserHistory) float64 {
	var (
		score   float64
		factors int
	)

	company := strings.ToLower(job.Company)
	location := strings.ToLower(job.Location)
	sector := strings.ToLower(job.Sector)

	if containsFold(history.PreferredCompanies, company) {
		score += 0.3
		factors++
	}
	if containsFold(history.PreferredLocations, location) {
		score += 0.3
		factors++
	}
	if containsFold(history.PreferredSectors, sector) {
		score += 0.2
		factors++
	}
	for _, search := range history.RecentSearches {
		if r.keywordScore(job, search) > 0.5 {
			score += 0.2
			factors++
			break
		}
	}

	if factors == 0 {
		return 0
	}
	return score / float64(factors)
}

// containsFold reports whether haystack holds any preference that appears
// inside value, case-insensitively.
func containsFold(prefs []string, value string) bool {
	if value == "" {
		return false
	}
	for _, p := range prefs {
		if p == "" {
			continue
		}
		if strings.Contains(value, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// splitWords splits on whitespace and drops words at or below minLen.
func splitWords(s string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > minLen {
			out = append(out, w)
		}
	}
	return out
}

// splitLocation splits a location string on commas and whitespace.
func splitLocation(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// wordOverlap reports loose overlap: any text word containing the query
// word or contained by it.
func wordOverlap(text, word string) bool {
	if len(word) < 3 {
		return false
	}
	for _, w := range strings.Fields(text) {
		if strings.Contains(w, word) || strings.Contains(word, w) {
			return true
		}
	}
	return false
}

// Package history records user activity and assembles it into the
// read-only projection the ranker consumes.
package history

import (
	"context"
	"strings"
	"sync"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// maxRecentSearches bounds the search trail kept per user. Only the most
// recent entries carry ranking signal.
const maxRecentSearches = 10

// Preferences are the explicitly stored user preferences, as opposed to
// signals derived from applications and bookmarks.
type Preferences struct {
	Companies []string
	Locations []string
	Sectors   []string
}

type record struct {
	searches    []string
	applied     []model.NormalizedJob
	bookmarked  []model.NormalizedJob
	preferences Preferences
}

// Recorder keeps per-user activity in memory and serves it as
// model.UserHistory. All methods are safe for concurrent use.
type Recorder struct {
	mu    sync.RWMutex
	users map[string]*record
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{users: make(map[string]*record)}
}

func (r *Recorder) user(userID string) *record {
	rec, ok := r.users[userID]
	if !ok {
		rec = &record{}
		r.users[userID] = rec
	}
	return rec
}

// RecordSearch appends a search query to the user's trail, keeping only
// the most recent entries. Blank queries carry no signal and are dropped.
func (r *Recorder) RecordSearch(ctx context.Context, userID, query string) {
	query = strings.TrimSpace(query)
	if userID == "" || query == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.user(userID)
	rec.searches = append(rec.searches, query)
	if len(rec.searches) > maxRecentSearches {
		rec.searches = rec.searches[len(rec.searches)-maxRecentSearches:]
	}
}

// RecordApplication remembers a job the user applied to.
func (r *Recorder) RecordApplication(ctx context.Context, userID string, job model.NormalizedJob) {
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.user(userID)
	rec.applied = append(rec.applied, job)
}

// RecordBookmark remembers a job the user bookmarked.
func (r *Recorder) RecordBookmark(ctx context.Context, userID string, job model.NormalizedJob) {
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.user(userID)
	rec.bookmarked = append(rec.bookmarked, job)
}

// SetPreferences replaces the user's stored preferences.
func (r *Recorder) SetPreferences(ctx context.Context, userID string, prefs Preferences) {
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.user(userID).preferences = prefs
}

// History assembles the user's activity into the ranking projection.
// Stored preferences come first; companies, locations, and sectors seen on
// applied and bookmarked jobs are folded in behind them. Recent searches
// are returned newest first. An unknown user yields an empty history.
func (r *Recorder) History(ctx context.Context, userID string) (model.UserHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[userID]
	if !ok {
		return model.UserHistory{}, nil
	}

	h := model.UserHistory{
		PreferredCompanies: append([]string(nil), rec.preferences.Companies...),
		PreferredLocations: append([]string(nil), rec.preferences.Locations...),
		PreferredSectors:   append([]string(nil), rec.preferences.Sectors...),
	}

	for i := len(rec.searches) - 1; i >= 0; i-- {
		h.RecentSearches = append(h.RecentSearches, rec.searches[i])
	}

	for _, job := range rec.applied {
		h.AppliedTitles = append(h.AppliedTitles, job.Title)
		h.PreferredCompanies = appendUnique(h.PreferredCompanies, job.Company)
		h.PreferredLocations = appendUnique(h.PreferredLocations, job.Location)
		h.PreferredSectors = appendUnique(h.PreferredSectors, job.Sector)
	}

	for _, job := range rec.bookmarked {
		h.BookmarkedTitles = append(h.BookmarkedTitles, job.Title)
		h.PreferredCompanies = appendUnique(h.PreferredCompanies, job.Company)
		h.PreferredLocations = appendUnique(h.PreferredLocations, job.Location)
		h.PreferredSectors = appendUnique(h.PreferredSectors, job.Sector)
	}

	return h, nil
}

// appendUnique adds v unless it is blank or already present, comparing
// case-insensitively.
func appendUnique(list []string, v string) []string {
	if strings.TrimSpace(v) == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}

package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/types"
)

// SearchDependencies defines the interface for search operations.
type SearchDependencies interface {
	Search(ctx context.Context, params types.SearchParams, user *types.UserLocation) (*types.SearchResponse, error)
}

// SearchHandler handles job search requests.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles GET /api/v1/jobs/search requests.
//
// Query parameters: q, location, countries (comma separated ISO codes),
// user_id, offset, limit. The caller's resolved geography arrives on the
// X-User-Country, X-User-Region, and X-User-City headers, as set by the
// edge in front of the service.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_jobs"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	params, err := parseSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.Search(r.Context(), params, parseUserLocation(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseSearchParams(r *http.Request) (types.SearchParams, error) {
	q := r.URL.Query()
	params := types.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Location: strings.TrimSpace(q.Get("location")),
		UserID:   strings.TrimSpace(q.Get("user_id")),
	}

	if raw := strings.TrimSpace(q.Get("countries")); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				params.Countries = append(params.Countries, c)
			}
		}
	}

	var err error
	if params.Offset, err = parseNonNegative(q.Get("offset")); err != nil {
		return params, Wrap("offset", err)
	}
	if params.Limit, err = parseNonNegative(q.Get("limit")); err != nil {
		return params, Wrap("limit", err)
	}
	return params, nil
}

// parseNonNegative parses an optional numeric query value. Absent means
// zero; anything not a non-negative integer is a client error.
func parseNonNegative(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrBadRequest
	}
	return n, nil
}

func parseUserLocation(r *http.Request) *types.UserLocation {
	user := types.UserLocation{
		Country: strings.TrimSpace(r.Header.Get("X-User-Country")),
		Region:  strings.TrimSpace(r.Header.Get("X-User-Region")),
		City:    strings.TrimSpace(r.Header.Get("X-User-City")),
	}
	if user.Country == "" && user.Region == "" && user.City == "" {
		return nil
	}
	return &user
}

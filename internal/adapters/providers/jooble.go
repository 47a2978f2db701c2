package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

const joobleBaseURL = "https://jooble.org/api"

// Jooble fetches listings from the Jooble POST API. With an empty key
// Fetch returns (nil, nil) and the round skips this source.
type Jooble struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// JoobleOption applies a configuration option to the Jooble client.
type JoobleOption func(*Jooble)

// WithJoobleBaseURL overrides the API endpoint. Used in tests.
func WithJoobleBaseURL(u string) JoobleOption {
	return func(j *Jooble) {
		j.baseURL = u
	}
}

// NewJooble constructs a Jooble client.
func NewJooble(apiKey string, opts ...JoobleOption) *Jooble {
	j := &Jooble{
		apiKey:  apiKey,
		baseURL: joobleBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Name implements Provider.
func (j *Jooble) Name() string { return "jooble" }

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location,omitempty"`
	Page     int    `json:"page"`
}

type joobleResponse struct {
	TotalCount int            `json:"totalCount"`
	Jobs       []joobleResult `json:"jobs"`
}

type joobleResult struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Location string      `json:"location"`
	Snippet  string      `json:"snippet"`
	Salary   string      `json:"salary"`
	Type     string      `json:"type"`
	Link     string      `json:"link"`
	Company  string      `json:"company"`
	Updated  string      `json:"updated"`
}

// Fetch implements Provider. Jooble keys requests by API token in the
// URL path and scopes the search with the country's name as location.
func (j *Jooble) Fetch(ctx context.Context, query, country string, page int) ([]model.RawJob, error) {
	if j.apiKey == "" {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	payload, err := json.Marshal(joobleRequest{
		Keywords: query,
		Location: strings.ToLower(country),
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+"/"+j.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jooble POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jooble read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jooble returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp joobleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("jooble decode: %w", err)
	}

	jobs := make([]model.RawJob, 0, len(apiResp.Jobs))
	for _, r := range apiResp.Jobs {
		fields := map[string]any{
			"id":          r.ID.String(),
			"title":       r.Title,
			"company":     r.Company,
			"location":    r.Location,
			"description": r.Snippet,
			"url":         r.Link,
			"country":     strings.ToUpper(country),
		}
		if r.Salary != "" {
			fields["salary"] = r.Salary
		}
		if r.Type != "" {
			fields["job_type"] = r.Type
		}
		if r.Updated != "" {
			fields["created"] = r.Updated
		}
		jobs = append(jobs, model.RawJob{Provider: j.Name(), Fields: fields})
	}
	return jobs, nil
}

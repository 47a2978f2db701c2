package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

const adzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

// Adzuna fetches listings from the Adzuna public API. With empty
// credentials Fetch returns (nil, nil) and the round skips this source.
type Adzuna struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

// AdzunaOption applies a configuration option to the Adzuna client.
type AdzunaOption func(*Adzuna)

// WithAdzunaBaseURL overrides the API endpoint. Used in tests.
func WithAdzunaBaseURL(u string) AdzunaOption {
	return func(a *Adzuna) {
		a.baseURL = u
	}
}

// NewAdzuna constructs an Adzuna client.
func NewAdzuna(appID, appKey string, opts ...AdzunaOption) *Adzuna {
	a := &Adzuna{
		appID:   appID,
		appKey:  appKey,
		baseURL: adzunaBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Provider.
func (a *Adzuna) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	ContractTime string  `json:"contract_time"`
	ContractType string  `json:"contract_type"`
}

// Fetch implements Provider. Adzuna routes by lowercase country code in
// the URL path.
func (a *Adzuna) Fetch(ctx context.Context, query, country string, page int) ([]model.RawJob, error) {
	if a.appID == "" || a.appKey == "" {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("results_per_page", strconv.Itoa(pageSize))
	params.Set("what", query)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	endpoint := fmt.Sprintf("%s/%s/search/%d?%s", a.baseURL, strings.ToLower(country), page, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("adzuna read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	jobs := make([]model.RawJob, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		fields := map[string]any{
			"id":           r.ID,
			"title":        r.Title,
			"description":  r.Description,
			"company":      r.Company.DisplayName,
			"location":     r.Location.DisplayName,
			"created":      r.Created,
			"redirect_url": r.RedirectURL,
			"country":      strings.ToUpper(country),
		}
		if r.SalaryMin > 0 {
			fields["salary_min"] = r.SalaryMin
		}
		if r.SalaryMax > 0 {
			fields["salary_max"] = r.SalaryMax
		}
		if r.ContractTime != "" {
			fields["job_type"] = r.ContractTime
		} else if r.ContractType != "" {
			fields["job_type"] = r.ContractType
		}
		jobs = append(jobs, model.RawJob{Provider: a.Name(), Fields: fields})
	}
	return jobs, nil
}

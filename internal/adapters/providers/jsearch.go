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

const (
	jsearchBaseURL = "https://jsearch.p.rapidapi.com"
	jsearchHost    = "jsearch.p.rapidapi.com"
)

// JSearch fetches listings from the JSearch RapidAPI. With an empty key
// Fetch returns (nil, nil) and the round skips this source.
type JSearch struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// JSearchOption applies a configuration option to the JSearch client.
type JSearchOption func(*JSearch)

// WithJSearchBaseURL overrides the API endpoint. Used in tests.
func WithJSearchBaseURL(u string) JSearchOption {
	return func(j *JSearch) {
		j.baseURL = u
	}
}

// NewJSearch constructs a JSearch client.
func NewJSearch(apiKey string, opts ...JSearchOption) *JSearch {
	j := &JSearch{
		apiKey:  apiKey,
		baseURL: jsearchBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Name implements Provider.
func (j *JSearch) Name() string { return "jsearch" }

type jsearchResponse struct {
	Data []jsearchResult `json:"data"`
}

type jsearchResult struct {
	JobID          string  `json:"job_id"`
	JobTitle       string  `json:"job_title"`
	EmployerName   string  `json:"employer_name"`
	JobCity        string  `json:"job_city"`
	JobState       string  `json:"job_state"`
	JobCountry     string  `json:"job_country"`
	JobDescription string  `json:"job_description"`
	JobType        string  `json:"job_employment_type"`
	JobIsRemote    bool    `json:"job_is_remote"`
	JobPostedAt    string  `json:"job_posted_at_datetime_utc"`
	JobApplyLink   string  `json:"job_apply_link"`
	SalaryMin      float64 `json:"job_min_salary"`
	SalaryMax      float64 `json:"job_max_salary"`
	SalaryCurrency string  `json:"job_salary_currency"`
}

// Fetch implements Provider. JSearch takes an uppercase country code as
// a query parameter.
func (j *JSearch) Fetch(ctx context.Context, query, country string, page int) ([]model.RawJob, error) {
	if j.apiKey == "" {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	params.Set("country", strings.ToUpper(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", j.apiKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jsearch read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jsearch returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp jsearchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("jsearch decode: %w", err)
	}

	jobs := make([]model.RawJob, 0, len(apiResp.Data))
	for _, r := range apiResp.Data {
		location := r.JobCity
		if location == "" {
			location = r.JobState
		}
		fields := map[string]any{
			"job_id":          r.JobID,
			"job_title":       r.JobTitle,
			"employer_name":   r.EmployerName,
			"job_city":        location,
			"job_country":     r.JobCountry,
			"job_description": r.JobDescription,
			"job_apply_link":  r.JobApplyLink,
		}
		if r.JobType != "" {
			fields["job_type"] = r.JobType
		}
		if r.JobIsRemote {
			fields["job_type"] = "remote"
		}
		if r.JobPostedAt != "" {
			fields["job_posted_at"] = r.JobPostedAt
		}
		if r.SalaryMin > 0 {
			fields["salary_min"] = r.SalaryMin
		}
		if r.SalaryMax > 0 {
			fields["salary_max"] = r.SalaryMax
		}
		if r.SalaryCurrency != "" {
			fields["currency"] = r.SalaryCurrency
		}
		jobs = append(jobs, model.RawJob{Provider: j.Name(), Fields: fields})
	}
	return jobs, nil
}

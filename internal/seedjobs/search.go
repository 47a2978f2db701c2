package seedjobs

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
)

// runSearches runs one verification search per configured query and
// collects the responses.
func runSearches(ctx context.Context, config *Config, stats *Stats) (map[string]*SearchResult, error) {
	log.Printf("running %d verification searches...", len(config.Queries))

	client := newHTTPClient(config.Timeout)
	results := make(map[string]*SearchResult, len(config.Queries))

	for _, query := range config.Queries {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during search: %w", ctx.Err())
		default:
		}

		result, err := runSingleSearch(ctx, client, config.BaseURL, query, config.SearchLimit)
		if err != nil {
			log.Printf("search %q failed: %v", query, err)
			continue
		}

		results[query] = result
		stats.SearchesRun++
		stats.JobsReturned += len(result.Jobs)

		if config.Verbose {
			log.Printf("search %q: %d jobs (strategy: %s, phase: %s, total: %d)",
				query, len(result.Jobs), result.Strategy, result.Phase, result.Pagination.Total)
		}
	}

	log.Printf("search verification completed: %d/%d searches succeeded", stats.SearchesRun, len(config.Queries))
	return results, nil
}

// runSingleSearch fetches one page of search results for a query.
func runSingleSearch(ctx context.Context, client *HTTPClient, baseURL, query string, limit int) (*SearchResult, error) {
	searchURL := baseURL + "/api/v1/jobs/search?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)

	resp, err := client.Get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result SearchResult
	if err := unmarshalJSON(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &result, nil
}

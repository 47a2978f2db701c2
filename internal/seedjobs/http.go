package seedjobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitPostings submits postings concurrently using worker pools
func submitPostings(ctx context.Context, config *Config, postings []Posting, stats *Stats) error {
	log.Printf("submitting %d postings with %d workers...", len(postings), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/v1/jobs"

	// Counters for statistics
	var (
		accepted  int64
		rejected  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	postingChan := make(chan Posting, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for posting := range postingChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSinglePosting(ctx, client, url, posting)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("progress: %d/%d submitted (accepted: %d, rejected: %d, failed: %d)",
								total, len(postings), acc, rej, fail)
						} else {
							fmt.Printf("\rsubmitted: %d/%d (accepted: %d, rejected: %d, failed: %d)",
								total, len(postings), acc, rej, fail)
						}
					}
				}
			}
		}()
	}

	// Send postings to workers
	go func() {
		defer close(postingChan)
		for _, posting := range postings {
			select {
			case <-ctx.Done():
				return
			case postingChan <- posting:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.JobsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.JobsAccepted = int(atomic.LoadInt64(&accepted))
	stats.JobsRejected = int(atomic.LoadInt64(&rejected))
	stats.JobsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`posting submission completed:
   Accepted: %d
   Rejected: %d
   Failed: %d
`, stats.JobsAccepted, stats.JobsRejected, stats.JobsFailed)

	return nil
}

// submitSinglePosting submits a single posting and returns the result
func submitSinglePosting(ctx context.Context, client *HTTPClient, url string, posting Posting) string {
	resp, err := client.Post(ctx, url, posting)
	if err != nil {
		return "failed"
	}

	// Read response body
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	// Parse response based on status code
	switch resp.StatusCode {
	case StatusAccepted:
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted" // Assume accepted for 202 even if parsing fails
	case StatusTooManyRequests:
		// Queue backpressure
		return "rejected"
	default:
		// Error
		return "failed"
	}
}

package seedjobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jobdeck/jobdeck/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seeding run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting jobdeck seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("jobs", config.NumJobs),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("searchLimit", config.SearchLimit),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate postings
	postings, err := generatePostings(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("posting generation failed: %w", err)
	}

	// Step 3: Submit postings concurrently
	if err := submitPostings(ctx, config, postings, stats); err != nil {
		return fmt.Errorf("posting submission failed: %w", err)
	}

	// Step 4: Wait for the ingest pipeline to drain
	logger.Get().Info(ctx, "waiting for postings to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Run verification searches
	results, err := runSearches(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("search verification failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save postings to file
	if err := savePostingsToFile(ctx, config, postings); err != nil {
		logger.Get().Warn(ctx, "failed to save postings to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePostingsToFile saves the generated postings to a JSON file.
func savePostingsToFile(ctx context.Context, config *Config, postings []Posting) error {
	if len(postings) == 0 {
		return fmt.Errorf("no postings to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_jobs_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write postings to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, posting := range postings {
		jsonData, err := marshalJSON(posting)
		if err != nil {
			return fmt.Errorf("failed to marshal posting %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write posting %d: %w", i, err)
		}

		// Add comma except for last posting
		if i < len(postings)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "postings saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, jobsPerSecond float64

	if stats.JobsSubmitted > 0 {
		successRate = float64(stats.JobsAccepted) / float64(stats.JobsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		jobsPerSecond = float64(stats.JobsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("jobsGenerated", stats.JobsGenerated),
		logger.Int("jobsSubmitted", stats.JobsSubmitted),
		logger.Int("jobsAccepted", stats.JobsAccepted),
		logger.Int("jobsRejected", stats.JobsRejected),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Int("searchesRun", stats.SearchesRun),
		logger.Int("jobsReturned", stats.JobsReturned),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("jobsPerSecond", jobsPerSecond))
}

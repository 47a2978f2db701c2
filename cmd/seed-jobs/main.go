package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/seedjobs"
)

// Default configuration constants.
const (
	defaultNumJobs     = 1000
	defaultSearchLimit = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
	defaultQueries     = "software engineer,nurse,accountant"
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numJobs     = flag.Int("jobs", defaultNumJobs, "Number of postings to generate and submit")
		searchLimit = flag.Int("limit", defaultSearchLimit, "Page size for verification searches")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		queries     = flag.String("queries", defaultQueries, "Comma-separated verification queries")
		outputFile  = flag.String("output", "", "Output file for generated postings (default: generated_jobs_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedjobs.ShowHelp()
		return
	}

	// Setup logging
	if err := seedjobs.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &seedjobs.Config{
		BaseURL:     *baseURL,
		NumJobs:     *numJobs,
		SearchLimit: *searchLimit,
		Workers:     *workers,
		Timeout:     *timeout,
		Queries:     strings.Split(*queries, ","),
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the seeding
	if err := seedjobs.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}

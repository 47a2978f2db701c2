package seedjobs

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jobdeck/jobdeck/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed jobs tool.
func ShowHelp() {
	os.Stdout.WriteString(`JobDeck Seed Tool
=================

A concurrent tool for seeding the JobDeck ingest pipeline and verifying
search results against the running service.

Usage:
  go run cmd/seed-jobs/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -jobs int
        Number of postings to generate and submit (default 1000)
  -limit int
        Page size for verification searches (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -queries string
        Comma-separated verification queries (default "software engineer,nurse,accountant")
  -output string
        Output file for generated postings (default: generated_jobs_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-jobs/main.go

  # Seed with custom parameters
  go run cmd/seed-jobs/main.go -jobs 5000 -workers 16 -url http://localhost:8080

  # Seed with verbose output
  go run cmd/seed-jobs/main.go -verbose -jobs 1000
`)
}

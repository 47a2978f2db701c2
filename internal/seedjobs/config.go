package seedjobs

import "time"

// Config holds configuration for the seeding run
type Config struct {
	BaseURL     string        // Base URL of the service
	NumJobs     int           // Number of postings to generate
	SearchLimit int           // Page size for verification searches
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Queries     []string      // Search queries used for verification
	OutputFile  string        // Output file for postings
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Posting is the request body for the ingest endpoint
type Posting struct {
	Source string         `json:"source"`
	Fields map[string]any `json:"fields"`
}

// AckResponse represents the response from posting submission
type AckResponse struct {
	Status string `json:"status"`
}

// SearchJob is the subset of the search response job we verify
type SearchJob struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Source   string `json:"source"`
}

// SearchRanking is a single ranked entry from the search response
type SearchRanking struct {
	JobID string  `json:"job_id"`
	Score float64 `json:"score"`
}

// SearchResult is the subset of the search response we verify
type SearchResult struct {
	Jobs       []SearchJob     `json:"jobs"`
	Rankings   []SearchRanking `json:"rankings"`
	Pagination struct {
		Offset  int  `json:"offset"`
		Limit   int  `json:"limit"`
		Total   int  `json:"total"`
		HasMore bool `json:"has_more"`
	} `json:"pagination"`
	Strategy string `json:"strategy"`
	Phase    string `json:"phase"`
}

// Stats holds run statistics
type Stats struct {
	JobsGenerated int
	JobsSubmitted int
	JobsAccepted  int
	JobsRejected  int
	JobsFailed    int
	SearchesRun   int
	JobsReturned  int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}

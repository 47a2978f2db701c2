package seedjobs

import (
	"fmt"
	"log"
)

// verifyResults checks each search response for consistent rankings and
// pagination.
func verifyResults(results map[string]*SearchResult, stats *Stats) error {
	log.Println("verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no search results to verify")
	}

	for query, result := range results {
		if err := verifySingleResult(result); err != nil {
			log.Printf("consistency warning for %q: %v", query, err)
		} else {
			log.Printf("search %q verified (%d jobs)", query, len(result.Jobs))
		}
	}

	displayTopJobs(results)

	log.Println("result verification completed")
	return nil
}

// verifySingleResult checks ranking order, job/ranking alignment, and
// pagination consistency for one response.
func verifySingleResult(result *SearchResult) error {
	if len(result.Rankings) != len(result.Jobs) {
		return fmt.Errorf("rankings (%d) do not align with jobs (%d)", len(result.Rankings), len(result.Jobs))
	}

	// Rankings must be sorted by score descending
	for i := 1; i < len(result.Rankings); i++ {
		if result.Rankings[i].Score > result.Rankings[i-1].Score {
			return fmt.Errorf("rankings not sorted: entry %d outscores entry %d", i, i-1)
		}
	}

	// Each ranking entry must match the job at the same position
	for i, r := range result.Rankings {
		if r.JobID != result.Jobs[i].ID {
			return fmt.Errorf("ranking %d references %s but job %d is %s", i, r.JobID, i, result.Jobs[i].ID)
		}
	}

	// No duplicate job IDs on a page
	seen := make(map[string]bool, len(result.Jobs))
	for _, job := range result.Jobs {
		if seen[job.ID] {
			return fmt.Errorf("duplicate job %s on one page", job.ID)
		}
		seen[job.ID] = true
	}

	if result.Pagination.Total < len(result.Jobs) {
		return fmt.Errorf("pagination total (%d) below page size (%d)", result.Pagination.Total, len(result.Jobs))
	}

	return nil
}

// displayTopJobs shows the top jobs from each search.
func displayTopJobs(results map[string]*SearchResult) {
	const topN = 5

	for query, result := range results {
		n := topN
		if len(result.Jobs) < n {
			n = len(result.Jobs)
		}

		log.Printf("top %d jobs for %q:", n, query)
		for i := 0; i < n; i++ {
			job := result.Jobs[i]
			score := 0.0
			if i < len(result.Rankings) {
				score = result.Rankings[i].Score
			}
			log.Printf("   %d. %s at %s (%s) - Score: %.3f", i+1, job.Title, job.Company, job.Location, score)
		}
	}
}

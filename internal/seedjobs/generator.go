package seedjobs

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jobdeck/jobdeck/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	postingIDDivisor   = 10000
)

// Constants for salary generation ranges.
const (
	baseSalaryMin   = 30000.0
	baseSalaryRange = 120000.0
	salarySpreadMin = 5000.0
	salarySpread    = 30000.0
)

// rolePool lists titles spread across the category taxonomy so seeded data
// exercises the categorizer, not just one bucket.
var rolePool = []string{
	"Software Engineer",
	"Senior Backend Developer",
	"Data Scientist",
	"DevOps Engineer",
	"Registered Nurse",
	"Pharmacist",
	"Accountant",
	"Financial Analyst",
	"Marketing Manager",
	"Sales Executive",
	"Graphic Designer",
	"HR Manager",
	"Civil Engineer",
	"Electrician",
	"Chef",
	"Mathematics Teacher",
}

var companyPool = []string{
	"Acme Corp",
	"Globex",
	"Initech",
	"Umbrella Health",
	"Stark Industries",
	"Wayne Enterprises",
	"Pied Piper",
	"Hooli",
	"Vandelay Industries",
	"Wonka Labs",
}

// cityPool pairs each city with its country so location and country fields
// stay consistent in generated postings.
var cityPool = []struct {
	City    string
	Country string
}{
	{"Bangalore", "IN"},
	{"Mumbai", "IN"},
	{"Delhi", "IN"},
	{"Hyderabad", "IN"},
	{"New York", "US"},
	{"San Francisco", "US"},
	{"Austin", "US"},
	{"London", "GB"},
	{"Manchester", "GB"},
	{"Dubai", "AE"},
	{"Toronto", "CA"},
	{"Sydney", "AU"},
	{"Berlin", "DE"},
	{"Singapore", "SG"},
}

var jobTypePool = []string{"full-time", "part-time", "contract", "internship"}

var descriptionPool = []string{
	"Join a fast-growing team working on large-scale systems. Requirements: strong fundamentals and ownership mindset.",
	"We are looking for a motivated professional to join our team. Remote work available for the right candidate.",
	"Exciting opportunity in a hybrid environment. Requirements: relevant experience and good communication skills.",
	"On-site role with a collaborative team and competitive benefits package.",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a random index below n using crypto/rand.
func pick(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generatePostings creates the specified number of postings with unique
// source identifiers.
func generatePostings(ctx context.Context, config *Config, stats *Stats) ([]Posting, error) {
	logger.Get().Info(ctx, "generating postings", logger.Int("numJobs", config.NumJobs))

	postings := make([]Posting, config.NumJobs)

	// Generate postings concurrently
	type postingResult struct {
		index   int
		posting Posting
		err     error
	}

	resultChan := make(chan postingResult, config.NumJobs)

	// Use worker pool for posting generation
	workerCount := minInt(config.Workers, config.NumJobs)
	postingsPerWorker := config.NumJobs / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * postingsPerWorker
		end := start + postingsPerWorker
		if worker == workerCount-1 {
			end = config.NumJobs // Last worker gets remaining postings
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- postingResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- postingResult{index: i, posting: generateSinglePosting(i)}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumJobs; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during posting generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate posting %d: %w", result.index, result.err)
			}
			postings[result.index] = result.posting
		}
	}

	stats.JobsGenerated = len(postings)
	logger.Get().Info(ctx, "generated postings successfully", logger.Int("count", len(postings)))

	return postings, nil
}

// generateSinglePosting creates a single posting with the given index.
func generateSinglePosting(index int) Posting {
	role := rolePool[pick(len(rolePool))]
	company := companyPool[pick(len(companyPool))]
	place := cityPool[pick(len(cityPool))]

	salaryMin := baseSalaryMin + getRandomFloat()*baseSalaryRange
	salaryMax := salaryMin + salarySpreadMin + getRandomFloat()*salarySpread

	// Spread posting ages over the last 30 days so freshness scores vary
	age := time.Duration(pick(30*24)) * time.Hour
	postedAt := time.Now().UTC().Add(-age).Format(time.RFC3339)

	// Generate unique posting ID
	randNum, _ := rand.Int(rand.Reader, big.NewInt(postingIDDivisor))
	postingID := "seed_" + strconv.FormatInt(int64(index), 10) + "_" + uuid.New().String()[:8] + "_" + strconv.FormatInt(randNum.Int64(), 10)

	return Posting{
		Source: "seed",
		Fields: map[string]any{
			"id":          postingID,
			"title":       role,
			"company":     company,
			"location":    place.City + ", " + place.Country,
			"country":     place.Country,
			"description": descriptionPool[pick(len(descriptionPool))],
			"job_type":    jobTypePool[pick(len(jobTypePool))],
			"salary_min":  salaryMin,
			"salary_max":  salaryMax,
			"currency":    "USD",
			"postedAt":    postedAt,
		},
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

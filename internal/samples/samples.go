// Package samples generates synthetic job postings used as filler when
// database and provider sources underfill a search.
package samples

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// Source marks postings produced by this generator.
const Source = "sample"

var sampleTitles = []string{
	"Senior Software Engineer - Full Stack",
	"Product Manager - Fintech",
	"Data Scientist - Machine Learning",
	"Digital Marketing Manager",
	"Frontend Developer - React.js",
	"Business Analyst - Banking",
	"DevOps Engineer - Cloud",
	"UX/UI Designer",
	"HR Manager - Talent Acquisition",
	"Content Writer - Tech",
	"Android Developer",
	"Sales Executive - B2B",
}

var sampleCompanies = []string{
	"TCS (Tata Consultancy Services)",
	"Paytm",
	"Flipkart",
	"Byju's",
	"Zomato",
	"HDFC Bank",
	"Infosys",
	"Ola",
	"Wipro",
	"Freshworks",
	"PhonePe",
	"Razorpay",
}

var sampleLocations = []string{
	"Bangalore, Karnataka",
	"Mumbai, Maharashtra",
	"Delhi NCR",
	"Hyderabad, Telangana",
	"Pune, Maharashtra",
	"Chennai, Tamil Nadu",
}

var salaryBands = []struct {
	min, max float64
}{
	{300000, 600000},
	{600000, 1200000},
	{1200000, 2500000},
}

// Generator produces deterministic synthetic postings from a seed.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator. The same seed always yields the same jobs.
func New(seed int64, opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces n synthetic postings. The query, when non-empty, is
// folded into titles so filler jobs stay plausible for the search that
// requested them.
func (g *Generator) Generate(n int, query string) []model.NormalizedJob {
	if n <= 0 {
		return nil
	}

	now := g.now()
	jobs := make([]model.NormalizedJob, 0, n)
	for i := 0; i < n; i++ {
		title := sampleTitles[g.rng.Intn(len(sampleTitles))]
		if query != "" && g.rng.Intn(2) == 0 {
			title = titleCase(query)
		}
		company := sampleCompanies[g.rng.Intn(len(sampleCompanies))]
		location := sampleLocations[g.rng.Intn(len(sampleLocations))]
		band := salaryBands[g.rng.Intn(len(salaryBands))]
		posted := now.Add(-time.Duration(g.rng.Intn(14*24)) * time.Hour)

		minSalary, maxSalary := band.min, band.max
		jobs = append(jobs, model.NormalizedJob{
			ID:       fmt.Sprintf("sample-%d-%d", now.UnixMilli(), i),
			Title:    title,
			Company:  company,
			Location: location + ", India",
			Type:     model.JobTypeFullTime,
			Salary: model.Salary{
				Min:      &minSalary,
				Max:      &maxSalary,
				Currency: "INR",
				Display:  fmt.Sprintf("₹%.0f - ₹%.0f", minSalary, maxSalary),
			},
			PostedAt:    posted,
			Source:      Source,
			SourceID:    fmt.Sprintf("sample-%d", i),
			Description: fmt.Sprintf("%s is seeking a talented %s to join our growing team.", company, title),
			IsRemote:    g.rng.Intn(4) == 0,
			Country:     "IN",
			IsActive:    true,
		})
	}
	return jobs
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Package classify assigns jobs to a fixed category taxonomy by keyword scoring.
package classify

import (
	"regexp"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

const partialMatchWeight = 0.5

var (
	suffixEnd  = regexp.MustCompile(`(s|ing|ed|er|est)$`)
	suffixWord = regexp.MustCompile(`(s|ing|ed|er|est)\b`)
)

// Categorizer scores jobs against a category taxonomy.
type Categorizer struct {
	categories []Category
}

// Option applies a configuration option to the Categorizer.
type Option func(*Categorizer)

// WithCategories replaces the built-in taxonomy.
func WithCategories(categories []Category) Option {
	return func(c *Categorizer) {
		if len(categories) > 0 {
			c.categories = categories
		}
	}
}

// New creates a Categorizer with the default taxonomy.
func New(opts ...Option) *Categorizer {
	c := &Categorizer{categories: defaultCategories()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories returns the active taxonomy.
func (c *Categorizer) Categories() []Category {
	return c.categories
}

// Categorize assigns job to its best-scoring category. A job that matches
// nothing falls back to General with zero confidence.
func (c *Categorizer) Categorize(job model.NormalizedJob) model.CategorizationResult {
	text := strings.ToLower(job.Title + " " + job.Description + " " + job.Company + " " + strings.Join(job.Skills, " "))

	best := model.CategorizationResult{Category: GeneralCategory}
	for _, category := range c.categories {
		score, matched := scoreCategory(text, category)
		if score > best.Confidence {
			best.Category = category.Name
			best.Confidence = score
			best.Keywords = matched
		}
	}

	best.Subcategories = subcategories(text, best.Category)
	return best
}

// scoreCategory sums keyword hits and normalizes by the category's maximum
// possible score, clamping to [0,1]. Exact substring hits count the full
// weight, suffix-stripped hits half.
func scoreCategory(text string, category Category) (float64, []string) {
	var (
		score   float64
		matched []string
	)
	for _, keyword := range category.Keywords {
		kw := strings.ToLower(keyword)
		switch {
		case strings.Contains(text, kw):
			score += category.Weight
			matched = append(matched, keyword)
		case partialMatch(text, kw):
			score += category.Weight * partialMatchWeight
			matched = append(matched, keyword)
		}
	}

	maxScore := float64(len(category.Keywords)) * category.Weight
	if maxScore == 0 {
		return 0, matched
	}
	return min(score/maxScore, 1), matched
}

// partialMatch strips common English suffixes from both sides so plurals
// and inflections still hit. Very short stems are ignored.
func partialMatch(text, keyword string) bool {
	base := suffixEnd.ReplaceAllString(keyword, "")
	if len(base) <= 3 {
		return false
	}
	return strings.Contains(suffixWord.ReplaceAllString(text, ""), base)
}

// subcategories returns the finer labels triggered within mainCategory.
func subcategories(text, mainCategory string) []string {
	var out []string
	for _, rule := range subcategoryRules[mainCategory] {
		for _, term := range rule.terms {
			if strings.Contains(text, term) {
				out = append(out, rule.name)
				break
			}
		}
	}
	return out
}

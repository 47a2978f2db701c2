// Package normalize converts heterogeneous provider postings into the
// canonical NormalizedJob shape. Normalization never fails: missing or
// malformed input degrades to defaults, and every defaulted field is
// reported so data quality stays observable.
package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

const (
	defaultCountry  = "IN"
	defaultCurrency = "INR"
	maxIDLength     = 100
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	salaryRangeRe = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*-\s*\D*(\d+(?:,\d+)*(?:\.\d+)?)`)
	salarySingle  = regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)`)

	requirementRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)requirements?:\s*([^.]*)`),
		regexp.MustCompile(`(?i)qualifications?:\s*([^.]*)`),
		regexp.MustCompile(`(?i)must have:\s*([^.]*)`),
		regexp.MustCompile(`(?i)required:\s*([^.]*)`),
	}
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithClock overrides the wall-clock source used for date defaults.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithDefaultCountry overrides the country assigned to unmapped input.
func WithDefaultCountry(code string) Option {
	return func(n *Normalizer) {
		if code != "" {
			n.defaultCountry = code
		}
	}
}

// Normalizer maps raw provider postings into NormalizedJob values.
type Normalizer struct {
	now            func() time.Time
	defaultCountry string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:            time.Now,
		defaultCountry: defaultCountry,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts raw into the canonical shape. It is a pure function of
// its inputs plus the configured clock and never returns an error.
func (n *Normalizer) Normalize(raw model.RawJob, source string) model.NormalizedJob {
	var defaulted []string
	note := func(field string) { defaulted = append(defaulted, field) }

	title := collapse(raw.String(titleKeys...))
	if title == "" {
		note("title")
	}
	company := collapse(raw.String(companyKeys...))
	if company == "" {
		note("company")
	}
	location := collapse(raw.String(locationKeys...))
	if location == "" {
		note("location")
	}
	description := collapse(raw.String(descriptionKeys...))

	jobType, ok := mapJobType(raw.String(jobTypeKeys...))
	if !ok {
		note("type")
	}
	expLevel, ok := mapExperience(raw.String(experienceKeys...))
	if !ok {
		note("experience_level")
	}
	country, ok := mapCountry(raw.String(countryKeys...), n.defaultCountry)
	if !ok {
		note("country")
	}
	postedAt, ok := n.parsePostedAt(raw)
	if !ok {
		note("posted_at")
	}

	sourceID := raw.String(sourceIDKeys...)
	if sourceID == "" {
		sourceID = "ext-" + uuid.NewString()
		note("source_id")
	}

	featured, _ := raw.Bool(featuredKeys...)
	urgent, _ := raw.Bool(urgentKeys...)

	searchText := strings.ToLower(title + " " + description + " " + location)

	return model.NormalizedJob{
		ID:              n.jobID(source, company, title),
		Title:           title,
		Company:         company,
		Location:        location,
		Type:            model.JobType(jobType),
		Salary:          n.normalizeSalary(raw),
		Category:        "General", // assigned by the categorizer
		PostedAt:        postedAt,
		Source:          source,
		SourceID:        sourceID,
		Description:     description,
		Requirements:    extractRequirements(description),
		ApplyURL:        raw.String(applyURLKeys...),
		SourceURL:       raw.String(sourceURLKeys...),
		IsRemote:        containsAny(searchText, remoteKeywords),
		IsHybrid:        containsAny(strings.ToLower(title+" "+description), hybridKeywords),
		ExperienceLevel: model.ExperienceLevel(expLevel),
		Skills:          extractSkills(raw, title, description),
		Sector:          detectSector(title, description, company),
		IsFeatured:      featured,
		IsUrgent:        urgent,
		Country:         country,
		Raw:             raw,
		FieldsDefaulted: defaulted,
	}
}

// jobID derives a synthetic identifier from source, company, title, and the
// current clock, truncated to a storable length.
func (n *Normalizer) jobID(source, company, title string) string {
	slug := func(s string) string {
		return strings.ToLower(whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "-"))
	}
	id := fmt.Sprintf("%s-%s-%s-%d", source, slug(company), slug(title), n.now().UnixMilli())
	if len(id) > maxIDLength {
		id = id[:maxIDLength]
	}
	return id
}

func (n *Normalizer) parsePostedAt(raw model.RawJob) (time.Time, bool) {
	for _, k := range postedAtKeys {
		switch v := raw.Fields[k].(type) {
		case time.Time:
			return v, true
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t, true
				}
			}
		}
	}
	return n.now(), false
}

func (n *Normalizer) normalizeSalary(raw model.RawJob) model.Salary {
	var min, max *float64
	if v, ok := raw.Float(salaryMinKeys...); ok {
		min = &v
	}
	if v, ok := raw.Float(salaryMaxKeys...); ok {
		max = &v
	}

	currency := strings.ToUpper(raw.String(currencyKeys...))
	if currency == "" {
		currency = defaultCurrency
	}
	display := raw.String("salary")

	// Fall back to parsing the display string when explicit bounds are absent.
	if min == nil && max == nil && display != "" {
		if m := salaryRangeRe.FindStringSubmatch(display); m != nil {
			lo, hi := parseAmount(m[1]), parseAmount(m[2])
			min, max = &lo, &hi
		} else if m := salarySingle.FindStringSubmatch(display); m != nil {
			lo := parseAmount(m[1])
			min = &lo
		}
	}

	if display == "" {
		sym := currencySymbol(currency)
		switch {
		case min != nil && max != nil:
			display = fmt.Sprintf("%s %s - %s %s", sym, formatAmount(*min), sym, formatAmount(*max))
		case min != nil:
			display = fmt.Sprintf("%s %s+", sym, formatAmount(*min))
		case max != nil:
			display = fmt.Sprintf("Up to %s %s", sym, formatAmount(*max))
		default:
			display = "Salary not specified"
		}
	}

	return model.Salary{Min: min, Max: max, Currency: currency, Display: display}
}

func mapJobType(s string) (string, bool) {
	if t, ok := jobTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, true
	}
	return "Full-time", false
}

func mapExperience(s string) (string, bool) {
	if l, ok := experienceLevels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, true
	}
	return "Mid Level", false
}

func mapCountry(s, fallback string) (string, bool) {
	if c, ok := countries[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return c, true
	}
	return fallback, false
}

func extractRequirements(description string) string {
	for _, re := range requirementRes {
		if m := re.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractSkills(raw model.RawJob, title, description string) []string {
	text := strings.ToLower(title + " " + description + " " + raw.String("skills"))

	seen := make(map[string]struct{})
	var skills []string
	add := func(s string) {
		s = strings.ToLower(s)
		if _, dup := seen[s]; !dup && s != "" {
			seen[s] = struct{}{}
			skills = append(skills, s)
		}
	}

	for _, kw := range skillVocabulary {
		if strings.Contains(text, kw) {
			add(kw)
		}
	}
	if explicit, ok := raw.Fields["skills"].([]string); ok {
		for _, s := range explicit {
			add(s)
		}
	}
	if explicit, ok := raw.Fields["skills"].([]any); ok {
		for _, v := range explicit {
			if s, ok := v.(string); ok {
				add(s)
			}
		}
	}

	sort.Strings(skills)
	return skills
}

func detectSector(title, description, company string) string {
	text := strings.ToLower(title + " " + description + " " + company)
	for _, s := range sectors {
		if containsAny(text, s.keywords) {
			return s.name
		}
	}
	return "General"
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// collapse trims and squeezes internal whitespace, preserving case.
func collapse(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v
}

func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	// Insert thousands separators into the integer part.
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	if frac != "" {
		out += "." + frac
	}
	return out
}

// Package geo implements country-priority search planning.
package geo

import (
	"math"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/types"
)

// Strategy kinds as reported to callers.
const (
	StrategyExplicit = "explicit"
	StrategyLocal    = "local"
	StrategyGlobal   = "global"
)

// Phase labels classifying which fetch phases produced the result.
const (
	PhaseLocal           = "local"
	PhaseCountryFallback = "country_fallback"
	PhaseGlobal          = "global"
)

// localShare is the fraction of the limit reserved for the city-filtered
// phase when local prioritization applies.
const localShare = 0.7

// Default country lists. Targets are the markets served directly;
// fallbacks broaden the net when the user is outside all of them.
var (
	DefaultTargetCountries   = []string{"IN", "US", "GB", "AE"}
	DefaultFallbackCountries = []string{"CA", "AU", "DE", "FR", "SG"}
)

// Plan is the per-request search strategy: which countries to query, in
// what order, and whether a city-filtered local phase should run first.
type Plan struct {
	Strategy        string
	Countries       []string
	PrioritizeLocal bool
	City            string
	Region          string
}

// Planner selects a Plan from the request and the caller's location.
type Planner struct {
	targets   []string
	fallbacks []string
}

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithTargetCountries overrides the served-market country list.
func WithTargetCountries(countries []string) Option {
	return func(p *Planner) {
		if len(countries) > 0 {
			p.targets = countries
		}
	}
}

// WithFallbackCountries overrides the broadening country list.
func WithFallbackCountries(countries []string) Option {
	return func(p *Planner) {
		if len(countries) > 0 {
			p.fallbacks = countries
		}
	}
}

// NewPlanner creates a Planner with the default country lists.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		targets:   DefaultTargetCountries,
		fallbacks: DefaultFallbackCountries,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan evaluates the strategy state machine once for a request.
func (p *Planner) Plan(params types.SearchParams, user *types.UserLocation) Plan {
	var city, region, country string
	if user != nil {
		city = user.City
		region = user.Region
		country = strings.ToUpper(strings.TrimSpace(user.Country))
	}

	// Explicit countries win. Local prioritization still applies when
	// the caller's city is known.
	if len(params.Countries) > 0 {
		return Plan{
			Strategy:        StrategyExplicit,
			Countries:       upperAll(params.Countries),
			PrioritizeLocal: city != "",
			City:            city,
			Region:          region,
		}
	}

	if country != "" && contains(p.targets, country) {
		countries := make([]string, 0, len(p.targets))
		countries = append(countries, country)
		for _, c := range p.targets {
			if c != country {
				countries = append(countries, c)
			}
		}
		return Plan{
			Strategy:        StrategyLocal,
			Countries:       countries,
			PrioritizeLocal: true,
			City:            city,
			Region:          region,
		}
	}

	countries := make([]string, 0, len(p.targets)+len(p.fallbacks))
	countries = append(countries, p.targets...)
	countries = append(countries, p.fallbacks...)
	return Plan{
		Strategy:  StrategyGlobal,
		Countries: countries,
	}
}

// LocalQuota is how many jobs phase 1 may fetch for the given limit.
func LocalQuota(limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(limit) * localShare))
}

// LocalPhase reports whether a city-filtered phase should run at all.
func (pl Plan) LocalPhase() bool {
	return pl.PrioritizeLocal && pl.City != ""
}

// ClassifyPhase labels the result after both phases ran. Only phase 1
// contributing means the result is purely local; anything where local
// results were prioritized or mixed in reports the fallback label.
func ClassifyPhase(localCount, countryCount int, prioritizedLocal bool) string {
	switch {
	case localCount > 0 && countryCount == 0:
		return PhaseLocal
	case localCount > 0 || prioritizedLocal:
		return PhaseCountryFallback
	default:
		return PhaseGlobal
	}
}

func contains(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}

func upperAll(list []string) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return out
}

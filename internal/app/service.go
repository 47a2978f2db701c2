// Package service wires the search pipeline together and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapters/cache"
	"github.com/jobdeck/jobdeck/internal/adapters/history"
	"github.com/jobdeck/jobdeck/internal/adapters/ingest"
	"github.com/jobdeck/jobdeck/internal/adapters/providers"
	"github.com/jobdeck/jobdeck/internal/adapters/repository"
	"github.com/jobdeck/jobdeck/internal/domain/classify"
	"github.com/jobdeck/jobdeck/internal/domain/dedupe"
	"github.com/jobdeck/jobdeck/internal/domain/geo"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/domain/normalize"
	"github.com/jobdeck/jobdeck/internal/domain/rank"
	"github.com/jobdeck/jobdeck/internal/domain/types"
	"github.com/jobdeck/jobdeck/internal/samples"
	"github.com/jobdeck/jobdeck/pkg/logger"
	"github.com/jobdeck/jobdeck/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultLimit     = 20
	defaultMaxLimit  = 100
	defaultQueueSize = 10000
)

// searchRecorder is satisfied by history sources that also accept writes.
type searchRecorder interface {
	RecordSearch(ctx context.Context, userID, query string)
}

// Service implements the search orchestration for the job board.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	cache       cache.Cache
	registry    *providers.Registry
	histories   rank.HistorySource
	normalizer  *normalize.Normalizer
	detector    *dedupe.Detector
	categorizer *classify.Categorizer
	ranker      *rank.Ranker
	planner     *geo.Planner
	sampler     *samples.Generator
	queue       ingest.Queue
	pool        *ingest.Pool

	// Configuration
	defaultLimit int
	maxLimit     int
	workerCount  int
	queueSize    int

	// State
	started bool

	// Logging
	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the job repository.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the search response cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithProviders sets the external provider registry.
func WithProviders(registry *providers.Registry) Option {
	return func(s *Service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithHistorySource sets where user history is assembled from.
func WithHistorySource(src rank.HistorySource) Option {
	return func(s *Service) {
		if src != nil {
			s.histories = src
		}
	}
}

// WithNormalizer sets the raw posting normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithDetector sets the duplicate detector.
func WithDetector(d *dedupe.Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithCategorizer sets the job categorizer.
func WithCategorizer(c *classify.Categorizer) Option {
	return func(s *Service) {
		if c != nil {
			s.categorizer = c
		}
	}
}

// WithRanker sets the relevance ranker.
func WithRanker(r *rank.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithPlanner sets the country-priority planner.
func WithPlanner(p *geo.Planner) Option {
	return func(s *Service) {
		if p != nil {
			s.planner = p
		}
	}
}

// WithSampler sets the sample job generator.
func WithSampler(g *samples.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.sampler = g
		}
	}
}

// WithLimits sets the default and maximum page sizes.
func WithLimits(def, max int) Option {
	return func(s *Service) {
		if def > 0 && max >= def {
			s.defaultLimit = def
			s.maxLimit = max
		}
	}
}

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock used for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultLimit: defaultLimit,
		maxLimit:     defaultMaxLimit,
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    defaultQueueSize,
		now:          time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components. Any dependency not
// supplied through options is replaced with an in-memory default.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting search service...")

	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory job store")
	}
	if s.cache == nil {
		s.cache = cache.NewMemory()
	}
	if s.registry == nil {
		s.registry = providers.NewRegistry()
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New()
	}
	if s.detector == nil {
		s.detector = dedupe.New(repository.NewCandidateFinder(s.store))
	}
	if s.categorizer == nil {
		s.categorizer = classify.New()
	}
	if s.ranker == nil {
		s.ranker = rank.New()
	}
	if s.planner == nil {
		s.planner = geo.NewPlanner()
	}
	if s.sampler == nil {
		s.sampler = samples.New(1)
	}
	if s.histories == nil {
		s.histories = history.NewRecorder()
	}

	s.queue = ingest.NewInMemoryQueue(
		ingest.WithCapacity(s.queueSize),
		ingest.WithBufferSize(s.queueSize),
	)
	s.pool = ingest.NewPool(s.workerCount, s.queue, s.normalizer, s.detector, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "search service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("providers", len(s.registry.All())),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping search service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}

	s.started = false
	s.logger.Info(ctx, "search service stopped")
}

// Histories exposes the history source so the API layer can record user
// activity against the same backing state the ranker reads.
func (s *Service) Histories() rank.HistorySource {
	return s.histories
}

// Ingest submits a raw posting for asynchronous processing. Returns false
// when the queue is full or closed.
func (s *Service) Ingest(ctx context.Context, raw model.RawJob, source string) bool {
	return s.queue.Enqueue(ctx, ingest.Item{Raw: raw, Source: source})
}

// Refresh fetches one page of postings for the query from every provider
// across the given countries and feeds them into the ingest queue. It
// returns the number of postings enqueued. Provider failures are logged
// and skipped.
func (s *Service) Refresh(ctx context.Context, query string, countries []string) int {
	if len(countries) == 0 {
		countries = geo.DefaultTargetCountries
	}

	raws := s.fetchExternal(ctx, query, countries, 0)
	enqueued := 0
	for _, raw := range raws {
		if s.Ingest(ctx, raw, raw.Provider) {
			enqueued++
		}
	}

	s.logger.Info(ctx, "refresh round complete",
		logger.String("query", query),
		logger.Int("fetched", len(raws)),
		logger.Int("enqueued", enqueued),
	)
	return enqueued
}

// Search runs the full pipeline for one request: plan, gather, dedupe,
// categorize, rank, paginate.
func (s *Service) Search(ctx context.Context, params types.SearchParams, user *types.UserLocation) (*types.SearchResponse, error) {
	start := s.now()
	defer func() {
		metrics.RecordSearchLatency(float64(time.Since(start).Milliseconds()))
	}()

	params = s.canonicalize(params)

	if rec, ok := s.histories.(searchRecorder); ok && params.UserID != "" {
		rec.RecordSearch(ctx, params.UserID, params.Query)
	}

	key := s.cacheKey(params, user)
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn(ctx, "cache read failed", logger.Error(err))
	} else if ok {
		var resp types.SearchResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			metrics.RecordCacheHit()
			return &resp, nil
		}
		s.logger.Warn(ctx, "dropping undecodable cache entry", logger.String("key", key))
	}
	metrics.RecordCacheMiss()

	plan := s.planner.Plan(params, user)

	// Gather one job past the requested window so HasMore reflects what
	// the repository actually holds rather than guessing.
	window := params.Offset + params.Limit
	need := window + 1

	collected := make([]model.NormalizedJob, 0, need)
	var localCount, dbCount, externalCount, sampleCount, dupes int

	// Phase 1: city-filtered local slice, capped to its quota so country
	// results are never fully crowded out.
	if plan.LocalPhase() {
		filter := repository.Filter{
			Query:      params.Query,
			City:       plan.City,
			Country:    plan.Countries[0],
			ActiveOnly: true,
			Limit:      geo.LocalQuota(window),
		}
		jobs, err := s.store.Find(ctx, filter)
		if err != nil {
			s.logger.Warn(ctx, "local phase query failed", logger.Error(err))
		} else {
			collected = append(collected, jobs...)
			localCount = len(jobs)
		}
	}

	// Phase 2: country priority order, excluding what phase 1 found.
	exclude := jobIDs(collected)
	for _, country := range plan.Countries {
		remaining := need - len(collected)
		if remaining <= 0 {
			break
		}
		jobs, err := s.store.Find(ctx, repository.Filter{
			Query:      params.Query,
			Country:    country,
			ActiveOnly: true,
			ExcludeIDs: exclude,
			Limit:      remaining,
		})
		if err != nil {
			s.logger.Warn(ctx, "country phase query failed",
				logger.String("country", country),
				logger.Error(err),
			)
			continue
		}
		collected = append(collected, jobs...)
		exclude = append(exclude, jobIDs(jobs)...)
		dbCount += len(jobs)
	}

	// Phase 3: external providers when the repository came up short.
	if remaining := need - len(collected); remaining > 0 && len(s.registry.All()) > 0 {
		seen := make(map[string]struct{}, len(collected))
		for _, job := range collected {
			seen[dedupeKey(job)] = struct{}{}
		}

		for _, raw := range s.fetchExternal(ctx, params.Query, plan.Countries, remaining) {
			if len(collected) >= need {
				break
			}
			job := s.normalizer.Normalize(raw, raw.Provider)
			if _, dup := seen[dedupeKey(job)]; dup {
				dupes++
				continue
			}
			if res := s.detector.Detect(ctx, job); res.IsDuplicate {
				dupes++
				continue
			}
			seen[dedupeKey(job)] = struct{}{}
			collected = append(collected, job)
			externalCount++

			// Persist asynchronously so the next search hits the repository.
			s.Ingest(ctx, raw, raw.Provider)
		}
	}

	// Sample filler keeps thin markets usable. It only tops up the first
	// page: synthetic jobs never fabricate deeper pages, so paging past
	// the real data yields an empty page rather than endless filler.
	if remaining := window - len(collected); remaining > 0 && params.Offset == 0 {
		fill := s.sampler.Generate(remaining, params.Query)
		metrics.RecordSamplesCreated(len(fill))
		collected = append(collected, fill...)
		sampleCount = len(fill)
	}

	for i := range collected {
		res := s.categorizer.Categorize(collected[i])
		collected[i].Category = res.Category
	}

	var hist model.UserHistory
	if params.UserID != "" {
		h, err := s.histories.History(ctx, params.UserID)
		if err != nil {
			s.logger.Warn(ctx, "history assembly failed",
				logger.String("userID", params.UserID),
				logger.Error(err),
			)
		} else {
			hist = h
		}
	}

	rankings := s.ranker.Rank(collected, params.Query, params.Location, hist)

	byID := make(map[string]model.NormalizedJob, len(collected))
	for _, job := range collected {
		byID[job.ID] = job
	}
	ordered := make([]model.NormalizedJob, 0, len(rankings))
	for _, r := range rankings {
		ordered = append(ordered, byID[r.JobID])
	}

	total := len(ordered)
	from := params.Offset
	if from > total {
		from = total
	}
	to := from + params.Limit
	if to > total {
		to = total
	}

	resp := &types.SearchResponse{
		Jobs:     ordered[from:to],
		Rankings: rankings[from:to],
		Pagination: types.Pagination{
			Offset:  params.Offset,
			Limit:   params.Limit,
			Total:   total,
			HasMore: to < total,
		},
		Strategy: plan.Strategy,
		Phase:    geo.ClassifyPhase(localCount, total-localCount, plan.PrioritizeLocal),
		Sources: types.SourceCounts{
			Database: localCount + dbCount,
			External: externalCount,
			Sample:   sampleCount,
		},
		DuplicatesRemoved: dupes,
	}

	metrics.RecordDuplicatesPruned(dupes)
	metrics.RecordSearch(resp.Strategy, resp.Phase)

	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn(ctx, "cache write failed", logger.Error(err))
		}
	}

	return resp, nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)

		if total, err := s.store.Count(ctx, repository.Filter{}); err == nil {
			stats["totalJobs"] = total
			metrics.UpdateRepositoryJobs(total)
		}
	}

	return stats
}

// canonicalize clamps paging and normalizes country codes so equivalent
// requests share a cache key.
func (s *Service) canonicalize(params types.SearchParams) types.SearchParams {
	if params.Limit <= 0 {
		params.Limit = s.defaultLimit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	for i, c := range params.Countries {
		params.Countries[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return params
}

// cacheKey scopes the params key by the caller's geography: two anonymous
// users in different countries must not share results.
func (s *Service) cacheKey(params types.SearchParams, user *types.UserLocation) string {
	if user != nil {
		params.UserID = params.UserID + "|geo:" + strings.ToUpper(user.Country) + ":" + strings.ToLower(user.City)
	}
	return cache.Key(params)
}

// fetchExternal fans out to every provider for every country concurrently
// and merges the results. want is the number of jobs still needed; zero
// means one full page per provider and country. Individual provider
// failures degrade to empty slices.
func (s *Service) fetchExternal(ctx context.Context, query string, countries []string, want int) []model.RawJob {
	provs := s.registry.All()
	if len(provs) == 0 || len(countries) == 0 {
		return nil
	}

	perCountry := 0
	if want > 0 {
		perCountry = int(math.Ceil(float64(want) / float64(len(countries))))
	}

	var (
		mu   sync.Mutex
		out  []model.RawJob
		wg   sync.WaitGroup
		byCo = make(map[string]int, len(countries))
	)

	for _, country := range countries {
		for _, p := range provs {
			wg.Add(1)
			go func(p providers.Provider, country string) {
				defer wg.Done()

				fetchStart := time.Now()
				raws, err := p.Fetch(ctx, query, country, 1)
				metrics.RecordProviderFetchDuration(p.Name(), float64(time.Since(fetchStart).Milliseconds()))

				if err != nil {
					metrics.RecordProviderError(p.Name())
					s.logger.Warn(ctx, "provider fetch failed",
						logger.String("provider", p.Name()),
						logger.String("country", country),
						logger.Error(err),
					)
					return
				}
				if len(raws) == 0 {
					return
				}
				metrics.RecordProviderFetch(p.Name(), country)

				mu.Lock()
				defer mu.Unlock()
				for _, raw := range raws {
					if perCountry > 0 && byCo[country] >= perCountry {
						break
					}
					out = append(out, raw)
					byCo[country]++
				}
			}(p, country)
		}
	}
	wg.Wait()

	return out
}

// dedupeKey folds the fields that make two postings "the same job" for
// in-flight comparison, before either is persisted.
func dedupeKey(job model.NormalizedJob) string {
	return strings.ToLower(strings.TrimSpace(job.Title)) + "|" + strings.ToLower(strings.TrimSpace(job.Company))
}

func jobIDs(jobs []model.NormalizedJob) []string {
	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}
	return ids
}

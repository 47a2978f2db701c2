package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapters/history"
	"github.com/jobdeck/jobdeck/internal/adapters/providers"
	"github.com/jobdeck/jobdeck/internal/adapters/repository"
	service "github.com/jobdeck/jobdeck/internal/app"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/domain/types"
	"github.com/jobdeck/jobdeck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	logger.Init()
}

// countingStore wraps a Store and counts Find calls, so tests can observe
// whether a search was served from cache.
type countingStore struct {
	repository.Store
	finds int32
}

func (c *countingStore) Find(ctx context.Context, f repository.Filter) ([]model.NormalizedJob, error) {
	atomic.AddInt32(&c.finds, 1)
	return c.Store.Find(ctx, f)
}

// stubProvider returns one synthetic posting per fetch, titled by country.
type stubProvider struct {
	name string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, query, country string, page int) ([]model.RawJob, error) {
	return []model.RawJob{{
		Provider: p.name,
		Fields: map[string]any{
			"id":          p.name + "-" + country + "-1",
			"title":       "Go Developer " + country,
			"company":     "Globex " + country,
			"location":    "Capital City",
			"description": "Write Go services.",
			"country":     country,
		},
	}}, nil
}

func seedJob(ctx context.Context, store repository.Store, id, title, company, location, country string, postedAt time.Time) {
	_, err := store.Create(ctx, model.NormalizedJob{
		ID:       id,
		Title:    title,
		Company:  company,
		Location: location,
		Country:  country,
		Source:   "database",
		PostedAt: postedAt,
	})
	So(err, ShouldBeNil)
}

func TestSearchPagination(t *testing.T) {
	Convey("Given a repository with thirty equivalent jobs", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		posted := time.Now().Add(-2 * time.Hour)
		for i := 1; i <= 30; i++ {
			seedJob(ctx, store, fmt.Sprintf("job-%02d", i), "Backend Engineer", "Acme", "Bangalore, India", "IN", posted)
		}

		svc := service.New(service.WithStore(store))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		params := types.SearchParams{Query: "engineer", Limit: 10}

		Convey("When the first page is requested", func() {
			resp, err := svc.Search(ctx, params, nil)
			So(err, ShouldBeNil)

			Convey("Then the window is honored and more pages are reported", func() {
				So(len(resp.Jobs), ShouldEqual, 10)
				So(resp.Pagination.Offset, ShouldEqual, 0)
				So(resp.Pagination.Limit, ShouldEqual, 10)
				So(resp.Pagination.HasMore, ShouldBeTrue)
			})

			Convey("Then equal scores break ties by job ID", func() {
				for i := 1; i <= 10; i++ {
					So(resp.Jobs[i-1].ID, ShouldEqual, fmt.Sprintf("job-%02d", i))
				}
			})

			Convey("Then rankings align with jobs positionally", func() {
				So(len(resp.Rankings), ShouldEqual, len(resp.Jobs))
				for i, r := range resp.Rankings {
					So(r.JobID, ShouldEqual, resp.Jobs[i].ID)
				}
			})
		})

		Convey("When the last page is requested", func() {
			params.Offset = 20
			resp, err := svc.Search(ctx, params, nil)
			So(err, ShouldBeNil)

			Convey("Then it is full and final", func() {
				So(len(resp.Jobs), ShouldEqual, 10)
				So(resp.Jobs[0].ID, ShouldEqual, "job-21")
				So(resp.Pagination.HasMore, ShouldBeFalse)
			})
		})

		Convey("When the offset runs past the data", func() {
			params.Offset = 500
			resp, err := svc.Search(ctx, params, nil)
			So(err, ShouldBeNil)

			Convey("Then the page is empty, not an error", func() {
				So(resp.Jobs, ShouldBeEmpty)
				So(resp.Pagination.HasMore, ShouldBeFalse)
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			resp, err := svc.Search(ctx, types.SearchParams{Query: "engineer", Limit: 5000}, nil)
			So(err, ShouldBeNil)

			Convey("Then it is clamped", func() {
				So(resp.Pagination.Limit, ShouldEqual, 100)
			})
		})

		Convey("When no limit is given", func() {
			resp, err := svc.Search(ctx, types.SearchParams{Query: "engineer"}, nil)
			So(err, ShouldBeNil)

			Convey("Then the default applies", func() {
				So(resp.Pagination.Limit, ShouldEqual, 20)
			})
		})
	})
}

func TestSearchLocalPriority(t *testing.T) {
	Convey("Given react jobs in two Indian cities and one in the US", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		posted := time.Now().Add(-2 * time.Hour)
		seedJob(ctx, store, "react-blr", "React Developer", "Acme", "Bangalore, India", "IN", posted)
		seedJob(ctx, store, "react-mum", "React Developer", "Beta Corp", "Mumbai, India", "IN", posted)
		seedJob(ctx, store, "react-us", "React Developer", "Gamma Inc", "New York, US", "US", posted)

		svc := service.New(service.WithStore(store))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		user := &types.UserLocation{Country: "IN", City: "Bangalore"}
		params := types.SearchParams{Query: "react developer", Location: "Bangalore", Limit: 3}

		resp, err := svc.Search(ctx, params, user)
		So(err, ShouldBeNil)

		Convey("Then the strategy is local and the phase mixed", func() {
			So(resp.Strategy, ShouldEqual, "local")
			So(resp.Phase, ShouldEqual, "country_fallback")
		})

		Convey("Then the Bangalore job ranks first and ties break by ID", func() {
			So(len(resp.Jobs), ShouldEqual, 3)
			So(resp.Jobs[0].ID, ShouldEqual, "react-blr")
			So(resp.Jobs[1].ID, ShouldEqual, "react-mum")
			So(resp.Jobs[2].ID, ShouldEqual, "react-us")
			So(resp.Rankings[0].Score, ShouldBeGreaterThan, resp.Rankings[1].Score)
			So(resp.Rankings[1].Score, ShouldBeGreaterThanOrEqualTo, resp.Rankings[2].Score)
		})

		Convey("Then the phases never return the same job twice", func() {
			ids := make(map[string]int)
			for _, job := range resp.Jobs {
				ids[job.ID]++
			}
			for id, n := range ids {
				So(n, ShouldEqual, 1)
				So(id, ShouldNotBeEmpty)
			}
		})

		Convey("Then everything came from the repository", func() {
			So(resp.Sources.Database, ShouldEqual, 3)
			So(resp.Sources.External, ShouldEqual, 0)
			So(resp.Sources.Sample, ShouldEqual, 0)
			So(resp.Pagination.HasMore, ShouldBeFalse)
		})

		Convey("Then every job carries a category", func() {
			for _, job := range resp.Jobs {
				So(job.Category, ShouldNotBeEmpty)
			}
			So(resp.Jobs[0].Category, ShouldEqual, "Technology")
		})
	})
}

func TestSearchSampleFiller(t *testing.T) {
	Convey("Given an empty repository and no providers", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		resp, err := svc.Search(ctx, types.SearchParams{Query: "react developer", Limit: 5}, nil)
		So(err, ShouldBeNil)

		Convey("Then sample jobs fill the window", func() {
			So(len(resp.Jobs), ShouldEqual, 5)
			So(resp.Sources.Sample, ShouldEqual, 5)
			So(resp.Sources.Database, ShouldEqual, 0)
			So(resp.Pagination.HasMore, ShouldBeFalse)
			for _, job := range resp.Jobs {
				So(job.ID, ShouldStartWith, "sample-")
				So(job.Category, ShouldNotBeEmpty)
			}
		})

		Convey("Then the anonymous global strategy is reported", func() {
			So(resp.Strategy, ShouldEqual, "global")
			So(resp.Phase, ShouldEqual, "global")
		})
	})
}

func TestSearchCache(t *testing.T) {
	Convey("Given a service over a counting store", t, func() {
		ctx := context.Background()
		counting := &countingStore{Store: repository.NewMemStore()}
		posted := time.Now().Add(-2 * time.Hour)
		seedJob(ctx, counting.Store, "dev-1", "Backend Engineer", "Acme", "Bangalore, India", "IN", posted)

		svc := service.New(service.WithStore(counting))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		params := types.SearchParams{Query: "engineer", Limit: 5}

		first, err := svc.Search(ctx, params, nil)
		So(err, ShouldBeNil)
		findsAfterFirst := atomic.LoadInt32(&counting.finds)
		So(findsAfterFirst, ShouldBeGreaterThan, 0)

		Convey("When the same search repeats", func() {
			second, err := svc.Search(ctx, params, nil)
			So(err, ShouldBeNil)

			Convey("Then it is served from cache without touching the store", func() {
				So(atomic.LoadInt32(&counting.finds), ShouldEqual, findsAfterFirst)
				So(second.Pagination, ShouldResemble, first.Pagination)
				So(len(second.Jobs), ShouldEqual, len(first.Jobs))
			})
		})

		Convey("When the geography differs", func() {
			_, err := svc.Search(ctx, params, &types.UserLocation{Country: "US"})
			So(err, ShouldBeNil)

			Convey("Then the store is queried again", func() {
				So(atomic.LoadInt32(&counting.finds), ShouldBeGreaterThan, findsAfterFirst)
			})
		})
	})
}

func TestSearchExternalProviders(t *testing.T) {
	Convey("Given an empty repository and a stub provider", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		svc := service.New(
			service.WithStore(store),
			service.WithProviders(providers.NewRegistry(&stubProvider{name: "stub"})),
		)
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		resp, err := svc.Search(ctx, types.SearchParams{Query: "go developer", Limit: 2}, nil)
		So(err, ShouldBeNil)

		Convey("Then external postings fill the page before samples", func() {
			So(len(resp.Jobs), ShouldEqual, 2)
			So(resp.Sources.External, ShouldBeGreaterThanOrEqualTo, 2)
			So(resp.Sources.Sample, ShouldEqual, 0)
			for _, job := range resp.Jobs {
				So(job.Source, ShouldEqual, "stub")
			}
		})

		Convey("Then fetched postings are persisted in the background", func() {
			deadline := time.Now().Add(2 * time.Second)
			count := 0
			for time.Now().Before(deadline) {
				count, _ = store.Count(ctx, repository.Filter{})
				if count > 0 {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}
			So(count, ShouldBeGreaterThan, 0)
		})
	})
}

func TestSearchUserHistory(t *testing.T) {
	Convey("Given a user with recorded history", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		posted := time.Now().Add(-2 * time.Hour)
		seedJob(ctx, store, "fit", "React Developer", "Acme", "Bangalore, India", "IN", posted)
		seedJob(ctx, store, "misfit", "React Developer", "Beta Corp", "Chennai, India", "IN", posted)

		recorder := history.NewRecorder()
		recorder.SetPreferences(ctx, "u1", history.Preferences{
			Companies: []string{"Acme"},
			Locations: []string{"Bangalore"},
		})

		svc := service.New(service.WithStore(store), service.WithHistorySource(recorder))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		resp, err := svc.Search(ctx, types.SearchParams{Query: "react developer", UserID: "u1", Limit: 2}, nil)
		So(err, ShouldBeNil)

		Convey("Then the preferred company and location win the tie", func() {
			So(len(resp.Jobs), ShouldEqual, 2)
			So(resp.Jobs[0].ID, ShouldEqual, "fit")
			So(resp.Rankings[0].Breakdown.History, ShouldBeGreaterThan, resp.Rankings[1].Breakdown.History)
		})

		Convey("Then the search itself lands in the user's trail", func() {
			h, err := svc.Histories().History(ctx, "u1")
			So(err, ShouldBeNil)
			So(h.RecentSearches, ShouldContain, "react developer")
		})
	})
}

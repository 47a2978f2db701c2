package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapters/repository"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func seedJobs(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()

	jobs := []model.NormalizedJob{
		{
			ID: "dev-blr", Title: "React Developer", Company: "Acme Corp",
			Location: "Bangalore, Karnataka, India", Source: "adzuna",
			Country: "IN", Description: "Frontend work with React.",
			PostedAt: base.Add(48 * time.Hour), CreatedAt: base,
		},
		{
			ID: "dev-mum", Title: "Backend Engineer", Company: "Globex",
			Location: "Mumbai, India", Source: "jsearch",
			Country: "IN", Description: "Go services.",
			PostedAt: base.Add(24 * time.Hour), CreatedAt: base,
		},
		{
			ID: "nurse-us", Title: "Registered Nurse", Company: "City Medical",
			Location: "Austin, Texas", Source: "adzuna",
			Country: "US", Description: "Patient care.",
			PostedAt: base, CreatedAt: base,
		},
	}
	for _, j := range jobs {
		if _, err := store.Create(ctx, j); err != nil {
			t.Fatalf("seed %s: %v", j.ID, err)
		}
	}
}

// conformance runs the shared filter-semantics suite against one backend.
func conformance(t *testing.T, name string, open func(t *testing.T) repository.Store) {
	ctx := context.Background()

	Convey("Given a seeded "+name+" store", t, func() {
		store := open(t)
		seedJobs(t, store)

		Convey("When finding without a filter", func() {
			jobs, err := store.Find(ctx, repository.Filter{})

			Convey("Then every job returns, newest posting first", func() {
				So(err, ShouldBeNil)
				So(jobs, ShouldHaveLength, 3)
				So(jobs[0].ID, ShouldEqual, "dev-blr")
				So(jobs[2].ID, ShouldEqual, "nurse-us")
			})
		})

		Convey("When filtering by free-text query", func() {
			jobs, err := store.Find(ctx, repository.Filter{Query: "react"})

			Convey("Then title and description match case-insensitively", func() {
				So(err, ShouldBeNil)
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].ID, ShouldEqual, "dev-blr")
			})
		})

		Convey("When filtering by location substring", func() {
			jobs, err := store.Find(ctx, repository.Filter{Location: "india"})

			Convey("Then both Indian postings match", func() {
				So(err, ShouldBeNil)
				So(jobs, ShouldHaveLength, 2)
			})
		})

		Convey("When filtering by city", func() {
			jobs, err := store.Find(ctx, repository.Filter{City: "Bangalore"})

			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 1)
			So(jobs[0].ID, ShouldEqual, "dev-blr")
		})

		Convey("When filtering by source and country", func() {
			jobs, err := store.Find(ctx, repository.Filter{Source: "adzuna", Country: "in"})

			Convey("Then filters combine with AND", func() {
				So(err, ShouldBeNil)
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].ID, ShouldEqual, "dev-blr")
			})
		})

		Convey("When excluding ids", func() {
			jobs, err := store.Find(ctx, repository.Filter{ExcludeIDs: []string{"dev-blr", "dev-mum"}})

			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 1)
			So(jobs[0].ID, ShouldEqual, "nurse-us")
		})

		Convey("When limiting", func() {
			jobs, err := store.Find(ctx, repository.Filter{Limit: 2})
			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 2)

			Convey("Then Count ignores the limit", func() {
				n, err := store.Count(ctx, repository.Filter{Limit: 2})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
			})
		})

		Convey("When filtering by created-after", func() {
			jobs, err := store.Find(ctx, repository.Filter{CreatedAfter: base.Add(-time.Hour)})
			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 3)

			none, err := store.Find(ctx, repository.Filter{CreatedAfter: base.Add(time.Hour)})
			So(err, ShouldBeNil)
			So(none, ShouldBeEmpty)
		})

		Convey("When creating a job without an id", func() {
			created, err := store.Create(ctx, model.NormalizedJob{
				Title: "Data Analyst", Company: "Initech", PostedAt: base,
			})

			Convey("Then an id and creation stamp are assigned and it enters active", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeEmpty)
				So(created.CreatedAt.IsZero(), ShouldBeFalse)
				So(created.IsActive, ShouldBeTrue)
			})
		})

		Convey("When creating a job with a taken id", func() {
			_, err := store.Create(ctx, model.NormalizedJob{ID: "dev-blr", PostedAt: base})

			Convey("Then the duplicate-id sentinel returns", func() {
				So(err, ShouldEqual, repository.ErrDuplicateID)
			})
		})
	})
}

func TestMemStoreConformance(t *testing.T) {
	conformance(t, "in-memory", func(t *testing.T) repository.Store {
		store := repository.NewMemStore()
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestSQLStoreConformance(t *testing.T) {
	conformance(t, "sqlite", func(t *testing.T) repository.Store {
		store, err := repository.NewSQLStore(":memory:")
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestSQLStoreRoundTrip(t *testing.T) {
	Convey("Given a sqlite store", t, func() {
		store, err := repository.NewSQLStore(":memory:")
		So(err, ShouldBeNil)
		defer store.Close()

		ctx := context.Background()
		minSalary, maxSalary := 30000.0, 50000.0
		job := model.NormalizedJob{
			ID:       "full-job",
			Title:    "React Developer",
			Company:  "Acme Corp",
			Location: "Bangalore, India",
			Type:     model.JobTypeFullTime,
			Salary: model.Salary{
				Min: &minSalary, Max: &maxSalary,
				Currency: "INR", Display: "₹ 30,000 - ₹ 50,000",
			},
			Category:        "Technology",
			PostedAt:        base,
			Source:          "adzuna",
			SourceID:        "az-1",
			Description:     "Build UIs.",
			Requirements:    "3+ years experience",
			ApplyURL:        "https://example.com/apply",
			IsRemote:        true,
			ExperienceLevel: model.ExperienceSenior,
			Skills:          []string{"javascript", "react"},
			Sector:          "Technology",
			Country:         "IN",
		}

		Convey("When a fully populated job round-trips", func() {
			_, err := store.Create(ctx, job)
			So(err, ShouldBeNil)

			got, err := store.Find(ctx, repository.Filter{Source: "adzuna"})
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)

			Convey("Then every field survives storage", func() {
				j := got[0]
				So(j.Title, ShouldEqual, job.Title)
				So(j.Type, ShouldEqual, model.JobTypeFullTime)
				So(*j.Salary.Min, ShouldEqual, minSalary)
				So(*j.Salary.Max, ShouldEqual, maxSalary)
				So(j.Salary.Display, ShouldEqual, job.Salary.Display)
				So(j.Skills, ShouldResemble, job.Skills)
				So(j.IsRemote, ShouldBeTrue)
				So(j.ExperienceLevel, ShouldEqual, model.ExperienceSenior)
				So(j.PostedAt.Equal(base), ShouldBeTrue)
				So(j.IsActive, ShouldBeTrue)
			})
		})
	})
}

func TestCandidateFinder(t *testing.T) {
	Convey("Given a store with recent and stale postings", t, func() {
		now := base.Add(40 * 24 * time.Hour)
		store := repository.NewMemStore(repository.WithMemClock(func() time.Time { return now }))
		defer store.Close()
		ctx := context.Background()

		recent := model.NormalizedJob{
			ID: "recent", Title: "React Developer", Company: "Acme Corp",
			Source: "adzuna", PostedAt: now, CreatedAt: now.Add(-24 * time.Hour),
		}
		sameCompany := model.NormalizedJob{
			ID: "same-company", Title: "React Engineer", Company: "Acme Corp",
			Source: "jooble", PostedAt: now, CreatedAt: now.Add(-24 * time.Hour),
		}
		stale := model.NormalizedJob{
			ID: "stale", Title: "React Developer", Company: "Acme Corp",
			Source: "adzuna", PostedAt: base, CreatedAt: base,
		}
		unrelated := model.NormalizedJob{
			ID: "unrelated", Title: "Chef", Company: "Bistro",
			Source: "jsearch", PostedAt: now, CreatedAt: now.Add(-24 * time.Hour),
		}
		for _, j := range []model.NormalizedJob{recent, sameCompany, stale, unrelated} {
			_, err := store.Create(ctx, j)
			So(err, ShouldBeNil)
		}

		finder := repository.NewCandidateFinder(store)
		incoming := model.NormalizedJob{
			ID: "incoming", Title: "React Developer", Company: "Acme Corp", Source: "adzuna",
		}

		Convey("When candidates are fetched with a 30-day window", func() {
			since := now.Add(-30 * 24 * time.Hour)
			candidates, err := finder.Candidates(ctx, incoming, since)

			Convey("Then same-source and same-company recents return once each", func() {
				So(err, ShouldBeNil)
				ids := make([]string, 0, len(candidates))
				for _, c := range candidates {
					ids = append(ids, c.ID)
				}
				So(ids, ShouldContain, "recent")
				So(ids, ShouldContain, "same-company")
				So(ids, ShouldNotContain, "stale")
				So(ids, ShouldNotContain, "unrelated")
				So(candidates, ShouldHaveLength, 2)
			})
		})
	})
}

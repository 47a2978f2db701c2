package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobdeck/jobdeck/internal/adapters/providers"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAdzuna_Fetch(t *testing.T) {
	ctx := context.Background()

	Convey("Given a responding Adzuna API", t, func() {
		var gotPath, gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("what")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"count": 1,
				"results": [{
					"id": "12345",
					"title": "React Developer",
					"description": "Frontend role",
					"company": {"display_name": "Acme Corp"},
					"location": {"display_name": "Bangalore, India"},
					"salary_min": 30000,
					"salary_max": 50000,
					"redirect_url": "https://adzuna.example/j/12345",
					"created": "2025-06-01T00:00:00Z",
					"contract_time": "full_time"
				}]
			}`))
		}))
		defer srv.Close()

		client := providers.NewAdzuna("app-id", "app-key", providers.WithAdzunaBaseURL(srv.URL))

		Convey("When fetching a page", func() {
			jobs, err := client.Fetch(ctx, "react developer", "IN", 1)

			Convey("Then the request routes by lowercase country", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/in/search/1")
				So(gotQuery, ShouldEqual, "react developer")
			})

			Convey("Then raw fields carry the provider's names", func() {
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].Provider, ShouldEqual, "adzuna")
				So(jobs[0].Fields["title"], ShouldEqual, "React Developer")
				So(jobs[0].Fields["company"], ShouldEqual, "Acme Corp")
				So(jobs[0].Fields["salary_min"], ShouldEqual, 30000.0)
				So(jobs[0].Fields["redirect_url"], ShouldEqual, "https://adzuna.example/j/12345")
				So(jobs[0].Fields["country"], ShouldEqual, "IN")
			})
		})
	})

	Convey("Given missing credentials", t, func() {
		client := providers.NewAdzuna("", "")

		Convey("When fetching", func() {
			jobs, err := client.Fetch(ctx, "react", "IN", 1)

			Convey("Then the provider skips silently", func() {
				So(err, ShouldBeNil)
				So(jobs, ShouldBeNil)
			})
		})
	})

	Convey("Given an erroring Adzuna API", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := providers.NewAdzuna("id", "key", providers.WithAdzunaBaseURL(srv.URL))

		Convey("When fetching", func() {
			_, err := client.Fetch(ctx, "react", "IN", 1)

			Convey("Then the status code surfaces in the error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "429")
			})
		})
	})
}

func TestJSearch_Fetch(t *testing.T) {
	ctx := context.Background()

	Convey("Given a responding JSearch API", t, func() {
		var gotKey, gotCountry string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-RapidAPI-Key")
			gotCountry = r.URL.Query().Get("country")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"data": [{
					"job_id": "js-1",
					"job_title": "Backend Engineer",
					"employer_name": "Globex",
					"job_city": "Mumbai",
					"job_country": "IN",
					"job_description": "Go services",
					"job_employment_type": "FULLTIME",
					"job_is_remote": false,
					"job_posted_at_datetime_utc": "2025-06-01T00:00:00Z",
					"job_apply_link": "https://jsearch.example/j/1",
					"job_min_salary": 900000,
					"job_salary_currency": "INR"
				}]
			}`))
		}))
		defer srv.Close()

		client := providers.NewJSearch("rapid-key", providers.WithJSearchBaseURL(srv.URL))

		Convey("When fetching a page", func() {
			jobs, err := client.Fetch(ctx, "backend engineer", "in", 1)

			Convey("Then auth and country params are set", func() {
				So(err, ShouldBeNil)
				So(gotKey, ShouldEqual, "rapid-key")
				So(gotCountry, ShouldEqual, "IN")
			})

			Convey("Then raw fields carry the provider's names", func() {
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].Provider, ShouldEqual, "jsearch")
				So(jobs[0].Fields["job_title"], ShouldEqual, "Backend Engineer")
				So(jobs[0].Fields["employer_name"], ShouldEqual, "Globex")
				So(jobs[0].Fields["job_city"], ShouldEqual, "Mumbai")
				So(jobs[0].Fields["job_type"], ShouldEqual, "FULLTIME")
				So(jobs[0].Fields["currency"], ShouldEqual, "INR")
			})
		})
	})

	Convey("Given a missing API key", t, func() {
		client := providers.NewJSearch("")
		jobs, err := client.Fetch(ctx, "any", "IN", 1)

		Convey("Then the provider skips silently", func() {
			So(err, ShouldBeNil)
			So(jobs, ShouldBeNil)
		})
	})
}

func TestJooble_Fetch(t *testing.T) {
	ctx := context.Background()

	Convey("Given a responding Jooble API", t, func() {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"totalCount": 1,
				"jobs": [{
					"id": 987654,
					"title": "Chef de Partie",
					"location": "Paris",
					"snippet": "Kitchen brigade role",
					"salary": "2500 - 3000",
					"type": "Full-time",
					"link": "https://jooble.example/j/987654",
					"company": "Bistro",
					"updated": "2025-06-01T00:00:00Z"
				}]
			}`))
		}))
		defer srv.Close()

		client := providers.NewJooble("jooble-key", providers.WithJoobleBaseURL(srv.URL))

		Convey("When fetching a page", func() {
			jobs, err := client.Fetch(ctx, "chef", "FR", 1)

			Convey("Then the API key rides in the URL path", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/jooble-key")
			})

			Convey("Then raw fields carry the provider's names", func() {
				So(jobs, ShouldHaveLength, 1)
				So(jobs[0].Provider, ShouldEqual, "jooble")
				So(jobs[0].Fields["id"], ShouldEqual, "987654")
				So(jobs[0].Fields["title"], ShouldEqual, "Chef de Partie")
				So(jobs[0].Fields["salary"], ShouldEqual, "2500 - 3000")
				So(jobs[0].Fields["country"], ShouldEqual, "FR")
			})
		})
	})

	Convey("Given a missing API key", t, func() {
		client := providers.NewJooble("")
		jobs, err := client.Fetch(ctx, "chef", "FR", 1)

		Convey("Then the provider skips silently", func() {
			So(err, ShouldBeNil)
			So(jobs, ShouldBeNil)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry of providers", t, func() {
		adzuna := providers.NewAdzuna("", "")
		jooble := providers.NewJooble("")
		reg := providers.NewRegistry(adzuna, jooble)

		Convey("Then it preserves registration order", func() {
			all := reg.All()
			So(all, ShouldHaveLength, 2)
			So(all[0].Name(), ShouldEqual, "adzuna")
			So(all[1].Name(), ShouldEqual, "jooble")
		})
	})
}

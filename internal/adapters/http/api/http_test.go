package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobdeck/jobdeck/internal/adapters/http/api"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/domain/types"
	"github.com/jobdeck/jobdeck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	logger.Init()
}

// stubDeps captures what handlers pass down and controls their outcomes.
type stubDeps struct {
	gotParams types.SearchParams
	gotUser   *types.UserLocation
	gotRaw    model.RawJob
	gotSource string

	searchErr error
	ingestOK  bool
}

func (s *stubDeps) Search(ctx context.Context, params types.SearchParams, user *types.UserLocation) (*types.SearchResponse, error) {
	s.gotParams = params
	s.gotUser = user
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return &types.SearchResponse{
		Jobs:       []model.NormalizedJob{{ID: "job-1", Title: "Backend Engineer"}},
		Pagination: types.Pagination{Offset: params.Offset, Limit: params.Limit, Total: 1},
		Strategy:   "global",
		Phase:      "global",
	}, nil
}

func (s *stubDeps) Ingest(ctx context.Context, raw model.RawJob, source string) bool {
	s.gotRaw = raw
	s.gotSource = source
	return s.ingestOK
}

func (s *stubDeps) Stats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestSearchEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{ingestOK: true}
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When searching with full parameters", func() {
			req, _ := http.NewRequest(http.MethodGet,
				ts.URL+"/api/v1/jobs/search?q=react+developer&location=Bangalore&countries=in,us&user_id=u1&offset=10&limit=5", nil)
			req.Header.Set("X-User-Country", "IN")
			req.Header.Set("X-User-City", "Bangalore")

			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the request succeeds", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "application/json")
			})

			Convey("Then parameters reach the service intact", func() {
				So(deps.gotParams.Query, ShouldEqual, "react developer")
				So(deps.gotParams.Location, ShouldEqual, "Bangalore")
				So(deps.gotParams.Countries, ShouldResemble, []string{"in", "us"})
				So(deps.gotParams.UserID, ShouldEqual, "u1")
				So(deps.gotParams.Offset, ShouldEqual, 10)
				So(deps.gotParams.Limit, ShouldEqual, 5)
			})

			Convey("Then geo headers become the user location", func() {
				So(deps.gotUser, ShouldNotBeNil)
				So(deps.gotUser.Country, ShouldEqual, "IN")
				So(deps.gotUser.City, ShouldEqual, "Bangalore")
			})
		})

		Convey("When no geo headers are sent", func() {
			resp, err := http.Get(ts.URL + "/api/v1/jobs/search?q=nurse")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the user location is nil", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.gotUser, ShouldBeNil)
			})
		})

		Convey("When the offset is not a number", func() {
			resp, err := http.Get(ts.URL + "/api/v1/jobs/search?offset=abc")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is negative", func() {
			resp, err := http.Get(ts.URL + "/api/v1/jobs/search?limit=-1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is wrong", func() {
			resp, err := http.Post(ts.URL+"/api/v1/jobs/search", "application/json", strings.NewReader("{}"))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestIngestEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{ingestOK: true}
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When posting a valid job", func() {
			body := `{"source":"partner-feed","fields":{"title":"Backend Engineer","company":"Acme"}}`
			resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it is accepted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(deps.gotSource, ShouldEqual, "partner-feed")
				So(deps.gotRaw.Fields["title"], ShouldEqual, "Backend Engineer")
			})
		})

		Convey("When the body is not JSON", func() {
			resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader("not json"))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the source is missing", func() {
			resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader(`{"fields":{"title":"x"}}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the fields are missing", func() {
			resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader(`{"source":"partner-feed"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue pushes back", func() {
			deps.ingestOK = false
			body := `{"source":"partner-feed","fields":{"title":"Backend Engineer"}}`
			resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := &stubDeps{ingestOK: true}
		ts := newTestServer(deps)
		Reset(ts.Close)

		Convey("When stats are requested", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldStartWith, "application/json")
		})

		Convey("When health is probed", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}

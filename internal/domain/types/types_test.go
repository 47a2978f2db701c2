package types_test

import (
	"testing"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	types "github.com/jobdeck/jobdeck/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSearchParams(t *testing.T) {
	Convey("Given search parameters", t, func() {
		Convey("When fully populated", func() {
			p := types.SearchParams{
				Query:     "react developer",
				Location:  "Bangalore",
				Countries: []string{"IN", "US"},
				UserID:    "user-1",
				Offset:    20,
				Limit:     10,
			}

			Convey("Then all fields carry through", func() {
				So(p.Query, ShouldEqual, "react developer")
				So(p.Countries, ShouldResemble, []string{"IN", "US"})
				So(p.Offset, ShouldEqual, 20)
			})
		})

		Convey("When zero-valued", func() {
			p := types.SearchParams{}

			Convey("Then defaults are empty", func() {
				So(p.Query, ShouldBeEmpty)
				So(p.Countries, ShouldBeNil)
				So(p.Limit, ShouldEqual, 0)
			})
		})
	})
}

func TestSearchResponse(t *testing.T) {
	Convey("Given a search response", t, func() {
		resp := types.SearchResponse{
			Jobs: []model.NormalizedJob{{ID: "a"}, {ID: "b"}},
			Pagination: types.Pagination{
				Offset:  0,
				Limit:   2,
				Total:   5,
				HasMore: true,
			},
			Strategy:          "local",
			Phase:             "country_fallback",
			Sources:           types.SourceCounts{Database: 3, External: 2},
			DuplicatesRemoved: 1,
		}

		Convey("Then the page never exceeds its limit", func() {
			So(len(resp.Jobs), ShouldBeLessThanOrEqualTo, resp.Pagination.Limit)
		})

		Convey("Then counts and metadata carry through", func() {
			So(resp.Sources.Database, ShouldEqual, 3)
			So(resp.Sources.External, ShouldEqual, 2)
			So(resp.Sources.Sample, ShouldEqual, 0)
			So(resp.DuplicatesRemoved, ShouldEqual, 1)
			So(resp.Strategy, ShouldEqual, "local")
		})
	})
}

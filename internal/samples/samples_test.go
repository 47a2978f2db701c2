package samples_test

import (
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/samples"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator_Generate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := samples.WithClock(func() time.Time { return now })

	Convey("Given a seeded generator", t, func() {
		g := samples.New(42, clock)

		Convey("When generating filler jobs", func() {
			jobs := g.Generate(10, "react developer")

			Convey("Then the requested count is produced", func() {
				So(jobs, ShouldHaveLength, 10)
			})

			Convey("Then every job is a complete active posting", func() {
				for _, j := range jobs {
					So(j.ID, ShouldNotBeEmpty)
					So(j.Title, ShouldNotBeEmpty)
					So(j.Company, ShouldNotBeEmpty)
					So(j.Source, ShouldEqual, samples.Source)
					So(j.Country, ShouldEqual, "IN")
					So(j.IsActive, ShouldBeTrue)
					So(j.Salary.Min, ShouldNotBeNil)
					So(j.PostedAt.After(now.Add(-15*24*time.Hour)), ShouldBeTrue)
				}
			})
		})

		Convey("When generating with the same seed twice", func() {
			first := samples.New(7, clock).Generate(5, "chef")
			second := samples.New(7, clock).Generate(5, "chef")

			Convey("Then the output is identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When generating with different seeds", func() {
			a := samples.New(1, clock).Generate(8, "")
			b := samples.New(2, clock).Generate(8, "")

			Convey("Then the outputs differ", func() {
				So(a, ShouldNotResemble, b)
			})
		})

		Convey("When asking for no jobs", func() {
			So(g.Generate(0, "any"), ShouldBeNil)
			So(g.Generate(-3, "any"), ShouldBeNil)
		})
	})
}

package classify_test

import (
	"testing"

	"github.com/jobdeck/jobdeck/internal/domain/classify"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategorizer_Categorize(t *testing.T) {
	c := classify.New()

	Convey("Given a software engineering job", t, func() {
		job := model.NormalizedJob{
			Title:       "Senior React Developer",
			Description: "Build frontend applications with React and TypeScript. Work with backend APIs.",
			Company:     "Acme Software",
			Skills:      []string{"React", "JavaScript"},
		}

		Convey("When it is categorized", func() {
			res := c.Categorize(job)

			Convey("Then it lands in Technology", func() {
				So(res.Category, ShouldEqual, "Technology")
				So(res.Confidence, ShouldBeGreaterThan, 0)
				So(res.Confidence, ShouldBeLessThanOrEqualTo, 1)
			})

			Convey("And matched keywords are reported", func() {
				So(res.Keywords, ShouldContain, "react")
				So(res.Keywords, ShouldContain, "developer")
			})

			Convey("And frontend and backend subcategories fire", func() {
				So(res.Subcategories, ShouldContain, "Frontend Development")
				So(res.Subcategories, ShouldContain, "Backend Development")
			})
		})
	})

	Convey("Given a nursing job", t, func() {
		job := model.NormalizedJob{
			Title:       "Registered Nurse",
			Description: "Provide patient care at our hospital clinic.",
			Company:     "City Medical Center",
		}

		res := c.Categorize(job)

		Convey("Then it lands in Healthcare with a Nursing subcategory", func() {
			So(res.Category, ShouldEqual, "Healthcare")
			So(res.Subcategories, ShouldContain, "Nursing")
		})
	})

	Convey("Given an accounting job", t, func() {
		job := model.NormalizedJob{
			Title:       "Staff Accountant",
			Description: "Prepare financial statements, handle tax and audit work.",
			Company:     "Ledger & Co",
		}

		res := c.Categorize(job)

		Convey("Then it lands in Finance with an Accounting subcategory", func() {
			So(res.Category, ShouldEqual, "Finance")
			So(res.Subcategories, ShouldContain, "Accounting")
		})
	})

	Convey("Given a job that matches nothing", t, func() {
		job := model.NormalizedJob{
			Title:       "Zookeeper",
			Description: "Feed the pandas.",
			Company:     "Wildlife Sanctuary",
		}

		res := c.Categorize(job)

		Convey("Then it falls back to General", func() {
			So(res.Category, ShouldEqual, classify.GeneralCategory)
		})
	})

	Convey("Given an administrative job that also brushes a specific category", t, func() {
		job := model.NormalizedJob{
			Title:       "Office Administrator",
			Description: "General office administration and reception duties.",
			Company:     "Front Desk Inc",
		}

		res := c.Categorize(job)

		Convey("Then a category is always assigned", func() {
			So(res.Category, ShouldNotBeEmpty)
			So(res.Confidence, ShouldBeBetweenOrEqual, 0, 1)
		})
	})

	Convey("Given a plural form of a keyword", t, func() {
		job := model.NormalizedJob{
			Title:       "Paralegals wanted",
			Description: "Support litigation teams on contracts.",
			Company:     "Lex Partners",
		}

		res := c.Categorize(job)

		Convey("Then suffix stripping still matches the Legal taxonomy", func() {
			So(res.Category, ShouldEqual, "Legal")
		})
	})
}

func TestCategorizer_CustomTaxonomy(t *testing.T) {
	Convey("Given a categorizer with a custom taxonomy", t, func() {
		c := classify.New(classify.WithCategories([]classify.Category{
			{ID: "space", Name: "Space", Keywords: []string{"rocket", "orbit"}, Weight: 1.0},
		}))

		Convey("Then the custom categories replace the defaults", func() {
			So(c.Categories(), ShouldHaveLength, 1)

			res := c.Categorize(model.NormalizedJob{Title: "Rocket Technician"})
			So(res.Category, ShouldEqual, "Space")
		})
	})
}

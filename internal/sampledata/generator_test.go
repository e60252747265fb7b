package sampledata_test

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/velocast/internal/sampledata"
)

func TestGenerate(t *testing.T) {
	start := time.Date(2012, 9, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a two-day configuration", t, func() {
		recs := sampledata.Generate(sampledata.Config{Start: start, Days: 2, Seed: 3})

		Convey("Then it yields one record per hour in order", func() {
			So(recs, ShouldHaveLength, 48)
			So(recs[0].Date.Equal(start), ShouldBeTrue)
			So(recs[25].Hour, ShouldEqual, 1.0)
			So(recs[25].Date.Equal(start.AddDate(0, 0, 1)), ShouldBeTrue)
		})

		Convey("Then counts are non-negative and split into casual and registered", func() {
			for _, r := range recs {
				So(r.Count, ShouldBeGreaterThanOrEqualTo, 0)
				So(r.Casual+r.Registered, ShouldEqual, r.Count)
			}
		})

		Convey("Then the same seed reproduces the data", func() {
			again := sampledata.Generate(sampledata.Config{Start: start, Days: 2, Seed: 3})
			So(again, ShouldResemble, recs)
		})
	})

	Convey("Given a missing rate", t, func() {
		recs := sampledata.Generate(sampledata.Config{Start: start, Days: 10, MissingRate: 0.5})

		Convey("Then the first row stays complete", func() {
			So(math.IsNaN(recs[0].Temp), ShouldBeFalse)
			So(recs[0].Weather, ShouldNotBeEmpty)
		})

		Convey("Then some later cells are blank", func() {
			blanks := 0
			for _, r := range recs[1:] {
				if math.IsNaN(r.Temp) || r.Weather == "" {
					blanks++
				}
			}
			So(blanks, ShouldBeGreaterThan, 0)
		})
	})
}

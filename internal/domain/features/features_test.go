package features_test

import (
	"errors"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/velocast/internal/domain/features"
	"github.com/okian/velocast/internal/domain/model"
)

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(date string, hour float64, weather string, temp float64) model.Record {
	return model.Record{
		Date:      day(date),
		Hour:      hour,
		Weather:   weather,
		Temp:      temp,
		ATemp:     temp,
		Humidity:  0.5,
		Windspeed: 0.1,
		Count:     10,
	}
}

func TestForwardFill(t *testing.T) {
	nan := math.NaN()

	Convey("Given a numeric column with gaps", t, func() {
		in := []float64{nan, nan, 1, nan, nan, 4, nan}

		Convey("When forward filling", func() {
			out := features.ForwardFill(in)

			Convey("Then every gap after the first value takes the nearest preceding value", func() {
				So(len(out), ShouldEqual, len(in))
				So(out[2:], ShouldResemble, []float64{1, 1, 1, 4, 4})
			})

			Convey("And leading gaps stay missing", func() {
				So(math.IsNaN(out[0]), ShouldBeTrue)
				So(math.IsNaN(out[1]), ShouldBeTrue)
			})

			Convey("And the input is untouched", func() {
				So(math.IsNaN(in[3]), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty column", t, func() {
		So(features.ForwardFill(nil), ShouldBeEmpty)
	})

	Convey("Given a categorical column with gaps", t, func() {
		out := features.ForwardFillStrings([]string{"", "Clear", "", "Mist", ""})
		So(out, ShouldResemble, []string{"", "Clear", "Clear", "Mist", "Mist"})
	})
}

func TestIsWeekend(t *testing.T) {
	Convey("Given dates across one week", t, func() {
		// 2012-11-05 is a Monday.
		want := map[string]float64{
			"2012-11-05": 0, "2012-11-06": 0, "2012-11-07": 0, "2012-11-08": 0,
			"2012-11-09": 0, "2012-11-10": 1, "2012-11-11": 1,
		}
		for d, w := range want {
			So(features.IsWeekend(day(d)), ShouldEqual, w)
		}
	})

	Convey("Given the weekend stage", t, func() {
		b := features.NewBatch([]model.Record{rec("2012-11-10", 10, "Clear", 0.3), rec("2012-11-12", 10, "Clear", 0.3)})
		fitted, err := features.WeekendStage{}.Fit(b)
		So(err, ShouldBeNil)

		cols, err := fitted.Transform(b)
		So(err, ShouldBeNil)
		So(cols.Names(), ShouldResemble, []string{features.ColWeekend})
		So(cols[0].Values, ShouldResemble, []float64{1, 0})
	})
}

func TestOrdinalEncoder(t *testing.T) {
	Convey("Given an encoder fitted on Clear and Mist", t, func() {
		enc, err := features.FitOrdinalEncoder(features.ColWeather, []string{"Mist", "Clear", "Mist", ""})
		So(err, ShouldBeNil)

		Convey("Then known values map to distinct stable codes", func() {
			codes, err := enc.Transform([]string{"Clear", "Mist", "Clear"})
			So(err, ShouldBeNil)
			So(codes, ShouldResemble, []float64{0, 1, 0})
		})

		Convey("Then refitting in another order yields the same codes", func() {
			again, err := features.FitOrdinalEncoder(features.ColWeather, []string{"Clear", "Mist"})
			So(err, ShouldBeNil)
			So(again.Categories, ShouldResemble, enc.Categories)
		})

		Convey("Then an unseen value is a hard error", func() {
			_, err := enc.Transform([]string{"Clear", "Heavy rain"})
			So(errors.Is(err, model.ErrUnseenCategory), ShouldBeTrue)

			var unseen *model.UnseenCategoryError
			So(errors.As(err, &unseen), ShouldBeTrue)
			So(unseen.Value, ShouldEqual, "Heavy rain")
			So(unseen.Column, ShouldEqual, features.ColWeather)
		})

		Convey("Then a missing value is reported as residual missing", func() {
			_, err := enc.Code("")
			So(errors.Is(err, model.ErrResidualMissing), ShouldBeTrue)
		})
	})

	Convey("Given a column with no values", t, func() {
		_, err := features.FitOrdinalEncoder(features.ColWeather, []string{"", ""})
		So(errors.Is(err, features.ErrEmptyVocabulary), ShouldBeTrue)
	})
}

func TestCombine(t *testing.T) {
	Convey("Given two blocks", t, func() {
		derived := features.Columns{{Name: "a", Values: []float64{1, 2}}}
		routed := features.Columns{{Name: "b", Values: []float64{3, 4}}, {Name: "c", Values: []float64{5, 6}}}

		Convey("When combining", func() {
			X, names, err := features.Combine(derived, routed)
			So(err, ShouldBeNil)

			Convey("Then the derived block comes first", func() {
				So(names, ShouldResemble, []string{"a", "b", "c"})
				So(X.RawRowView(0), ShouldResemble, []float64{1, 3, 5})
				So(X.RawRowView(1), ShouldResemble, []float64{2, 4, 6})
			})
		})

		Convey("When a column is short", func() {
			routed[1].Values = []float64{5}
			_, _, err := features.Combine(derived, routed)
			So(errors.Is(err, features.ErrRaggedColumns), ShouldBeTrue)
		})
	})
}

func TestFittedTransform(t *testing.T) {
	nan := math.NaN()

	Convey("Given a training batch with gaps after the first row", t, func() {
		records := []model.Record{
			rec("2012-01-01", 0, "Clear", 0.2),
			rec("2012-01-01", 1, "", nan),
			rec("2012-01-02", 2, "Mist", 0.4),
		}
		tr, err := features.Fit(features.NewBatch(records))
		So(err, ShouldBeNil)

		Convey("When applying it to the training batch", func() {
			X, err := tr.Apply(features.NewBatch(records))
			So(err, ShouldBeNil)

			Convey("Then the layout matches the declared schema", func() {
				rows, cols := X.Dims()
				So(rows, ShouldEqual, 3)
				So(cols, ShouldEqual, len(features.Schema()))
				So(tr.Schema, ShouldResemble, []string{"is_weekend", "hr", "temp", "atemp", "hum", "windspeed", "weathersit"})
			})

			Convey("Then gaps are forward filled", func() {
				// 2012-01-01 is a Sunday.
				So(X.RawRowView(1), ShouldResemble, []float64{1, 1, 0.2, 0.2, 0.5, 0.1, 0})
			})
		})

		Convey("When applying it to a single prediction row", func() {
			X, err := tr.Apply(features.NewBatch([]model.Record{rec("2012-11-10", 10, "Mist", 0.3)}))
			So(err, ShouldBeNil)

			Convey("Then the column count and order equal training", func() {
				_, cols := X.Dims()
				So(cols, ShouldEqual, len(tr.Schema))
				So(X.RawRowView(0), ShouldResemble, []float64{1, 10, 0.3, 0.3, 0.5, 0.1, 1})
			})
		})

		Convey("When the prediction row carries an unseen weather value", func() {
			_, err := tr.Apply(features.NewBatch([]model.Record{rec("2012-11-10", 10, "Heavy rain", 0.3)}))
			So(errors.Is(err, model.ErrUnseenCategory), ShouldBeTrue)
		})

		Convey("When the fitted schema no longer matches", func() {
			broken := *tr
			broken.Schema = []string{"is_weekend"}
			_, err := broken.Apply(features.NewBatch(records))
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a batch that starts with a missing numeric value", t, func() {
		records := []model.Record{rec("2012-01-01", 0, "Clear", nan), rec("2012-01-01", 1, "Clear", 0.3)}
		tr, err := features.Fit(features.NewBatch(records))
		So(err, ShouldBeNil)

		Convey("Then applying fails fast instead of feeding NaN to the regressor", func() {
			_, err := tr.Apply(features.NewBatch(records))
			So(errors.Is(err, model.ErrResidualMissing), ShouldBeTrue)
		})
	})

	Convey("Given an empty batch", t, func() {
		_, err := features.Fit(features.NewBatch(nil))
		So(errors.Is(err, features.ErrEmptyBatch), ShouldBeTrue)
	})
}

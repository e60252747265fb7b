package model_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/velocast/internal/domain/model"
)

func validInput() map[string]any {
	return map[string]any{
		"dteday":     "2012-11-10",
		"hr":         10.0,
		"weathersit": "Clear",
		"temp":       0.3,
		"atemp":      0.31,
		"hum":        0.8,
		"windspeed":  0.0,
	}
}

func TestParseObservation(t *testing.T) {
	Convey("Given a complete input", t, func() {
		obs, err := model.ParseObservation(validInput())

		Convey("Then every field is populated", func() {
			So(err, ShouldBeNil)
			So(obs.Date.Equal(time.Date(2012, 11, 10, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(obs.Hour, ShouldEqual, 10)
			So(obs.Weather, ShouldEqual, "Clear")
			So(obs.ATemp, ShouldEqual, 0.31)
			So(obs.Validate(), ShouldBeNil)
		})
	})

	Convey("Given numbers decoded with UseNumber", t, func() {
		in := validInput()
		in["hr"] = json.Number("7")
		in["temp"] = json.Number("0.25")
		obs, err := model.ParseObservation(in)
		So(err, ShouldBeNil)
		So(obs.Hour, ShouldEqual, 7)
		So(obs.Temp, ShouldEqual, 0.25)
	})

	Convey("Given an input with several problems", t, func() {
		in := validInput()
		delete(in, "temp")
		in["hr"] = "ten"
		in["weathersit"] = 3
		in["dteday"] = "10/11/2012"

		_, err := model.ParseObservation(in)

		Convey("Then it is malformed", func() {
			So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
			var mie *model.MalformedInputError
			So(errors.As(err, &mie), ShouldBeTrue)
		})

		Convey("Then every problem is reported", func() {
			msg := err.Error()
			for _, field := range []string{"temp", "hr", "weathersit", "dteday"} {
				So(strings.Contains(msg, field), ShouldBeTrue)
			}
		})
	})

	Convey("Given an hour out of range or fractional", t, func() {
		for _, hr := range []any{24.0, -1.0, 3.5} {
			in := validInput()
			in["hr"] = hr
			_, err := model.ParseObservation(in)
			So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
		}
	})

	Convey("Given a nil input", t, func() {
		_, err := model.ParseObservation(nil)
		So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
	})
}

func TestObservationValidate(t *testing.T) {
	Convey("Given a typed observation missing its date and weather", t, func() {
		err := model.Observation{Hour: 30, Temp: math.NaN()}.Validate()
		So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "dteday")
		So(err.Error(), ShouldContainSubstring, "weathersit")
		So(err.Error(), ShouldContainSubstring, "hr")
		So(err.Error(), ShouldContainSubstring, "temp")
	})
}

func TestBefore(t *testing.T) {
	Convey("Given records straddling a cutoff", t, func() {
		cutoff := time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)
		records := []model.Record{
			{Instant: 1, Date: cutoff.AddDate(0, 0, -1)},
			{Instant: 2, Date: cutoff},
			{Instant: 3, Date: cutoff.AddDate(0, 0, 1)},
		}

		Convey("Then only strictly earlier rows are kept", func() {
			kept := model.Before(records, cutoff)
			So(kept, ShouldHaveLength, 1)
			So(kept[0].Instant, ShouldEqual, 1)
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given the typed errors", t, func() {
		So(errors.Is(&model.UnseenCategoryError{Column: "weathersit", Value: "Hail"}, model.ErrUnseenCategory), ShouldBeTrue)
		So(errors.Is(&model.InternalConsistencyError{Want: 1, Got: 2}, model.ErrInternalConsistency), ShouldBeTrue)
		So((&model.InternalConsistencyError{Want: 1, Got: 2}).Error(), ShouldContainSubstring, "got 2")
	})
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then a global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})
	})

	Convey("Given an unknown format", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)

		Get().Info(context.Background(), "trained",
			String("artifact", "abc"),
			Int("rows", 42),
			Bool("clip", false),
			Duration("took", time.Second),
			Error(errors.New("boom")),
		)

		Convey("Then fields are structured", func() {
			var line map[string]any
			So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
			So(line["msg"], ShouldEqual, "trained")
			So(line["artifact"], ShouldEqual, "abc")
			So(line["rows"], ShouldEqual, 42)
			So(line["clip"], ShouldEqual, false)
			So(line["source"], ShouldContainSubstring, "logger_test.go")
		})
	})
}

func TestLoggerLevels(t *testing.T) {
	Convey("Given a text logger at warn level", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		So(SetLevelString("warn"), ShouldBeNil)
		defer SetLevelString("info")

		ctx := context.Background()
		Get().Info(ctx, "hidden")
		Get().Warn(ctx, "shown")

		Convey("Then lower levels are dropped", func() {
			So(strings.Contains(buf.String(), "hidden"), ShouldBeFalse)
			So(strings.Contains(buf.String(), "shown"), ShouldBeTrue)
		})
	})

	Convey("Given an unknown level", t, func() {
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		So(func() { Nop().Named("x").Error(context.Background(), "ignored") }, ShouldNotPanic)
	})
}

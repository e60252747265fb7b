package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/velocast/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendFile)
			convey.So(cfg.CutoffDate, convey.ShouldEqual, "2012-10-01")
			convey.So(cfg.ForestTrees, convey.ShouldEqual, 100)
			convey.So(cfg.ForestWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.ClipNegative, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the cutoff parses to the first of October 2012", func() {
			cutoff, err := cfg.Cutoff()
			convey.So(err, convey.ShouldBeNil)
			convey.So(cutoff.Equal(time.Date(2012, 10, 1, 0, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with several bad settings", t, func() {
		cfg := config.New()
		cfg.StoreBackend = "s3"
		cfg.CutoffDate = "October"
		cfg.ForestTrees = 0
		cfg.ForestMinSamplesLeaf = 0

		err := cfg.Validate()

		convey.Convey("Then every problem is reported as invalid config", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "store_backend")
			convey.So(err.Error(), convey.ShouldContainSubstring, "cutoff_date")
			convey.So(err.Error(), convey.ShouldContainSubstring, "forest_trees")
			convey.So(err.Error(), convey.ShouldContainSubstring, "forest_min_samples_leaf")
		})
	})
}

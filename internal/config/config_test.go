package config_test

import (
	"testing"

	"github.com/okian/shadowsettle/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, config.LogFormatText)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "shadowsettle")
			convey.So(cfg.ResultFile, convey.ShouldEqual, "result.json")
			convey.So(cfg.ComputedFile, convey.ShouldEqual, "computed.json")
			convey.So(cfg.DefaultDatasetFile, convey.ShouldEqual, "dataset.json")
			convey.So(cfg.InputDir, convey.ShouldBeEmpty)
			convey.So(cfg.OutputDir, convey.ShouldBeEmpty)
		})

		convey.Convey("Then Paths should expose the locations", func() {
			cfg.InputDir = "/in"
			cfg.OutputDir = "/out"
			convey.So(cfg.Paths(), convey.ShouldResemble, config.Paths{InputPath: "/in", OutputPath: "/out"})
		})
	})
}

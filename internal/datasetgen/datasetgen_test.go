package datasetgen

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/shadowsettle/internal/domain/validation"
	"github.com/okian/shadowsettle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a config", t, func() {
		cfg := DefaultConfig()
		cfg.Participants = 100

		Convey("When generating twice with the same seed", func() {
			a := Generate(cfg)
			b := Generate(cfg)

			Convey("Then the datasets should be identical", func() {
				So(a, ShouldResemble, b)
				So(len(a.Participants), ShouldEqual, 100)
			})
		})

		Convey("When generating with different seeds", func() {
			other := cfg
			other.Seed = cfg.Seed + 1

			So(Generate(other).Participants[0].Wallet, ShouldNotEqual, Generate(cfg).Participants[0].Wallet)
		})

		Convey("Then values should stay in range", func() {
			for _, p := range Generate(cfg).Participants {
				So(strings.HasPrefix(p.Wallet, "0x"), ShouldBeTrue)
				So(len(p.Wallet), ShouldEqual, 34)
				So(p.Score.Value, ShouldBeBetweenOrEqual, 0, 100)
				So(p.Risk.Value, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("When the pool is not positive", func() {
			cfg.TotalPool = 0
			So(Generate(cfg).TotalPool.Valid, ShouldBeFalse)
		})

		Convey("When a score scale is set", func() {
			cfg.ScoreScale = 0.001
			fractional := false
			for _, p := range Generate(cfg).Participants {
				So(p.Score.Value, ShouldBeBetweenOrEqual, 0, 0.1)
				if p.Score.Value != math.Trunc(p.Score.Value) {
					fractional = true
				}
			}

			Convey("Then scores should be scaled and left unrounded", func() {
				So(fractional, ShouldBeTrue)
			})
		})

		Convey("When every row is malformed", func() {
			cfg.MalformedRatio = 1
			for _, p := range Generate(cfg).Participants {
				So(p.Score.Valid && p.Risk.Valid, ShouldBeFalse)
			}
		})
	})
}

func TestSave(t *testing.T) {
	Convey("Given the example dataset", t, func() {
		var out bytes.Buffer
		So(logger.Init(logger.WithOutput(&out, &out)), ShouldBeNil)
		path := filepath.Join(t.TempDir(), "in", "dataset.json")

		Convey("When saving it", func() {
			err := Save(context.Background(), path, Example())

			Convey("Then it should round-trip through the validator", func() {
				So(err, ShouldBeNil)
				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				ds, vErr := validation.Validate(raw)
				So(vErr, ShouldBeNil)
				So(ds, ShouldResemble, Example())
				So(out.String(), ShouldContainSubstring, "dataset written")
				So(out.String(), ShouldContainSubstring, "datasetgen.participants=3")
			})
		})
	})
}

package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/okian/shadowsettle/internal/adapters/storage"
	"github.com/okian/shadowsettle/internal/config"
	"github.com/okian/shadowsettle/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const exampleResultJSON = `{
  "payouts": [
    {
      "wallet": "0xA",
      "amount": 486
    },
    {
      "wallet": "0xC",
      "amount": 514
    }
  ],
  "tee_attestation": "0x5f588c4219487abb2dc7ef44509e8e593df1c2eb2d4fb32c79614452d31b77e7"
}`

var exampleResult = model.Result{
	Payouts: []model.Payout{
		{Wallet: "0xA", Amount: 486},
		{Wallet: "0xC", Amount: 514},
	},
	Attestation: "0x5f588c4219487abb2dc7ef44509e8e593df1c2eb2d4fb32c79614452d31b77e7",
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLocate(t *testing.T) {
	convey.Convey("Given an input directory", t, func() {
		ctx := context.Background()
		in := t.TempDir()

		convey.Convey("When the runner declares an existing input file", func() {
			writeInput(t, in, "test_data.json", `{}`)
			writeInput(t, in, "dataset.json", `{}`)
			s := storage.NewLocalFS(in, t.TempDir(), storage.WithDeclaredInput(1, "test_data.json"))

			path, err := s.Locate(ctx)

			convey.Convey("Then the declared file should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(path, convey.ShouldEqual, filepath.Join(in, "test_data.json"))
			})
		})

		convey.Convey("When the declared file count is zero", func() {
			writeInput(t, in, "test_data.json", `{}`)
			writeInput(t, in, "dataset.json", `{}`)
			s := storage.NewLocalFS(in, t.TempDir(), storage.WithDeclaredInput(0, "test_data.json"))

			path, err := s.Locate(ctx)

			convey.Convey("Then the conventional file should be used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(path, convey.ShouldEqual, filepath.Join(in, "dataset.json"))
			})
		})

		convey.Convey("When the declared file is missing", func() {
			writeInput(t, in, "dataset.json", `{}`)
			s := storage.NewLocalFS(in, t.TempDir(), storage.WithDeclaredInput(1, "gone.json"))

			path, err := s.Locate(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(path, convey.ShouldEqual, filepath.Join(in, "dataset.json"))
		})

		convey.Convey("When only other JSON files exist", func() {
			writeInput(t, in, "b.json", `{}`)
			writeInput(t, in, "a.json", `{}`)
			writeInput(t, in, "notes.txt", `x`)
			s := storage.NewLocalFS(in, t.TempDir())

			path, err := s.Locate(ctx)

			convey.Convey("Then the first by name should be used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(path, convey.ShouldEqual, filepath.Join(in, "a.json"))
			})
		})

		convey.Convey("When a custom conventional name is configured", func() {
			writeInput(t, in, "a.json", `{}`)
			writeInput(t, in, "input.json", `{}`)
			s := storage.NewLocalFS(in, t.TempDir(), storage.WithDefaultDatasetFile("input.json"))

			path, err := s.Locate(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(path, convey.ShouldEqual, filepath.Join(in, "input.json"))
		})

		convey.Convey("When the declared and conventional names are directories", func() {
			convey.So(os.Mkdir(filepath.Join(in, "test_data.json"), 0o750), convey.ShouldBeNil)
			convey.So(os.Mkdir(filepath.Join(in, "dataset.json"), 0o750), convey.ShouldBeNil)
			writeInput(t, in, "z.json", `{}`)
			s := storage.NewLocalFS(in, t.TempDir(), storage.WithDeclaredInput(1, "test_data.json"))

			path, err := s.Locate(ctx)

			convey.Convey("Then they should be skipped for the first regular JSON file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(path, convey.ShouldEqual, filepath.Join(in, "z.json"))
			})
		})

		convey.Convey("When no JSON file exists", func() {
			writeInput(t, in, "notes.txt", `x`)
			s := storage.NewLocalFS(in, t.TempDir())

			_, err := s.Locate(ctx)

			convey.Convey("Then it should report a configuration error", func() {
				convey.So(errors.Is(err, storage.ErrNoDataset), convey.ShouldBeTrue)
				convey.So(errors.Is(err, config.ErrConfiguration), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRead(t *testing.T) {
	convey.Convey("Given a LocalFS", t, func() {
		ctx := context.Background()
		in := t.TempDir()
		s := storage.NewLocalFS(in, t.TempDir())

		convey.Convey("When the file exists", func() {
			writeInput(t, in, "dataset.json", `{"rules":{}}`)
			data, err := s.Read(ctx, filepath.Join(in, "dataset.json"))

			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldEqual, `{"rules":{}}`)
		})

		convey.Convey("When the file does not exist", func() {
			_, err := s.Read(ctx, filepath.Join(in, "missing.json"))
			convey.So(errors.Is(err, storage.ErrRead), convey.ShouldBeTrue)
		})

		convey.Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Read(cctx, filepath.Join(in, "dataset.json"))
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})
}

func TestWrite(t *testing.T) {
	convey.Convey("Given a LocalFS with a missing output directory", t, func() {
		ctx := context.Background()
		out := filepath.Join(t.TempDir(), "nested", "out")
		s := storage.NewLocalFS(t.TempDir(), out)

		convey.Convey("When writing the example result", func() {
			rec, err := s.Write(ctx, exampleResult)

			convey.Convey("Then the result should be pretty-printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.ResultPath, convey.ShouldEqual, filepath.Join(out, "result.json"))
				data, readErr := os.ReadFile(rec.ResultPath)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, exampleResultJSON)
				convey.So(rec.Bytes, convey.ShouldEqual, len(exampleResultJSON))
			})

			convey.Convey("Then the sidecar should record the path and content id", func() {
				data, readErr := os.ReadFile(filepath.Join(out, "computed.json"))
				convey.So(readErr, convey.ShouldBeNil)

				var computed storage.Computed
				convey.So(json.Unmarshal(data, &computed), convey.ShouldBeNil)
				convey.So(computed.DeterministicOutputPath, convey.ShouldEqual, rec.ResultPath)
				convey.So(computed.ResultCID, convey.ShouldEqual, "bafkreieh324n6qicohq5iy7hr6s2gksjt5c2edkoslspnrqvrrg5ehjrru")
				convey.So(computed.ResultCID, convey.ShouldEqual, rec.CID)
			})

			convey.Convey("Then the content id should hash the result bytes", func() {
				id, decErr := cid.Decode(rec.CID)
				convey.So(decErr, convey.ShouldBeNil)
				data, _ := os.ReadFile(rec.ResultPath)
				sum, _ := multihash.Sum(data, multihash.SHA2_256, -1)
				convey.So(id.Hash().String(), convey.ShouldEqual, sum.String())
				convey.So(id.Prefix().Codec, convey.ShouldEqual, uint64(cid.Raw))
			})

			convey.Convey("Then the result should read back unchanged", func() {
				back, readErr := storage.ReadResult(rec.ResultPath)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(back, convey.ShouldResemble, exampleResult)
			})
		})

		convey.Convey("When writing an empty result", func() {
			rec, err := s.Write(ctx, model.Result{})

			convey.Convey("Then payouts should be an empty array", func() {
				convey.So(err, convey.ShouldBeNil)
				data, _ := os.ReadFile(rec.ResultPath)
				convey.So(string(data), convey.ShouldEqual, "{\n  \"payouts\": [],\n  \"tee_attestation\": \"\"\n}")
			})
		})

		convey.Convey("When custom file names are configured", func() {
			s := storage.NewLocalFS(t.TempDir(), out, storage.WithResultFile("settled.json"), storage.WithComputedFile("meta.json"))
			rec, err := s.Write(ctx, exampleResult)

			convey.So(err, convey.ShouldBeNil)
			convey.So(rec.ResultPath, convey.ShouldEqual, filepath.Join(out, "settled.json"))
			convey.So(rec.ComputedPath, convey.ShouldEqual, filepath.Join(out, "meta.json"))
		})
	})

	convey.Convey("Given an output path that is a file", t, func() {
		blocker := filepath.Join(t.TempDir(), "blocker")
		writeInput(t, filepath.Dir(blocker), "blocker", "x")
		s := storage.NewLocalFS(t.TempDir(), blocker)

		_, err := s.Write(context.Background(), exampleResult)
		convey.So(errors.Is(err, storage.ErrWrite), convey.ShouldBeTrue)
	})
}

// Package storage finds and reads the settlement dataset and persists the
// result with its sidecar.
package storage

import (
	"context"

	"github.com/okian/shadowsettle/internal/domain/model"
)

// Source locates and reads the dataset for a run.
type Source interface {
	// Locate returns the path of the dataset to read.
	// Returns ErrNoDataset if no candidate exists.
	Locate(ctx context.Context) (string, error)

	// Read returns the raw dataset bytes at path.
	Read(ctx context.Context, path string) ([]byte, error)
}

// Sink persists a computed result.
type Sink interface {
	// Write stores r and its sidecar, returning what was written.
	Write(ctx context.Context, r model.Result) (Receipt, error)
}

// Receipt describes a persisted result.
type Receipt struct {
	// ResultPath is the absolute path of the result document.
	ResultPath string
	// ComputedPath is the absolute path of the sidecar document.
	ComputedPath string
	// CID is the CIDv1 (raw, sha2-256) of the result bytes.
	CID string
	// Bytes is the size of the result document.
	Bytes int
}

// Computed is the sidecar document written next to the result.
type Computed struct {
	DeterministicOutputPath string `json:"deterministic-output-path"`
	ResultCID               string `json:"result-cid"`
}

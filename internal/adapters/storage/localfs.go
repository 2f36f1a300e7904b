package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/shadowsettle/internal/domain/model"
)

// File permission constants.
const (
	directoryPermission = 0o755
	filePermission      = 0o644
)

// LocalFS reads the dataset from an input directory and writes the result
// into an output directory. It never touches the network.
type LocalFS struct {
	inDir  string
	outDir string

	declaredCount  int
	declaredName   string
	defaultDataset string
	resultFile     string
	computedFile   string
}

// NewLocalFS creates a LocalFS over the given directories.
func NewLocalFS(inDir, outDir string, opts ...Option) *LocalFS {
	s := &LocalFS{
		inDir:          inDir,
		outDir:         outDir,
		defaultDataset: "dataset.json",
		resultFile:     "result.json",
		computedFile:   "computed.json",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locate picks the dataset file. Candidates, in order: the declared input
// file, the conventional dataset file, then the first *.json file by name.
// Only regular files qualify; a directory with a candidate name is skipped.
func (s *LocalFS) Locate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	inDir, err := filepath.Abs(s.inDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}

	if s.declaredCount >= 1 && s.declaredName != "" {
		if p := filepath.Join(inDir, s.declaredName); isFile(p) {
			return p, nil
		}
	}
	if p := filepath.Join(inDir, s.defaultDataset); isFile(p) {
		return p, nil
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNoDataset
	}
	sort.Strings(names)
	return filepath.Join(inDir, names[0]), nil
}

// Read returns the bytes at path.
func (s *LocalFS) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return data, nil
}

// Write stores r as indented JSON and the sidecar as compact JSON. The
// output directory is created when missing.
func (s *LocalFS) Write(ctx context.Context, r model.Result) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	outDir, err := filepath.Abs(s.outDir)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.MkdirAll(outDir, directoryPermission); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	if r.Payouts == nil {
		r.Payouts = []model.Payout{}
	}
	data, err := encode(r, "  ")
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	id, err := contentID(data)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	rec := Receipt{
		ResultPath:   filepath.Join(outDir, s.resultFile),
		ComputedPath: filepath.Join(outDir, s.computedFile),
		CID:          id,
		Bytes:        len(data),
	}
	if err := writeFile(rec.ResultPath, data); err != nil {
		return Receipt{}, err
	}

	sidecar, err := encode(Computed{DeterministicOutputPath: rec.ResultPath, ResultCID: id}, "")
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := writeFile(rec.ComputedPath, sidecar); err != nil {
		return Receipt{}, err
	}
	return rec, nil
}

// ReadResult loads a previously written result document.
func ReadResult(path string) (model.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Result{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	var r model.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return model.Result{}, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return r, nil
}

// encode marshals v without HTML escaping and without a trailing newline.
func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeFile replaces path with data through a temporary file in the same
// directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Chmod(tmp.Name(), filePermission); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

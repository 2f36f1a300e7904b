package storage

// Option applies a configuration option to the LocalFS.
type Option func(*LocalFS)

// WithDeclaredInput sets the runner-declared input file. It is consulted
// only when count is at least one and name is not empty.
func WithDeclaredInput(count int, name string) Option {
	return func(s *LocalFS) {
		s.declaredCount = count
		s.declaredName = name
	}
}

// WithDefaultDatasetFile sets the conventional dataset file name.
func WithDefaultDatasetFile(name string) Option {
	return func(s *LocalFS) {
		if name != "" {
			s.defaultDataset = name
		}
	}
}

// WithResultFile sets the result file name inside the output directory.
func WithResultFile(name string) Option {
	return func(s *LocalFS) {
		if name != "" {
			s.resultFile = name
		}
	}
}

// WithComputedFile sets the sidecar file name inside the output directory.
func WithComputedFile(name string) Option {
	return func(s *LocalFS) {
		if name != "" {
			s.computedFile = name
		}
	}
}

// Package config defines the settlement task configuration and its loader.
//
// Conventions:
// - The entry point builds a Config once and passes it down explicitly.
// - Nothing below cmd/ reads the environment.
// - Errors are wrapped with this package's sentinel kinds.
package config

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// InputDir is the directory holding the dataset (IEXEC_IN).
	InputDir string `koanf:"in"`

	// OutputDir receives the result and its sidecar (IEXEC_OUT).
	OutputDir string `koanf:"out"`

	// InputFilesNumber and InputFileName1 name a declared input file, when
	// the runner provides one.
	InputFilesNumber int    `koanf:"input_files_number"`
	InputFileName1   string `koanf:"input_file_name_1"`

	// TaskID identifies the run in logs and metrics. A random id is used when empty.
	TaskID string `koanf:"task_id"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// MetricsFile, when set, receives a Prometheus text exposition at the end of the run.
	MetricsFile string `koanf:"metrics_file"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// ResultFile and ComputedFile name the outputs inside OutputDir.
	ResultFile   string `koanf:"result_file"`
	ComputedFile string `koanf:"computed_file"`

	// DefaultDatasetFile is the conventional dataset name looked up in InputDir.
	DefaultDatasetFile string `koanf:"default_dataset_file"`
}

// Paths is the pair of locations a settlement run reads from and writes to.
type Paths struct {
	InputPath  string
	OutputPath string
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          LogFormatText,
		MetricsEnabled:     true,
		MetricsNamespace:   "shadowsettle",
		ResultFile:         "result.json",
		ComputedFile:       "computed.json",
		DefaultDatasetFile: "dataset.json",
	}
}

// Paths returns the input and output locations.
func (c *Config) Paths() Paths {
	return Paths{InputPath: c.InputDir, OutputPath: c.OutputDir}
}

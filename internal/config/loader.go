package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment prefixes.
const (
	runnerPrefix = "IEXEC_"
	appPrefix    = "SHADOWSETTLE_"
	configEnv    = appPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SHADOWSETTLE_CONFIG is set
//  3. env (prefix IEXEC_ for runner-provided values, SHADOWSETTLE_ for the rest)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(configEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// IEXEC_IN -> in, IEXEC_INPUT_FILE_NAME_1 -> input_file_name_1, ...
	// SHADOWSETTLE_LOG_LEVEL -> log_level, ...
	for _, prefix := range []string{runnerPrefix, appPrefix} {
		lower := strings.ToLower(prefix)
		provider := env.Provider(prefix, ".", func(s string) string {
			return strings.TrimPrefix(strings.ToLower(s), lower)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if cfg.TaskID == "" {
		cfg.TaskID = uuid.NewString()
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that both locations are set and that the input directory
// exists. The output directory is created on write.
func (c *Config) Validate(_ context.Context) error {
	if c.InputDir == "" || c.OutputDir == "" {
		return fmt.Errorf("%w: missing IEXEC_IN or IEXEC_OUT", ErrConfiguration)
	}
	in, err := filepath.Abs(c.InputDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	info, err := os.Stat(in)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: IEXEC_IN directory not found: %s", ErrConfiguration, in)
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.ResultFile == "" || c.ComputedFile == "" {
		return fmt.Errorf("%w: result_file and computed_file must not be empty", ErrInvalidConfig)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrConfiguration covers missing or unusable input/output locations.
	ErrConfiguration = errors.New("configuration error")
	ErrInvalidConfig = fmt.Errorf("%w: invalid config", ErrConfiguration)
	ErrLoadConfig    = fmt.Errorf("%w: load config failed", ErrConfiguration)
)

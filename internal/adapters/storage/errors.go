package storage

import (
	"errors"
	"fmt"

	"github.com/okian/shadowsettle/internal/config"
)

// Sentinel kinds for storage errors.
var (
	ErrNoDataset = fmt.Errorf("%w: no JSON dataset found in IEXEC_IN", config.ErrConfiguration)
	ErrRead      = errors.New("read dataset failed")
	ErrWrite     = errors.New("write result failed")
)

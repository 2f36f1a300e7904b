package datasetgen

// Config holds the knobs for a synthetic dataset.
type Config struct {
	Participants   int     // Number of participant rows
	Seed           int64   // Seed for the deterministic source
	MinScore       float64 // rules.minScore
	MaxRisk        float64 // rules.maxRisk
	TotalPool      float64 // totalPool; zero or negative omits it
	MalformedRatio float64 // Fraction of rows with a non-numeric score or risk
	// ScoreScale multiplies every drawn score. Zero keeps whole-number scores
	// in [0,100]; any other value leaves the scaled scores unrounded.
	ScoreScale float64
}

// Default generator settings.
const (
	DefaultParticipants = 1000
	DefaultSeed         = 42
	DefaultMinScore     = 70
	DefaultMaxRisk      = 0.3
	DefaultTotalPool    = 1_000_000
)

// DefaultConfig returns a Config populated with the defaults.
func DefaultConfig() Config {
	return Config{
		Participants: DefaultParticipants,
		Seed:         DefaultSeed,
		MinScore:     DefaultMinScore,
		MaxRisk:      DefaultMaxRisk,
		TotalPool:    DefaultTotalPool,
	}
}

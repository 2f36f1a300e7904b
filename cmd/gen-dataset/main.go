package main

import (
	"context"
	"flag"
	"os"

	"github.com/okian/shadowsettle/internal/datasetgen"
	"github.com/okian/shadowsettle/pkg/logger"
)

func main() {
	var (
		output       = flag.String("output", "dataset.json", "Output file for the generated dataset")
		participants = flag.Int("participants", datasetgen.DefaultParticipants, "Number of participants to generate")
		seed         = flag.Int64("seed", datasetgen.DefaultSeed, "Seed for deterministic generation")
		minScore     = flag.Float64("min-score", datasetgen.DefaultMinScore, "rules.minScore")
		maxRisk      = flag.Float64("max-risk", datasetgen.DefaultMaxRisk, "rules.maxRisk")
		pool         = flag.Float64("pool", datasetgen.DefaultTotalPool, "totalPool; 0 omits it so the pool defaults to the eligible score total")
		malformed    = flag.Float64("malformed", 0, "Fraction of rows with a non-numeric score or risk")
		scoreScale   = flag.Float64("score-scale", 0, "Multiply scores by this factor and keep them unrounded; 0 keeps whole scores")
		example      = flag.Bool("example", false, "Write the three-participant reference dataset instead")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()

	ds := datasetgen.Example()
	if !*example {
		cfg := datasetgen.DefaultConfig()
		cfg.Participants = *participants
		cfg.Seed = *seed
		cfg.MinScore = *minScore
		cfg.MaxRisk = *maxRisk
		cfg.TotalPool = *pool
		cfg.MalformedRatio = *malformed
		cfg.ScoreScale = *scoreScale
		ds = datasetgen.Generate(cfg)
	}

	if err := datasetgen.Save(ctx, *output, ds); err != nil {
		logger.Get().Error(ctx, "failed to write dataset", logger.Error(err))
		os.Exit(1)
	}
}

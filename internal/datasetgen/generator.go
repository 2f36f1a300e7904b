// Package datasetgen builds synthetic settlement datasets for local runs and
// property tests. Output is fully determined by the Config seed.
package datasetgen

import (
	"encoding/hex"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/shadowsettle/internal/domain/model"
)

// Score bands, in points out of 100.
const (
	averageMin   = 50.0
	averageRange = 30.0
	highMin      = 80.0
	highRange    = 20.0
	lowMin       = 0.0
	lowRange     = 50.0
	bandCount    = 4
)

const (
	caseAverage = 0
	caseHigh    = 1
	caseLow     = 2
	caseWide    = 3
)

// Risk values are rounded to this many decimals to keep datasets readable.
const riskPrecision = 1000

// Generate builds a dataset from cfg.
func Generate(cfg Config) model.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic datasets, not secrets

	participants := make([]model.Participant, cfg.Participants)
	for i := range participants {
		p := model.Participant{
			Wallet: wallet(rng),
			Score:  model.Num(score(rng, cfg.ScoreScale)),
			Risk:   model.Num(math.Round(rng.Float64()*riskPrecision) / riskPrecision),
		}
		if cfg.MalformedRatio > 0 && rng.Float64() < cfg.MalformedRatio {
			if rng.Intn(2) == 0 {
				p.Score = model.Number{}
			} else {
				p.Risk = model.Number{}
			}
		}
		participants[i] = p
	}

	ds := model.Dataset{
		Rules: model.Rules{
			MinScore: model.Num(cfg.MinScore),
			MaxRisk:  model.Num(cfg.MaxRisk),
		},
		Participants: participants,
	}
	if cfg.TotalPool > 0 {
		ds.TotalPool = model.Num(cfg.TotalPool)
	}
	return ds
}

// Example returns the reference three-participant dataset.
func Example() model.Dataset {
	return model.Dataset{
		Rules: model.Rules{MinScore: model.Num(70), MaxRisk: model.Num(0.3)},
		Participants: []model.Participant{
			{Wallet: "0xA", Score: model.Num(85), Risk: model.Num(0.2)},
			{Wallet: "0xB", Score: model.Num(60), Risk: model.Num(0.1)},
			{Wallet: "0xC", Score: model.Num(90), Risk: model.Num(0.25)},
		},
		TotalPool: model.Num(1000),
	}
}

// wallet derives a 0x-prefixed hex identifier from a uuid drawn from rng.
func wallet(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		id = uuid.Nil
	}
	return "0x" + hex.EncodeToString(id[:])
}

// score draws a score from one of the bands: a whole number when scale is
// zero, the unrounded draw times scale otherwise.
func score(rng *rand.Rand, scale float64) float64 {
	var v float64
	switch rng.Intn(bandCount) {
	case caseAverage:
		v = averageMin + rng.Float64()*averageRange
	case caseHigh:
		v = highMin + rng.Float64()*highRange
	case caseLow:
		v = lowMin + rng.Float64()*lowRange
	case caseWide:
		v = rng.Float64() * (highMin + highRange)
	}
	if scale != 0 {
		return v * scale
	}
	return math.Round(v)
}

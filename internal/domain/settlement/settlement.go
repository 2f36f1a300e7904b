// Package settlement computes eligibility-filtered proportional payouts from
// a validated dataset.
//
// The calculation is a single pass with no I/O: filter eligible participants,
// split the pool in proportion to score, floor each share, hand the rounding
// dust to the first eligible participant, drop zero amounts and stamp the
// result with a digest of its payouts.
package settlement

import (
	"math"

	"github.com/okian/shadowsettle/internal/domain/attestation"
	"github.com/okian/shadowsettle/internal/domain/model"
)

// DigestFunc computes the attestation for a non-empty settlement.
type DigestFunc func(payouts []model.Payout) string

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithDigest replaces the attestation digest.
func WithDigest(fn DigestFunc) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.digest = fn
		}
	}
}

// Settlement is a computed Result together with the figures that produced it.
type Settlement struct {
	Result model.Result
	// Participants is the number of rows in the dataset.
	Participants int
	// Eligible is the number of participants that passed the filter.
	Eligible int
	// TotalScore is the score sum over eligible participants.
	TotalScore float64
	// Pool is the number of whole units distributed, capped at MaxUnits;
	// zero on short-circuits.
	Pool int64
	// Dust is the truncation loss credited to the first eligible participant.
	Dust int64
}

// Calculator settles datasets. The zero value is not usable; use New.
type Calculator struct {
	digest DigestFunc
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{digest: attestation.Digest}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Eligible is the participant filter. A participant qualifies only when both
// score and risk are numeric, score >= minScore and risk <= maxRisk. Rows with
// missing or non-numeric score or risk are skipped, not rejected.
func Eligible(p model.Participant, r model.Rules) bool {
	if !p.Score.Valid || !p.Risk.Valid {
		return false
	}
	return p.Score.Value >= r.MinScore.Value && p.Risk.Value <= r.MaxRisk.Value
}

// Compute returns the settlement Result for ds.
func (c *Calculator) Compute(ds model.Dataset) model.Result {
	return c.Settle(ds).Result
}

// Settle computes the Result for ds and reports the intermediate figures.
// It never fails: degenerate numeric input yields a degenerate Result.
func (c *Calculator) Settle(ds model.Dataset) Settlement {
	s := Settlement{Participants: len(ds.Participants)}

	eligible := make([]model.Participant, 0, len(ds.Participants))
	for _, p := range ds.Participants {
		if Eligible(p, ds.Rules) {
			eligible = append(eligible, p)
		}
	}
	s.Eligible = len(eligible)
	if len(eligible) == 0 {
		s.Result = model.Result{Payouts: []model.Payout{}}
		return s
	}

	for _, p := range eligible {
		s.TotalScore += p.Score.Value
	}
	if !(s.TotalScore > 0) {
		payouts := make([]model.Payout, len(eligible))
		for i, p := range eligible {
			payouts[i] = model.Payout{Wallet: p.Wallet}
		}
		s.Result = model.Result{Payouts: payouts}
		return s
	}

	s.Pool = poolUnits(ds.TotalPool, s.TotalScore)
	pool := float64(s.Pool)

	amounts := make([]model.Payout, len(eligible))
	var sum int64
	for i, p := range eligible {
		amounts[i] = model.Payout{
			Wallet: p.Wallet,
			Amount: units((p.Score.Value / s.TotalScore) * pool),
		}
		sum = addUnits(sum, amounts[i].Amount)
	}
	if sum < s.Pool {
		s.Dust = addUnits(s.Pool, -sum)
		amounts[0].Amount = addUnits(amounts[0].Amount, s.Dust)
	}

	payouts := make([]model.Payout, 0, len(amounts))
	for _, a := range amounts {
		if a.Amount > 0 {
			payouts = append(payouts, a)
		}
	}
	if len(payouts) == 0 {
		// A pool below one unit pays nobody; there is nothing to attest.
		s.Result = model.Result{Payouts: payouts}
		return s
	}

	s.Result = model.Result{Payouts: payouts, Attestation: c.digest(payouts)}
	return s
}

// MaxUnits bounds the pool, every share and every running sum. Larger
// values saturate.
const MaxUnits int64 = 1 << 62

// poolUnits picks the configured pool when it is a positive number and the
// eligible score total otherwise, truncated to whole units.
func poolUnits(totalPool model.Number, totalScore float64) int64 {
	pool := totalScore
	if totalPool.Valid && totalPool.Value > 0 {
		pool = totalPool.Value
	}
	return units(pool)
}

// units floors f to whole units, saturating at ±MaxUnits. NaN is zero.
func units(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= float64(MaxUnits):
		return MaxUnits
	case f <= -float64(MaxUnits):
		return -MaxUnits
	}
	return int64(math.Floor(f))
}

// addUnits adds two values in [-MaxUnits, MaxUnits] with saturation.
func addUnits(a, b int64) int64 {
	switch {
	case b > 0 && a > MaxUnits-b:
		return MaxUnits
	case b < 0 && a < -MaxUnits-b:
		return -MaxUnits
	}
	return a + b
}

// Package model contains the settlement domain types passed between layers.
package model

import "encoding/json"

// Number is a JSON value that may or may not be numeric. Non-numeric or
// missing values decode to an invalid Number instead of failing, so callers
// decide how to treat them.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a valid Number.
func Num(v float64) Number { return Number{Value: v, Valid: true} }

// UnmarshalJSON accepts any JSON value; only JSON numbers become valid.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil //nolint:nilerr // out-of-range numbers are treated as non-numeric
	}
	if f, ok := v.(float64); ok {
		*n = Num(f)
	}
	return nil
}

// MarshalJSON writes the value, or null when invalid.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Rules holds the eligibility thresholds.
type Rules struct {
	MinScore Number `json:"minScore"`
	MaxRisk  Number `json:"maxRisk"`
}

// Participant is one dataset row. Score and Risk stay invalid when the
// input carried something other than a number.
type Participant struct {
	Wallet string `json:"wallet"`
	Score  Number `json:"score"`
	Risk   Number `json:"risk"`
}

// UnmarshalJSON decodes a participant without ever failing: rows that are not
// objects, or that carry odd field types, decode to a participant that the
// eligibility filter will skip.
func (p *Participant) UnmarshalJSON(b []byte) error {
	*p = Participant{Wallet: undefinedWallet}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return nil //nolint:nilerr // malformed rows are filtered later, not rejected
	}
	if raw, ok := fields["wallet"]; ok {
		p.Wallet = WalletString(raw)
	}
	if raw, ok := fields["score"]; ok {
		_ = p.Score.UnmarshalJSON(raw)
	}
	if raw, ok := fields["risk"]; ok {
		_ = p.Risk.UnmarshalJSON(raw)
	}
	return nil
}

// Dataset is the parsed settlement input. It is read once per run and never
// mutated.
type Dataset struct {
	Rules        Rules         `json:"rules"`
	Participants []Participant `json:"participants"`
	TotalPool    Number        `json:"totalPool"`
}


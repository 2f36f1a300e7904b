// Package validation checks the structure of a raw settlement dataset before
// any computation touches it.
//
// Only the dataset envelope is checked: rules must carry numeric thresholds
// and participants must be a non-empty array. Individual participant rows are
// not validated here; malformed rows are tolerated and dropped later by the
// eligibility filter.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/shadowsettle/internal/domain/model"
)

// envelope mirrors the top-level dataset keys with the parts that need
// structural checks left raw.
type envelope struct {
	Rules        json.RawMessage `json:"rules"`
	Participants json.RawMessage `json:"participants"`
	TotalPool    model.Number    `json:"totalPool"`
}

// Validate parses raw dataset bytes and checks the envelope. On success the
// returned Dataset is ready for settlement.
func Validate(raw []byte) (model.Dataset, error) {
	var top any
	if err := json.Unmarshal(raw, &top); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, ok := top.(map[string]any); !ok {
		return model.Dataset{}, ErrNotObject
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	rules, err := validateRules(env.Rules)
	if err != nil {
		return model.Dataset{}, err
	}
	participants, err := validateParticipants(env.Participants)
	if err != nil {
		return model.Dataset{}, err
	}

	return model.Dataset{
		Rules:        rules,
		Participants: participants,
		TotalPool:    env.TotalPool,
	}, nil
}

func validateRules(raw json.RawMessage) (model.Rules, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.Rules{}, ErrInvalidRules
	}
	var rules model.Rules
	if v, ok := fields["minScore"]; ok {
		_ = rules.MinScore.UnmarshalJSON(v)
	}
	if v, ok := fields["maxRisk"]; ok {
		_ = rules.MaxRisk.UnmarshalJSON(v)
	}
	if !rules.MinScore.Valid || !rules.MaxRisk.Valid {
		return model.Rules{}, ErrInvalidRules
	}
	return rules, nil
}

func validateParticipants(raw json.RawMessage) ([]model.Participant, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, ErrInvalidParticipants
	}
	var participants []model.Participant
	if err := json.Unmarshal(raw, &participants); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParticipants, err)
	}
	if len(participants) == 0 {
		return nil, ErrInvalidParticipants
	}
	return participants, nil
}

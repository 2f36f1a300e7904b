package validation

import (
	"errors"
	"fmt"
)

// ErrValidation is the kind shared by every dataset rejection. Callers match
// on it with errors.Is; the specific causes below wrap it.
var ErrValidation = errors.New("validation failed")

// Specific rejection causes.
var (
	ErrInvalidJSON         = fmt.Errorf("%w: invalid JSON in dataset", ErrValidation)
	ErrNotObject           = fmt.Errorf("%w: dataset must be a JSON object", ErrValidation)
	ErrInvalidRules        = fmt.Errorf("%w: dataset must have rules.minScore and rules.maxRisk (numbers)", ErrValidation)
	ErrInvalidParticipants = fmt.Errorf("%w: dataset must have a non-empty participants array", ErrValidation)
)

// Reason returns a short stable label for err, suitable for metric labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrNotObject):
		return "not_object"
	case errors.Is(err, ErrInvalidRules):
		return "invalid_rules"
	case errors.Is(err, ErrInvalidParticipants):
		return "invalid_participants"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "other"
	}
}

package attestation

import "errors"

// Sentinel kinds for attestation errors.
var (
	ErrMismatch  = errors.New("attestation does not match payouts")
	ErrMalformed = errors.New("malformed attestation")
)

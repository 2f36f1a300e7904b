package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	undefinedWallet = "undefined"
	objectWallet    = "[object Object]"
)

// WalletString coerces a raw JSON wallet value to its string form. Strings
// pass through, numbers use the shortest round-trip decimal form, booleans
// and null print as literals, arrays join their elements with commas and
// objects collapse to a fixed placeholder. A missing value is "undefined".
func WalletString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return undefinedWallet
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return coerce(v, false)
}

func coerce(v any, nested bool) string {
	switch t := v.(type) {
	case nil:
		if nested {
			return ""
		}
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return FormatNumber(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = coerce(e, true)
		}
		return strings.Join(parts, ",")
	default:
		return objectWallet
	}
}

// FormatNumber renders f the way a JSON writer prints numbers: plain decimal
// between 1e-6 and 1e21, exponent notation with an explicit sign outside it.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

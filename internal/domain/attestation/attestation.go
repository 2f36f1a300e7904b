// Package attestation binds a settlement result to its contents with a
// sha256 digest over the compact serialization of the payout list.
package attestation

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/shadowsettle/internal/domain/model"
)

// Prefix marks a hex digest.
const Prefix = "0x"

// Canonical returns the exact bytes the digest covers:
// {"payouts":[{"wallet":...,"amount":...},...]} with no whitespace, keys in
// that order, and strings escaped minimally (quote, backslash and control
// characters only).
func Canonical(payouts []model.Payout) []byte {
	var b bytes.Buffer
	b.WriteString(`{"payouts":[`)
	for i, p := range payouts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"wallet":`)
		writeString(&b, p.Wallet)
		b.WriteString(`,"amount":`)
		b.WriteString(strconv.FormatInt(p.Amount, 10))
		b.WriteByte('}')
	}
	b.WriteString(`]}`)
	return b.Bytes()
}

// Digest returns the 0x-prefixed lowercase hex sha256 of Canonical(payouts).
func Digest(payouts []model.Payout) string {
	sum := sha256.Sum256(Canonical(payouts))
	return Prefix + hex.EncodeToString(sum[:])
}

// Verify recomputes the digest for r.Payouts and compares it with
// r.Attestation. Results that pay nothing (no payouts, or only zero amounts)
// are unattested and must carry an empty attestation.
func Verify(r model.Result) error {
	if r.Attestation == "" {
		for _, p := range r.Payouts {
			if p.Amount != 0 {
				return fmt.Errorf("%w: payouts carry no attestation", ErrMismatch)
			}
		}
		return nil
	}
	if len(r.Payouts) == 0 {
		return fmt.Errorf("%w: empty payouts carry %q", ErrMismatch, r.Attestation)
	}
	if !strings.HasPrefix(r.Attestation, Prefix) {
		return fmt.Errorf("%w: missing %s prefix", ErrMalformed, Prefix)
	}
	if _, err := hex.DecodeString(r.Attestation[len(Prefix):]); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if want := Digest(r.Payouts); want != r.Attestation {
		return fmt.Errorf("%w: got %s, want %s", ErrMismatch, r.Attestation, want)
	}
	return nil
}

const hexDigits = "0123456789abcdef"

func writeString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0xf])
			} else {
				b.WriteByte(c)
			}
		}
		i++
	}
	b.WriteByte('"')
}

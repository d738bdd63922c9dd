// Package numeric implements the number classification, parsing, and
// formatting shared by jsontoken's UTF-8 reader and writer, grounded on
// the teacher's internal/jsonwire number-handling helpers (AppendFloat,
// ParseFloat, ParseInt, ParseUint in the retrieved encode.go).
//
// The tokenizer itself only classifies a number's lexical span; parsing is
// deferred until a typed accessor (ReadInt64, ReadFloat64, ...) is called,
// per spec.md §4.1's "tokenizer classifies numbers without parsing" rule.
package numeric

import (
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Form reports the lexical shape of a scanned JSON number, enough to pick a
// fast integer path without re-scanning the bytes.
type Form struct {
	Text       string
	Negative   bool
	HasFrac    bool // contains '.'
	HasExp     bool // contains 'e' or 'E'
}

// IsInteger reports whether the number's lexical form could be represented
// exactly as an integer (no fraction, no exponent). This is necessary but
// not sufficient — the magnitude must still be checked against the target
// width.
func (f Form) IsInteger() bool { return !f.HasFrac && !f.HasExp }

// ParseInt64 attempts the integer fast path described in spec.md §4.1:
// nextInt/nextLong try an integer parse first and only fall back to a
// double parse (with range check) on overflow or fractional/exponent form.
func ParseInt64(f Form) (int64, bool) {
	if !f.IsInteger() {
		return 0, false
	}
	n, err := strconv.ParseInt(f.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseUint64 mirrors ParseInt64 for the unsigned fast path.
func ParseUint64(f Form) (uint64, bool) {
	if !f.IsInteger() || f.Negative {
		return 0, false
	}
	n, err := strconv.ParseUint(f.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloat64 parses the double-precision fallback path. In strict mode,
// non-finite literal spellings ("NaN", "Infinity", "-Infinity") are rejected
// by the caller before reaching here; this function only ever sees a
// grammatically valid JSON number.
func ParseFloat64(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

// FormatFloat64 renders f using the shortest round-trip decimal
// representation, per spec.md §6 ("Encoded doubles use the shortest
// round-trip representation"). -0.0 is preserved; callers are responsible
// for routing NaN/Infinity through the lenient-mode bare-token path or the
// strict-mode error path before calling this.
func FormatFloat64(f float64) string {
	if f == 0 && math.Signbit(f) {
		return "-0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatInt64 and FormatUint64 round out the canonical string form used
// when a Token's numeric payload is promoted into an object name
// (spec.md §4.2 "Promotion").
func FormatInt64(n int64) string   { return strconv.FormatInt(n, 10) }
func FormatUint64(n uint64) string { return strconv.FormatUint(n, 10) }

// ParseDecimal and FormatDecimal back the opt-in big-number capability
// (spec.md §9's open question): arbitrary-precision decimals, using
// github.com/cockroachdb/apd/v3 rather than a hand-rolled bignum, so that
// larger-than-float64 precision numbers round-trip exactly when a caller
// opts into BigDecimal support.
func ParseDecimal(text string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(text)
	return d, err
}

func FormatDecimal(d *apd.Decimal) string {
	return d.Text('f')
}

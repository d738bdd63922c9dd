package jsontoken

import "unicode/utf8"

// escapeTable mirrors the teacher's escapeRunes ASCII cache (escape.go):
// a per-byte lookup saying whether and how an ASCII character must be
// escaped when writing a JSON string. 0 means "write as-is", -1 means
// "write the short \X form", +1 means "write the \u00XX form".
var escapeTable = [utf8.RuneSelf]int8{
	// 0x00-0x1F: all JSON control characters must be escaped.
	0x00: 1, 0x01: 1, 0x02: 1, 0x03: 1, 0x04: 1, 0x05: 1, 0x06: 1, 0x07: 1,
	0x08: -1 /* \b */, 0x09: -1 /* \t */, 0x0A: -1 /* \n */, 0x0B: 1,
	0x0C: -1 /* \f */, 0x0D: -1 /* \r */, 0x0E: 1, 0x0F: 1,
	0x10: 1, 0x11: 1, 0x12: 1, 0x13: 1, 0x14: 1, 0x15: 1, 0x16: 1, 0x17: 1,
	0x18: 1, 0x19: 1, 0x1A: 1, 0x1B: 1, 0x1C: 1, 0x1D: 1, 0x1E: 1, 0x1F: 1,
	'"':  -1,
	'\\': -1,
}

func shortEscape(c byte) (byte, bool) {
	switch c {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '\b':
		return 'b', true
	case '\f':
		return 'f', true
	case '\n':
		return 'n', true
	case '\r':
		return 'r', true
	case '\t':
		return 't', true
	default:
		return 0, false
	}
}

const hexDigits = "0123456789abcdef"

func appendHexEscape(dst []byte, c uint16) []byte {
	dst = append(dst, '\\', 'u')
	dst = append(dst, hexDigits[(c>>12)&0xF], hexDigits[(c>>8)&0xF], hexDigits[(c>>4)&0xF], hexDigits[c&0xF])
	return dst
}

// appendEscapedString writes s as a double-quoted JSON string literal,
// escaping per RFC 8259, plus the extensions spec.md §4.2 mandates:
// U+2028 and U+2029 (which are valid inside a JS string literal but not a
// JS *program*, hence many writers escape them defensively) must always be
// escaped, and control characters below 0x20 are always emitted as \uXXXX
// (never left as a short form beyond the canonical \b\f\n\r\t set above).
func appendEscapedString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if escapeTable[c] != 0 {
				dst = append(dst, s[start:i]...)
				if sc, ok := shortEscape(c); ok {
					dst = append(dst, '\\', sc)
				} else {
					dst = appendHexEscape(dst, uint16(c))
				}
				i++
				start = i
				continue
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == ' ' || r == ' ' {
			dst = append(dst, s[start:i]...)
			dst = appendHexEscape(dst, uint16(r))
			i += size
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	dst = append(dst, '"')
	return dst
}

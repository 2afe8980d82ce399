// Package encoding implements the narrow/wide dual ABI conversions and the
// truncation-aware buffer writers the ODBC string entrypoints need.
//
// x/text's unicode.UTF16 encoder/decoder (golang.org/x/text/encoding/unicode)
// already applies the same lenient U+FFFD replacement policy this package
// needs, but it reports
// failures only as a transform.Transformer error, not as the first-bad-offset
// pointer requires callers to get back. Session-init SQL files
// (internal/connection) are read through x/text's unicode.BOMOverride so a
// leading UTF-8 BOM doesn't leak into the SQL text; everything on the hot
// per-call ODBC path below is hand-walked with unicode/utf8 and
// unicode/utf16 so the offset can be tracked precisely.
package encoding

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF8ToUTF16Lenient converts s to a UTF-16 code-unit sequence. Any
// ill-formed UTF-8 (bad leading byte, bad continuation, overlong encoding,
// incomplete trailer, code point beyond U+10FFFF, lone surrogate encoded in
// WTF-8 form) is replaced by U+FFFD. badOffset reports the byte offset of
// the first invalid byte seen, or -1 if the input was entirely well-formed.
//
// We do not route this through x/text's UTF16 encoder directly: that
// encoder already replaces invalid runes with U+FFFD (matching our policy)
// but does not report an offset, and callers need a pointer to the first
// invalid byte. So we walk
// runes ourselves with unicode/utf8.DecodeRuneInString, which is the
// standard-library primitive x/text's own decoder is built on, and lean on
// unicode/utf16.Encode (used by x/text internally) to do the surrogate-pair
// splitting once runes are known good.
func UTF8ToUTF16Lenient(s string) (out []uint16, badOffset int) {
	badOffset = -1
	runes := make([]rune, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			if badOffset < 0 {
				badOffset = i
			}
			runes = append(runes, 0xFFFD)
			if size == 0 {
				size = 1
			}
			i += size
			continue
		}
		if r > 0x10FFFF || (r >= 0xD800 && r <= 0xDFFF) {
			if badOffset < 0 {
				badOffset = i
			}
			runes = append(runes, 0xFFFD)
			i += size
			continue
		}
		runes = append(runes, r)
		i += size
	}
	out = utf16.Encode(runes)
	return out, badOffset
}

// UTF16ToUTF8Lenient converts a UTF-16 code-unit sequence to UTF-8. Lone
// high/low surrogates and truncated pairs are each replaced by one U+FFFD;
// valid pairs pass through unchanged. badOffset is the code-unit index (not
// byte offset) of the first invalid unit, or -1 if clean.
func UTF16ToUTF8Lenient(units []uint16) (out string, badOffset int) {
	badOffset = -1
	buf := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < 0xD800 || u > 0xDFFF:
			buf = append(buf, rune(u))
		case u <= 0xDBFF: // high surrogate
			if i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
				r := utf16.DecodeRune(rune(u), rune(units[i+1]))
				buf = append(buf, r)
				i++
			} else {
				if badOffset < 0 {
					badOffset = i
				}
				buf = append(buf, 0xFFFD)
			}
		default: // lone low surrogate
			if badOffset < 0 {
				badOffset = i
			}
			buf = append(buf, 0xFFFD)
		}
	}
	return string(buf), badOffset
}

// WriteResult is the outcome of a truncation-aware buffer write.
type WriteResult struct {
	// Truncated is true iff the string did not fit and was cut short.
	Truncated bool
	// FullLen is the untruncated length of the source, in the unit the
	// caller's length-out pointer uses (bytes for narrow, bytes for wide —
	// matching the per-call-site ODBC convention).
	FullLen int
}

// WriteNarrow implements the narrow (UTF-8) buffer-writer contract
// for an SQLSMALLINT-width length counter. buf is the caller's
// output buffer (nil means "report length only"); it returns the number of
// bytes written (always including a trailing NUL when buf != nil and
// len(buf) > 0) and the WriteResult describing truncation/full length.
func WriteNarrow(buf []byte, s string) (written int, res WriteResult) {
	full := len(s)
	res.FullLen = full
	if buf == nil {
		return 0, res
	}
	if len(buf) == 0 {
		return 0, res
	}
	room := len(buf) - 1 // reserve the NUL terminator
	n := full
	if n > room {
		n = room
		res.Truncated = true
	}
	copy(buf, s[:n])
	buf[n] = 0
	return n + 1, res
}

// WriteWide implements the wide (UTF-16) buffer-writer contract. buf is a
// caller-provided []uint16 output buffer (nil means "report length only").
// The returned length is in uint16 units written including the terminator;
// res.FullLen is reported in BYTES (the ODBC convention for length-out
// pointers on most wide entrypoints).
func WriteWide(buf []uint16, units []uint16) (written int, res WriteResult) {
	full := len(units)
	res.FullLen = full * 2
	if buf == nil {
		return 0, res
	}
	if len(buf) == 0 {
		return 0, res
	}
	room := len(buf) - 1
	n := full
	if n > room {
		n = room
		res.Truncated = true
	}
	copy(buf, units[:n])
	buf[n] = 0
	return n + 1, res
}

// WriteWideFromString is a convenience wrapper around WriteWide that first
// lenient-converts a Go string to UTF-16.
func WriteWideFromString(buf []uint16, s string) (written int, res WriteResult) {
	units, _ := UTF8ToUTF16Lenient(s)
	return WriteWide(buf, units)
}

// TruncationState reports the SQLSTATE/return-code pair a caller should
// surface for a WriteResult: "01004" + SUCCESS_WITH_INFO iff truncation
// occurred, otherwise no diagnostic is needed.
func (r WriteResult) TruncationState() (sqlstate string, warn bool) {
	if r.Truncated {
		return "01004", true
	}
	return "", false
}

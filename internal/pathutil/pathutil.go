// Package pathutil recognizes the handful of special path segments the
// WHATWG path-construction rules care about: single/double dot segments and
// Windows drive letters (spec.md §3, §4.4).
//
// Grounded on nlnwa-whatwg-url/url/parser.go's isSingleDotPathSegment,
// isDoubleDotPathSegment, isWindowsDriveLetter and
// isNormalizedWindowsDriveLetter helpers (other_examples), adapted to work
// over []byte instead of string and folded into one predicate surface
// shared by the scanner, the resolver and the path-components view so the
// three don't each reimplement the same ASCII-case-insensitive comparisons.
package pathutil

import (
	"bytes"

	"github.com/pavlik/weburl/internal/ascii"
)

func lowerEq(b, want []byte) bool {
	if len(b) != len(want) {
		return false
	}
	for i := range b {
		c := b[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != want[i] {
			return false
		}
	}
	return true
}

// IsSingleDotSegment reports whether seg is "." or a case-insensitive
// percent-encoding of it ("%2e").
func IsSingleDotSegment(seg []byte) bool {
	if bytes.Equal(seg, []byte(".")) {
		return true
	}
	return lowerEq(seg, []byte("%2e"))
}

// IsDoubleDotSegment reports whether seg is ".." or any case-insensitive mix
// of literal/percent-encoded dots equivalent to it (".%2e", "%2e.", "%2e%2e").
func IsDoubleDotSegment(seg []byte) bool {
	if bytes.Equal(seg, []byte("..")) {
		return true
	}
	switch {
	case lowerEq(seg, []byte(".%2e")):
		return true
	case lowerEq(seg, []byte("%2e.")):
		return true
	case lowerEq(seg, []byte("%2e%2e")):
		return true
	}
	return false
}

// IsWindowsDriveLetter reports whether seg is exactly [A-Za-z] followed by
// ':' or '|'.
func IsWindowsDriveLetter(seg []byte) bool {
	if len(seg) != 2 {
		return false
	}
	return ascii.Alpha.Contains(seg[0]) && (seg[1] == ':' || seg[1] == '|')
}

// IsNormalizedWindowsDriveLetter reports whether seg is [A-Za-z] followed by
// ':' specifically (the canonical, serialized form).
func IsNormalizedWindowsDriveLetter(seg []byte) bool {
	if len(seg) != 2 {
		return false
	}
	return ascii.Alpha.Contains(seg[0]) && seg[1] == ':'
}

// StartsWithWindowsDriveLetter reports whether s begins with a Windows drive
// letter that is either the whole string or immediately followed by a path
// separator or component terminator.
func StartsWithWindowsDriveLetter(s []byte) bool {
	if len(s) < 2 || !IsWindowsDriveLetter(s[0:2]) {
		return false
	}
	if len(s) == 2 {
		return true
	}
	switch s[2] {
	case '/', '\\', '?', '#':
		return true
	}
	return false
}

// NormalizeDriveLetter rewrites a leading "X|" segment to "X:", the
// serialization rule required for file: URLs (spec.md §4.8 rule 3). A
// segment already in "X:" form is returned unchanged without allocating.
func NormalizeDriveLetter(seg []byte) []byte {
	if IsNormalizedWindowsDriveLetter(seg) {
		return seg
	}
	if !IsWindowsDriveLetter(seg) {
		return seg
	}
	out := make([]byte, 2)
	out[0] = seg[0]
	out[1] = ':'
	return out
}

// Package ascii classifies bytes and defines the percent-encode predicate
// sets used throughout the parser and serializer (spec.md §4.1).
package ascii

import "github.com/willf/bitset"

// Set is a predicate over byte values, backed by a 256-bit set.
//
// Grounded on nlnwa-whatwg-url/url/parser.go (other_examples), which
// represents every WHATWG encode-set the same way: a *bitset.BitSet built
// once and tested with Test(uint(b)).
type Set struct {
	bits *bitset.BitSet
}

// NewSet builds a Set containing exactly the given bytes.
func NewSet(bytes ...byte) Set {
	b := bitset.New(256)
	for _, c := range bytes {
		b.Set(uint(c))
	}
	return Set{bits: b}
}

// NewRangeSet builds a Set containing every byte in [lo, hi].
func NewRangeSet(lo, hi byte) Set {
	b := bitset.New(256)
	for c := int(lo); c <= int(hi); c++ {
		b.Set(uint(c))
	}
	return Set{bits: b}
}

// Contains reports whether c is a member of the set.
func (s Set) Contains(c byte) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(c))
}

// Union returns a new Set containing the members of s and other.
func (s Set) Union(other Set) Set {
	out := bitset.New(256)
	if s.bits != nil {
		out = out.Union(s.bits)
	}
	if other.bits != nil {
		out = out.Union(other.bits)
	}
	return Set{bits: out}
}

// With returns a copy of s with extra bytes added.
func (s Set) With(extra ...byte) Set {
	return s.Union(NewSet(extra...))
}

var (
	// C0 is every ASCII control byte, 0x00-0x1F.
	C0 = NewRangeSet(0x00, 0x1F)
	// TabOrNewline is the set of bytes the filtered input (spec.md §4.2)
	// silently drops.
	TabOrNewline = NewSet('\t', '\n', '\r')
	// Alpha is [A-Za-z].
	Alpha = NewRangeSet('a', 'z').Union(NewRangeSet('A', 'Z'))
	// Digit is [0-9].
	Digit = NewRangeSet('0', '9')
	// Alphanumeric is Alpha union Digit.
	Alphanumeric = Alpha.Union(Digit)
	// SchemeTrailing is the set of bytes allowed after the first byte of a
	// scheme: alphanumeric plus '+', '-', '.'.
	SchemeTrailing = Alphanumeric.With('+', '-', '.')
)

// C0Set is the percent-encode set used for the cannot-be-a-base opaque path
// (spec.md §4.1): C0 controls, space, and everything above 0x7E.
var C0Set = buildC0Set()

func buildC0Set() Set {
	s := C0.With(' ')
	for c := 0x7F; c <= 0xFF; c++ {
		s = s.With(byte(c))
	}
	return s
}

// UserinfoSet is the percent-encode set for username/password (spec.md §4.1).
var UserinfoSet = C0Set.With('/', ':', ';', '=', '@', '[', '\\', ']', '^', '|').With('"', '<', '>', '`').With('#', '?', '{', '}')

// PathSet is the percent-encode set for path segments.
var PathSet = C0Set.With('#', '?', '{', '}').With('"', '<', '>', '`')

// QuerySet is the percent-encode set for a query in a non-special URL.
var QuerySet = C0Set.With(' ', '"', '#', '<', '>')

// SpecialQuerySet additionally escapes the single quote for special schemes.
var SpecialQuerySet = QuerySet.With('\'')

// FragmentSet is the percent-encode set for the fragment.
var FragmentSet = C0Set.With(' ', '"', '<', '>', '`')

// FormSet is the percent-encode set for application/x-www-form-urlencoded
// content (the KV-pairs view's default schema, spec.md §6).
var FormSet = QuerySet.With('\'', '!', '(', ')', '~')

// IsURLCodePoint approximates the WHATWG "URL code point" production: any
// printable ASCII that is not a C0 control, plus anything above ASCII (the
// scanner never rejects non-ASCII, it only warns — spec.md §7).
func IsURLCodePoint(r rune) bool {
	if r > 0x7F {
		return true
	}
	b := byte(r)
	if C0.Contains(b) || b == 0x7F {
		return false
	}
	switch b {
	case ' ', '"', '<', '>', '`':
		return false
	}
	return true
}

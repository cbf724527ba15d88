// Package pct implements the percent-encoding codec (spec.md §4.1): a
// forward encoder driven by an ascii.Set predicate, and a decoder that
// tolerates truncated "%XX" sequences rather than failing outright (the
// scanner only ever warns about them, per spec.md §7).
//
// Grounded on ernestas-poskus-bytesurl/bytesurl.go's escape/unescape pair,
// generalized from a fixed `encoding` enum to an arbitrary ascii.Set so the
// same codec serves path, userinfo, query and fragment alike.
package pct

import (
	"strings"

	"github.com/pavlik/weburl/internal/ascii"
)

const upperHex = "0123456789ABCDEF"

func isHex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// AppendEncoded appends the percent-encoded form of b to dst, escaping every
// byte in set and passing everything else through unchanged.
func AppendEncoded(dst []byte, b []byte, set ascii.Set) []byte {
	for _, c := range b {
		if set.Contains(c) {
			dst = append(dst, '%', upperHex[c>>4], upperHex[c&0xF])
		} else {
			dst = append(dst, c)
		}
	}
	return dst
}

// Encode returns the percent-encoded form of b under set.
func Encode(b []byte, set ascii.Set) []byte {
	n := 0
	for _, c := range b {
		if set.Contains(c) {
			n++
		}
	}
	if n == 0 {
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
	out := make([]byte, 0, len(b)+2*n)
	return AppendEncoded(out, b, set)
}

// EncodeForm is like Encode but additionally turns literal space into '+'
// and forces literal '+' to be escaped, matching application/x-www-form
// -urlencoded output (spec.md §6, key-value schema "decode_plus_as_space").
func EncodeForm(dst []byte, b []byte, set ascii.Set) []byte {
	for _, c := range b {
		switch {
		case c == ' ':
			dst = append(dst, '+')
		case c == '+':
			dst = append(dst, '%', '2', 'B')
		case set.Contains(c):
			dst = append(dst, '%', upperHex[c>>4], upperHex[c&0xF])
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// ValidUpTo returns the length of the longest prefix of s that contains only
// well-formed "%XX" escapes, truncating at the first malformed one. It never
// fails: it is used by the input validator visitor (spec.md §4.4) to flag a
// stray '%' without aborting the scan.
func ValidUpTo(s []byte) (valid int, truncated bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return i, true
		}
	}
	return len(s), false
}

// Decode reverses Encode, decoding "%XX" sequences. A truncated or malformed
// escape at the end of the input is copied through verbatim rather than
// rejected, matching the tolerant-decoder requirement of spec.md §2.2.
func Decode(s []byte, plusAsSpace bool) []byte {
	n := 0
	hasPlus := false
	i := 0
	for i < len(s) {
		switch s[i] {
		case '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				n++
				i += 3
			} else {
				i++
			}
		case '+':
			if plusAsSpace {
				hasPlus = true
			}
			i++
		default:
			i++
		}
	}
	if n == 0 && !hasPlus {
		out := make([]byte, len(s))
		copy(out, s)
		return out
	}
	out := make([]byte, 0, len(s)-2*n)
	i = 0
	for i < len(s) {
		switch s[i] {
		case '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
				i += 3
			} else {
				out = append(out, s[i])
				i++
			}
		case '+':
			if plusAsSpace {
				out = append(out, ' ')
			} else {
				out = append(out, '+')
			}
			i++
		default:
			out = append(out, s[i])
			i++
		}
	}
	return out
}

// DecodeString is a convenience wrapper returning a string.
func DecodeString(s []byte, plusAsSpace bool) string {
	return string(Decode(s, plusAsSpace))
}

// ReverseChunks lazily yields the encoded form of b from right to left, one
// source byte (one to three encoded output bytes) at a time. It is used by
// the path resolver's reverse visitors (spec.md §4.4) to build the
// serialized path back-to-front without materializing an intermediate
// forward-encoded buffer.
type ReverseChunks struct {
	b   []byte
	set ascii.Set
	pos int
}

// NewReverseChunks starts a reverse iterator positioned after the last byte
// of b.
func NewReverseChunks(b []byte, set ascii.Set) *ReverseChunks {
	return &ReverseChunks{b: b, set: set, pos: len(b)}
}

// Next returns the next encoded chunk (closest to the end of b first), or
// "", false once exhausted.
func (r *ReverseChunks) Next() (string, bool) {
	if r.pos <= 0 {
		return "", false
	}
	r.pos--
	c := r.b[r.pos]
	if !r.set.Contains(c) {
		return string(c), true
	}
	var sb strings.Builder
	sb.WriteByte('%')
	sb.WriteByte(upperHex[c>>4])
	sb.WriteByte(upperHex[c&0xF])
	return sb.String(), true
}

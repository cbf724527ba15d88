// Package filter wraps a raw byte sequence with the trimming and skipping
// rules spec.md §4.2 requires of the scanner's input: leading/trailing C0
// controls and space are trimmed, and tab/LF/CR are transparently skipped
// before the scanner ever sees a byte.
//
// Grounded on nlnwa-whatwg-url/url/parser.go's trim/remove helpers
// (other_examples), which perform the same two trim/skip passes over a
// string.
package filter

import "github.com/pavlik/weburl/internal/ascii"

// Input is a trimmed view over raw bytes: Start()/End() bound the
// leading/trailing C0-and-space-trimmed range within Raw().
type Input struct {
	raw        []byte
	start, end int // [start, end) is the C0/space-trimmed range of raw
}

// New builds a filtered Input over raw, trimming leading/trailing C0 and
// space. It reports whether trimming changed anything (a validation
// warning per spec.md §7).
func New(raw []byte) (in Input, trimmed bool) {
	start, end := 0, len(raw)
	for start < end && isTrimByte(raw[start]) {
		start++
	}
	for end > start && isTrimByte(raw[end-1]) {
		end--
	}
	return Input{raw: raw, start: start, end: end}, start != 0 || end != len(raw)
}

func isTrimByte(b byte) bool {
	return ascii.C0.Contains(b) || b == ' '
}

func isSkipByte(b byte) bool {
	return ascii.TabOrNewline.Contains(b)
}

// Raw returns the original, untrimmed byte sequence.
func (in Input) Raw() []byte { return in.raw }

// Start and End are the trimmed range's bounds as indices into Raw().
func (in Input) Start() int { return in.start }
func (in Input) End() int   { return in.end }

// HasSkippedBytes reports whether any tab/LF/CR appears in the trimmed
// range (a validation warning per spec.md §7).
func (in Input) HasSkippedBytes() bool {
	for i := in.start; i < in.end; i++ {
		if isSkipByte(in.raw[i]) {
			return true
		}
	}
	return false
}

// Len is the number of significant (non-skipped) bytes in the filtered
// view, computed in O(n). The scanner never calls this; it is exposed for
// callers that need an upfront count (spec.md §4.2 notes the scanner avoids
// it).
func (in Input) Len() int {
	n := 0
	for i := in.start; i < in.end; i++ {
		if !isSkipByte(in.raw[i]) {
			n++
		}
	}
	return n
}

// Bytes materializes the filtered bytes (trimmed, with skip-bytes removed)
// as a fresh slice. This is the only view the scanner consumes; it does not
// preserve raw-index correspondence, so callers that need to report a raw
// byte offset must track it themselves against the untouched Raw() slice.
func (in Input) Bytes() []byte {
	out := make([]byte, 0, in.end-in.start)
	for i := in.start; i < in.end; i++ {
		if !isSkipByte(in.raw[i]) {
			out = append(out, in.raw[i])
		}
	}
	return out
}

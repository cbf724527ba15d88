// Package scheme enumerates the WHATWG special schemes (spec.md §3) and
// parses a scheme token against them.
//
// Grounded on nlnwa-whatwg-url/url/parser.go's specialSchemes map (default
// ports as strings, other_examples) and bytesurl.go's getscheme
// (prefix/character-class scan, same repo as the rest of this package's
// parsing style); combined into a single lowercasing Parse that returns a
// Kind together with the lowercased scheme, allocating the lowercased copy
// it returns.
package scheme

import "github.com/pavlik/weburl/internal/ascii"

// Kind tags a parsed scheme.
type Kind int

const (
	Other Kind = iota
	FTP
	File
	HTTP
	HTTPS
	WS
	WSS
)

// String returns the lowercase scheme token for a known Kind, or "" for
// Other (callers of Other must keep the original bytes separately).
func (k Kind) String() string {
	switch k {
	case FTP:
		return "ftp"
	case File:
		return "file"
	case HTTP:
		return "http"
	case HTTPS:
		return "https"
	case WS:
		return "ws"
	case WSS:
		return "wss"
	default:
		return ""
	}
}

// IsSpecial reports whether k is one of the six recognized special schemes
// (spec.md §3: "special" := anything other than other).
func (k Kind) IsSpecial() bool { return k != Other }

// DefaultPort returns the scheme's default port and whether it has one.
// file: has no default port.
func (k Kind) DefaultPort() (port uint16, ok bool) {
	switch k {
	case FTP:
		return 21, true
	case HTTP, WS:
		return 80, true
	case HTTPS, WSS:
		return 443, true
	default:
		return 0, false
	}
}

var table = map[string]Kind{
	"ftp":   FTP,
	"file":  File,
	"http":  HTTP,
	"https": HTTPS,
	"ws":    WS,
	"wss":   WSS,
}

// Lookup maps a lowercased scheme string to its Kind.
func Lookup(lower string) Kind {
	if k, ok := table[lower]; ok {
		return k
	}
	return Other
}

// Valid reports whether b is a syntactically valid scheme token: an ASCII
// alpha followed by any number of ASCII alphanumeric, '+', '-', '.'.
func Valid(b []byte) bool {
	if len(b) == 0 || !ascii.Alpha.Contains(b[0]) {
		return false
	}
	for _, c := range b[1:] {
		if !ascii.SchemeTrailing.Contains(c) {
			return false
		}
	}
	return true
}

// Parse lowercases an ASCII scheme token and classifies it. It does not
// validate the token's character class; call Valid first if that matters.
func Parse(b []byte) (kind Kind, lower string) {
	buf := make([]byte, len(b))
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[i] = c
	}
	lower = string(buf)
	return Lookup(lower), lower
}

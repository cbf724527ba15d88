// Package host is the host-parsing collaborator spec.md §2 deliberately
// keeps out of the core: the scanner calls Parse and stores only the
// resulting bytes and Kind tag, never reimplementing IPv4/IPv6 octet
// layout or IDNA itself.
//
// Grounded on the teacher's own use of golang.org/x/net/idna inside
// Normalize() (region23-urlparser/urlparser.go) for Punycode handling;
// generalized here into the dedicated domain-host case of Parse. IPv4/IPv6
// literal recognition has no such library in the retrieved pack: IPv6 falls
// back to net.ParseIP, and IPv4 to a small dotted-quad reformatter that
// drops leading zeros from each octet — see DESIGN.md for the stdlib
// justification.
package host

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Kind tags the shape of a parsed host (spec.md §3: "Host-kind tag
// (domain|ipv4|ipv6|opaque|empty) is produced by the external host
// parser").
type Kind int

const (
	KindEmpty Kind = iota
	KindDomain
	KindIPv4
	KindIPv6
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindDomain:
		return "domain"
	case KindIPv4:
		return "ipv4"
	case KindIPv6:
		return "ipv6"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Error is returned when a host string is not parseable for the scheme
// it's being parsed under (spec.md §7 error kind "host").
type Error struct {
	Input string
	Msg   string
}

func (e *Error) Error() string { return fmt.Sprintf("invalid host %q: %s", e.Input, e.Msg) }

var profile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// Parse classifies and normalizes a host string for the given scheme
// specialness, returning the serialized host bytes (IPv6 bracketed) and
// its Kind. isSpecial controls whether an empty host is fatal and whether
// dotted-decimal IPv4 parsing is attempted at all (spec.md §4.3: "Empty
// host is fatal for special schemes"; non-special, non-file schemes treat
// the host as opaque).
func Parse(raw string, isSpecial bool, isFile bool) (serialized string, kind Kind, err error) {
	if raw == "" {
		if isSpecial && !isFile {
			return "", KindEmpty, &Error{Input: raw, Msg: "empty host forbidden for special scheme"}
		}
		return "", KindEmpty, nil
	}

	if strings.HasPrefix(raw, "[") {
		if !strings.HasSuffix(raw, "]") {
			return "", KindOpaque, &Error{Input: raw, Msg: "unterminated IPv6 address"}
		}
		inner := raw[1 : len(raw)-1]
		ip := net.ParseIP(inner)
		if ip == nil || ip.To4() != nil {
			return "", KindOpaque, &Error{Input: raw, Msg: "invalid IPv6 address"}
		}
		return "[" + canonicalIPv6(ip) + "]", KindIPv6, nil
	}

	if !isSpecial && !isFile {
		return parseOpaqueHost(raw)
	}

	if looksLikeIPv4(raw) {
		parts := strings.Split(raw, ".")
		out := make([]string, len(parts))
		for i, p := range parts {
			n, convErr := strconv.ParseUint(p, 10, 8)
			if convErr != nil {
				return "", KindOpaque, &Error{Input: raw, Msg: "invalid IPv4 address"}
			}
			out[i] = strconv.FormatUint(n, 10)
		}
		return strings.Join(out, "."), KindIPv4, nil
	}

	ascii, decErr := profile.ToASCII(raw)
	if decErr != nil {
		return "", KindOpaque, &Error{Input: raw, Msg: decErr.Error()}
	}
	return strings.ToLower(ascii), KindDomain, nil
}

// canonicalIPv6 renders ip in the WHATWG-compressed form: lowercase hex,
// leading zeroes dropped per piece, longest run of zero pieces replaced by
// "::" (net.IP.String already implements exactly this for 16-byte IPs).
func canonicalIPv6(ip net.IP) string {
	return ip.String()
}

// looksLikeIPv4 reports whether raw has the coarse shape of a dotted IPv4
// literal (spec.md's scanner dispatches to IPv4 parsing only on a syntactic
// hint, not by always attempting it against arbitrary domains).
func looksLikeIPv4(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		if _, err := strconv.Atoi(p); err != nil {
			return false
		}
	}
	return true
}

// parseOpaqueHost validates a non-special host as a bag of URL code points
// plus percent-encoding, per spec.md's "opaque" host kind; the bytes are
// returned unchanged (not lowercased), since WHATWG does not lowercase
// opaque hosts.
func parseOpaqueHost(raw string) (string, Kind, error) {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == 0x00 || c == 0x09 || c == 0x0A || c == 0x0D {
			return "", KindOpaque, &Error{Input: raw, Msg: "forbidden host code point"}
		}
	}
	return raw, KindOpaque, nil
}

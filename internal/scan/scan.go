// Package scan implements the URL scanner of spec.md §4.3: given filtered
// input bytes and an optional base URL, it produces a Mapping describing
// every component without resolving the path or allocating the final
// serialization — that is left to internal/resolve and internal/writer.
//
// Grounded structurally on region23-urlparser.Parse's regexp-driven
// component split, replaced here with the scanner's explicit two-phase
// dispatch (find_scheme, then scan_url_with_scheme) spec.md §4.3 requires,
// since a single regexp cannot express the base-URL cascading-copy rules
// or the cannot-be-a-base-URL branch. The authority/credential-splitting
// rule (last '@' splits credentials from host, first ':' before it splits
// username/password) follows nlnwa-whatwg-url's stateAuthority
// (other_examples).
package scan

import (
	"errors"

	"github.com/pavlik/weburl/internal/ascii"
	"github.com/pavlik/weburl/internal/filter"
	"github.com/pavlik/weburl/internal/scheme"
)

// Warning is a non-fatal validation diagnostic (spec.md §7 "validation
// -warnings"), reported to a sink but never aborting the scan by itself.
type Warning struct {
	Kind   string
	Detail string
}

// ValidationSink receives warnings as the scanner finds them. The scanner
// never implements its own reporting policy; that is deliberately left to
// the collaborator (spec.md §1's "scanner's validation-error callback
// surface" is out of core scope).
type ValidationSink interface {
	Report(w Warning)
}

// NoopSink discards every warning.
type NoopSink struct{}

func (NoopSink) Report(Warning) {}

// ErrMissingScheme is returned when the input has no scheme and no base
// URL was supplied to resolve one against.
var ErrMissingScheme = errors.New("scan: relative reference without a base URL")

// ErrCannotBeABaseURLRelative is returned when the base URL cannot be a
// base and the input is not a bare fragment.
var ErrCannotBeABaseURLRelative = errors.New("scan: base URL cannot be a base URL")

// PathMode tags how Mapping.Path should be turned into a resolved path by
// the caller.
type PathMode int

const (
	// PathOwn: Path is this URL's own (possibly empty) path; dot-segments
	// collapse within it alone, no base merge.
	PathOwn PathMode = iota
	// PathMerge: Path is a relative remainder to merge against the base
	// URL's path directory (resolve.Resolve with HasBase=true).
	PathMerge
	// PathCopy: take the base URL's path verbatim; Path is unused.
	PathCopy
	// PathOpaque: Path is an opaque, unsegmented string (cannot-be-a-base
	// URLs); never passed through the path resolver.
	PathOpaque
)

// Base is the subset of a previously-parsed URL the scanner needs to
// resolve a relative reference against.
type Base struct {
	SchemeKind      scheme.Kind
	Scheme          string
	CannotBeABase   bool
	HasAuthority    bool
	Username        string
	HasPassword     bool
	Password        string
	Hostname        string
	HasPort         bool
	Port            string
	Path            []byte
	HasQuery        bool
	Query           []byte
}

// Mapping is the scanner's output: every component's raw (pre-resolve,
// pre-percent-decode) bytes plus enough structure for the caller to finish
// resolving the path and invoke the host parser.
type Mapping struct {
	SchemeKind    scheme.Kind
	Scheme        string
	CannotBeABase bool

	HasAuthority bool
	Username     string
	HasPassword  bool
	Password     string
	Hostname     string
	HasPort      bool
	Port         string

	PathMode PathMode
	Path     []byte

	HasQuery bool
	Query    []byte

	HasFragment bool
	Fragment    []byte
}

func isSpecialByte(b byte, isSpecial bool) bool {
	return b == '/' || (isSpecial && b == '\\')
}

// Scan drives the two-phase dispatch of spec.md §4.3 over raw input.
func Scan(raw []byte, base *Base, sink ValidationSink) (Mapping, error) {
	if sink == nil {
		sink = NoopSink{}
	}
	in, trimmed := filter.New(raw)
	if trimmed {
		sink.Report(Warning{Kind: "leading-or-trailing-c0-or-space"})
	}
	if in.HasSkippedBytes() {
		sink.Report(Warning{Kind: "tab-or-newline"})
	}
	b := in.Bytes()

	if kind, lower, rest, ok := findScheme(b); ok {
		return scanWithScheme(kind, lower, rest, base, sink)
	}

	if base == nil {
		return Mapping{}, ErrMissingScheme
	}
	if base.CannotBeABase {
		if len(b) > 0 && b[0] == '#' {
			return Mapping{
				SchemeKind:    base.SchemeKind,
				Scheme:        base.Scheme,
				CannotBeABase: true,
				PathMode:      PathCopy,
				HasQuery:      base.HasQuery,
				Query:         base.Query,
				HasFragment:   true,
				Fragment:      b[1:],
			}, nil
		}
		return Mapping{}, ErrCannotBeABaseURLRelative
	}
	return scanRelativeBody(b, base.SchemeKind, base.Scheme, base, sink)
}

// findScheme recognizes "alpha [alnum+-.]* ':'" at the start of b.
func findScheme(b []byte) (kind scheme.Kind, lower string, rest []byte, ok bool) {
	if len(b) == 0 || !ascii.Alpha.Contains(b[0]) {
		return 0, "", nil, false
	}
	i := 1
	for i < len(b) && ascii.SchemeTrailing.Contains(b[i]) {
		i++
	}
	if i >= len(b) || b[i] != ':' {
		return 0, "", nil, false
	}
	k, lo := scheme.Parse(b[:i])
	return k, lo, b[i+1:], true
}

func scanWithScheme(kind scheme.Kind, lower string, rest []byte, base *Base, sink ValidationSink) (Mapping, error) {
	isSpecial := kind.IsSpecial()
	switch {
	case kind == scheme.File:
		return scanFileScheme(lower, rest, base, sink)
	case !isSpecial:
		if len(rest) > 0 && rest[0] == '/' {
			m := Mapping{SchemeKind: kind, Scheme: lower}
			return scanAuthorityOrPath(&m, rest, false, sink)
		}
		m := Mapping{SchemeKind: kind, Scheme: lower, CannotBeABase: true, PathMode: PathOpaque}
		return scanOpaquePathQueryFragment(&m, rest), nil
	default:
		if hasAuthoritySlashes(rest, isSpecial) {
			m := Mapping{SchemeKind: kind, Scheme: lower}
			after := skipAuthoritySlashes(rest, isSpecial, sink, true)
			return scanAuthorityThenRest(&m, after, isSpecial, sink)
		}
		if base != nil && base.SchemeKind == kind {
			return scanRelativeBody(rest, kind, lower, base, sink)
		}
		sink.Report(Warning{Kind: "special-scheme-missing-authority-slashes"})
		after := skipAuthoritySlashes(rest, isSpecial, sink, false)
		m := Mapping{SchemeKind: kind, Scheme: lower}
		return scanAuthorityThenRest(&m, after, isSpecial, sink)
	}
}

func hasAuthoritySlashes(rest []byte, isSpecial bool) bool {
	if len(rest) >= 2 && rest[0] == '/' && rest[1] == '/' {
		return true
	}
	return isSpecial && len(rest) >= 2 && isSpecialByte(rest[0], true) && isSpecialByte(rest[1], true)
}

func skipAuthoritySlashes(rest []byte, isSpecial bool, sink ValidationSink, strict bool) []byte {
	n := 0
	for n < 2 && n < len(rest) && isSpecialByte(rest[n], isSpecial) {
		if rest[n] == '\\' {
			sink.Report(Warning{Kind: "backslash-as-slash"})
		}
		n++
	}
	return rest[n:]
}

func scanFileScheme(lower string, rest []byte, base *Base, sink ValidationSink) (Mapping, error) {
	m := Mapping{SchemeKind: scheme.File, Scheme: lower}
	if len(rest) >= 2 && isSpecialByte(rest[0], true) && isSpecialByte(rest[1], true) {
		after := skipAuthoritySlashes(rest, true, sink, true)
		return scanAuthorityThenRest(&m, after, true, sink)
	}
	sink.Report(Warning{Kind: "file-scheme-missing-authority-slashes"})
	if base != nil && base.SchemeKind == scheme.File {
		return scanRelativeBody(rest, scheme.File, lower, base, sink)
	}
	return scanAuthorityOrPath(&m, rest, true, sink)
}

// scanAuthorityOrPath implements the non-special "other" scheme's
// "path-or-authority" state: a single leading '/' may introduce either an
// authority ("//") or an absolute path ("/x").
func scanAuthorityOrPath(m *Mapping, rest []byte, isSpecial bool, sink ValidationSink) (Mapping, error) {
	if len(rest) >= 2 && rest[0] == '/' && rest[1] == '/' {
		return scanAuthorityThenRest(m, rest[2:], isSpecial, sink)
	}
	m.PathMode = PathOwn
	return scanPathQueryFragment(m, rest, isSpecial, sink)
}

func scanAuthorityThenRest(m *Mapping, rest []byte, isSpecial bool, sink ValidationSink) (Mapping, error) {
	end := len(rest)
	for i, c := range rest {
		if c == '/' || c == '?' || c == '#' || (isSpecial && c == '\\') {
			end = i
			break
		}
	}
	authority := rest[:end]
	tail := rest[end:]

	if err := parseAuthority(m, authority, isSpecial, sink); err != nil {
		return Mapping{}, err
	}
	m.HasAuthority = true
	m.PathMode = PathOwn
	return scanPathQueryFragment(m, tail, isSpecial, sink)
}

func parseAuthority(m *Mapping, authority []byte, isSpecial bool, sink ValidationSink) error {
	at := -1
	for i := len(authority) - 1; i >= 0; i-- {
		if authority[i] == '@' {
			at = i
			break
		}
	}
	hostPort := authority
	if at >= 0 {
		creds := authority[:at]
		hostPort = authority[at+1:]
		colon := -1
		for i, c := range creds {
			if c == ':' {
				colon = i
				break
			}
		}
		if colon >= 0 {
			m.Username = string(creds[:colon])
			m.HasPassword = true
			m.Password = string(creds[colon+1:])
		} else {
			m.Username = string(creds)
		}
	}

	hostEnd := len(hostPort)
	inBracket := false
scanHost:
	for i, c := range hostPort {
		switch c {
		case '[':
			inBracket = true
		case ']':
			inBracket = false
		case ':':
			if !inBracket {
				hostEnd = i
				break scanHost
			}
		}
	}
	m.Hostname = string(hostPort[:hostEnd])
	if hostEnd < len(hostPort) {
		portBytes := hostPort[hostEnd+1:]
		for _, c := range portBytes {
			if !ascii.Digit.Contains(c) {
				sink.Report(Warning{Kind: "invalid-port"})
				return errors.New("scan: invalid port")
			}
		}
		m.HasPort = true
		m.Port = string(portBytes)
	}

	if m.Hostname == "" && isSpecial && m.SchemeKind != scheme.File {
		sink.Report(Warning{Kind: "empty-host-special-scheme"})
		return errors.New("scan: empty host forbidden for special scheme")
	}
	return nil
}

func scanPathQueryFragment(m *Mapping, rest []byte, isSpecial bool, sink ValidationSink) (Mapping, error) {
	pathEnd := len(rest)
	for i, c := range rest {
		if c == '?' || c == '#' {
			pathEnd = i
			break
		}
	}
	m.Path = rest[:pathEnd]
	return finishQueryFragment(m, rest[pathEnd:], sink), nil
}

func scanOpaquePathQueryFragment(m *Mapping, rest []byte) Mapping {
	pathEnd := len(rest)
	for i, c := range rest {
		if c == '?' || c == '#' {
			pathEnd = i
			break
		}
	}
	m.Path = rest[:pathEnd]
	out := finishQueryFragment(m, rest[pathEnd:], NoopSink{})
	return out
}

func finishQueryFragment(m *Mapping, rest []byte, sink ValidationSink) Mapping {
	if len(rest) == 0 {
		return *m
	}
	if rest[0] == '?' {
		body := rest[1:]
		fragIdx := -1
		for i, c := range body {
			if c == '#' {
				fragIdx = i
				break
			}
		}
		if fragIdx >= 0 {
			m.HasQuery = true
			m.Query = body[:fragIdx]
			m.HasFragment = true
			m.Fragment = body[fragIdx+1:]
		} else {
			m.HasQuery = true
			m.Query = body
		}
		return *m
	}
	// rest[0] == '#'
	m.HasFragment = true
	m.Fragment = rest[1:]
	return *m
}

// scanRelativeBody implements the classic relative-URL cascading-copy
// state machine: depending on what the remainder of the input actually
// specifies, progressively more of the base URL's components are copied
// verbatim (spec.md §4.3's "copying from base as appropriate").
func scanRelativeBody(rest []byte, kind scheme.Kind, schemeToken string, base *Base, sink ValidationSink) (Mapping, error) {
	isSpecial := kind.IsSpecial()
	m := Mapping{SchemeKind: kind, Scheme: schemeToken}

	switch {
	case len(rest) == 0:
		copyAuthority(&m, base)
		m.PathMode = PathCopy
		m.HasQuery = base.HasQuery
		m.Query = base.Query
		return m, nil

	case rest[0] == '?':
		copyAuthority(&m, base)
		m.PathMode = PathCopy
		return finishQueryFragment(&m, rest, sink), nil

	case rest[0] == '#':
		copyAuthority(&m, base)
		m.PathMode = PathCopy
		m.HasQuery = base.HasQuery
		m.Query = base.Query
		return finishQueryFragment(&m, rest, sink), nil

	case hasAuthoritySlashes(rest, isSpecial):
		after := skipAuthoritySlashes(rest, isSpecial, sink, true)
		return scanAuthorityThenRest(&m, after, isSpecial, sink)

	case isSpecialByte(rest[0], isSpecial):
		copyAuthority(&m, base)
		m.PathMode = PathOwn
		return scanPathQueryFragment(&m, rest, isSpecial, sink)

	default:
		copyAuthority(&m, base)
		m.PathMode = PathMerge
		return scanPathQueryFragment(&m, rest, isSpecial, sink)
	}
}

func copyAuthority(m *Mapping, base *Base) {
	m.HasAuthority = base.HasAuthority
	m.Username = base.Username
	m.HasPassword = base.HasPassword
	m.Password = base.Password
	m.Hostname = base.Hostname
	m.HasPort = base.HasPort
	m.Port = base.Port
}

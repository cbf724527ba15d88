package weburl

import (
	"errors"
	"strconv"

	"github.com/pavlik/weburl/internal/ascii"
	"github.com/pavlik/weburl/internal/host"
	"github.com/pavlik/weburl/internal/pct"
	"github.com/pavlik/weburl/internal/scan"
	"github.com/pavlik/weburl/internal/scheme"
	"github.com/pavlik/weburl/internal/storage"
	"github.com/pavlik/weburl/internal/writer"
)

// URL is a parsed, WHATWG-conformant URL value with copy-on-write storage
// (spec.md §4.6). The zero value is not valid; build one with Parse.
type URL struct {
	storage storage.Storage
}

// Parse parses input against an optional base URL, reporting validation
// warnings to NoopSink.
func Parse(input string, base *URL) (*URL, error) {
	return ParseWithSink(input, base, NoopSink{})
}

// ParseWithSink is Parse with an explicit ValidationSink (spec.md §7,
// §9 "Validation-error sink").
func ParseWithSink(input string, base *URL, sink ValidationSink) (*URL, error) {
	if sink == nil {
		sink = NoopSink{}
	}
	var scanBase *scan.Base
	if base != nil {
		scanBase = base.toScanBase()
	}

	m, err := scan.Scan([]byte(input), scanBase, sink)
	if err != nil {
		return nil, newError("parse", input, classifyScanError(err), err)
	}

	isSpecial := m.SchemeKind.IsSpecial()
	isFile := m.SchemeKind == scheme.File

	var hostSerialized string
	if m.HasAuthority {
		hostSerialized, _, err = host.Parse(m.Hostname, isSpecial, isFile)
		if err != nil {
			return nil, newError("parse", input, ErrorKindHost, err)
		}
	}

	var port uint16
	hasPort := false
	if m.HasPort {
		p, convErr := strconv.ParseUint(m.Port, 10, 16)
		if convErr != nil {
			return nil, newError("parse", input, ErrorKindStructural, errors.New("port out of range"))
		}
		defPort, hasDefault := m.SchemeKind.DefaultPort()
		if !(hasDefault && uint16(p) == defPort) {
			port = uint16(p)
			hasPort = true
		}
	}

	pathBytes, hasSigil := buildPath(m, base)
	finalPath := pathBytes
	if hasSigil && !m.HasAuthority {
		finalPath = append([]byte{'/', '.'}, pathBytes...)
	}

	var authorityBytes []byte
	var usernameLen, passwordLen, hostnameLen, portLen int
	if m.HasAuthority {
		authorityBytes, usernameLen, passwordLen, hostnameLen, portLen = buildAuthorityString(&m, hostSerialized, port, hasPort)
	}

	// writeAll drives the same call sequence against both passes of the
	// writer protocol (spec.md §4.5/§9): a size-only Metrics pass determines
	// the exact buffer to allocate, then an identical Storage pass fills it,
	// so Parse never has to guess a capacity.
	writeAll := func(w writer.Writer) {
		w.WriteFlags(m.SchemeKind, m.CannotBeABase)
		w.WriteSchemeContents([]byte(m.Scheme), len(m.Scheme))

		if m.HasAuthority {
			w.WriteAuthorityHeader()
			w.WriteKnownAuthorityString(authorityBytes, usernameLen, passwordLen, hostnameLen, portLen)
		}

		w.WritePathSimple(finalPath)

		if m.HasQuery {
			set := ascii.QuerySet
			if isSpecial {
				set = ascii.SpecialQuerySet
			}
			w.WriteQueryContents(pct.Encode(m.Query, set))
		}
		if m.HasFragment {
			w.WriteFragmentContents(pct.Encode(m.Fragment, ascii.FragmentSet))
		}
	}

	metrics := &writer.Metrics{}
	writeAll(metrics)

	w := writer.NewStorage(metrics.RequiredCapacity)
	writeAll(w)
	if hasSigil && !m.HasAuthority {
		w.Header.HasPathSigil = true
		// finalPath carries the "/." sigil, but PathLen counts only the
		// path that follows it.
		w.Header.PathLen -= 2
	}

	return &URL{storage: storage.New(w.Bytes, w.Header)}, nil
}

// buildAuthorityString assembles the single precomputed authority string
// WriteKnownAuthorityString expects: encoded username, optional ":"+password,
// optional "@" terminator, hostname, optional ":"+port.
func buildAuthorityString(m *scan.Mapping, hostSerialized string, port uint16, hasPort bool) (full []byte, usernameLen, passwordLen, hostnameLen, portLen int) {
	usernameEnc := pct.Encode([]byte(m.Username), ascii.UserinfoSet)
	usernameLen = len(usernameEnc)
	full = append(full, usernameEnc...)

	var passwordEnc []byte
	if m.HasPassword {
		passwordEnc = pct.Encode([]byte(m.Password), ascii.UserinfoSet)
		passwordLen = len(passwordEnc) + 1
		full = append(full, ':')
		full = append(full, passwordEnc...)
	}

	if m.Username != "" || m.HasPassword {
		full = append(full, '@')
	}

	hostnameLen = len(hostSerialized)
	full = append(full, hostSerialized...)

	if hasPort {
		digits := strconv.FormatUint(uint64(port), 10)
		portLen = len(digits) + 1
		full = append(full, ':')
		full = append(full, digits...)
	}

	return full, usernameLen, passwordLen, hostnameLen, portLen
}

func classifyScanError(err error) ErrorKind {
	switch err {
	case scan.ErrMissingScheme, scan.ErrCannotBeABaseURLRelative:
		return ErrorKindStructural
	default:
		return ErrorKindStructural
	}
}

// Clone returns an independent handle sharing the same storage identity
// under copy-on-write: mutating either value is safe and never affects the
// other (spec.md §5).
func (u *URL) Clone() *URL {
	u.storage.Retain()
	return &URL{storage: u.storage}
}

func (u *URL) toScanBase() *scan.Base {
	h := u.storage.Header()
	rs := u.storage.Ranges()
	b := &scan.Base{
		SchemeKind:    h.SchemeKind,
		Scheme:        string(u.storage.Slice(rs.Scheme)),
		CannotBeABase: h.CannotBeABaseURL,
		HasAuthority:  h.Has(storage.CompAuthority),
		Path:          u.pathBytes(),
		HasQuery:      rs.Query.Present,
	}
	if rs.Query.Present {
		b.Query = u.storage.Slice(rs.Query)[1:]
	}
	if h.UsernameLen > 0 {
		b.Username = string(u.storage.Slice(rs.Username))
	}
	if h.PasswordLen > 0 {
		b.HasPassword = true
		b.Password = string(u.storage.Slice(rs.Password)[1:])
	}
	if b.HasAuthority {
		b.Hostname = string(u.storage.Slice(rs.Hostname))
	}
	if h.PortLen > 0 {
		b.HasPort = true
		b.Port = string(u.storage.Slice(rs.Port)[1:])
	}
	return b
}

func (u *URL) pathBytes() []byte {
	return u.storage.Slice(u.storage.Ranges().Path)
}

// Href is the byte-exact canonical serialization.
func (u *URL) Href() string { return string(u.storage.Bytes()) }

func (u *URL) String() string { return u.Href() }

// Scheme is the lowercased scheme token.
func (u *URL) Scheme() string {
	return string(u.storage.Slice(u.storage.Ranges().Scheme))
}

// SchemeKind is the enum tag of Scheme.
func (u *URL) SchemeKind() scheme.Kind { return u.storage.Header().SchemeKind }

// Username is the percent-decoded username, "" if absent.
func (u *URL) Username() string {
	return pct.DecodeString(u.storage.Slice(u.storage.Ranges().Username), false)
}

// Password is the percent-decoded password, "" if absent.
func (u *URL) Password() string {
	r := u.storage.Ranges().Password
	if !r.Present {
		return ""
	}
	return pct.DecodeString(u.storage.Slice(r)[1:], false)
}

// Hostname is the serialized host (IPv6 bracketed), "" if absent.
func (u *URL) Hostname() string {
	return string(u.storage.Slice(u.storage.Ranges().Hostname))
}

// Port is the decimal port string, "" if absent or equal to the scheme's
// default.
func (u *URL) Port() string {
	r := u.storage.Ranges().Port
	if !r.Present {
		return ""
	}
	return string(u.storage.Slice(r)[1:])
}

// Path is the percent-decoded path, "" if absent.
func (u *URL) Path() string {
	return pct.DecodeString(u.pathBytes(), false)
}

// Query is the percent-decoded query (without the leading '?'), "" if
// absent.
func (u *URL) Query() string {
	r := u.storage.Ranges().Query
	if !r.Present {
		return ""
	}
	return pct.DecodeString(u.storage.Slice(r)[1:], false)
}

// Fragment is the percent-decoded fragment (without the leading '#'), ""
// if absent.
func (u *URL) Fragment() string {
	r := u.storage.Ranges().Fragment
	if !r.Present {
		return ""
	}
	return pct.DecodeString(u.storage.Slice(r)[1:], false)
}

// CannotBeABaseURL reports whether the path is opaque (spec.md glossary).
func (u *URL) CannotBeABaseURL() bool { return u.storage.Header().CannotBeABaseURL }

// Package writer implements the write-only URL writer protocol (spec.md
// §4.5): a strict sequence of calls that either measures the serialized
// size of a URL or fills a preallocated buffer with it, sharing one set of
// call sites between the two concerns.
//
// Grounded on ernestas-poskus-bytesurl/bytesurl.go's URL.String(), which
// builds a serialization by appending to a []byte in the same component
// order this protocol mandates; split here into an interface so a
// size-only pass (Metrics) and a buffer-filling pass (Storage) share one
// caller.
package writer

import (
	"github.com/pavlik/weburl/internal/scheme"
	"github.com/pavlik/weburl/internal/storage"
)

// Writer is the strict write-only protocol of spec.md §4.5. Implementations
// must tolerate being driven exactly in the documented call order; callers
// must never add separators themselves beyond what each method documents.
type Writer interface {
	// WriteFlags is always the first call.
	WriteFlags(kind scheme.Kind, cannotBeABaseURL bool)

	// WriteSchemeContents appends b then ':'. Always the second call.
	// countIfKnown is the byte count to reserve when b may not reflect the
	// final length: Metrics counts countIfKnown in place of len(b), and
	// Storage ignores it; pass len(b) when exact.
	WriteSchemeContents(b []byte, countIfKnown int)

	// WriteAuthorityHeader appends "//". Optional.
	WriteAuthorityHeader()

	// WriteUsernameContents appends b verbatim (already encoded).
	WriteUsernameContents(b []byte)
	// WritePasswordContents prepends ':' then appends b.
	WritePasswordContents(b []byte)
	// WriteCredentialsTerminator appends '@'.
	WriteCredentialsTerminator()
	// WriteKnownAuthorityString writes a precomputed authority string in
	// one call, with the sub-lengths of its pieces, bypassing the
	// individual credential calls above.
	WriteKnownAuthorityString(full []byte, usernameLen, passwordLen, hostnameLen, portLen int)

	// WriteHostname appends b verbatim (already bracketed for IPv6).
	WriteHostname(b []byte)
	// WritePort prepends ':' then appends the decimal form of p.
	WritePort(p uint16)

	// WritePathSimple appends b verbatim; used when the path is already
	// fully resolved and encoded (e.g. unchanged from a base URL).
	WritePathSimple(b []byte)
	// WriteUnsafePathInPreallocatedBuffer reserves length bytes and calls
	// fill to populate them; fill must return exactly length.
	WriteUnsafePathInPreallocatedBuffer(length int, fill func(tail []byte) int)

	// WriteQueryContents prepends '?' then appends b.
	WriteQueryContents(b []byte)
	// WriteFragmentContents prepends '#' then appends b.
	WriteFragmentContents(b []byte)
}

// Metrics is the size-only implementation: it tracks required_capacity and
// path_length without touching any bytes, so a caller can measure before
// allocating.
type Metrics struct {
	RequiredCapacity int
	PathLength       int

	sawPath bool
}

func (m *Metrics) WriteFlags(scheme.Kind, bool) {}

func (m *Metrics) WriteSchemeContents(b []byte, countIfKnown int) {
	m.RequiredCapacity += countIfKnown + 1 // ':'
}

func (m *Metrics) WriteAuthorityHeader() { m.RequiredCapacity += 2 }

func (m *Metrics) WriteUsernameContents(b []byte) { m.RequiredCapacity += len(b) }

func (m *Metrics) WritePasswordContents(b []byte) { m.RequiredCapacity += len(b) + 1 }

func (m *Metrics) WriteCredentialsTerminator() { m.RequiredCapacity++ }

func (m *Metrics) WriteKnownAuthorityString(full []byte, _, _, _, _ int) {
	m.RequiredCapacity += len(full)
}

func (m *Metrics) WriteHostname(b []byte) { m.RequiredCapacity += len(b) }

func (m *Metrics) WritePort(p uint16) {
	m.RequiredCapacity += 1 + len(decimalDigits(p))
}

func (m *Metrics) WritePathSimple(b []byte) {
	m.RequiredCapacity += len(b)
	m.PathLength += len(b)
	m.sawPath = true
}

func (m *Metrics) WriteUnsafePathInPreallocatedBuffer(length int, fill func(tail []byte) int) {
	scratch := make([]byte, length)
	n := fill(scratch)
	m.RequiredCapacity += n
	m.PathLength += n
	m.sawPath = true
}

func (m *Metrics) WriteQueryContents(b []byte) { m.RequiredCapacity += len(b) + 1 }

func (m *Metrics) WriteFragmentContents(b []byte) { m.RequiredCapacity += len(b) + 1 }

func decimalDigits(p uint16) []byte {
	if p == 0 {
		return []byte{'0'}
	}
	var buf [5]byte
	i := len(buf)
	for p > 0 {
		i--
		buf[i] = byte('0' + p%10)
		p /= 10
	}
	return buf[i:]
}

// Storage is the buffer-filling implementation: it builds the final
// serialized bytes into a growable slice and accumulates the storage.Header
// alongside it, so the caller can hand both straight to storage.New once
// writing is complete.
type Storage struct {
	Bytes  []byte
	Header storage.Header
}

// NewStorage returns a Storage primed with capacity bytes of backing array.
func NewStorage(capacity int) *Storage {
	return &Storage{Bytes: make([]byte, 0, capacity)}
}

func (s *Storage) WriteFlags(kind scheme.Kind, cannotBeABaseURL bool) {
	s.Header.SchemeKind = kind
	s.Header.CannotBeABaseURL = cannotBeABaseURL
}

func (s *Storage) WriteSchemeContents(b []byte, _ int) {
	s.Header.Present |= storage.CompScheme
	s.Header.SchemeLen = len(b)
	s.Bytes = append(s.Bytes, b...)
	s.Bytes = append(s.Bytes, ':')
}

func (s *Storage) WriteAuthorityHeader() {
	s.Header.Present |= storage.CompAuthority
	s.Bytes = append(s.Bytes, '/', '/')
}

func (s *Storage) WriteUsernameContents(b []byte) {
	s.Header.UsernameLen = len(b)
	s.Bytes = append(s.Bytes, b...)
}

func (s *Storage) WritePasswordContents(b []byte) {
	s.Header.PasswordLen = len(b) + 1
	s.Bytes = append(s.Bytes, ':')
	s.Bytes = append(s.Bytes, b...)
}

func (s *Storage) WriteCredentialsTerminator() {
	s.Bytes = append(s.Bytes, '@')
}

func (s *Storage) WriteKnownAuthorityString(full []byte, usernameLen, passwordLen, hostnameLen, portLen int) {
	s.Header.Present |= storage.CompAuthority
	s.Header.UsernameLen = usernameLen
	s.Header.PasswordLen = passwordLen
	s.Header.HostnameLen = hostnameLen
	s.Header.PortLen = portLen
	s.Bytes = append(s.Bytes, full...)
}

func (s *Storage) WriteHostname(b []byte) {
	s.Header.HostnameLen = len(b)
	s.Bytes = append(s.Bytes, b...)
}

func (s *Storage) WritePort(p uint16) {
	digits := decimalDigits(p)
	s.Header.PortLen = len(digits) + 1
	s.Bytes = append(s.Bytes, ':')
	s.Bytes = append(s.Bytes, digits...)
}

func (s *Storage) WritePathSimple(b []byte) {
	s.Header.Present |= storage.CompPath
	s.Header.PathLen += len(b)
	s.Bytes = append(s.Bytes, b...)
}

func (s *Storage) WriteUnsafePathInPreallocatedBuffer(length int, fill func(tail []byte) int) {
	s.Header.Present |= storage.CompPath
	start := len(s.Bytes)
	s.Bytes = append(s.Bytes, make([]byte, length)...)
	n := fill(s.Bytes[start:])
	s.Bytes = s.Bytes[:start+n]
	s.Header.PathLen += n
}

func (s *Storage) WriteQueryContents(b []byte) {
	s.Header.Present |= storage.CompQuery
	s.Header.QueryLen = len(b) + 1
	s.Bytes = append(s.Bytes, '?')
	s.Bytes = append(s.Bytes, b...)
}

func (s *Storage) WriteFragmentContents(b []byte) {
	s.Header.Present |= storage.CompFragment
	s.Header.FragmentLen = len(b) + 1
	s.Bytes = append(s.Bytes, '#')
	s.Bytes = append(s.Bytes, b...)
}

var (
	_ Writer = (*Metrics)(nil)
	_ Writer = (*Storage)(nil)
)

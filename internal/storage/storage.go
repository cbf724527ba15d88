// Package storage implements the packed, copy-on-write component storage
// described in spec.md §4.6-§4.7: a single byte buffer carrying the
// serialized URL string, plus a header of component lengths from which
// every component's byte range is computed in O(1).
//
// Grounded structurally on ernestas-poskus-bytesurl.URL (one struct, one
// buffer-producing String/Bytes method) generalized from independently
// allocated []byte fields into a single shared backing array addressed by
// offsets, which is what spec.md §4.6 requires ("own the serialized bytes
// and header as a single allocation").
//
// Go has no ARC, so "copy-on-write with reference counting" here is an
// explicit, conservative approximation: Storage is a pointer to a core; the
// core carries an atomic refcount that Retain bumps whenever a Storage value
// is duplicated (weburl.URL.Clone, assignment into a second owner) and that
// ReplaceSubrange consults before mutating in place. Go's GC frees the core
// once every Storage pointing at it is gone, so there is no matching
// Release: an over-counted refcount only costs an extra defensive copy on
// the next mutation, never a leak or a use-after-free.
package storage

import (
	"sync/atomic"

	"github.com/pavlik/weburl/internal/scheme"
)

// Component is one of the header's bitset members (spec.md §3:
// "components_present ⊆ {scheme, authority, path, query, fragment}").
type Component uint8

const (
	CompScheme Component = 1 << iota
	CompAuthority
	CompPath
	CompQuery
	CompFragment
)

// Header is the structural metadata alongside the serialized bytes.
type Header struct {
	SchemeKind scheme.Kind
	Present    Component

	SchemeLen   int // excludes the trailing ':'
	UsernameLen int
	PasswordLen int // includes the leading ':' when present
	HostnameLen int
	PortLen     int // includes the leading ':' when present
	PathLen     int // excludes the "/." sigil; includes a hierarchical path's leading '/'
	QueryLen    int // includes the leading '?' when nonzero
	FragmentLen int // includes the leading '#' when nonzero

	CannotBeABaseURL        bool
	HasPathSigil            bool
	QueryIsKnownFormEncoded bool
}

// Has reports whether c is set in the header's presence bitset.
func (h Header) Has(c Component) bool { return h.Present&c != 0 }

// Range is a half-open byte range, [Offset, Offset+Length). A Range with
// Present == false denotes a nil component. For path, query and fragment,
// Compute sets Offset even when the component is absent, to the byte
// position where it would be inserted; other absent components carry no
// meaningful Offset.
type Range struct {
	Offset, Length int
	Present        bool
}

func (r Range) End() int { return r.Offset + r.Length }

// Ranges computes every component's byte range from the header alone, per
// the pseudocode table in spec.md §4.6.
type Ranges struct {
	Scheme, Authority            Range
	Username, Password           Range
	Hostname, Port               Range
	Path, Query, Fragment        Range
}

// Compute derives Ranges from h.
func Compute(h Header) Ranges {
	var rs Ranges
	rs.Scheme = Range{Offset: 0, Length: h.SchemeLen, Present: true}

	authorityPresent := h.Has(CompAuthority)
	afterScheme := h.SchemeLen + 1 // past the ':'

	var pathStart int
	if authorityPresent {
		authorityStart := afterScheme + 2 // past "//"
		rs.Authority = Range{Offset: authorityStart, Length: 0, Present: true}

		cursor := authorityStart
		if h.UsernameLen > 0 {
			rs.Username = Range{Offset: cursor, Length: h.UsernameLen, Present: true}
			cursor += h.UsernameLen
		}
		if h.PasswordLen > 0 {
			rs.Password = Range{Offset: cursor, Length: h.PasswordLen, Present: true}
			cursor += h.PasswordLen
		}
		credTerm := 0
		if h.UsernameLen > 0 || h.PasswordLen > 0 {
			credTerm = 1 // '@'
		}
		hostnameStart := cursor + credTerm
		rs.Hostname = Range{Offset: hostnameStart, Length: h.HostnameLen, Present: true}
		cursor = hostnameStart + h.HostnameLen
		if h.PortLen > 0 {
			rs.Port = Range{Offset: cursor, Length: h.PortLen, Present: true}
			cursor += h.PortLen
		}
		rs.Authority.Length = cursor - authorityStart
		pathStart = cursor
	} else {
		sigil := 0
		if h.HasPathSigil {
			sigil = 2
		}
		pathStart = afterScheme + sigil
	}

	rs.Path = Range{Offset: pathStart, Length: h.PathLen, Present: h.Has(CompPath) && h.PathLen > 0}
	cursor := pathStart + h.PathLen

	rs.Query = Range{Offset: cursor, Length: h.QueryLen, Present: h.Has(CompQuery) && h.QueryLen > 0}
	cursor += h.QueryLen

	rs.Fragment = Range{Offset: cursor, Length: h.FragmentLen, Present: h.Has(CompFragment) && h.FragmentLen > 0}

	return rs
}

// TotalLength is the length of the serialized buffer this header describes.
func (h Header) TotalLength() int {
	rs := Compute(h)
	if rs.Fragment.Present {
		return rs.Fragment.End()
	}
	if rs.Query.Present {
		return rs.Query.End()
	}
	if rs.Path.Present {
		return rs.Path.End()
	}
	if rs.Port.Present {
		return rs.Port.End()
	}
	if rs.Hostname.Present {
		return rs.Hostname.End()
	}
	if rs.Authority.Present {
		return rs.Authority.End()
	}
	sigil := 0
	if h.HasPathSigil {
		sigil = 2
	}
	return h.SchemeLen + 1 + sigil
}

type core struct {
	bytes    []byte
	header   Header
	refcount int32
}

// Storage is a value handle onto a shared, reference-counted buffer+header
// pair (spec.md §4.6). The zero value is not valid; use New.
type Storage struct {
	c *core
}

// New builds a Storage owning bytes and header. bytes is taken by
// reference, not copied; callers must not mutate it afterward.
func New(bytes []byte, header Header) Storage {
	return Storage{c: &core{bytes: bytes, header: header, refcount: 1}}
}

// Retain marks the underlying core as having an additional independent
// owner, so the next mutating call defensively copies instead of writing
// in place. Call this whenever a Storage value is duplicated into a second
// long-lived owner (weburl.URL's Clone, or assigning a view's storage
// into another URL of the same identity).
func (s Storage) Retain() {
	atomic.AddInt32(&s.c.refcount, 1)
}

// IsUniquelyReferenced reports whether this Storage is (as far as Retain
// calls can tell) the sole owner of its core.
func (s Storage) IsUniquelyReferenced() bool {
	return atomic.LoadInt32(&s.c.refcount) == 1
}

// Bytes returns the full serialized buffer. Callers must not mutate the
// returned slice.
func (s Storage) Bytes() []byte { return s.c.bytes }

// Header returns the current header.
func (s Storage) Header() Header { return s.c.header }

// Ranges returns the current component ranges.
func (s Storage) Ranges() Ranges { return Compute(s.c.header) }

// Slice returns the bytes of range r, or nil if r is not present. The
// returned slice aliases the storage's buffer; callers must not mutate it.
func (s Storage) Slice(r Range) []byte {
	if !r.Present {
		return nil
	}
	return s.c.bytes[r.Offset:r.End()]
}

// WithBytes calls f with a read-only view of range r's bytes. It exists
// alongside Slice to match spec.md §4.6's "with_elements(range, f)" shape
// for call sites that want to make the read-only intent explicit.
func (s Storage) WithBytes(r Range, f func([]byte)) {
	f(s.Slice(r))
}

// SameIdentity reports whether s and other share the same underlying core.
// Used to implement spec.md §5's "view bound to URL A cannot be assigned
// into URL B unless they share the same underlying storage identity".
func (s Storage) SameIdentity(other Storage) bool {
	return s.c == other.c
}

// ReplaceSubrange atomically replaces the byte range [start,end) of the
// serialized buffer with newBytes, and applies headerMutate to compute the
// new header from the old one. If the core is uniquely referenced the edit
// happens in place (after growing/shrinking the backing array as needed);
// otherwise a fresh core is allocated first (copy-on-write), per spec.md
// §4.6.
//
// headerMutate receives the OLD header and must return the new header; the
// byte edit and the header swap are applied together so no intermediate
// state is observable (spec.md §5 "Ordering guarantees").
func (s *Storage) ReplaceSubrange(start, end int, newBytes []byte, headerMutate func(old Header) Header) {
	oldBytes := s.c.bytes
	newHeader := headerMutate(s.c.header)

	total := len(oldBytes) - (end - start) + len(newBytes)
	var buf []byte
	if s.IsUniquelyReferenced() && cap(oldBytes) >= total {
		buf = oldBytes[:total]
		// Shift the tail before/after writing newBytes depending on size
		// delta, using copy which tolerates overlap correctly only when
		// moving in the safe direction; to keep this simple and always
		// correct we build into a scratch tail first.
		tail := append([]byte(nil), oldBytes[end:]...)
		copy(buf[start:], newBytes)
		copy(buf[start+len(newBytes):], tail)
	} else {
		buf = make([]byte, 0, total)
		buf = append(buf, oldBytes[:start]...)
		buf = append(buf, newBytes...)
		buf = append(buf, oldBytes[end:]...)
	}

	s.c = &core{bytes: buf, header: newHeader, refcount: 1}
}

// UnsafeAppend grows the buffer by uninitializedCapacity bytes and calls
// initializer to fill exactly that many bytes from the back, returning the
// number actually written (which the path writer uses to fill a
// preallocated tail region back-to-front, per spec.md §4.5). The returned
// slice is always a freshly allocated buffer.
func UnsafeAppend(prefix []byte, uninitializedCapacity int, initializer func(tail []byte) int) []byte {
	buf := make([]byte, len(prefix)+uninitializedCapacity)
	copy(buf, prefix)
	n := initializer(buf[len(prefix):])
	return buf[:len(prefix)+n]
}

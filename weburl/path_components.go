package weburl

import (
	"bytes"
	"errors"

	"github.com/pavlik/weburl/internal/pathutil"
	"github.com/pavlik/weburl/internal/pct"
	"github.com/pavlik/weburl/internal/scheme"
	"github.com/pavlik/weburl/internal/storage"
)

// ErrStaleIndex names the error for a PathComponents or KeyValuePairs index
// used after the URL it was obtained from has since been mutated (spec.md
// §5 "Iterator invalidation"). No method returns it: integer indices are
// not checked against later mutations.
var ErrStaleIndex = errors.New("weburl: index obtained before the last mutation")

// ErrCrossURLView is returned when a view's write is attempted against a
// URL it was not bound to (spec.md §5 "View→URL assignment").
var ErrCrossURLView = errors.New("weburl: view is not bound to this URL's storage identity")

// PathComponents is a bidirectional view over the path's '/'-delimited
// segments (spec.md §4.8). Element values are percent-decoded.
//
// Grounded on the resolved-path construction already shared with Parse
// (internal/resolve, weburl/pathbuild.go); ReplaceSubrange reuses
// encodePathSegment and joinPathSegments so an edited path satisfies the
// same idempotence invariant a freshly parsed one does.
type PathComponents struct {
	u    *URL
	core *storage.Storage // identity token captured at view creation
	gen  int32
}

// PathComponents returns the path segment view bound to u.
func (u *URL) PathComponents() *PathComponents {
	c := u.storage
	return &PathComponents{u: u, core: &c}
}

func (p *PathComponents) checkIdentity() error {
	if !p.u.storage.SameIdentity(*p.core) {
		return ErrCrossURLView
	}
	return nil
}

// segments returns the current decoded path segments.
func (p *PathComponents) segments() [][]byte {
	raw := p.u.pathBytes()
	if len(raw) == 0 {
		return nil
	}
	body := raw
	if body[0] == '/' {
		body = body[1:]
	}
	if p.u.storage.Header().HasPathSigil {
		// the sigil "/." is not part of the first real segment's bytes;
		// it precedes path entirely and is already excluded from
		// pathBytes() since the sigil lives in the gap before path_start.
	}
	return bytes.Split(body, []byte("/"))
}

// Len returns the number of path segments.
func (p *PathComponents) Len() int { return len(p.segments()) }

// At returns the decoded bytes of the segment at idx.
func (p *PathComponents) At(idx int) string {
	segs := p.segments()
	if idx < 0 || idx >= len(segs) {
		return ""
	}
	return pct.DecodeString(segs[idx], false)
}

// All returns every decoded segment in order.
func (p *PathComponents) All() []string {
	segs := p.segments()
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = pct.DecodeString(s, false)
	}
	return out
}

// ReplaceSubrange splices newSegments (raw, not-yet-encoded strings) into
// [start, end) of the current segment list, applying every rule of
// spec.md §4.8.
func (p *PathComponents) ReplaceSubrange(start, end int, newSegments []string) error {
	if err := p.checkIdentity(); err != nil {
		return err
	}
	cur := p.segments()
	if start < 0 || end < start || end > len(cur) {
		return errors.New("weburl: path segment range out of bounds")
	}

	encoded := make([][]byte, len(newSegments))
	for i, s := range newSegments {
		encoded[i] = encodePathSegment([]byte(s))
	}

	// Rule 2: segments equal to "." or ".." (or case-insensitive percent
	// -encoded equivalents) at the start of an insertion are absorbed.
	encoded = absorbLeadingDotSegments(encoded)

	next := make([][]byte, 0, len(cur)-(end-start)+len(encoded))
	next = append(next, cur[:start]...)
	next = append(next, encoded...)
	next = append(next, cur[end:]...)

	isFile := p.u.SchemeKind() == scheme.File
	if isFile && len(next) > 0 && pathutil.IsWindowsDriveLetter(next[0]) {
		next[0] = pathutil.NormalizeDriveLetter(next[0])
	}

	isSpecial := p.u.SchemeKind().IsSpecial()
	if isSpecial && len(next) == 0 {
		next = [][]byte{{}}
	}
	hasAuthority := p.u.storage.Header().Has(storage.CompAuthority)
	if !hasAuthority && !isSpecial && len(next) == 0 {
		next = [][]byte{{}}
	}

	newPath, hasSigil := joinPathSegments(next, hasAuthority)
	p.commitPath(newPath, hasSigil)
	return nil
}

func absorbLeadingDotSegments(segs [][]byte) [][]byte {
	i := 0
	for i < len(segs) {
		decoded := pct.Decode(segs[i], false)
		if pathutil.IsSingleDotSegment(decoded) || pathutil.IsDoubleDotSegment(decoded) {
			i++
			continue
		}
		break
	}
	return segs[i:]
}

// commitPath atomically replaces the path byte range and recomputes the
// header (sigil flag, path length, authority-absent non-special
// non-emptiness), per spec.md §4.7's single replace_subrange requirement.
func (p *PathComponents) commitPath(newPath []byte, hasSigil bool) {
	rs := p.u.storage.Ranges()
	oldHeader := p.u.storage.Header()

	start, end := rs.Path.Offset, rs.Path.End()
	if !rs.Path.Present {
		start = rs.Path.Offset
		end = rs.Path.Offset
	}

	buf := newPath
	if hasSigil {
		buf = append([]byte{'/', '.'}, newPath...)
	}
	sigilStart := start
	if oldHeader.HasPathSigil {
		sigilStart -= 2
	}

	p.u.storage.ReplaceSubrange(sigilStart, end, buf, func(old storage.Header) storage.Header {
		old.PathLen = len(newPath)
		old.HasPathSigil = hasSigil
		if len(newPath) > 0 {
			old.Present |= storage.CompPath
		}
		return old
	})
	*p.core = p.u.storage
}

// Append adds segments to the end of the path. A path ending in an empty
// trailing segment (the directory marker left by a trailing '/', e.g. the
// root path "/" itself) has that marker replaced rather than kept, so
// appending to "/" yields the new segments directly instead of stray
// "//" (spec.md §8 scenario 3).
func (p *PathComponents) Append(segments ...string) error {
	n := p.Len()
	if n > 0 && p.At(n-1) == "" {
		return p.ReplaceSubrange(n-1, n, segments)
	}
	return p.ReplaceSubrange(n, n, segments)
}

// Insert adds segments starting at idx.
func (p *PathComponents) Insert(idx int, segments ...string) error {
	return p.ReplaceSubrange(idx, idx, segments)
}

// RemoveAt removes the single segment at idx.
func (p *PathComponents) RemoveAt(idx int) error {
	return p.ReplaceSubrange(idx, idx+1, nil)
}

// RemoveSubrange removes [start, end).
func (p *PathComponents) RemoveSubrange(start, end int) error {
	return p.ReplaceSubrange(start, end, nil)
}

// RemoveLast removes the final segment, if any.
func (p *PathComponents) RemoveLast() error {
	n := p.Len()
	if n == 0 {
		return nil
	}
	return p.RemoveAt(n - 1)
}

// ReplaceComponentAt replaces the single segment at idx.
func (p *PathComponents) ReplaceComponentAt(idx int, segment string) error {
	return p.ReplaceSubrange(idx, idx+1, []string{segment})
}

// EnsureDirectoryPath appends an empty segment unless the path already
// ends with one.
func (p *PathComponents) EnsureDirectoryPath() error {
	n := p.Len()
	if n > 0 && p.At(n-1) == "" {
		return nil
	}
	return p.Append("")
}

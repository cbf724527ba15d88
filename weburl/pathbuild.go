package weburl

import (
	"github.com/pavlik/weburl/internal/ascii"
	"github.com/pavlik/weburl/internal/resolve"
	"github.com/pavlik/weburl/internal/scan"
	"github.com/pavlik/weburl/internal/scheme"
)

const hexDigits = "0123456789ABCDEF"

// encodePathSegment percent-encodes b for inclusion as one path segment,
// force-encoding '/' and '\' in addition to the path encode-set (spec.md
// §4.8 rule 1: "additionally / and \ are force-encoded to %2F/%5C").
func encodePathSegment(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch {
		case c == '/':
			out = append(out, '%', '2', 'F')
		case c == '\\':
			out = append(out, '%', '5', 'C')
		case ascii.PathSet.Contains(c):
			out = append(out, '%', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			out = append(out, c)
		}
	}
	return out
}

type pathCollector struct {
	segsReversed [][]byte
}

func (c *pathCollector) VisitInputComponent(b []byte, isLeadingWindowsDriveLetter bool) {
	if isLeadingWindowsDriveLetter {
		c.segsReversed = append(c.segsReversed, append([]byte(nil), b...))
		return
	}
	c.segsReversed = append(c.segsReversed, encodePathSegment(b))
}

func (c *pathCollector) VisitEmptyComponent() {
	c.segsReversed = append(c.segsReversed, []byte{})
}

func (c *pathCollector) VisitBaseComponent(b []byte) {
	c.segsReversed = append(c.segsReversed, append([]byte(nil), b...))
}

func joinPathSegments(segsForward [][]byte, hasAuthority bool) (path []byte, hasSigil bool) {
	if len(segsForward) == 0 {
		return nil, false
	}
	hasSigil = !hasAuthority && len(segsForward) >= 2 && len(segsForward[0]) == 0
	for _, s := range segsForward {
		path = append(path, '/')
		path = append(path, s...)
	}
	return path, hasSigil
}

// buildPath resolves m's path into its final, percent-encoded bytes plus
// whether a path sigil (spec.md §4.7) is required, dispatching on the
// scanner's PathMode.
func buildPath(m scan.Mapping, base *URL) (path []byte, hasSigil bool) {
	switch m.PathMode {
	case scan.PathCopy:
		if base == nil {
			return nil, false
		}
		return append([]byte(nil), base.pathBytes()...), base.storage.Header().HasPathSigil

	case scan.PathOpaque:
		return encodeOpaquePath(m.Path), false

	default: // PathOwn, PathMerge
		in := resolve.Input{Scheme: m.SchemeKind, Path: m.Path, IsFileScheme: m.SchemeKind == scheme.File}
		if m.PathMode == scan.PathMerge {
			in.HasBase = true
			if base != nil {
				in.BasePath = base.pathBytes()
			}
		}
		c := &pathCollector{}
		resolve.Resolve(in, c)
		forward := make([][]byte, len(c.segsReversed))
		for i, s := range c.segsReversed {
			forward[len(forward)-1-i] = s
		}
		return joinPathSegments(forward, m.HasAuthority)
	}
}

func encodeOpaquePath(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if ascii.C0Set.Contains(c) {
			out = append(out, '%', hexDigits[c>>4], hexDigits[c&0xF])
		} else {
			out = append(out, c)
		}
	}
	return out
}

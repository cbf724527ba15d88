// Package resolve implements the WHATWG path-construction algorithm
// (spec.md §4.4): given the scanned input path and an optional base URL
// path, it yields the final path components in reverse through visitor
// callbacks, so the writer (internal/writer) can size and then fill a
// buffer back-to-front without ever materializing an intermediate
// component slice.
//
// Grounded on nlnwa-whatwg-url/url/parser.go's statePath/shortenPath logic
// (other_examples) for the popcount/dot-segment rules, restructured from an
// in-place append-then-reverse buffer into a true reverse-visitor pass per
// spec.md §9 ("avoid building an explicit stack").
package resolve

import (
	"bytes"

	"github.com/pavlik/weburl/internal/pathutil"
	"github.com/pavlik/weburl/internal/scheme"
)

// Visitor receives path components from last to first.
type Visitor interface {
	VisitInputComponent(b []byte, isLeadingWindowsDriveLetter bool)
	VisitEmptyComponent()
	VisitBaseComponent(b []byte) // already normalized; may be written verbatim
}

// Input bundles everything the resolver needs about the path being parsed.
type Input struct {
	Scheme       scheme.Kind
	Path         []byte // the scanned path slice, may be empty
	HasBase      bool
	BasePath     []byte // only meaningful if HasBase
	IsFileScheme bool
}

func isSep(scheme scheme.Kind, b byte) bool {
	if b == '/' {
		return true
	}
	return scheme.IsSpecial() && b == '\\'
}

func splitComponents(scheme scheme.Kind, path []byte) [][]byte {
	var out [][]byte
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || isSep(scheme, path[i]) {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	return out
}

// Resolve drives v with the final path components of in, last to first.
func Resolve(in Input, v Visitor) {
	working := stripLeadingSlash(in.Scheme, in.Path)
	isFile := in.Scheme == scheme.File

	if isFile {
		working = stripFileLeading(working)
	}

	comps := splitComponents(in.Scheme, working)
	if len(working) == 0 {
		comps = nil
	}

	if len(comps) == 0 {
		baseStripped := stripLeadingSlash(in.Scheme, in.BasePath)
		if isFile && len(in.Path) == 0 && in.HasBase && pathutil.StartsWithWindowsDriveLetter(baseStripped) {
			v.VisitEmptyComponent()
			v.VisitBaseComponent(pathutil.NormalizeDriveLetter(baseStripped[:2]))
			return
		}
		if !in.HasBase {
			if in.Scheme.IsSpecial() {
				v.VisitEmptyComponent()
			}
			return
		}
	}

	popcount := 0
	pendingTrailingEmpties := 0
	yieldedAny := false

	flushEmpties := func() {
		for pendingTrailingEmpties > 0 {
			v.VisitEmptyComponent()
			pendingTrailingEmpties--
			yieldedAny = true
		}
	}

	leadingDriveLetter := false
	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		atEnd := i == len(comps)-1

		if isFile && i == 0 && pathutil.IsWindowsDriveLetter(c) {
			flushEmpties()
			v.VisitInputComponent(pathutil.NormalizeDriveLetter(c), true)
			return
		}

		switch {
		case pathutil.IsDoubleDotSegment(c):
			popcount++
			if atEnd {
				pendingTrailingEmpties++
			}
		case pathutil.IsSingleDotSegment(c):
			if atEnd {
				pendingTrailingEmpties++
			}
		case popcount > 0:
			popcount--
		case len(c) == 0:
			pendingTrailingEmpties++
		default:
			flushEmpties()
			v.VisitInputComponent(c, false)
			yieldedAny = true
		}
	}
	_ = leadingDriveLetter

	if !in.HasBase {
		if pendingTrailingEmpties > 0 && !yieldedAny {
			v.VisitEmptyComponent()
		} else {
			flushEmpties()
		}
		return
	}

	flushEmpties()

	// The last base segment is the base's file part; only the directory
	// segments before it are merged.
	base := stripLeadingSlash(in.Scheme, in.BasePath)
	cut := 0
	for i := len(base) - 1; i >= 0; i-- {
		if isSep(in.Scheme, base[i]) {
			cut = i
			break
		}
	}
	if cut == 0 && isFile && pathutil.IsWindowsDriveLetter(base) {
		cut = len(base)
	}
	base = base[:cut]
	if isFile {
		base = stripFileLeading(base)
	}
	baseComps := splitComponents(in.Scheme, base)
	if len(base) == 0 {
		baseComps = nil
	}

	for i := len(baseComps) - 1; i >= 0; i-- {
		c := baseComps[i]
		if isFile && i == 0 && pathutil.IsWindowsDriveLetter(c) {
			v.VisitEmptyComponent()
			v.VisitBaseComponent(pathutil.NormalizeDriveLetter(c))
			yieldedAny = true
			return
		}
		if popcount > 0 {
			popcount--
			continue
		}
		v.VisitBaseComponent(c)
		yieldedAny = true
	}

	if !yieldedAny {
		v.VisitEmptyComponent()
	}
}

func stripLeadingSlash(s scheme.Kind, path []byte) []byte {
	if len(path) > 0 && isSep(s, path[0]) {
		return path[1:]
	}
	return path
}

func stripLeadingAndTrailingSlash(s scheme.Kind, path []byte) []byte {
	path = stripLeadingSlash(s, path)
	if len(path) > 0 && isSep(s, path[len(path)-1]) {
		path = path[:len(path)-1]
	}
	return path
}

// stripFileLeading additionally strips all subsequent slashes and all
// leading single/double-dot segments for file: URLs (spec.md §4.4).
func stripFileLeading(path []byte) []byte {
	for len(path) > 0 && (path[0] == '/' || path[0] == '\\') {
		path = path[1:]
	}
	for {
		rest := path
		var seg []byte
		if idx := bytes.IndexAny(rest, "/\\"); idx >= 0 {
			seg = rest[:idx]
		} else {
			seg = rest
		}
		if pathutil.IsSingleDotSegment(seg) || pathutil.IsDoubleDotSegment(seg) {
			path = path[len(seg):]
			for len(path) > 0 && (path[0] == '/' || path[0] == '\\') {
				path = path[1:]
			}
			continue
		}
		break
	}
	return path
}

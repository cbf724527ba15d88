package weburl_test

import (
	"testing"

	"github.com/pavlik/weburl/weburl"
)

// TestScenarios runs the concrete input -> output matrix of spec.md §8 as a
// single table, one row per scenario, rather than as separate BDD specs.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "1 path dot-segment resolution",
			run: func(t *testing.T) {
				base, err := weburl.Parse("http://h/", nil)
				if err != nil {
					t.Fatalf("parse base: %v", err)
				}
				u, err := weburl.Parse("a/b/c/.././d/e/../f/", base)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				if got, want := u.Href(), "http://h/a/b/d/f/"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
			},
		},
		{
			name: "2 path sigil insert and remove",
			run: func(t *testing.T) {
				u, err := weburl.Parse("foo:/a/b/c/d", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				pc := u.PathComponents()
				if err := pc.Insert(0, ""); err != nil {
					t.Fatalf("insert: %v", err)
				}
				if got, want := u.Href(), "foo:/.//a/b/c/d"; got != want {
					t.Errorf("Href() after insert = %q, want %q", got, want)
				}
				if err := pc.RemoveAt(0); err != nil {
					t.Fatalf("remove: %v", err)
				}
				if got, want := u.Href(), "foo:/a/b/c/d"; got != want {
					t.Errorf("Href() after remove = %q, want %q", got, want)
				}
			},
		},
		{
			name: "3a windows drive letter normalized under file scheme",
			run: func(t *testing.T) {
				u, err := weburl.Parse("file:///", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				if err := u.PathComponents().Append("C|", "Windows"); err != nil {
					t.Fatalf("append: %v", err)
				}
				if got, want := u.Href(), "file:///C:/Windows"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
			},
		},
		{
			name: "3b drive-letter-shaped segment untouched for non-file scheme",
			run: func(t *testing.T) {
				u, err := weburl.Parse("http://example/", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				if err := u.PathComponents().Append("C|", "Windows"); err != nil {
					t.Fatalf("append: %v", err)
				}
				if got, want := u.Href(), "http://example/C|/Windows"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
			},
		},
		{
			name: "4 form-encoded query canonical-equivalence key lookup",
			run: func(t *testing.T) {
				u, err := weburl.Parse("http://example/?jalapen%CC%83os=nfd&jalape%C3%B1os=nfc", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				kvps, err := u.QueryPairs(weburl.NewSchema())
				if err != nil {
					t.Fatalf("query pairs: %v", err)
				}
				if got, ok := kvps.Get("jalapeños"); !ok || got != "nfd" {
					t.Errorf("Get(jalapeños) = (%q, %v), want (%q, true)", got, ok, "nfd")
				}
				all := kvps.AllValues("jalapeños")
				if len(all) != 2 || all[0] != "nfd" || all[1] != "nfc" {
					t.Errorf("AllValues(jalapeños) = %v, want [nfd nfc]", all)
				}
			},
		},
		{
			name: "5 key-value set with duplicates",
			run: func(t *testing.T) {
				u, err := weburl.Parse("http://example/?foo=bar&dup=1&dup=2&dup=3", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				kvps, err := u.QueryPairs(weburl.NewSchema())
				if err != nil {
					t.Fatalf("query pairs: %v", err)
				}
				if _, err := kvps.Set("dup", "X"); err != nil {
					t.Fatalf("set: %v", err)
				}
				if got, want := u.Href(), "http://example/?foo=bar&dup=X"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
			},
		},
		{
			name: "6 empty-pair transparency on splice",
			run: func(t *testing.T) {
				u, err := weburl.Parse("http://example/?&&&a=1&&&b=2&&&", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				kvps, err := u.QueryPairs(weburl.NewSchema())
				if err != nil {
					t.Fatalf("query pairs: %v", err)
				}
				idx := -1
				for i, p := range kvps.All() {
					if p.Key(weburl.NewSchema()) == "a" {
						idx = i
					}
				}
				if idx != 0 {
					t.Fatalf("index_of(a) = %d, want 0", idx)
				}
				if err := kvps.RemoveAt(idx); err != nil {
					t.Fatalf("remove: %v", err)
				}
				if got, want := u.Href(), "http://example/?&&&b=2&&&"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
			},
		},
		{
			name: "7 ipv6 host preserved with brackets, default port dropped",
			run: func(t *testing.T) {
				u, err := weburl.Parse("https://[2001:db8::1]:443/", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				if got, want := u.Href(), "https://[2001:db8::1]/"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
				if got, want := u.Hostname(), "[2001:db8::1]"; got != want {
					t.Errorf("Hostname() = %q, want %q", got, want)
				}
				if got := u.Port(); got != "" {
					t.Errorf("Port() = %q, want empty", got)
				}
			},
		},
		{
			name: "8 scheme lowercasing",
			run: func(t *testing.T) {
				u, err := weburl.Parse("HTTP://Example/PATH", nil)
				if err != nil {
					t.Fatalf("parse: %v", err)
				}
				if got, want := u.Scheme(), "http"; got != want {
					t.Errorf("Scheme() = %q, want %q", got, want)
				}
				if got, want := u.Href(), "http://example/PATH"; got != want {
					t.Errorf("Href() = %q, want %q", got, want)
				}
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, tc.run)
	}
}

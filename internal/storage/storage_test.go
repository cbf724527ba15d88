package storage_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/internal/scheme"
	"github.com/pavlik/weburl/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "storage suite")
}

func httpExampleSlashHeader() (storage.Header, []byte) {
	// "http://example/" => scheme=http authority=example path=/
	raw := []byte("http://example/")
	h := storage.Header{
		SchemeKind: scheme.HTTP,
		Present:    storage.CompScheme | storage.CompAuthority | storage.CompPath,
		SchemeLen:  4,
		HostnameLen: len("example"),
		PathLen:    1,
	}
	return h, raw
}

var _ = Describe("packed storage", func() {
	It("computes component ranges matching the serialized bytes", func() {
		h, raw := httpExampleSlashHeader()
		s := storage.New(raw, h)
		rs := s.Ranges()
		Expect(string(s.Slice(rs.Scheme))).To(Equal("http"))
		Expect(string(s.Slice(rs.Hostname))).To(Equal("example"))
		Expect(string(s.Slice(rs.Path))).To(Equal("/"))
		Expect(rs.Query.Present).To(BeFalse())
		Expect(rs.Fragment.Present).To(BeFalse())
	})

	It("computes a path sigil offset when present", func() {
		raw := []byte("foo:/.//a/b")
		h := storage.Header{
			SchemeKind:   scheme.Other,
			Present:      storage.CompScheme | storage.CompPath,
			SchemeLen:    3,
			HasPathSigil: true,
			PathLen:      len("//a/b"),
		}
		s := storage.New(raw, h)
		rs := s.Ranges()
		Expect(string(s.Slice(rs.Path))).To(Equal("//a/b"))
	})

	It("replaces a subrange and header atomically, copying on a shared core", func() {
		h, raw := httpExampleSlashHeader()
		s := storage.New(raw, h)
		shared := s
		shared.Retain() // simulate a second owner existing
		Expect(s.IsUniquelyReferenced()).To(BeFalse())

		rs := s.Ranges()
		s.ReplaceSubrange(rs.Path.Offset, rs.Path.End(), []byte("/new"), func(old storage.Header) storage.Header {
			old.PathLen = len("/new")
			return old
		})
		Expect(string(s.Bytes())).To(Equal("http://example/new"))
		// the original shared handle must be unaffected (copy-on-write)
		Expect(string(shared.Bytes())).To(Equal("http://example/"))
	})

	It("mutates in place when uniquely referenced", func() {
		h, raw := httpExampleSlashHeader()
		buf := make([]byte, len(raw), len(raw)+16)
		copy(buf, raw)
		s := storage.New(buf, h)
		Expect(s.IsUniquelyReferenced()).To(BeTrue())
		rs := s.Ranges()
		s.ReplaceSubrange(rs.Path.Offset, rs.Path.End(), []byte("/z"), func(old storage.Header) storage.Header {
			old.PathLen = len("/z")
			return old
		})
		Expect(string(s.Bytes())).To(Equal("http://example/z"))
	})

	It("reports identity equality only for shared cores", func() {
		h, raw := httpExampleSlashHeader()
		a := storage.New(raw, h)
		b := a
		c := storage.New(append([]byte(nil), raw...), h)
		Expect(a.SameIdentity(b)).To(BeTrue())
		Expect(a.SameIdentity(c)).To(BeFalse())
	})
})

package weburl_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/weburl"
)

var _ = Describe("Parse", func() {
	It("resolves dot-segments against a base (spec.md scenario 1)", func() {
		base, err := weburl.Parse("http://h/", nil)
		Expect(err).NotTo(HaveOccurred())
		u, err := weburl.Parse("a/b/c/.././d/e/../f/", base)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://h/a/b/d/f/"))
	})

	It("allows an empty host for file: (spec.md scenario 3)", func() {
		u, err := weburl.Parse("file:///", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("file:///"))
		Expect(u.Hostname()).To(Equal(""))
	})

	It("rejects an empty host for a special non-file scheme", func() {
		_, err := weburl.Parse("http:///path", nil)
		Expect(err).To(HaveOccurred())
	})

	It("preserves IPv6 brackets and drops a default port", func() {
		u, err := weburl.Parse("https://[2001:db8::1]:443/", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("https://[2001:db8::1]/"))
		Expect(u.Hostname()).To(Equal("[2001:db8::1]"))
		Expect(u.Port()).To(Equal(""))
	})

	It("lowercases the scheme but not the path", func() {
		u, err := weburl.Parse("HTTP://example/PATH", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Scheme()).To(Equal("http"))
		Expect(u.Href()).To(Equal("http://example/PATH"))
	})
})

var _ = Describe("URL.Clone", func() {
	It("yields an independent handle under copy-on-write", func() {
		u, err := weburl.Parse("http://example/a/b", nil)
		Expect(err).NotTo(HaveOccurred())
		clone := u.Clone()
		Expect(clone.Href()).To(Equal(u.Href()))
		Expect(clone.PathComponents().Append("c")).NotTo(HaveOccurred())
		Expect(clone.Href()).To(Equal("http://example/a/b/c"))
		Expect(u.Href()).To(Equal("http://example/a/b"))
	})
})

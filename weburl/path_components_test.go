package weburl_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/weburl"
)

var _ = Describe("PathComponents", func() {
	It("round-trips the path sigil through insert and remove (spec.md scenario 2)", func() {
		u, err := weburl.Parse("foo:/a/b/c/d", nil)
		Expect(err).NotTo(HaveOccurred())
		pc := u.PathComponents()

		Expect(pc.Insert(0, "")).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("foo:/.//a/b/c/d"))

		Expect(pc.RemoveAt(0)).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("foo:/a/b/c/d"))
	})

	It("normalizes a Windows drive letter appended to a file: root (spec.md scenario 3)", func() {
		u, err := weburl.Parse("file:///", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.PathComponents().Append("C|", "Windows")).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("file:///C:/Windows"))
	})

	It("leaves a drive-letter-shaped segment untouched for non-file schemes", func() {
		u, err := weburl.Parse("http://example/", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.PathComponents().Append("C|", "Windows")).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/C|/Windows"))
	})

	It("appends to a non-root path without disturbing existing segments", func() {
		u, err := weburl.Parse("http://example/a/b", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.PathComponents().Append("c")).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/a/b/c"))
	})

	It("ensures a directory path before appending", func() {
		u, err := weburl.Parse("http://example/a/b", nil)
		Expect(err).NotTo(HaveOccurred())
		pc := u.PathComponents()
		Expect(pc.EnsureDirectoryPath()).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/a/b/"))
		Expect(pc.Append("c")).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/a/b/c"))
	})
})

package weburl_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/weburl"
)

var _ = Describe("KeyValuePairs", func() {
	It("looks up keys by Unicode canonical equivalence (spec.md scenario 4)", func() {
		u, err := weburl.Parse("http://example/?jalapen%CC%83os=nfd&jalape%C3%B1os=nfc", nil)
		Expect(err).NotTo(HaveOccurred())
		kvps, err := u.QueryPairs(weburl.NewSchema())
		Expect(err).NotTo(HaveOccurred())

		v, ok := kvps.Get("jalapeños")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("nfd"))

		Expect(kvps.AllValues("jalapeños")).To(Equal([]string{"nfd", "nfc"}))
	})

	It("replaces the first match and drops duplicates on Set (spec.md scenario 5)", func() {
		u, err := weburl.Parse("http://example/?foo=bar&dup=1&dup=2&dup=3", nil)
		Expect(err).NotTo(HaveOccurred())
		kvps, err := u.QueryPairs(weburl.NewSchema())
		Expect(err).NotTo(HaveOccurred())

		_, err = kvps.Set("dup", "X")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/?foo=bar&dup=X"))
	})

	It("erases only the inner empty pairs on a spliced removal (spec.md scenario 6)", func() {
		u, err := weburl.Parse("http://example/?&&&a=1&&&b=2&&&", nil)
		Expect(err).NotTo(HaveOccurred())
		kvps, err := u.QueryPairs(weburl.NewSchema())
		Expect(err).NotTo(HaveOccurred())

		idx := -1
		for i, p := range kvps.All() {
			if p.Key(weburl.NewSchema()) == "a" {
				idx = i
			}
		}
		Expect(idx).To(Equal(0))

		Expect(kvps.RemoveAt(idx)).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/?&&&b=2&&&"))
	})

	It("trims leading empty pairs on an empty-range insert at the front", func() {
		u, err := weburl.Parse("http://example/?&&&a=1", nil)
		Expect(err).NotTo(HaveOccurred())
		kvps, err := u.QueryPairs(weburl.NewSchema())
		Expect(err).NotTo(HaveOccurred())

		Expect(kvps.ReplaceSubrange(0, 0, nil)).NotTo(HaveOccurred())
		Expect(u.Href()).To(Equal("http://example/?a=1"))
	})

	It("appends a new pair and reports its index", func() {
		u, err := weburl.Parse("http://example/?a=1", nil)
		Expect(err).NotTo(HaveOccurred())
		kvps, err := u.QueryPairs(weburl.NewSchema())
		Expect(err).NotTo(HaveOccurred())

		idx, err := kvps.Append("b", "2")
		Expect(err).NotTo(HaveOccurred())
		Expect(idx).To(Equal(1))
		Expect(u.Href()).To(Equal("http://example/?a=1&b=2"))
	})

	It("rejects a schema whose pair delimiter is an alphanumeric byte", func() {
		u, err := weburl.Parse("http://example/path", nil)
		Expect(err).NotTo(HaveOccurred())
		schema := weburl.NewSchema(weburl.WithPairDelim('a'))
		_, err = u.QueryPairs(schema)
		Expect(err).To(Equal(weburl.ErrInvalidSchema))
	})
})

package weburl_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/weburl"
)

var _ = Describe("Schema", func() {
	It("defaults to application/x-www-form-urlencoded delimiters", func() {
		u, err := weburl.Parse("http://example/?a+b=c%2Bd", nil)
		Expect(err).NotTo(HaveOccurred())
		kvps, err := u.QueryPairs(weburl.NewSchema())
		Expect(err).NotTo(HaveOccurred())
		v, ok := kvps.Get("a b")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("c+d"))
	})

	It("honors WithPlusAsSpace(false) by leaving '+' literal", func() {
		u, err := weburl.Parse("http://example/?a+b=1", nil)
		Expect(err).NotTo(HaveOccurred())
		schema := weburl.NewSchema(weburl.WithPlusAsSpace(false))
		kvps, err := u.QueryPairs(schema)
		Expect(err).NotTo(HaveOccurred())
		v, ok := kvps.Get("a+b")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("1"))
	})
})

package scheme_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/internal/scheme"
)

func TestScheme(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "scheme suite")
}

var _ = Describe("scheme table", func() {
	It("lowercases and classifies known schemes", func() {
		k, lower := scheme.Parse([]byte("HTTP"))
		Expect(lower).To(Equal("http"))
		Expect(k).To(Equal(scheme.HTTP))
		Expect(k.IsSpecial()).To(BeTrue())
	})

	It("classifies unknown schemes as Other", func() {
		k, _ := scheme.Parse([]byte("mailto"))
		Expect(k).To(Equal(scheme.Other))
		Expect(k.IsSpecial()).To(BeFalse())
	})

	It("reports default ports for special schemes, none for file", func() {
		p, ok := scheme.HTTPS.DefaultPort()
		Expect(ok).To(BeTrue())
		Expect(p).To(Equal(uint16(443)))
		_, ok = scheme.File.DefaultPort()
		Expect(ok).To(BeFalse())
	})

	It("validates the scheme character class", func() {
		Expect(scheme.Valid([]byte("a+b-c.d9"))).To(BeTrue())
		Expect(scheme.Valid([]byte("9abc"))).To(BeFalse())
		Expect(scheme.Valid([]byte(""))).To(BeFalse())
	})
})

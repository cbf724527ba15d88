package ascii_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/internal/ascii"
)

var _ = Describe("encode sets", func() {
	It("classifies alpha and digit disjointly", func() {
		Expect(ascii.Alpha.Contains('a')).To(BeTrue())
		Expect(ascii.Alpha.Contains('9')).To(BeFalse())
		Expect(ascii.Digit.Contains('9')).To(BeTrue())
		Expect(ascii.Alphanumeric.Contains('z')).To(BeTrue())
	})

	It("escapes reserved path bytes but not unreserved ones", func() {
		Expect(ascii.PathSet.Contains('?')).To(BeTrue())
		Expect(ascii.PathSet.Contains('a')).To(BeFalse())
		Expect(ascii.PathSet.Contains('/')).To(BeFalse())
	})

	It("only escapes single-quote in the special query set", func() {
		Expect(ascii.QuerySet.Contains('\'')).To(BeFalse())
		Expect(ascii.SpecialQuerySet.Contains('\'')).To(BeTrue())
	})

	It("treats C0 controls as non-URL-code-points", func() {
		Expect(ascii.IsURLCodePoint(0x01)).To(BeFalse())
		Expect(ascii.IsURLCodePoint('a')).To(BeTrue())
		Expect(ascii.IsURLCodePoint(0x7F)).To(BeFalse())
		Expect(ascii.IsURLCodePoint(rune(0x00F1))).To(BeTrue())
	})
})

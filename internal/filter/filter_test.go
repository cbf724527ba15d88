package filter_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/internal/filter"
)

func TestFilter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "filter suite")
}

var _ = Describe("filtered input", func() {
	It("trims leading and trailing C0/space", func() {
		in, trimmed := filter.New([]byte("  \x01http://h/ \t"))
		Expect(trimmed).To(BeTrue())
		Expect(string(in.Raw()[in.Start():in.End()])).To(Equal("http://h/"))
	})

	It("reports no trimming for a clean input", func() {
		_, trimmed := filter.New([]byte("http://h/"))
		Expect(trimmed).To(BeFalse())
	})

	It("skips embedded tabs and newlines transparently", func() {
		in, _ := filter.New([]byte("ht\ttp://\nh/"))
		Expect(in.HasSkippedBytes()).To(BeTrue())
		Expect(string(in.Bytes())).To(Equal("http://h/"))
	})

	It("counts significant bytes excluding skip-bytes", func() {
		in, _ := filter.New([]byte("ht\ttp://\nh/"))
		Expect(in.Len()).To(Equal(len("http://h/")))
	})
})

package host_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/internal/host"
)

func TestHost(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "host suite")
}

var _ = Describe("host parser", func() {
	It("rejects an empty host for a special scheme", func() {
		_, _, err := host.Parse("", true, false)
		Expect(err).To(HaveOccurred())
	})

	It("allows an empty host for a non-special scheme", func() {
		s, k, err := host.Parse("", false, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(""))
		Expect(k).To(Equal(host.KindEmpty))
	})

	It("normalizes a dotted-decimal IPv4 address", func() {
		s, k, err := host.Parse("192.168.000.1", true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(host.KindIPv4))
		Expect(s).To(Equal("192.168.0.1"))
	})

	It("brackets and compresses an IPv6 address", func() {
		s, k, err := host.Parse("[2001:0db8:0000:0000:0000:0000:0000:0001]", true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(host.KindIPv6))
		Expect(s).To(Equal("[2001:db8::1]"))
	})

	It("lowercases an ASCII domain", func() {
		s, k, err := host.Parse("EXAMPLE.COM", true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(host.KindDomain))
		Expect(s).To(Equal("example.com"))
	})

	It("punycode-encodes a non-ASCII domain", func() {
		s, k, err := host.Parse("bücher.example", true, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(host.KindDomain))
		Expect(s).To(Equal("xn--bcher-kva.example"))
	})

	It("treats a non-special, non-file host as opaque, unlowercased", func() {
		s, k, err := host.Parse("EXAMPLE.COM", false, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(host.KindOpaque))
		Expect(s).To(Equal("EXAMPLE.COM"))
	})

	It("rejects a forbidden code point in an opaque host", func() {
		_, _, err := host.Parse("ho\tst", false, false)
		Expect(err).To(HaveOccurred())
	})
})

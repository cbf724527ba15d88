package pct_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/pavlik/weburl/internal/ascii"
	"github.com/pavlik/weburl/internal/pct"
)

func TestPct(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "pct suite")
}

var _ = Describe("percent-encoding codec", func() {
	It("round-trips through encode/decode", func() {
		in := []byte("a b/c?d")
		enc := pct.Encode(in, ascii.QuerySet)
		dec := pct.Decode(enc, false)
		Expect(dec).To(Equal(in))
	})

	It("tolerates a truncated escape at the end of input", func() {
		dec := pct.Decode([]byte("abc%2"), false)
		Expect(string(dec)).To(Equal("abc%2"))
	})

	It("decodes + as space only when requested", func() {
		Expect(pct.DecodeString([]byte("a+b"), true)).To(Equal("a b"))
		Expect(pct.DecodeString([]byte("a+b"), false)).To(Equal("a+b"))
	})

	It("escapes space as + and + as %2B in form mode", func() {
		out := pct.EncodeForm(nil, []byte("a b+c"), ascii.FormSet)
		Expect(string(out)).To(Equal("a+b%2Bc"))
	})

	It("reports the valid prefix length before a malformed escape", func() {
		n, truncated := pct.ValidUpTo([]byte("ab%2gcd"))
		Expect(n).To(Equal(2))
		Expect(truncated).To(BeTrue())
	})

	It("walks a path in reverse, one source byte at a time", func() {
		r := pct.NewReverseChunks([]byte("a/b"), ascii.PathSet)
		var got []string
		for {
			chunk, ok := r.Next()
			if !ok {
				break
			}
			got = append(got, chunk)
		}
		Expect(got).To(Equal([]string{"b", "/", "a"}))
	})
})

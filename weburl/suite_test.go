package weburl_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestWeburl(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "weburl suite")
}

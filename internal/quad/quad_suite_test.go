package quad_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestQuad(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quad Suite")
}

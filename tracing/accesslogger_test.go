package tracing

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dmcachesim/directmapped"
)

var _ = Describe("AccessLogger", func() {
	It("should log accesses and resets", func() {
		buf := new(bytes.Buffer)
		logger := NewAccessLogger(log.New(buf, "", 0))

		cache, err := directmapped.MakeBuilder().
			WithHook(logger).
			Build("L1")
		Expect(err).NotTo(HaveOccurred())

		cache.AccessByteAddress(0x24)
		cache.AccessByteAddress(0x28)
		cache.Reset()

		Expect(buf.String()).To(Equal(
			"access, L1, compulsory-miss, 0x24, 2, 4\n" +
				"access, L1, hit, 0x28, 2, 8\n" +
				"reset, L1, 2\n"))
	})
})

package directmapped

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stats", func() {
	It("should compute rates", func() {
		s := Stats{CompulsoryMisses: 1, ConflictMisses: 2, Hits: 5, Accesses: 8}

		missRate, err := s.MissRate()
		Expect(err).NotTo(HaveOccurred())
		Expect(missRate).To(BeNumerically("~", 0.375))

		hitRate, err := s.HitRate()
		Expect(err).NotTo(HaveOccurred())
		Expect(hitRate).To(BeNumerically("~", 0.625))

		Expect(s.TotalMisses()).To(Equal(uint64(3)))
	})

	It("should refuse rates without accesses", func() {
		s := Stats{}

		_, err := s.MissRate()
		Expect(err).To(MatchError(ErrNoAccesses))

		_, err = s.HitRate()
		Expect(err).To(MatchError(ErrNoAccesses))
	})
})

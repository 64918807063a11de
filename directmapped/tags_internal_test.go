package directmapped

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("tagArray", func() {
	var tags *tagArray

	BeforeEach(func() {
		tags = newTagArray(4096, 16)
	})

	It("should have one slot per block", func() {
		Expect(tags.NumBlocks()).To(Equal(256))
		Expect(tags.Slots).To(HaveLen(256))
	})

	It("should wrap addresses into the cache window", func() {
		wrapped, blockIndex, offset := tags.locate(4096 + 0x35)

		Expect(wrapped).To(Equal(uint64(0x35)))
		Expect(blockIndex).To(Equal(uint64(3)))
		Expect(offset).To(Equal(uint64(5)))
	})

	It("should cover the addresses inside a block", func() {
		Expect(tags.Covers(32, 32)).To(BeTrue())
		Expect(tags.Covers(32, 47)).To(BeTrue())
		Expect(tags.Covers(32, 48)).To(BeFalse())
		Expect(tags.Covers(32, 31)).To(BeFalse())
	})

	It("should store and reset tags", func() {
		tags.Update(7, 0x1070)

		tag, filled := tags.Lookup(7)
		Expect(filled).To(BeTrue())
		Expect(tag).To(Equal(uint64(0x1070)))
		Expect(tags.ValidBlocks()).To(Equal(1))

		tags.Reset()

		_, filled = tags.Lookup(7)
		Expect(filled).To(BeFalse())
		Expect(tags.ValidBlocks()).To(Equal(0))
	})
})

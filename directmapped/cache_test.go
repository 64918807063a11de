package directmapped

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/dmcachesim/sim/hooking"
)

func expectConsistent(c *Cache) {
	s := c.Stats()
	ExpectWithOffset(1, s.Accesses).
		To(Equal(s.CompulsoryMisses + s.ConflictMisses + s.Hits))
}

var _ = Describe("Cache", func() {
	var c *Cache

	BeforeEach(func() {
		var err error
		c, err = New(64, 16)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should classify the first access to a block as compulsory", func() {
		for _, addr := range []uint64{0, 16, 32, 48} {
			r := c.AccessByteAddress(addr)
			Expect(r.Kind).To(Equal(CompulsoryMiss))
		}

		Expect(c.Stats()).To(Equal(Stats{CompulsoryMisses: 4, Accesses: 4}))
	})

	It("should hit inside the block that was stored", func() {
		c.AccessByteAddress(16)
		r := c.AccessByteAddress(20)

		Expect(r.Kind).To(Equal(Hit))
		Expect(r.BlockIndex).To(Equal(uint64(1)))
		Expect(r.BlockOffset).To(Equal(uint64(4)))
		Expect(c.Stats().Hits).To(Equal(uint64(1)))
	})

	It("should store the last address as the tag even on a hit", func() {
		c.AccessByteAddress(16)
		c.AccessByteAddress(28)

		tag, filled := c.Tag(1)
		Expect(filled).To(BeTrue())
		Expect(tag).To(Equal(uint64(28)))

		r := c.AccessByteAddress(16)
		Expect(r.Kind).To(Equal(ConflictMiss))
	})

	Context("when addresses wrap around the cache size", func() {
		It("should map an aliased address to the same block and miss", func() {
			c.AccessByteAddress(0)
			r := c.AccessByteAddress(64)

			Expect(r.WrappedAddress).To(Equal(uint64(0)))
			Expect(r.BlockIndex).To(Equal(uint64(0)))
			Expect(r.HadTag).To(BeTrue())
			Expect(r.PrevTag).To(Equal(uint64(0)))
			Expect(r.Kind).To(Equal(ConflictMiss))
			Expect(c.Stats()).To(Equal(
				Stats{CompulsoryMisses: 1, ConflictMisses: 1, Accesses: 2}))
		})

		It("should compare raw addresses, not wrapped ones", func() {
			c.AccessByteAddress(64)

			r := c.AccessByteAddress(72)
			Expect(r.BlockIndex).To(Equal(uint64(0)))
			Expect(r.Kind).To(Equal(Hit))

			r = c.AccessByteAddress(8)
			Expect(r.BlockIndex).To(Equal(uint64(0)))
			Expect(r.Kind).To(Equal(ConflictMiss))
		})

		It("should keep the raw address as the tag", func() {
			c.AccessByteAddress(64 + 48 + 3)

			tag, filled := c.Tag(3)
			Expect(filled).To(BeTrue())
			Expect(tag).To(Equal(uint64(115)))
		})
	})

	It("should keep the counters consistent for any access sequence", func() {
		rng := rand.New(rand.NewSource(1))

		for i := 0; i < 2000; i++ {
			c.AccessByteAddress(uint64(rng.Intn(1024)))
			expectConsistent(c)
		}
	})

	It("should keep every tag in the block it maps to", func() {
		rng := rand.New(rand.NewSource(2))

		for i := 0; i < 500; i++ {
			c.AccessByteAddress(uint64(rng.Intn(4096)))
		}

		for k := 0; k < c.NumBlocks(); k++ {
			tag, filled := c.Tag(k)
			if filled {
				Expect((tag % 64) / 16).To(Equal(uint64(k)))
			}
		}
	})

	Context("when reset", func() {
		BeforeEach(func() {
			c.AccessByteAddress(0)
			c.AccessByteAddress(4)
			c.AccessByteAddress(64)
			c.Reset()
		})

		It("should zero all the counters", func() {
			Expect(c.Stats()).To(BeZero())
		})

		It("should keep the geometry", func() {
			Expect(c.TotalByteSize()).To(Equal(uint64(64)))
			Expect(c.BlockByteSize()).To(Equal(uint64(16)))
		})

		It("should make the next access compulsory", func() {
			r := c.AccessByteAddress(64)
			Expect(r.Kind).To(Equal(CompulsoryMiss))
			Expect(r.HadTag).To(BeFalse())
		})
	})

	It("should treat float words as 4 bytes", func() {
		r := c.AccessFloatWordAddress(5)

		Expect(r.Address).To(Equal(uint64(20)))
		Expect(r.BlockIndex).To(Equal(uint64(1)))
	})

	It("should behave the same through the float-word wrapper", func() {
		byWord, err := New(256, 16)
		Expect(err).NotTo(HaveOccurred())
		byByte, err := New(256, 16)
		Expect(err).NotTo(HaveOccurred())

		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 1000; i++ {
			x := uint64(rng.Intn(512))

			Expect(byWord.AccessFloatWordAddress(x)).
				To(Equal(byByte.AccessByteAddress(4 * x)))
		}

		Expect(byWord.Snapshot()).To(Equal(byByte.Snapshot()))
		for k := 0; k < byWord.NumBlocks(); k++ {
			wordTag, wordFilled := byWord.Tag(k)
			byteTag, byteFilled := byByte.Tag(k)
			Expect(wordFilled).To(Equal(byteFilled))
			Expect(wordTag).To(Equal(byteTag))
		}
	})

	It("should snapshot its state", func() {
		c.AccessByteAddress(0)
		c.AccessByteAddress(32)

		s := c.Snapshot()
		Expect(s.Name).To(Equal("Cache"))
		Expect(s.NumBlocks).To(Equal(4))
		Expect(s.ValidBlocks).To(Equal(2))
		Expect(s.Stats.Accesses).To(Equal(uint64(2)))
	})

	Context("with hooks", func() {
		var (
			mockCtrl *gomock.Controller
			hook     *MockHook
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			hook = NewMockHook(mockCtrl)
			c.AcceptHook(hook)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should invoke the hook after every access", func() {
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(c))
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosAccess))
				Expect(ctx.Item).To(Equal(uint64(64)))

				result := ctx.Detail.(AccessResult)
				Expect(result.Kind).To(Equal(CompulsoryMiss))
				Expect(c.Stats().Accesses).To(Equal(uint64(1)))
			})

			c.AccessByteAddress(64)
		})

		It("should report the stats before a reset", func() {
			hook.EXPECT().Func(gomock.Any()).Times(2)
			c.AccessByteAddress(0)
			c.AccessByteAddress(0)

			hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosReset))
				Expect(ctx.Detail).To(Equal(
					Stats{CompulsoryMisses: 1, Hits: 1, Accesses: 2}))
			})

			c.Reset()
		})
	})
})

package directmapped

// A tagSlot is the information associated with one cache line.
type tagSlot struct {
	Addr    uint64
	IsValid bool
}

// tagArray holds one slot per block. The slot of a block stores the raw
// address that was last placed into it.
type tagArray struct {
	TotalByteSize uint64
	BlockByteSize uint64
	Slots         []tagSlot
}

func newTagArray(totalByteSize, blockByteSize uint64) *tagArray {
	t := &tagArray{
		TotalByteSize: totalByteSize,
		BlockByteSize: blockByteSize,
	}

	t.Reset()

	return t
}

// NumBlocks returns the number of cache lines.
func (t *tagArray) NumBlocks() int {
	return int(t.TotalByteSize / t.BlockByteSize)
}

// locate wraps addr into the cache window and splits the wrapped address
// into a block index and an offset inside the block.
func (t *tagArray) locate(addr uint64) (wrapped, blockIndex, offset uint64) {
	wrapped = addr % t.TotalByteSize
	blockIndex = wrapped / t.BlockByteSize
	offset = wrapped % t.BlockByteSize

	return wrapped, blockIndex, offset
}

// Lookup returns the tag stored in a block and whether the block is filled.
func (t *tagArray) Lookup(blockIndex uint64) (uint64, bool) {
	slot := t.Slots[blockIndex]
	return slot.Addr, slot.IsValid
}

// Covers reports whether addr falls inside the block that starts at tag.
func (t *tagArray) Covers(tag, addr uint64) bool {
	return addr >= tag && addr-tag < t.BlockByteSize
}

// Update stores addr as the tag of a block.
func (t *tagArray) Update(blockIndex, addr uint64) {
	t.Slots[blockIndex] = tagSlot{Addr: addr, IsValid: true}
}

// ValidBlocks counts the filled blocks.
func (t *tagArray) ValidBlocks() int {
	n := 0

	for _, slot := range t.Slots {
		if slot.IsValid {
			n++
		}
	}

	return n
}

// Reset marks all the blocks empty.
func (t *tagArray) Reset() {
	t.Slots = make([]tagSlot, t.NumBlocks())
}

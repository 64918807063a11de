package tracing

import (
	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/sim/hooking"
)

// AccessCounter is a hook that counts the access outcomes of a cache
// independently of the cache's own counters. It also tracks how many
// conflict misses each block suffers.
type AccessCounter struct {
	counts            map[directmapped.AccessKind]uint64
	conflictsPerBlock map[uint64]uint64
}

// NewAccessCounter creates a new AccessCounter.
func NewAccessCounter() *AccessCounter {
	c := &AccessCounter{}
	c.Reset()

	return c
}

// Func counts an access. Other hook positions are ignored.
func (c *AccessCounter) Func(ctx hooking.HookCtx) {
	if ctx.Pos != directmapped.HookPosAccess {
		return
	}

	result, ok := ctx.Detail.(directmapped.AccessResult)
	if !ok {
		return
	}

	c.counts[result.Kind]++

	if result.Kind == directmapped.ConflictMiss {
		c.conflictsPerBlock[result.BlockIndex]++
	}
}

// Count returns the number of accesses of a kind.
func (c *AccessCounter) Count(kind directmapped.AccessKind) uint64 {
	return c.counts[kind]
}

// Total returns the number of accesses counted.
func (c *AccessCounter) Total() uint64 {
	var total uint64
	for _, n := range c.counts {
		total += n
	}

	return total
}

// ConflictMisses returns the number of conflict misses of a block.
func (c *AccessCounter) ConflictMisses(blockIndex uint64) uint64 {
	return c.conflictsPerBlock[blockIndex]
}

// HottestBlock returns the block with the most conflict misses. Ties go to
// the lowest block index. It returns false if there was no conflict miss.
func (c *AccessCounter) HottestBlock() (blockIndex, conflicts uint64, ok bool) {
	for b, n := range c.conflictsPerBlock {
		if !ok || n > conflicts || (n == conflicts && b < blockIndex) {
			blockIndex, conflicts, ok = b, n, true
		}
	}

	return blockIndex, conflicts, ok
}

// Reset clears all the counts.
func (c *AccessCounter) Reset() {
	c.counts = make(map[directmapped.AccessKind]uint64)
	c.conflictsPerBlock = make(map[uint64]uint64)
}

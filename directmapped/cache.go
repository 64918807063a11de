// Package directmapped models a direct-mapped cache that classifies every
// access as a hit, a compulsory miss, or a conflict miss.
//
// An address is first wrapped into the cache window (address modulo the
// cache size) to find its block. The hit test, however, compares the raw
// address against the raw address stored as the block tag. Two addresses
// that are a multiple of the cache size apart therefore share a block but do
// not hit on each other.
package directmapped

import (
	"github.com/sarchlab/dmcachesim/sim/hooking"
)

// Cache is a direct-mapped cache model. It is not safe for concurrent use.
type Cache struct {
	hooking.HookableBase

	name  string
	tags  *tagArray
	stats Stats
}

// New creates a cache with the given geometry.
func New(totalByteSize, blockByteSize uint64) (*Cache, error) {
	return MakeBuilder().
		WithTotalByteSize(totalByteSize).
		WithBlockByteSize(blockByteSize).
		Build("Cache")
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// TotalByteSize returns the capacity of the cache in bytes.
func (c *Cache) TotalByteSize() uint64 {
	return c.tags.TotalByteSize
}

// BlockByteSize returns the size of a cache line in bytes.
func (c *Cache) BlockByteSize() uint64 {
	return c.tags.BlockByteSize
}

// NumBlocks returns the number of cache lines.
func (c *Cache) NumBlocks() int {
	return c.tags.NumBlocks()
}

// Tag returns the raw address stored in a block, and false if the block is
// empty.
func (c *Cache) Tag(blockIndex int) (uint64, bool) {
	return c.tags.Lookup(uint64(blockIndex))
}

// AccessByteAddress accesses a byte address and classifies the access.
func (c *Cache) AccessByteAddress(addr uint64) AccessResult {
	wrapped, blockIndex, offset := c.tags.locate(addr)
	tag, filled := c.tags.Lookup(blockIndex)

	result := AccessResult{
		Address:        addr,
		WrappedAddress: wrapped,
		BlockIndex:     blockIndex,
		BlockOffset:    offset,
		PrevTag:        tag,
		HadTag:         filled,
	}

	switch {
	case !filled:
		result.Kind = CompulsoryMiss
	case c.tags.Covers(tag, addr):
		result.Kind = Hit
	default:
		result.Kind = ConflictMiss
	}

	c.stats.count(result.Kind)
	c.tags.Update(blockIndex, addr)

	if c.NumHooks() > 0 {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosAccess,
			Item:   addr,
			Detail: result,
		})
	}

	return result
}

// AccessFloatWordAddress accesses the 4-byte word at wordIndex.
func (c *Cache) AccessFloatWordAddress(wordIndex uint64) AccessResult {
	return c.AccessByteAddress(wordIndex * FloatWordByteSize)
}

// Stats returns the counters collected since the cache was built or last
// reset.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Reset empties all the blocks and zeroes the counters. The geometry is kept.
func (c *Cache) Reset() {
	before := c.stats

	c.tags.Reset()
	c.stats = Stats{}

	if c.NumHooks() > 0 {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosReset,
			Detail: before,
		})
	}
}

// Snapshot is a copy of the observable state of a cache.
type Snapshot struct {
	Name          string `json:"name"`
	TotalByteSize uint64 `json:"total_byte_size"`
	BlockByteSize uint64 `json:"block_byte_size"`
	NumBlocks     int    `json:"num_blocks"`
	ValidBlocks   int    `json:"valid_blocks"`
	Stats         Stats  `json:"stats"`
}

// Snapshot copies the current state of the cache.
func (c *Cache) Snapshot() Snapshot {
	return Snapshot{
		Name:          c.name,
		TotalByteSize: c.tags.TotalByteSize,
		BlockByteSize: c.tags.BlockByteSize,
		NumBlocks:     c.tags.NumBlocks(),
		ValidBlocks:   c.tags.ValidBlocks(),
		Stats:         c.stats,
	}
}

package directmapped

import "github.com/sarchlab/dmcachesim/sim/hooking"

// Units of memory size.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
)

// Builder can build direct-mapped caches.
type Builder struct {
	totalByteSize uint64
	blockByteSize uint64
	hooks         []hooking.Hook
}

// MakeBuilder creates a builder with a 4 KB cache of 16-byte blocks.
func MakeBuilder() Builder {
	return Builder{
		totalByteSize: 4 * KB,
		blockByteSize: 16,
	}
}

// WithTotalByteSize sets the capacity of the cache.
func (b Builder) WithTotalByteSize(totalByteSize uint64) Builder {
	b.totalByteSize = totalByteSize
	return b
}

// WithBlockByteSize sets the cache line size.
func (b Builder) WithBlockByteSize(blockByteSize uint64) Builder {
	b.blockByteSize = blockByteSize
	return b
}

// WithHook registers a hook on every cache built.
func (b Builder) WithHook(hook hooking.Hook) Builder {
	hooks := make([]hooking.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

// Build builds a cache. It fails with a *ConfigError if the total size is
// not a positive multiple of a positive block size.
func (b Builder) Build(name string) (*Cache, error) {
	err := validateGeometry(b.totalByteSize, b.blockByteSize)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		name: name,
		tags: newTagArray(b.totalByteSize, b.blockByteSize),
	}

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	return c, nil
}

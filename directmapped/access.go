package directmapped

import "github.com/sarchlab/dmcachesim/sim/hooking"

// FloatWordByteSize is the number of bytes a float-word address stands for.
const FloatWordByteSize = 4

// Hook positions of a Cache.
var (
	// HookPosAccess is invoked after every access. The hook detail is an
	// AccessResult.
	HookPosAccess = &hooking.HookPos{Name: "DM Access"}

	// HookPosReset is invoked after the cache is reset. The hook detail is
	// the Stats collected before the reset.
	HookPosReset = &hooking.HookPos{Name: "DM Reset"}
)

// AccessKind classifies an access.
type AccessKind int

// The outcomes of an access.
const (
	CompulsoryMiss AccessKind = iota
	ConflictMiss
	Hit
)

func (k AccessKind) String() string {
	switch k {
	case CompulsoryMiss:
		return "compulsory-miss"
	case ConflictMiss:
		return "conflict-miss"
	case Hit:
		return "hit"
	default:
		return "unknown"
	}
}

// IsMiss returns true for both kinds of misses.
func (k AccessKind) IsMiss() bool {
	return k == CompulsoryMiss || k == ConflictMiss
}

// AccessResult describes how a single access was classified.
type AccessResult struct {
	Kind AccessKind

	// Address is the raw byte address that was accessed.
	Address uint64

	// WrappedAddress is Address modulo the cache size.
	WrappedAddress uint64

	BlockIndex  uint64
	BlockOffset uint64

	// PrevTag is the tag that occupied the block before the access. It is
	// only meaningful when HadTag is true.
	PrevTag uint64
	HadTag  bool
}

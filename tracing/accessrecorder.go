package tracing

import (
	"github.com/sarchlab/dmcachesim/datarecording"
	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/sim/hooking"
)

// AccessTableName is the table the AccessRecorder writes to.
const AccessTableName = "dm_accesses"

type accessEntry struct {
	RunID          string
	Seq            uint64
	Cache          string
	Address        uint64
	WrappedAddress uint64
	BlockIndex     uint64
	Kind           string
}

// AccessRecorder is a hook that stores every access of a cache into a
// DataRecorder table.
type AccessRecorder struct {
	recorder datarecording.DataRecorder
	runID    string
	seq      uint64
}

// NewAccessRecorder creates the access table and returns a recorder for it.
func NewAccessRecorder(recorder datarecording.DataRecorder) *AccessRecorder {
	recorder.CreateTable(AccessTableName, accessEntry{})

	return &AccessRecorder{recorder: recorder}
}

// SetRunID tags the following accesses with a run ID and restarts the
// sequence number.
func (r *AccessRecorder) SetRunID(runID string) {
	r.runID = runID
	r.seq = 0
}

// Func records an access. Other hook positions are ignored.
func (r *AccessRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != directmapped.HookPosAccess {
		return
	}

	result := ctx.Detail.(directmapped.AccessResult)

	r.recorder.InsertData(AccessTableName, accessEntry{
		RunID:          r.runID,
		Seq:            r.seq,
		Cache:          ctx.Domain.Name(),
		Address:        result.Address,
		WrappedAddress: result.WrappedAddress,
		BlockIndex:     result.BlockIndex,
		Kind:           result.Kind.String(),
	})

	r.seq++
}

package monitoring

import (
	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/sim/hooking"
)

func hookCtxForAccess() hooking.HookCtx {
	return hooking.HookCtx{
		Pos:    directmapped.HookPosAccess,
		Detail: directmapped.AccessResult{Kind: directmapped.Hit},
	}
}

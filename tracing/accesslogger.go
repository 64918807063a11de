package tracing

import (
	"log"

	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/sim/hooking"
)

// AccessLogger is a hook that writes every access of a cache as one line of
// a log.
type AccessLogger struct {
	logger *log.Logger
}

// NewAccessLogger creates a new AccessLogger.
func NewAccessLogger(logger *log.Logger) *AccessLogger {
	return &AccessLogger{logger: logger}
}

// Func logs accesses and resets.
func (l *AccessLogger) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case directmapped.HookPosAccess:
		result := ctx.Detail.(directmapped.AccessResult)
		l.logger.Printf("access, %s, %s, 0x%x, %d, %d\n",
			ctx.Domain.Name(),
			result.Kind,
			result.Address,
			result.BlockIndex,
			result.BlockOffset,
		)
	case directmapped.HookPosReset:
		stats := ctx.Detail.(directmapped.Stats)
		l.logger.Printf("reset, %s, %d\n", ctx.Domain.Name(), stats.Accesses)
	}
}

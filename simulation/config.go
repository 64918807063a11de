package simulation

import (
	"errors"
	"fmt"

	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/workload"
)

// ErrNoMatrixSizes is returned when a configuration has nothing to run.
var ErrNoMatrixSizes = errors.New("no matrix sizes to simulate")

// Config lists the parameters of a simulation.
type Config struct {
	// TotalByteSize and BlockByteSize define the cache geometry shared by
	// all the runs.
	TotalByteSize uint64
	BlockByteSize uint64

	// MatrixSizes holds the dimension n of every run, in order.
	MatrixSizes []int

	// TraceAccesses records every single access, not only the run
	// summaries, when a data recorder is attached.
	TraceAccesses bool
}

// DefaultConfig returns a 4 KB cache with 16-byte blocks running matrices of
// 256, 2048 and 2052.
func DefaultConfig() Config {
	return Config{
		TotalByteSize: 4 * directmapped.KB,
		BlockByteSize: 16,
		MatrixSizes:   []int{256, 2048, 2052},
	}
}

// Validate checks that there is at least one run and that every matrix
// dimension is positive. The geometry is checked when the cache is built.
func (c Config) Validate() error {
	if len(c.MatrixSizes) == 0 {
		return ErrNoMatrixSizes
	}

	for i, n := range c.MatrixSizes {
		err := workload.AddRows{N: n}.Validate()
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
	}

	return nil
}

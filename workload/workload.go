// Package workload generates synthetic memory access traces and drives a
// cache through them.
package workload

import (
	"errors"
	"fmt"

	"github.com/sarchlab/dmcachesim/directmapped"
)

// ErrInvalidDimension is returned when a matrix dimension is not positive.
var ErrInvalidDimension = errors.New("invalid matrix dimension")

// An Accessor accepts float-word accesses. *directmapped.Cache is an
// Accessor.
type Accessor interface {
	AccessFloatWordAddress(wordIndex uint64) directmapped.AccessResult
}

// A Pattern is a trace generator.
type Pattern interface {
	// Name describes the pattern.
	Name() string

	// NumAccesses returns the number of accesses Generate issues.
	NumAccesses() uint64

	// Generate issues the whole trace to the accessor.
	Generate(a Accessor)
}

// AddRows is the access pattern of
//
//	for i := 1; i < n; i++ {
//		for j := 0; j < n; j++ {
//			A[i*n+j] = A[i*n+j] + A[(i-1)*n+j]
//		}
//	}
//
// over an n x n row-major float matrix A that starts at address 0.
type AddRows struct {
	N int
}

// Validate checks that the matrix dimension is positive.
func (p AddRows) Validate() error {
	if p.N < 1 {
		return fmt.Errorf("%w: n=%d", ErrInvalidDimension, p.N)
	}

	return nil
}

// Name returns "add_rows(n=N)".
func (p AddRows) Name() string {
	return fmt.Sprintf("add_rows(n=%d)", p.N)
}

// NumAccesses returns 3*n*(n-1).
func (p AddRows) NumAccesses() uint64 {
	if p.N < 2 {
		return 0
	}

	n := uint64(p.N)

	return 3 * n * (n - 1)
}

// Generate issues, for every element of rows 1 to n-1, a read of the element,
// a read of the element above it, and a write of the element. A write is
// issued exactly like a read.
func (p AddRows) Generate(a Accessor) {
	n := uint64(max(p.N, 0))

	for i := uint64(1); i < n; i++ {
		for j := uint64(0); j < n; j++ {
			a.AccessFloatWordAddress(i*n + j)
			a.AccessFloatWordAddress((i-1)*n + j)
			a.AccessFloatWordAddress(i*n + j)
		}
	}
}

// Generate runs the AddRows pattern of dimension n.
func Generate(a Accessor, n int) error {
	p := AddRows{N: n}

	err := p.Validate()
	if err != nil {
		return err
	}

	p.Generate(a)

	return nil
}

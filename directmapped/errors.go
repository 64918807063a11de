package directmapped

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is wrapped by every ConfigError.
	ErrInvalidGeometry = errors.New("invalid cache geometry")

	// ErrNoAccesses is returned when a rate is requested before any access
	// has been made.
	ErrNoAccesses = errors.New("no accesses recorded")
)

// A ConfigError reports a cache geometry that cannot be built.
type ConfigError struct {
	TotalByteSize uint64
	BlockByteSize uint64
	Reason        string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf(
		"invalid cache geometry (total %d B, block %d B): %s",
		e.TotalByteSize, e.BlockByteSize, e.Reason,
	)
}

// Unwrap makes errors.Is(err, ErrInvalidGeometry) hold.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidGeometry
}

func validateGeometry(totalByteSize, blockByteSize uint64) error {
	switch {
	case totalByteSize == 0:
		return &ConfigError{totalByteSize, blockByteSize,
			"total size must be positive"}
	case blockByteSize == 0:
		return &ConfigError{totalByteSize, blockByteSize,
			"block size must be positive"}
	case totalByteSize%blockByteSize != 0:
		return &ConfigError{totalByteSize, blockByteSize,
			"total size must be a multiple of the block size"}
	}

	return nil
}

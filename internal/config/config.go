// Package config loads the rbstress tool configuration from file,
// environment variables, and defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/rbtree/pkg/safeconv"
)

// Backend names accepted by the tools.
const (
	BackendArena = "arena"
	BackendHeap  = "heap"
)

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultStressCount          = 1_000_000
	DefaultStressSeed           = 1
	DefaultStressValidateEvery  = 0
	DefaultBackend              = BackendArena
	DefaultHibernationThreshold = 0
	DefaultSweepSpan            = 1_000_000
)

// ErrUnknownBackend is returned when the configured backend is neither
// "arena" nor "heap".
var ErrUnknownBackend = errors.New("unknown backend")

// ErrNonPositiveCount is returned when the stress key count is zero or
// negative.
var ErrNonPositiveCount = errors.New("stress count must be positive")

// ErrCountOverflowsArena is returned when the stress key count exceeds
// the arena's uint32 handle space.
var ErrCountOverflowsArena = errors.New("stress count exceeds arena handle space")

// ErrNonPositiveSpan is returned when the sweep span is zero or
// negative.
var ErrNonPositiveSpan = errors.New("sweep span must be positive")

// Config is the root configuration for the rbstress tool.
type Config struct {
	Backend string       `mapstructure:"backend"`
	Stress  StressConfig `mapstructure:"stress"`
	Sweep   SweepConfig  `mapstructure:"sweep"`
}

// StressConfig drives the stress command.
type StressConfig struct {
	// Count is the number of generated keys to insert.
	Count int `mapstructure:"count"`

	// Seed is the initial value of the key generator.
	Seed uint32 `mapstructure:"seed"`

	// ValidateEvery inserts a full invariant check every N keys;
	// 0 validates only once, after the final insert.
	ValidateEvery int `mapstructure:"validate_every"`

	// HibernationThreshold is handed to the arena backend.
	HibernationThreshold int `mapstructure:"hibernation_threshold"`
}

// SweepConfig drives the sweep command.
type SweepConfig struct {
	// Span is the width of the paired insert range; keys i and span-i
	// are inserted for i in [span/2, span).
	Span int `mapstructure:"span"`
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	if c.Backend != BackendArena && c.Backend != BackendHeap {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	if c.Stress.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveCount, c.Stress.Count)
	}

	if uint64(c.Stress.Count) >= uint64(safeconv.MaxUint32) {
		return fmt.Errorf("%w: %d", ErrCountOverflowsArena, c.Stress.Count)
	}

	if c.Sweep.Span <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveSpan, c.Sweep.Span)
	}

	return nil
}

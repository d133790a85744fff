package tier

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Defaults of the tier search.
const (
	DefaultStartN       = 26624
	DefaultGrowth       = 1.04
	MaxTierAllowed      = 47
	DefaultMaxTier      = 25
	DefaultLinearTiers  = 8
	DefaultBlowthroughs = 2
	DefaultTierTimeout  = 2 * time.Second
	DefaultTimeout      = 58 * time.Second

	// AllLinear probes every tier from MinTier to MaxTier linearly.
	AllLinear = -1
)

// ErrInvalidConfig is wrapped by every Config.Validate error.
var ErrInvalidConfig = errors.New("tier: invalid config")

// Sizes returns count matrix dimensions starting at startN, each the previous
// one grown by ratio and rounded up to a multiple of 64.
func Sizes(startN int, ratio float64, count int) []int {
	if count <= 0 {
		return nil
	}
	sizes := make([]int, 0, count)
	n := startN
	for range count {
		sizes = append(sizes, n)
		n = Grow(n, ratio)
	}
	return sizes
}

// Grow returns n scaled by ratio and rounded up to a multiple of 64.
func Grow(n int, ratio float64) int {
	return int(math.Ceil(float64(n)*ratio/64)) * 64
}

// Config describes one tier search.
type Config struct {
	// StartN is the dimension of tier 0.
	StartN int
	// Growth is the dimension ratio between consecutive tiers.
	Growth float64
	// MinTier is the first tier probed.
	MinTier int
	// MaxTier is the last tier that may be probed.
	MaxTier int
	// LinearTiers is how many tiers past MinTier are probed one by one
	// before switching to binary search. AllLinear probes all of them.
	LinearTiers int
	// Blowthroughs is how many linear-phase failures are tolerated.
	Blowthroughs int
	// TierTimeout is the time a rotation must stay below to pass.
	TierTimeout time.Duration
	// Timeout bounds the whole search, including setup.
	Timeout time.Duration
}

// DefaultConfig returns the standard tier search.
func DefaultConfig() Config {
	return Config{
		StartN:       DefaultStartN,
		Growth:       DefaultGrowth,
		MinTier:      0,
		MaxTier:      DefaultMaxTier,
		LinearTiers:  DefaultLinearTiers,
		Blowthroughs: DefaultBlowthroughs,
		TierTimeout:  DefaultTierTimeout,
		Timeout:      DefaultTimeout,
	}
}

// Validate checks c before any matrix is allocated.
func (c Config) Validate() error {
	switch {
	case c.StartN <= 0 || c.StartN%64 != 0:
		return fmt.Errorf("%w: start dimension %d must be a positive multiple of 64", ErrInvalidConfig, c.StartN)
	case c.Growth <= 1:
		return fmt.Errorf("%w: growth %g must be greater than 1", ErrInvalidConfig, c.Growth)
	case c.MinTier < 0:
		return fmt.Errorf("%w: min tier %d must be non-negative", ErrInvalidConfig, c.MinTier)
	case c.MaxTier < 0 || c.MaxTier > MaxTierAllowed:
		return fmt.Errorf("%w: max tier %d must be in [0, %d]", ErrInvalidConfig, c.MaxTier, MaxTierAllowed)
	case c.MinTier > c.MaxTier:
		return fmt.Errorf("%w: min tier (%d) cannot be larger than max tier (%d)", ErrInvalidConfig, c.MinTier, c.MaxTier)
	case c.LinearTiers < AllLinear:
		return fmt.Errorf("%w: linear tiers %d must be non-negative, or %d for all tiers", ErrInvalidConfig, c.LinearTiers, AllLinear)
	case c.LinearTiers != AllLinear && c.MinTier+c.LinearTiers > c.MaxTier:
		return fmt.Errorf("%w: min tier (%d) + linear tiers (%d) cannot be larger than max tier (%d)",
			ErrInvalidConfig, c.MinTier, c.LinearTiers, c.MaxTier)
	case c.Blowthroughs < 0:
		return fmt.Errorf("%w: blowthroughs %d must be non-negative", ErrInvalidConfig, c.Blowthroughs)
	case c.TierTimeout <= 0:
		return fmt.Errorf("%w: tier timeout must be positive", ErrInvalidConfig)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Sizes returns the dimensions of tiers 0 through MaxTier.
func (c Config) Sizes() []int {
	return Sizes(c.StartN, c.Growth, c.MaxTier+1)
}

// LinearCutoff returns the last tier of the linear phase.
func (c Config) LinearCutoff() int {
	if c.LinearTiers == AllLinear {
		return c.MaxTier
	}
	return min(c.MinTier+c.LinearTiers, c.MaxTier)
}

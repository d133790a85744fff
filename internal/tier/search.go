package tier

import (
	"context"
	"time"
)

// Phase is the part of the search a probe belongs to.
type Phase int

const (
	// PhaseLinear probes tiers in increasing order.
	PhaseLinear Phase = iota
	// PhaseBinary bisects between the highest pass and the lowest failure.
	PhaseBinary
)

func (p Phase) String() string {
	switch p {
	case PhaseLinear:
		return "linear"
	case PhaseBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ProbeFunc rotates the matrix of one tier and returns how long it took.
type ProbeFunc func(ctx context.Context, tier, n int) (time.Duration, error)

// Probe records one timed tier.
type Probe struct {
	Tier     int
	N        int
	Duration time.Duration
	Passed   bool
	// Blowthrough marks a linear-phase failure the search continued past.
	Blowthrough bool
	Phase       Phase
}

// Result summarizes a search.
type Result struct {
	// HighestPassed is the highest tier that passed, or -1.
	HighestPassed int
	// HighestN is the dimension of HighestPassed, or 0.
	HighestN int
	Probes   []Probe
	// BlowthroughsLeft is the count of unused blowthroughs.
	BlowthroughsLeft int
	// LinearFailed reports that the linear phase ended below its cutoff.
	LinearFailed bool
	// ReachedMaxAllowed reports a pass at MaxTierAllowed.
	ReachedMaxAllowed bool
	// ReachedMaxRequested reports a pass at Config.MaxTier.
	ReachedMaxRequested bool
	// TimedOut reports that ctx ended before the search finished.
	TimedOut bool
}

// Search runs the tier search described by cfg.
//
// The linear phase probes MinTier through the linear cutoff. A failure uses a
// blowthrough and continues while blowthroughs remain and the failed tier is
// not the cutoff; otherwise the search ends. When the cutoff passed, a binary
// phase bisects up to MaxTier. Unused blowthroughs are not spent there.
//
// ctx is checked between probes. Its end stops the search with TimedOut set
// and is not reported as an error; errors from probe are returned as-is
// together with the partial result.
func Search(ctx context.Context, cfg Config, probe ProbeFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sizes := cfg.Sizes()
	res := &Result{HighestPassed: -1, BlowthroughsLeft: cfg.Blowthroughs}

	run := func(tier int, phase Phase) (bool, bool, error) {
		if ctx.Err() != nil {
			res.TimedOut = true
			return false, false, nil
		}
		d, err := probe(ctx, tier, sizes[tier])
		if err != nil {
			return false, false, err
		}
		p := Probe{Tier: tier, N: sizes[tier], Duration: d, Passed: d < cfg.TierTimeout, Phase: phase}
		res.Probes = append(res.Probes, p)
		return p.Passed, true, nil
	}

	cutoff := cfg.LinearCutoff()
	for tier := cfg.MinTier; tier <= cutoff; tier++ {
		passed, ok, err := run(tier, PhaseLinear)
		if err != nil || !ok {
			return res.finish(cfg, sizes), err
		}
		if passed {
			res.HighestPassed = tier
			continue
		}
		if res.BlowthroughsLeft > 0 && tier != cutoff {
			res.BlowthroughsLeft--
			res.Probes[len(res.Probes)-1].Blowthrough = true
			continue
		}
		break
	}

	if res.HighestPassed != cutoff {
		res.LinearFailed = true
		return res.finish(cfg, sizes), nil
	}

	lowestFail := cfg.MaxTier + 1
	for lowestFail-res.HighestPassed > 1 {
		tier := (lowestFail + res.HighestPassed) / 2
		passed, ok, err := run(tier, PhaseBinary)
		if err != nil || !ok {
			return res.finish(cfg, sizes), err
		}
		if passed {
			res.HighestPassed = tier
		} else {
			lowestFail = tier
		}
	}

	return res.finish(cfg, sizes), nil
}

func (r *Result) finish(cfg Config, sizes []int) *Result {
	if r.HighestPassed >= 0 {
		r.HighestN = sizes[r.HighestPassed]
	}
	r.ReachedMaxAllowed = r.HighestPassed == MaxTierAllowed
	r.ReachedMaxRequested = r.HighestPassed == cfg.MaxTier
	return r
}

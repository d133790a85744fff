package bitspin

import (
	"time"

	"github.com/hupe1980/bitspin/internal/tier"
)

// RotationResult is one engine rotation timed and checked against the
// reference rotation.
type RotationResult struct {
	N                 int
	Duration          time.Duration
	ReferenceDuration time.Duration
	Passed            bool
	// Mismatch is set when Passed is false.
	Mismatch *ErrMismatch
}

// FileResult is the outcome of RunFile.
type FileResult struct {
	RotationResult
	RunID string
	Name  string
	// Output is where the rotated matrix was written, if anywhere.
	Output string
	Codec  string
}

// GeneratedResult is the outcome of RunGenerated.
type GeneratedResult struct {
	RotationResult
	RunID string
	Seed  int64
}

// CorrectnessCase is one round of the correctness sweep.
type CorrectnessCase struct {
	// Test numbers rounds across the whole sweep, in dimension order.
	Test     int
	N        int
	Round    int
	Duration time.Duration
	Passed   bool
	Mismatch *ErrMismatch
}

// CorrectnessResult is the outcome of RunCorrectness.
type CorrectnessResult struct {
	RunID string
	Seed  int64
	// Cases are ordered by Test.
	Cases  []CorrectnessCase
	Passed bool
}

// FirstFailure returns the failed case with the lowest test number, or nil.
func (r *CorrectnessResult) FirstFailure() *CorrectnessCase {
	for i := range r.Cases {
		if !r.Cases[i].Passed {
			return &r.Cases[i]
		}
	}
	return nil
}

// TierProbe is one timed tier of a tier search.
type TierProbe struct {
	Tier     int
	N        int
	Duration time.Duration
	Passed   bool
	// Blowthrough marks a failure the search continued past.
	Blowthrough bool
	// Phase is "linear" or "binary".
	Phase string
}

// TierResult is the outcome of RunTiers.
type TierResult struct {
	RunID string
	Seed  int64
	// HighestPassed is the highest tier that passed, or -1.
	HighestPassed int
	// HighestN is the dimension of HighestPassed, or 0.
	HighestN            int
	Probes              []TierProbe
	BlowthroughsLeft    int
	LinearFailed        bool
	ReachedMaxAllowed   bool
	ReachedMaxRequested bool
	// TimedOut reports that the overall timeout ended the search.
	TimedOut bool
}

func newTierResult(runID string, seed int64, res *tier.Result) *TierResult {
	out := &TierResult{
		RunID:               runID,
		Seed:                seed,
		HighestPassed:       res.HighestPassed,
		HighestN:            res.HighestN,
		Probes:              make([]TierProbe, len(res.Probes)),
		BlowthroughsLeft:    res.BlowthroughsLeft,
		LinearFailed:        res.LinearFailed,
		ReachedMaxAllowed:   res.ReachedMaxAllowed,
		ReachedMaxRequested: res.ReachedMaxRequested,
		TimedOut:            res.TimedOut,
	}
	for i, p := range res.Probes {
		out.Probes[i] = TierProbe{
			Tier:        p.Tier,
			N:           p.N,
			Duration:    p.Duration,
			Passed:      p.Passed,
			Blowthrough: p.Blowthrough,
			Phase:       p.Phase.String(),
		}
	}
	return out
}

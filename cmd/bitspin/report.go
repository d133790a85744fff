package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/bitspin"
)

const (
	colorRed     = "\033[0;31m"
	colorGreen   = "\033[0;32m"
	colorYellow  = "\033[0;33m"
	colorDefault = "\033[0m"
)

// Celebrations stay under five characters so the columns line up.
var celebrations = []string{"yay", "woot", "boyah", "skrrt", "ayy", "yeee", "eoo"}

// printer writes the human-readable report of a run.
type printer struct {
	w     io.Writer
	color bool
	rng   *rand.Rand
}

func newPrinter(w io.Writer, color bool, seed int64) *printer {
	return &printer{w: w, color: color, rng: rand.New(rand.NewPCG(uint64(seed), 0))}
}

func (p *printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorDefault
}

func (p *printer) pass() string { return p.paint(colorGreen, "PASS") }
func (p *printer) fail() string { return p.paint(colorRed, "FAIL") }

func (p *printer) celebration() string {
	return celebrations[p.rng.IntN(len(celebrations))]
}

func (p *printer) result(passed bool) {
	if passed {
		fmt.Fprintf(p.w, "Result: %s\n", p.pass())
	} else {
		fmt.Fprintf(p.w, "Result: %s\n", p.fail())
	}
}

func (p *printer) rotation(r bitspin.RotationResult) {
	fmt.Fprintf(p.w, "Your time taken: %d ms\n", r.Duration.Milliseconds())
	fmt.Fprintf(p.w, "Stock time taken: %d ms\n", r.ReferenceDuration.Milliseconds())
	if r.Mismatch != nil {
		fmt.Fprintf(p.w, "%s: %v\n", p.fail(), r.Mismatch)
	}
	p.result(r.Passed)
}

func (p *printer) file(r *bitspin.FileResult) {
	fmt.Fprintf(p.w, "Rotated %s (%dx%d, %s)\n", r.Name, r.N, r.N, r.Codec)
	if r.Output != "" {
		fmt.Fprintf(p.w, "Wrote %s\n", r.Output)
	}
	p.rotation(r.RotationResult)
}

func (p *printer) passLine(kind string, num, n int, d time.Duration) {
	fmt.Fprintf(p.w, "%s (%s!):\t%s %d :\tRotated %dx%d\tmatrix in %d ms\n",
		p.pass(), p.celebration(), kind, num, n, n, d.Milliseconds())
}

func (p *printer) correctness(r *bitspin.CorrectnessResult) {
	for _, c := range r.Cases {
		if !c.Passed {
			fmt.Fprintf(p.w, "%s: Test %d : Incorrectly rotated %dx%d matrix\n", p.fail(), c.Test, c.N, c.N)
			if c.Mismatch != nil {
				fmt.Fprintf(p.w, "      %v\n", c.Mismatch)
			}
			break
		}
		p.passLine("Test", c.Test, c.N, c.Duration)
	}
	if r.Passed {
		fmt.Fprintf(p.w, "%s: Congrats! You pass all correctness tests\n", p.pass())
	} else {
		fmt.Fprintf(p.w, "%s: Too bad. You have to fix bugs :'(\n", p.fail())
	}
}

func (p *printer) tiers(cfg bitspin.TierConfig, r *bitspin.TierResult) {
	fmt.Fprintf(p.w, "FYI: the max tier you can be graded on is %d.\n", bitspin.MaxTierAllowed)

	phase := ""
	for _, probe := range r.Probes {
		if probe.Phase != phase {
			phase = probe.Phase
			fmt.Fprintln(p.w, p.paint(colorYellow, fmt.Sprintf("%s search...", phase)))
		}
		if probe.Passed {
			p.passLine("Tier", probe.Tier, probe.N, probe.Duration)
			continue
		}
		fmt.Fprintf(p.w, "%s (timeout):\tTier %d :\tRotated %dx%d\tmatrix in %d ms but the cutoff is %d ms\n",
			p.fail(), probe.Tier, probe.N, probe.N, probe.Duration.Milliseconds(), cfg.TierTimeout.Milliseconds())
		if probe.Blowthrough {
			fmt.Fprintln(p.w, "Blowing through this failure.")
		}
	}

	if r.TimedOut {
		fmt.Fprintf(p.w, "End execution due to %s timeout\n", cfg.Timeout)
	}
	if r.LinearFailed && r.HighestPassed >= 0 {
		fmt.Fprintf(p.w, "%s: Linear search had failures. Done searching.\n", p.fail())
	}

	switch {
	case r.ReachedMaxAllowed:
		fmt.Fprintln(p.w, p.paint(colorGreen, "Congrats! You reached the highest tier we will test for!!!"))
	case r.ReachedMaxRequested:
		fmt.Fprintln(p.w, p.paint(colorGreen, "You reached the highest tier you specified!"))
		fmt.Fprintln(p.w, p.paint(colorYellow, "Please run this test with a higher tier to find your maximum tier."))
	}

	if r.HighestPassed < 0 {
		fmt.Fprintf(p.w, "%s: too slow for any tiers\n", p.fail())
		if cfg.MinTier > 0 {
			fmt.Fprintln(p.w, "      try decreasing the minimum tier")
		}
		return
	}
	fmt.Fprintf(p.w, "Result: reached tier %d\n", r.HighestPassed)
}

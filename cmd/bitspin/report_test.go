package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/bitspin"
)

func TestPrinter_Color(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, true, 1).result(true)
	assert.Equal(t, "Result: "+colorGreen+"PASS"+colorDefault+"\n", buf.String())

	buf.Reset()
	newPrinter(&buf, false, 1).result(false)
	assert.Equal(t, "Result: FAIL\n", buf.String())
}

func TestPrinter_Celebration(t *testing.T) {
	p := newPrinter(&bytes.Buffer{}, false, 3)
	for range 20 {
		c := p.celebration()
		assert.Contains(t, celebrations, c)
		assert.Less(t, len(c), 6)
	}
}

func TestPrinter_Rotation(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, false, 1).rotation(bitspin.RotationResult{
		N:                 64,
		Duration:          3 * time.Millisecond,
		ReferenceDuration: 40 * time.Millisecond,
		Mismatch:          &bitspin.ErrMismatch{N: 64, Mismatched: 2, Row: 0, Col: 5},
	})

	out := buf.String()
	assert.Contains(t, out, "Your time taken: 3 ms\n")
	assert.Contains(t, out, "Stock time taken: 40 ms\n")
	assert.Contains(t, out, "FAIL: incorrectly rotated 64x64 matrix")
	assert.True(t, strings.HasSuffix(out, "Result: FAIL\n"))
}

func TestPrinter_Correctness(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, false, 1).correctness(&bitspin.CorrectnessResult{
		Cases: []bitspin.CorrectnessCase{
			{Test: 0, N: 64, Passed: true},
			{Test: 1, N: 64, Passed: false},
			{Test: 2, N: 64, Passed: false},
		},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Test 0 :\tRotated 64x64")
	assert.Equal(t, "FAIL: Test 1 : Incorrectly rotated 64x64 matrix", lines[1])
	assert.Equal(t, "FAIL: Too bad. You have to fix bugs :'(", lines[2])
}

func TestPrinter_Tiers(t *testing.T) {
	cfg := bitspin.DefaultTierConfig()

	t.Run("Reached", func(t *testing.T) {
		var buf bytes.Buffer
		newPrinter(&buf, false, 1).tiers(cfg, &bitspin.TierResult{
			HighestPassed: 25,
			Probes: []bitspin.TierProbe{
				{Tier: 0, N: 26624, Duration: 300 * time.Millisecond, Passed: true, Phase: "linear"},
				{Tier: 1, N: 27712, Duration: 3 * time.Second, Blowthrough: true, Phase: "linear"},
				{Tier: 25, N: 72192, Duration: time.Second, Passed: true, Phase: "binary"},
			},
			ReachedMaxRequested: true,
		})

		out := buf.String()
		assert.Contains(t, out, "FYI: the max tier you can be graded on is 47.")
		assert.Contains(t, out, "linear search...")
		assert.Contains(t, out, "binary search...")
		assert.Contains(t, out, "FAIL (timeout):\tTier 1 :\tRotated 27712x27712\tmatrix in 3000 ms but the cutoff is 2000 ms")
		assert.Contains(t, out, "Blowing through this failure.")
		assert.Contains(t, out, "You reached the highest tier you specified!")
		assert.True(t, strings.HasSuffix(out, "Result: reached tier 25\n"))
	})

	t.Run("NonePassed", func(t *testing.T) {
		cfg := cfg
		cfg.MinTier = 3
		var buf bytes.Buffer
		newPrinter(&buf, false, 1).tiers(cfg, &bitspin.TierResult{HighestPassed: -1, TimedOut: true, LinearFailed: true})

		out := buf.String()
		assert.Contains(t, out, "End execution due to 58s timeout")
		assert.Contains(t, out, "FAIL: too slow for any tiers")
		assert.Contains(t, out, "try decreasing the minimum tier")
		assert.NotContains(t, out, "Linear search had failures")
	})
}

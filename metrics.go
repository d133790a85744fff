package bitspin

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting harness metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    rotations prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRotation(n int, d time.Duration) {
//	    p.rotations.Observe(d.Seconds())
//	}
type MetricsCollector interface {
	// RecordRotation is called after each timed engine rotation.
	RecordRotation(n int, d time.Duration)

	// RecordTier is called after each tier probe. passed reports that d was
	// below the tier timeout.
	RecordTier(tier, n int, d time.Duration, passed bool)

	// RecordCorrectness is called after each correctness round.
	RecordCorrectness(n int, passed bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRotation(int, time.Duration)         {}
func (NoopMetricsCollector) RecordTier(int, int, time.Duration, bool) {}
func (NoopMetricsCollector) RecordCorrectness(int, bool)              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	RotationCount      atomic.Int64
	RotationTotalNanos atomic.Int64
	RotatedBits        atomic.Int64
	TierCount          atomic.Int64
	TierPassed         atomic.Int64
	CorrectnessCount   atomic.Int64
	CorrectnessFailed  atomic.Int64

	// highestTier holds the highest passed tier plus one.
	highestTier atomic.Int64
}

// RecordRotation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRotation(n int, d time.Duration) {
	b.RotationCount.Add(1)
	b.RotationTotalNanos.Add(d.Nanoseconds())
	b.RotatedBits.Add(int64(n) * int64(n))
}

// RecordTier implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTier(tier, _ int, _ time.Duration, passed bool) {
	b.TierCount.Add(1)
	if !passed {
		return
	}
	b.TierPassed.Add(1)
	next := int64(tier) + 1
	for {
		cur := b.highestTier.Load()
		if next <= cur || b.highestTier.CompareAndSwap(cur, next) {
			return
		}
	}
}

// RecordCorrectness implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCorrectness(_ int, passed bool) {
	b.CorrectnessCount.Add(1)
	if !passed {
		b.CorrectnessFailed.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RotationCount:     b.RotationCount.Load(),
		RotationAvgNanos:  b.getAvgRotationNanos(),
		RotatedBits:       b.RotatedBits.Load(),
		TierCount:         b.TierCount.Load(),
		TierPassed:        b.TierPassed.Load(),
		HighestTierPassed: b.highestTier.Load() - 1,
		CorrectnessCount:  b.CorrectnessCount.Load(),
		CorrectnessFailed: b.CorrectnessFailed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRotationNanos() int64 {
	count := b.RotationCount.Load()
	if count == 0 {
		return 0
	}
	return b.RotationTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RotationCount     int64
	RotationAvgNanos  int64
	RotatedBits       int64
	TierCount         int64
	TierPassed        int64
	// HighestTierPassed is -1 until a tier passes.
	HighestTierPassed int64
	CorrectnessCount  int64
	CorrectnessFailed int64
}

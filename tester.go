package bitspin

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/blobstore"
	"github.com/hupe1980/bitspin/codec"
	"github.com/hupe1980/bitspin/internal/mem"
	"github.com/hupe1980/bitspin/internal/mmap"
	"github.com/hupe1980/bitspin/internal/tier"
	"github.com/hupe1980/bitspin/resource"
	"github.com/hupe1980/bitspin/rotate"
)

// SqrtGoldenRatio is the dimension growth of the correctness sweep.
const SqrtGoldenRatio = 1.2720196495141103

// Tier search limits, re-exported for callers building a TierConfig.
const (
	MaxTierAllowed = tier.MaxTierAllowed
	AllLinearTiers = tier.AllLinear
)

// TierConfig configures RunTiers.
type TierConfig = tier.Config

// DefaultTierConfig returns the standard tier search: 2s per tier, 58s
// overall, tiers 0 through 25 starting at 26624 and growing by 4%, 8 linear
// tiers and 2 blowthroughs.
func DefaultTierConfig() TierConfig {
	return tier.DefaultConfig()
}

// CorrectnessConfig configures RunCorrectness. Zero fields take the defaults
// of DefaultCorrectnessConfig.
type CorrectnessConfig struct {
	// StartN is the first dimension tested.
	StartN int
	// MaxN bounds the dimensions tested; every dimension is below it.
	MaxN int
	// Growth is the ratio between consecutive dimensions.
	Growth float64
	// Rounds is how often each matrix is rotated and checked.
	Rounds int
}

// DefaultCorrectnessConfig returns a sweep from 64 up to 10000 growing by the
// square root of the golden ratio, three rounds per dimension.
func DefaultCorrectnessConfig() CorrectnessConfig {
	return CorrectnessConfig{
		StartN: 64,
		MaxN:   10000,
		Growth: SqrtGoldenRatio,
		Rounds: 3,
	}
}

func (c CorrectnessConfig) withDefaults() CorrectnessConfig {
	d := DefaultCorrectnessConfig()
	if c.StartN == 0 {
		c.StartN = d.StartN
	}
	if c.MaxN == 0 {
		c.MaxN = d.MaxN
	}
	if c.Growth == 0 {
		c.Growth = d.Growth
	}
	if c.Rounds == 0 {
		c.Rounds = d.Rounds
	}
	return c
}

// Validate checks c after defaults are applied.
func (c CorrectnessConfig) Validate() error {
	c = c.withDefaults()
	if err := checkDimension(c.StartN); err != nil {
		return err
	}
	switch {
	case c.MaxN <= c.StartN:
		return fmt.Errorf("%w: max dimension %d must exceed start dimension %d", ErrInvalidArgument, c.MaxN, c.StartN)
	case c.Growth <= 1:
		return fmt.Errorf("%w: growth %g must be greater than 1", ErrInvalidArgument, c.Growth)
	case c.Rounds <= 0:
		return fmt.Errorf("%w: rounds %d must be positive", ErrInvalidArgument, c.Rounds)
	}
	return nil
}

// Sizes returns the dimensions the sweep tests, in increasing order.
func (c CorrectnessConfig) Sizes() []int {
	c = c.withDefaults()
	var sizes []int
	for n := c.StartN; n < c.MaxN; n = tier.Grow(n, c.Growth) {
		sizes = append(sizes, n)
	}
	return sizes
}

// rng streams keep the matrices of different run kinds independent.
const (
	streamGenerated uint64 = iota + 1
	streamCorrectness
	streamTiers
)

// Tester times a rotation and checks it against a reference rotation on
// generated matrices, stored matrices, a correctness sweep and a tier
// search.
//
// A Tester is safe for concurrent use.
type Tester struct {
	opts options
	rc   *resource.Controller
	seed int64
}

// New returns a Tester configured by opts.
func New(opts ...Option) *Tester {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	seed := o.seed
	if !o.seeded {
		seed = rand.Int64()
	}

	return &Tester{
		opts: o,
		rc:   resource.NewController(o.resources),
		seed: seed,
	}
}

// Seed returns the seed generated matrices are drawn from.
func (t *Tester) Seed() int64 { return t.seed }

// Resources returns the controller bounding the Tester.
func (t *Tester) Resources() *resource.Controller { return t.rc }

func (t *Tester) rng(stream uint64, n int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(t.seed), stream<<32|uint64(n)))
}

// reserve charges bytes against the memory budget.
func (t *Tester) reserve(bytes int64) (func(), error) {
	if err := t.rc.AcquireMemory(bytes); err != nil {
		return nil, err
	}
	return func() { t.rc.ReleaseMemory(bytes) }, nil
}

// timedEval runs fn on buf and returns its wall time.
func timedEval(fn rotate.Func, buf []byte, n int) time.Duration {
	start := time.Now()
	fn(buf, n)
	return time.Since(start)
}

// mismatch compares an engine result with the reference result.
func mismatch(got, want *bitmatrix.BitMatrix) (*ErrMismatch, error) {
	if got.Equal(want) {
		return nil, nil
	}
	diff, err := bitmatrix.Diff(got, want)
	if err != nil {
		return nil, err
	}
	row, col := bitmatrix.Cell(diff.Minimum(), got.N())
	return &ErrMismatch{
		N:          got.N(),
		Mismatched: diff.GetCardinality(),
		Row:        row,
		Col:        col,
	}, nil
}

// rotatePair rotates m with the rotator and ref with the reference and
// compares them.
func (t *Tester) rotatePair(ctx context.Context, log *Logger, m, ref *bitmatrix.BitMatrix) (RotationResult, error) {
	n := m.N()
	res := RotationResult{N: n}
	if err := rotate.Validate(m.Bytes(), n); err != nil {
		return res, err
	}
	res.Duration = timedEval(t.opts.rotator, m.Bytes(), n)
	res.ReferenceDuration = timedEval(t.opts.reference, ref.Bytes(), n)

	mm, err := mismatch(m, ref)
	if err != nil {
		return res, err
	}
	res.Passed = mm == nil
	res.Mismatch = mm

	t.opts.metricsCollector.RecordRotation(n, res.Duration)
	log.LogRotation(ctx, n, res.Duration, res.ReferenceDuration, res.Passed)
	return res, nil
}

// RunGenerated rotates a random n x n matrix and checks the result.
func (t *Tester) RunGenerated(ctx context.Context, n int) (*GeneratedResult, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, translateError(err)
	}

	runID := uuid.NewString()
	log := t.opts.logger.WithRun(runID).WithDimension(n)

	release, err := t.reserve(2 * int64(bitmatrix.ByteLen(n)))
	if err != nil {
		return nil, translateError(err)
	}
	defer release()

	m, err := bitmatrix.Random(n, t.rng(streamGenerated, n))
	if err != nil {
		return nil, translateError(err)
	}
	ref := m.Clone()

	res, err := t.rotatePair(ctx, log, m, ref)
	if err != nil {
		return nil, translateError(err)
	}
	return &GeneratedResult{RotationResult: res, RunID: runID, Seed: t.seed}, nil
}

// RunFile reads the matrix stored under name, rotates it and checks the
// result. When output is not empty the rotated matrix is written there.
//
// The codec is the one set with WithCodec, or else picked by the extension of
// name, or else codec.Default. The output codec is picked by the extension of
// output and falls back to the input codec. A BMP palette read from name is
// kept when writing a BMP.
func (t *Tester) RunFile(ctx context.Context, name, output string) (*FileResult, error) {
	runID := uuid.NewString()
	log := t.opts.logger.WithRun(runID)

	c := t.codecFor(name, codec.Default)
	m, palette, release, err := t.load(ctx, name, c)
	if err != nil {
		log.LogFile(ctx, "read", name, 0, err)
		return nil, translateError(err)
	}
	defer release()
	log.LogFile(ctx, "read", name, m.N(), nil)
	log = log.WithDimension(m.N())

	ref := m.Clone()
	rot, err := t.rotatePair(ctx, log, m, ref)
	if err != nil {
		return nil, translateError(err)
	}

	res := &FileResult{RotationResult: rot, RunID: runID, Name: name, Codec: c.Name()}
	if output == "" {
		return res, nil
	}

	err = t.save(ctx, output, t.codecFor(output, c), palette, m)
	log.LogFile(ctx, "write", output, m.N(), err)
	if err != nil {
		return nil, translateError(err)
	}
	res.Output = output
	return res, nil
}

func (t *Tester) codecFor(name string, fallback codec.Codec) codec.Codec {
	if t.opts.codec != nil {
		return t.opts.codec
	}
	if c, ok := codec.ByExtension(name); ok {
		return c
	}
	return fallback
}

// load decodes the matrix stored under name. The engine matrix and its
// reference copy are charged against the memory budget as soon as the header
// gives the dimension, before the decoder allocates anything; the returned
// release gives them back.
func (t *Tester) load(ctx context.Context, name string, c codec.Codec) (*bitmatrix.BitMatrix, *codec.Palette, func(), error) {
	blob, err := t.opts.store.Open(ctx, name)
	if err != nil {
		return nil, nil, nil, err
	}
	defer func() { _ = blob.Close() }()

	release := func() {}
	alloc := func(n int) (*bitmatrix.BitMatrix, error) {
		rel, err := t.reserve(2 * int64(bitmatrix.ByteLen(n)))
		if err != nil {
			return nil, err
		}
		release = rel
		return bitmatrix.New(n)
	}

	r := resource.NewReader(ctx, blobstore.NewReader(ctx, blob), t.rc)
	var (
		m       *bitmatrix.BitMatrix
		palette *codec.Palette
	)
	if _, ok := c.(codec.BMP); ok {
		var p codec.Palette
		m, p, err = codec.DecodeBMPAlloc(r, alloc)
		palette = &p
	} else {
		m, err = codec.DecodeAlloc(c, r, alloc)
	}
	if err != nil {
		release()
		return nil, nil, nil, err
	}
	return m, palette, release, nil
}

func (t *Tester) save(ctx context.Context, name string, c codec.Codec, palette *codec.Palette, m *bitmatrix.BitMatrix) error {
	if b, ok := c.(codec.BMP); ok && palette != nil {
		b.Palette = *palette
		c = b
	}

	w, err := t.opts.store.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := c.Encode(resource.NewWriter(ctx, w, t.rc), m); err != nil {
		_ = w.Close()
		_ = t.opts.store.Delete(ctx, name)
		return err
	}
	return w.Close()
}

// RunCorrectness rotates random matrices of every size of cfg, each
// cfg.Rounds times in a row, checking every round against the reference.
//
// Sizes run concurrently, bounded by the worker slots of the Tester. A failed
// round does not stop the sweep; the result lists every round in order.
func (t *Tester) RunCorrectness(ctx context.Context, cfg CorrectnessConfig) (*CorrectnessResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	runID := uuid.NewString()
	log := t.opts.logger.WithRun(runID)

	sizes := cfg.Sizes()
	cases := make([]CorrectnessCase, len(sizes)*cfg.Rounds)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.rc.Workers())
	for i, n := range sizes {
		out := cases[i*cfg.Rounds : (i+1)*cfg.Rounds]
		g.Go(func() error {
			if err := t.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer t.rc.ReleaseWorker()
			return t.correctnessSize(gctx, log.WithDimension(n), i*cfg.Rounds, n, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}

	res := &CorrectnessResult{RunID: runID, Seed: t.seed, Cases: cases, Passed: true}
	for _, c := range cases {
		if !c.Passed {
			res.Passed = false
			break
		}
	}
	return res, nil
}

func (t *Tester) correctnessSize(ctx context.Context, log *Logger, first, n int, out []CorrectnessCase) error {
	release, err := t.reserve(2 * int64(bitmatrix.ByteLen(n)))
	if err != nil {
		return err
	}
	defer release()

	m, err := bitmatrix.Random(n, t.rng(streamCorrectness, n))
	if err != nil {
		return err
	}
	ref := m.Clone()

	if err := rotate.Validate(m.Bytes(), n); err != nil {
		return err
	}
	for round := range out {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := timedEval(t.opts.rotator, m.Bytes(), n)
		t.opts.reference(ref.Bytes(), n)

		mm, err := mismatch(m, ref)
		if err != nil {
			return err
		}
		test := first + round
		out[round] = CorrectnessCase{
			Test:     test,
			N:        n,
			Round:    round,
			Duration: d,
			Passed:   mm == nil,
			Mismatch: mm,
		}

		t.opts.metricsCollector.RecordRotation(n, d)
		t.opts.metricsCollector.RecordCorrectness(n, mm == nil)
		log.LogCorrectness(ctx, test, n, d, mm == nil)
	}
	return nil
}

// RunTiers times the rotation on ever larger matrices to find the largest
// tier it rotates below cfg.TierTimeout.
//
// cfg is validated before anything is allocated. One matrix of the largest
// tier is allocated and filled at random; each tier rotates the leading
// N*N/8 bytes of it. cfg.Timeout bounds the whole run, allocation included.
// A rotation in progress is never interrupted; the timeout is checked
// between tiers and reported through TierResult.TimedOut.
func (t *Tester) RunTiers(ctx context.Context, cfg TierConfig) (*TierResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, translateError(err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log := t.opts.logger.WithRun(runID)

	sizes := cfg.Sizes()
	maxN := sizes[cfg.MaxTier]
	buf, release, err := t.tierBuffer(bitmatrix.ByteLen(maxN))
	if err != nil {
		return nil, translateError(err)
	}
	defer release()
	bitmatrix.FillRandom(buf, t.rng(streamTiers, maxN))

	log.InfoContext(ctx, "tier search started",
		"min_tier", cfg.MinTier,
		"max_tier", cfg.MaxTier,
		"max_n", maxN,
		"seed", t.seed,
	)

	probe := func(ctx context.Context, tr, n int) (time.Duration, error) {
		prefix := buf[:bitmatrix.ByteLen(n)]
		if err := rotate.Validate(prefix, n); err != nil {
			return 0, err
		}
		d := timedEval(t.opts.rotator, prefix, n)
		t.opts.metricsCollector.RecordRotation(n, d)
		t.opts.metricsCollector.RecordTier(tr, n, d, d < cfg.TierTimeout)
		log.LogTier(ctx, tr, n, d, cfg.TierTimeout)
		return d, nil
	}

	res, err := tier.Search(ctx, cfg, probe)
	if err != nil {
		return nil, translateError(err)
	}
	return newTierResult(runID, t.seed, res), nil
}

// tierBuffer allocates size bytes against the memory budget, from an
// anonymous mapping unless heap buffers were requested or mapping fails.
func (t *Tester) tierBuffer(size int) ([]byte, func(), error) {
	release, err := t.reserve(int64(size))
	if err != nil {
		return nil, nil, err
	}

	if !t.opts.heapBuffers {
		m, err := mmap.MapAnon(size)
		if err == nil {
			return m.Bytes(), func() {
				_ = m.Close()
				release()
			}, nil
		}
		t.opts.logger.Warn("anonymous mapping failed, using heap", "size", size, "error", err)
	}

	return mem.AllocAligned(size), release, nil
}

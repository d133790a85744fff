// Command bitspin times and checks the in-place bit matrix rotation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/hupe1980/bitspin"
	"github.com/hupe1980/bitspin/codec"
)

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		newFlagSet(os.Stderr).Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	passed, err := run(ctx, cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if !passed {
		os.Exit(1)
	}
}

func newLogger(cfg LogConfig) (*bitspin.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "json" {
		return bitspin.NewJSONLogger(level), nil
	}
	return bitspin.NewTextLogger(level), nil
}

// run executes the test selected by cfg and reports to out. It returns
// whether the test passed; a tier search passes when any tier passed.
func run(ctx context.Context, cfg *Config, out io.Writer) (bool, error) {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return false, err
	}
	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return false, err
	}

	opts := []bitspin.Option{
		bitspin.WithLogger(logger),
		bitspin.WithBlobStore(store),
		bitspin.WithResources(cfg.Resources),
	}
	if cfg.Seed != 0 {
		opts = append(opts, bitspin.WithSeed(cfg.Seed))
	}
	if cfg.Codec != "" {
		c, _ := codec.ByName(cfg.Codec)
		opts = append(opts, bitspin.WithCodec(c))
	}
	t := bitspin.New(opts...)
	p := newPrinter(out, cfg.Color, t.Seed())

	switch cfg.Test {
	case testFile:
		res, err := t.RunFile(ctx, cfg.File, cfg.Output)
		if err != nil {
			return false, err
		}
		p.file(res)
		return res.Passed, nil

	case testGenerated:
		res, err := t.RunGenerated(ctx, cfg.N)
		if err != nil {
			return false, err
		}
		p.rotation(res.RotationResult)
		return res.Passed, nil

	case testCorrectness:
		res, err := t.RunCorrectness(ctx, bitspin.CorrectnessConfig{
			MaxN:   cfg.Correctness.MaxN,
			Rounds: cfg.Correctness.Rounds,
		})
		if err != nil {
			return false, err
		}
		p.correctness(res)
		return res.Passed, nil

	case testTiers:
		tc := cfg.TierConfig()
		res, err := t.RunTiers(ctx, tc)
		if err != nil {
			return false, err
		}
		p.tiers(tc, res)
		return res.HighestPassed >= 0, nil

	default:
		return false, fmt.Errorf("unknown test type %q", cfg.Test)
	}
}

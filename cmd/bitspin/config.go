package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/bitspin"
	"github.com/hupe1980/bitspin/bitmatrix"
	"github.com/hupe1980/bitspin/codec"
	"github.com/hupe1980/bitspin/resource"
)

const (
	testFile        = "file"
	testGenerated   = "generated"
	testCorrectness = "correctness"
	testTiers       = "tiers"

	storeLocal  = "local"
	storeMemory = "memory"
	storeS3     = "s3"
	storeMinIO  = "minio"

	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
	envPrefix        = "BITSPIN"
)

var (
	testTypes  = []string{testFile, testGenerated, testCorrectness, testTiers}
	storeKinds = []string{storeLocal, storeMemory, storeS3, storeMinIO}
)

// Config holds the command configuration
type Config struct {
	Test        string            `mapstructure:"test"`
	File        string            `mapstructure:"file"`
	Output      string            `mapstructure:"output"`
	N           int               `mapstructure:"n"`
	Codec       string            `mapstructure:"codec"`
	Seed        int64             `mapstructure:"seed"`
	Color       bool              `mapstructure:"color"`
	Tiers       TiersConfig       `mapstructure:"tiers"`
	Correctness CorrectnessConfig `mapstructure:"correctness"`
	Store       StoreConfig       `mapstructure:"store"`
	Log         LogConfig         `mapstructure:"log"`
	Resources   resource.Config   `mapstructure:"resources"`
}

// TiersConfig holds the tier search configuration
type TiersConfig struct {
	Min          int           `mapstructure:"min"`
	Max          int           `mapstructure:"max"`
	Linear       int           `mapstructure:"linear"`
	Blowthroughs int           `mapstructure:"blowthroughs"`
	StartN       int           `mapstructure:"start_n"`
	Growth       float64       `mapstructure:"growth"`
	TierTimeout  time.Duration `mapstructure:"tier_timeout"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CorrectnessConfig holds the correctness sweep configuration
type CorrectnessConfig struct {
	MaxN   int `mapstructure:"max_n"`
	Rounds int `mapstructure:"rounds"`
}

// StoreConfig selects where matrices are read from and written to
type StoreConfig struct {
	Kind      string `mapstructure:"kind"`
	Root      string `mapstructure:"root"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Secure    bool   `mapstructure:"secure"`
	PathStyle bool   `mapstructure:"path_style"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TierConfig converts the flags into a tier search configuration.
func (c *Config) TierConfig() bitspin.TierConfig {
	return bitspin.TierConfig{
		StartN:       c.Tiers.StartN,
		Growth:       c.Tiers.Growth,
		MinTier:      c.Tiers.Min,
		MaxTier:      c.Tiers.Max,
		LinearTiers:  c.Tiers.Linear,
		Blowthroughs: c.Tiers.Blowthroughs,
		TierTimeout:  c.Tiers.TierTimeout,
		Timeout:      c.Tiers.Timeout,
	}
}

// newFlagSet declares every flag with its default.
func newFlagSet(out io.Writer) *flag.FlagSet {
	tiers := bitspin.DefaultTierConfig()
	correctness := bitspin.DefaultCorrectnessConfig()

	fs := flag.NewFlagSet("bitspin", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false

	fs.StringP("test", "t", "", "test type (file, generated, correctness, tiers)")
	fs.StringP("file", "f", "", "input matrix name, required for the file test")
	fs.StringP("output", "o", "", "output matrix name, optional for the file test")
	fs.IntP("n", "N", 0, "matrix dimension, required for the generated test")
	fs.String("codec", "", fmt.Sprintf("force a codec %v instead of picking one by extension", codec.Names()))
	fs.Int64("seed", 0, "seed for generated matrices (0 picks one at random)")
	fs.Bool("color", true, "color PASS and FAIL")

	fs.IntP("tiers.min", "m", 0, "first tier to probe")
	fs.IntP("tiers.max", "M", tiers.MaxTier, fmt.Sprintf("last tier to probe, at most %d", bitspin.MaxTierAllowed))
	fs.IntP("tiers.linear", "l", tiers.LinearTiers, "tiers to search linearly before binary search (-1 for all)")
	fs.Int("tiers.blowthroughs", tiers.Blowthroughs, "slow tiers tolerated during the linear search")
	fs.Int("tiers.start_n", tiers.StartN, "dimension of tier 0")
	fs.Float64("tiers.growth", tiers.Growth, "dimension growth between tiers")
	fs.Duration("tiers.tier_timeout", tiers.TierTimeout, "time a tier must be rotated in")
	fs.Duration("tiers.timeout", tiers.Timeout, "overall time limit of the tier search")

	fs.Int("correctness.max_n", correctness.MaxN, "dimensions of the correctness sweep stay below this")
	fs.Int("correctness.rounds", correctness.Rounds, "rotations checked per dimension")

	fs.String("store.kind", storeLocal, fmt.Sprintf("matrix store %v", storeKinds))
	fs.String("store.root", "", "root directory of the local store (empty for plain paths)")
	fs.String("store.bucket", "", "bucket of the s3 or minio store")
	fs.String("store.prefix", "", "key prefix inside the bucket")
	fs.String("store.endpoint", "", "service endpoint of the s3 or minio store")
	fs.String("store.region", "", "bucket region")
	fs.String("store.access_key", "", "minio access key")
	fs.String("store.secret_key", "", "minio secret key")
	fs.Bool("store.secure", true, "use TLS for minio")
	fs.Bool("store.path_style", false, "path-style s3 addressing")

	fs.String("log.level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("log.format", defaultLogFormat, "log format (text, json)")

	fs.Int64("resources.memory_limit_bytes", 0, "bytes of matrices held at once (0 for unlimited)")
	fs.Int64("resources.max_workers", 0, "concurrent rotations of the correctness sweep (0 for GOMAXPROCS)")
	fs.Int64("resources.io_limit_bytes_per_sec", 0, "store bandwidth (0 for unlimited)")

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: bitspin -t {file|generated|correctness|tiers} [flags]\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(out, "  except for dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(out, "  For example, BITSPIN_TIERS_MAX or BITSPIN_STORE_BUCKET\n")
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  # Rotate a picture and keep the result\n")
		fmt.Fprintf(out, "  bitspin -t file -f in.bmp -o out.bmp\n\n")
		fmt.Fprintf(out, "  # Search tiers 10 to 30 linearly\n")
		fmt.Fprintf(out, "  bitspin -t tiers -m 10 -M 30 -l -1\n")
	}
	return fs
}

// loadConfig loads configuration from flags, environment variables, and defaults
func loadConfig(args []string, out io.Writer) (*Config, error) {
	fs := newFlagSet(out)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// validateConfig checks everything that can be checked before a matrix is
// allocated.
func validateConfig(cfg *Config) error {
	if !slices.Contains(testTypes, cfg.Test) {
		return fmt.Errorf("invalid test type %q, available types: %v", cfg.Test, testTypes)
	}

	switch cfg.Test {
	case testFile:
		if cfg.File == "" {
			return errors.New("the file test needs an input (use --file or BITSPIN_FILE)")
		}
	case testGenerated:
		if cfg.N == 0 {
			return errors.New("the generated test needs a dimension (use -N or BITSPIN_N)")
		}
		if err := bitmatrix.ValidateDimension(cfg.N); err != nil {
			return err
		}
	case testTiers:
		if err := cfg.TierConfig().Validate(); err != nil {
			return err
		}
	case testCorrectness:
		c := bitspin.CorrectnessConfig{MaxN: cfg.Correctness.MaxN, Rounds: cfg.Correctness.Rounds}
		if err := c.Validate(); err != nil {
			return err
		}
	}

	if cfg.Codec != "" {
		if _, ok := codec.ByName(cfg.Codec); !ok {
			return fmt.Errorf("invalid codec %q, available codecs: %v", cfg.Codec, codec.Names())
		}
	}

	if !slices.Contains(storeKinds, cfg.Store.Kind) {
		return fmt.Errorf("invalid store %q, available stores: %v", cfg.Store.Kind, storeKinds)
	}
	if (cfg.Store.Kind == storeS3 || cfg.Store.Kind == storeMinIO) && cfg.Store.Bucket == "" {
		return fmt.Errorf("the %s store needs a bucket (use --store.bucket or BITSPIN_STORE_BUCKET)", cfg.Store.Kind)
	}
	if cfg.Store.Kind == storeMinIO && cfg.Store.Endpoint == "" {
		return errors.New("the minio store needs an endpoint (use --store.endpoint or BITSPIN_STORE_ENDPOINT)")
	}

	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return err
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q, available formats: [text json]", cfg.Log.Format)
	}

	if cfg.Resources.MemoryLimitBytes < 0 || cfg.Resources.MaxWorkers < 0 || cfg.Resources.IOLimitBytesPerSec < 0 {
		return errors.New("resource limits must be non-negative")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/OCharnyshevich/heightfield/pkg/heightmap"
)

// Config holds the generator configuration.
type Config struct {
	Width     int     `json:"width" yaml:"width"`
	Height    int     `json:"height" yaml:"height"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	BaseLevel float64 `json:"base_level" yaml:"base_level"`
	Octaves   int     `json:"octaves" yaml:"octaves"`
	// Seed fixes the coordinate offset. Nil means derive it from the clock.
	Seed *float64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Noise     string `json:"noise" yaml:"noise"`           // "perlin" or "simplex"
	NoiseSeed int64  `json:"noise_seed" yaml:"noise_seed"` // permutation seed of the noise source
	Strategy  string `json:"strategy" yaml:"strategy"`     // "parallel" or "sequential"
	Workers   int    `json:"workers" yaml:"workers"`       // 0 = GOMAXPROCS
	ChunkSize int    `json:"chunk_size" yaml:"chunk_size"` // 0 = automatic

	BenchCycles int `json:"bench_cycles" yaml:"bench_cycles"` // 0 disables the benchmark
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Width:       513,
		Height:      513,
		Frequency:   0.01,
		Amplitude:   0.20,
		BaseLevel:   0,
		Octaves:     5,
		Noise:       heightmap.NoisePerlin,
		Strategy:    heightmap.Parallel.String(),
		BenchCycles: 10,
	}
}

// Params converts cfg into evaluation parameters. now supplies the seed when
// none is configured.
func (cfg *Config) Params(now time.Time) heightmap.Params {
	p := heightmap.Params{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frequency: cfg.Frequency,
		Amplitude: cfg.Amplitude,
		BaseLevel: cfg.BaseLevel,
		Octaves:   cfg.Octaves,
		Seed:      heightmap.TimeSeed(now),
	}
	if cfg.Seed != nil {
		p.Seed = *cfg.Seed
	}
	return p
}

// NewGenerator builds the noise source and evaluator cfg describes.
func (cfg *Config) NewGenerator() (*heightmap.Generator, error) {
	src, err := heightmap.NewSource(cfg.Noise, cfg.NoiseSeed)
	if err != nil {
		return nil, err
	}
	strategy, err := heightmap.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	gen := heightmap.NewNoiseGenerator(src, strategy)
	gen.Evaluator().Workers = cfg.Workers
	gen.Evaluator().ChunkSize = cfg.ChunkSize
	return gen, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["width"] {
		cfg.Width = fromFile.Width
	}
	if !explicitFlags["height"] {
		cfg.Height = fromFile.Height
	}
	if !explicitFlags["frequency"] {
		cfg.Frequency = fromFile.Frequency
	}
	if !explicitFlags["amplitude"] {
		cfg.Amplitude = fromFile.Amplitude
	}
	if !explicitFlags["base-level"] {
		cfg.BaseLevel = fromFile.BaseLevel
	}
	if !explicitFlags["octaves"] {
		cfg.Octaves = fromFile.Octaves
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["noise"] {
		cfg.Noise = fromFile.Noise
	}
	if !explicitFlags["noise-seed"] {
		cfg.NoiseSeed = fromFile.NoiseSeed
	}
	if !explicitFlags["strategy"] {
		cfg.Strategy = fromFile.Strategy
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["chunk"] {
		cfg.ChunkSize = fromFile.ChunkSize
	}
	if !explicitFlags["bench"] {
		cfg.BenchCycles = fromFile.BenchCycles
	}
}

// Validate checks cfg against the parameter schema.
func (cfg *Config) Validate() error {
	if err := validateDocument(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/OCharnyshevich/heightfield/internal/config"
	"github.com/OCharnyshevich/heightfield/internal/perf"
	"github.com/OCharnyshevich/heightfield/internal/regen"
	"github.com/OCharnyshevich/heightfield/pkg/heightmap"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		source   = flag.String("config", "", "config file or go-getter source (yaml or json)")
		compare  = flag.Bool("compare", false, "also run the sequential strategy and compare output and timing")
		watch    = flag.Duration("watch", 0, "poll the config source at this interval and regenerate on change (0 disables)")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.IntVar(&cfg.Width, "width", cfg.Width, "grid width in cells")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "grid height in cells")
	flag.Float64Var(&cfg.Frequency, "frequency", cfg.Frequency, "base noise frequency [0, 0.025]")
	flag.Float64Var(&cfg.Amplitude, "amplitude", cfg.Amplitude, "noise amplitude [0, 0.5]")
	flag.Float64Var(&cfg.BaseLevel, "base-level", cfg.BaseLevel, "base height level [0, 0.20]")
	flag.IntVar(&cfg.Octaves, "octaves", cfg.Octaves, "number of noise octaves [0, 10]")
	flag.Func("seed", "fixed coordinate seed (default: millisecond of the current time)", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		cfg.Seed = &v
		return nil
	})
	flag.StringVar(&cfg.Noise, "noise", cfg.Noise, "noise source: perlin or simplex")
	flag.Int64Var(&cfg.NoiseSeed, "noise-seed", cfg.NoiseSeed, "permutation seed of the noise source")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "evaluation strategy: parallel or sequential")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers (0 = GOMAXPROCS)")
	flag.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "cells per parallel work item (0 = automatic)")
	flag.IntVar(&cfg.BenchCycles, "bench", cfg.BenchCycles, "benchmark cycles after the first pass (0 disables)")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if *watch > 0 && *source == "" {
		log.Error("-watch requires -config")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Reloads in watch mode merge onto the flag values, not onto a previous file.
	l := &loader{source: *source, fromFlags: *cfg, explicit: explicit}

	cfg, err := l.load(ctx)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	log.Info("config loaded",
		"source", *source,
		"width", cfg.Width,
		"height", cfg.Height,
		"noise", cfg.Noise,
		"strategy", cfg.Strategy,
	)

	gen, err := cfg.NewGenerator()
	if err != nil {
		log.Error("build generator", "error", err)
		os.Exit(1)
	}
	r := regen.New(gen, &summarySink{log: log}, log)

	if err := run(ctx, cfg, gen, r, log, *compare); err != nil {
		log.Error("generate", "error", err)
		os.Exit(1)
	}

	if *watch <= 0 {
		return
	}
	log.Info("watching config", "source", *source, "interval", *watch)
	err = r.Watch(ctx, *watch, l.request)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("watch", "error", err)
		os.Exit(1)
	}
}

// run generates one height field, then optionally benchmarks and compares
// the evaluation strategies.
func run(ctx context.Context, cfg *config.Config, gen *heightmap.Generator, r *regen.Regenerator, log *slog.Logger, compare bool) error {
	req := requestFor(cfg)
	if _, err := r.Apply(req); err != nil {
		return err
	}

	if cfg.BenchCycles > 0 {
		report, err := perf.Check("generate "+gen.Evaluator().Strategy().String(), cfg.BenchCycles, func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, err := gen.Generate(cfg.Params(time.Now()))
			return err
		})
		if err != nil {
			return err
		}
		_, _ = report.WriteTo(os.Stdout)
		log.Info("benchmark", "strategy", gen.Evaluator().Strategy(), "cycles", len(report.Cycles), "avg", report.Average)
	}

	if compare {
		return compareStrategies(ctx, cfg, req.Params, log)
	}
	return nil
}

// compareStrategies evaluates p sequentially and in parallel over the same
// noise source, checks both grids match, and reports the speedup.
func compareStrategies(ctx context.Context, cfg *config.Config, p heightmap.Params, log *slog.Logger) error {
	src, err := heightmap.NewSource(cfg.Noise, cfg.NoiseSeed)
	if err != nil {
		return err
	}
	seq := heightmap.NewNoiseGenerator(src, heightmap.Sequential)
	par := heightmap.NewNoiseGenerator(src, heightmap.Parallel)
	par.Evaluator().Workers = cfg.Workers
	par.Evaluator().ChunkSize = cfg.ChunkSize

	cycles := max(cfg.BenchCycles, 1)
	reports := make(map[heightmap.Strategy]perf.Report, 2)
	grids := make(map[heightmap.Strategy]*heightmap.Grid, 2)
	for _, gen := range []*heightmap.Generator{seq, par} {
		s := gen.Evaluator().Strategy()
		report, err := perf.Check("compare "+s.String(), cycles, func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g, err := gen.Generate(p)
			grids[s] = g
			return err
		})
		if err != nil {
			return err
		}
		_, _ = report.WriteTo(os.Stdout)
		reports[s] = report
	}

	match := grids[heightmap.Sequential].Equal(grids[heightmap.Parallel])
	log.Info("strategy comparison",
		"match", match,
		"sequential_avg", reports[heightmap.Sequential].Average,
		"parallel_avg", reports[heightmap.Parallel].Average,
		"speedup", reports[heightmap.Parallel].Speedup(reports[heightmap.Sequential]),
	)
	if !match {
		return errors.New("parallel and sequential grids differ")
	}
	return nil
}

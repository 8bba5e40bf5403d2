package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/OCharnyshevich/heightfield/internal/config"
	"github.com/OCharnyshevich/heightfield/internal/regen"
	"github.com/OCharnyshevich/heightfield/pkg/heightmap"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type captureSink struct {
	mu    sync.Mutex
	calls int
	rows  [][]float64
}

func (s *captureSink) SetHeights(x0, y0 int, heights [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.rows = heights
	return nil
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func smallConfig() config.Config {
	cfg := *config.DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16
	cfg.BenchCycles = 1
	return cfg
}

// sizeFlags marks the grid size as given on the command line so reloads keep
// the small test grid.
func sizeFlags() map[string]bool {
	return map[string]bool{"width": true, "height": true}
}

func TestLoaderKeepsExplicitFlagsAcrossReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	writeConfig(t, path, "width: 32\nheight: 24\noctaves: 7\n")

	fromFlags := smallConfig()
	fromFlags.Width = 8
	l := &loader{source: path, fromFlags: fromFlags, explicit: map[string]bool{"width": true}}

	cfg, err := l.load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 8 || cfg.Height != 24 || cfg.Octaves != 7 {
		t.Fatalf("first load: width=%d height=%d octaves=%d, want 8/24/7", cfg.Width, cfg.Height, cfg.Octaves)
	}

	writeConfig(t, path, "width: 64\nheight: 24\noctaves: 2\n")
	cfg, err = l.load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 8 || cfg.Octaves != 2 {
		t.Fatalf("reload: width=%d octaves=%d, want 8/2", cfg.Width, cfg.Octaves)
	}
}

func TestLoaderRejectsInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	writeConfig(t, path, "octaves: 40\n")
	l := &loader{source: path, fromFlags: smallConfig(), explicit: sizeFlags()}
	if _, err := l.request(context.Background()); err == nil {
		t.Fatal("expected validation error for octaves 40")
	}
}

func TestLoaderSeedPinning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	l := &loader{source: path, fromFlags: smallConfig(), explicit: sizeFlags()}

	steps := []struct {
		doc    string
		pinned bool
		seed   float64
	}{
		{"octaves: 3\n", false, 0},
		{"octaves: 3\nseed: 12.5\n", true, 12.5},
		{"octaves: 3\n", false, 0},
	}
	for i, st := range steps {
		writeConfig(t, path, st.doc)
		req, err := l.request(context.Background())
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if req.SeedPinned != st.pinned {
			t.Fatalf("step %d: SeedPinned = %v, want %v", i, req.SeedPinned, st.pinned)
		}
		if st.pinned && req.Params.Seed != st.seed {
			t.Fatalf("step %d: seed = %f, want %f", i, req.Params.Seed, st.seed)
		}
	}
}

func TestWatchReloadSeedTransitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	writeConfig(t, path, "octaves: 4\n")
	l := &loader{source: path, fromFlags: smallConfig(), explicit: sizeFlags()}

	gen := heightmap.NewNoiseGenerator(heightmap.NewPerlinSource(0), heightmap.Parallel)
	sink := &captureSink{}
	r := regen.New(gen, sink, discardLogger())
	r.Seeder = func() float64 { return 300 }

	apply := func() bool {
		t.Helper()
		req, err := l.request(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		ran, err := r.Apply(req)
		if err != nil {
			t.Fatal(err)
		}
		return ran
	}

	// Unchanged seedless config polled repeatedly regenerates once.
	for i := 0; i < 5; i++ {
		if ran := apply(); ran != (i == 0) {
			t.Fatalf("seedless poll %d: ran = %v", i, ran)
		}
	}

	// Pinning the seed regenerates with exactly that seed.
	writeConfig(t, path, "octaves: 4\nseed: 12.5\n")
	if !apply() {
		t.Fatal("pinning the seed did not regenerate")
	}
	want, err := gen.Generate(heightmap.Params{Width: 16, Height: 16, Frequency: 0.01, Amplitude: 0.2, Octaves: 4, Seed: 12.5})
	if err != nil {
		t.Fatal(err)
	}
	sink.mu.Lock()
	got := sink.rows[7][7]
	sink.mu.Unlock()
	if got != want.At(7, 7) {
		t.Fatalf("cell (7,7) = %f, want %f for seed 12.5", got, want.At(7, 7))
	}
	if apply() {
		t.Fatal("unchanged pinned config regenerated")
	}

	// Dropping the seed regenerates once, then stays put.
	writeConfig(t, path, "octaves: 4\n")
	if !apply() {
		t.Fatal("dropping the seed did not regenerate")
	}
	for i := 0; i < 3; i++ {
		if apply() {
			t.Fatalf("seedless poll %d after unpinning regenerated", i)
		}
	}
	if sink.calls != 3 {
		t.Fatalf("sink called %d times, want 3", sink.calls)
	}
}

func TestRunAndCompare(t *testing.T) {
	cfg := smallConfig()
	gen, err := cfg.NewGenerator()
	if err != nil {
		t.Fatal(err)
	}
	sink := &captureSink{}
	r := regen.New(gen, sink, discardLogger())

	if err := run(context.Background(), &cfg, gen, r, discardLogger(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if r.Passes() != 1 || sink.calls != 1 {
		t.Fatalf("passes = %d, sink calls = %d, want 1", r.Passes(), sink.calls)
	}
}

func TestCompareStrategies(t *testing.T) {
	cfg := smallConfig()
	cfg.Noise = heightmap.NoiseSimplex
	cfg.ChunkSize = 3
	p := heightmap.Params{Width: 16, Height: 16, Frequency: 0.02, Amplitude: 0.3, Octaves: 5, Seed: 41}

	if err := compareStrategies(context.Background(), &cfg, p, discardLogger()); err != nil {
		t.Fatalf("compareStrategies: %v", err)
	}
}

func TestCompareStrategiesCancelled(t *testing.T) {
	cfg := smallConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := heightmap.Params{Width: 16, Height: 16, Octaves: 1}
	if err := compareStrategies(ctx, &cfg, p, discardLogger()); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

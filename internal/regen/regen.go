// Package regen regenerates a height field whenever its parameters change.
package regen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OCharnyshevich/heightfield/pkg/heightmap"
)

// Request is one set of parameters to apply. Unless SeedPinned is set, the
// seed is replaced by the Regenerator's Seeder and ignored when detecting
// changes.
type Request struct {
	Params     heightmap.Params
	SeedPinned bool
}

// Regenerator reruns the full pipeline whenever the applied parameters
// change. Passes never overlap; a change arriving mid-pass waits for it.
type Regenerator struct {
	gen  *heightmap.Generator
	sink heightmap.Sink
	log  *slog.Logger

	// Seeder supplies the seed of unpinned passes. Defaults to the clock; nil
	// treats every request as pinned.
	Seeder func() float64

	mu      sync.Mutex
	last    Request
	applied bool
	passes  int
}

// New creates a Regenerator writing every grid produced by gen into sink.
func New(gen *heightmap.Generator, sink heightmap.Sink, log *slog.Logger) *Regenerator {
	return &Regenerator{
		gen:  gen,
		sink: sink,
		log:  log,
		Seeder: func() float64 {
			return heightmap.TimeSeed(time.Now())
		},
	}
}

// Apply regenerates when req differs from the last applied request and
// reports whether a pass ran. Switching between pinned and unpinned seeds
// counts as a change.
func (r *Regenerator) Apply(req Request) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req = r.normalize(req)
	if r.applied && r.unchanged(req) {
		return false, nil
	}
	if err := r.runLocked(req); err != nil {
		return false, err
	}
	return true, nil
}

// Force regenerates unconditionally.
func (r *Regenerator) Force(req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runLocked(r.normalize(req))
}

func (r *Regenerator) normalize(req Request) Request {
	if r.Seeder == nil {
		req.SeedPinned = true
	}
	return req
}

func (r *Regenerator) unchanged(req Request) bool {
	if r.last.SeedPinned != req.SeedPinned {
		return false
	}
	if req.SeedPinned {
		return r.last.Params == req.Params
	}
	return r.last.Params.SameShape(req.Params)
}

// Passes returns the number of completed regenerations.
func (r *Regenerator) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

func (r *Regenerator) runLocked(req Request) error {
	p := req.Params
	if !req.SeedPinned {
		p.Seed = r.Seeder()
	}

	start := time.Now()
	grid, err := r.gen.Apply(p, r.sink)
	if err != nil {
		return fmt.Errorf("regenerate %dx%d: %w", p.Width, p.Height, err)
	}
	r.last = Request{Params: p, SeedPinned: req.SeedPinned}
	r.applied = true
	r.passes++

	st := grid.Stats()
	r.log.Info("height field regenerated",
		"width", p.Width,
		"height", p.Height,
		"octaves", p.Octaves,
		"seed", p.Seed,
		"seed_pinned", req.SeedPinned,
		"min", st.Min,
		"max", st.Max,
		"took", time.Since(start),
	)
	return nil
}

// Watch calls load every interval and applies the result until ctx is done.
// Load and generation errors are logged and polling continues.
func (r *Regenerator) Watch(ctx context.Context, interval time.Duration, load func(context.Context) (Request, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		req, err := load(ctx)
		if err != nil {
			r.log.Warn("load parameters", "error", err)
			continue
		}
		if _, err := r.Apply(req); err != nil {
			r.log.Error("apply parameters", "error", err)
		}
	}
}

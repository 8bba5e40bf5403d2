// Package heightmap synthesizes grayscale height fields from layered coherent
// noise, evaluating cells sequentially or on a worker pool.
package heightmap

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConfig reports parameters that cannot describe a grid.
	ErrConfig = errors.New("heightmap: invalid configuration")
	// ErrNonFinite reports a NaN or infinite value produced while evaluating a cell.
	ErrNonFinite = errors.New("heightmap: non-finite value")
)

// Params controls one evaluation pass.
//
// Frequency, Amplitude, BaseLevel and Octaves are expected in
// [0, 0.025], [0, 0.5], [0, 0.20] and [0, 10]. Those ranges are enforced by
// the configuration layer; the kernel accepts any finite values.
type Params struct {
	Width     int
	Height    int
	Frequency float64
	Amplitude float64
	BaseLevel float64
	Octaves   int
	// Seed offsets every sample coordinate. Hosts usually derive it from TimeSeed.
	Seed float64
}

// Validate returns an ErrConfig-wrapped error for dimensions or octave counts
// no grid can be built from.
func (p Params) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("%w: width %d must be positive", ErrConfig, p.Width)
	}
	if p.Height <= 0 {
		return fmt.Errorf("%w: height %d must be positive", ErrConfig, p.Height)
	}
	if p.Width > math.MaxInt/p.Height {
		return fmt.Errorf("%w: %dx%d cells overflow", ErrConfig, p.Width, p.Height)
	}
	if p.Octaves < 0 {
		return fmt.Errorf("%w: octaves %d must not be negative", ErrConfig, p.Octaves)
	}
	return nil
}

// Cells returns the number of grid cells.
func (p Params) Cells() int { return p.Width * p.Height }

// SameShape reports whether p and o differ only by seed.
func (p Params) SameShape(o Params) bool {
	p.Seed, o.Seed = 0, 0
	return p == o
}

// Coord identifies one grid cell.
type Coord struct{ X, Y int }

// coordAt maps a row-major flat index back to its cell.
func (p Params) coordAt(i int) Coord {
	return Coord{X: i % p.Width, Y: i / p.Width}
}

// Sample is the unnormalized kernel output for one cell.
type Sample struct {
	Coord Coord
	Value float64
}

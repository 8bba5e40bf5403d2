package heightmap

import (
	"fmt"
	"math"
)

// Kernel computes the raw height of a single cell. Implementations must not
// keep mutable state shared between calls; the evaluator calls Eval from
// many goroutines at once.
type Kernel interface {
	Eval(c Coord, p Params) (float64, error)
}

// KernelFunc adapts a function to the Kernel interface.
type KernelFunc func(c Coord, p Params) (float64, error)

func (f KernelFunc) Eval(c Coord, p Params) (float64, error) { return f(c, p) }

// NoiseKernel layers octaves of a Source. Each octave doubles the frequency
// and halves the weight of the one before it.
type NoiseKernel struct {
	src Source
}

// NewNoiseKernel returns a NoiseKernel sampling src.
func NewNoiseKernel(src Source) *NoiseKernel {
	return &NoiseKernel{src: src}
}

// Eval returns the octave sum for c rescaled by the amplitude and base level
// band. Zero octaves always yields 0.
func (k *NoiseKernel) Eval(c Coord, p Params) (float64, error) {
	var sum float64
	scale := 1.0
	freq := p.Frequency

	for range p.Octaves {
		nx := (float64(c.X) + p.Seed) * freq
		ny := (float64(c.Y) + p.Seed) * freq
		if !finite(nx) || !finite(ny) {
			return 0, fmt.Errorf("%w: sample point (%g, %g) for cell (%d, %d)", ErrNonFinite, nx, ny, c.X, c.Y)
		}
		n := k.src.Noise2D(nx, ny)
		sum += scale * (n*p.Amplitude + p.BaseLevel)
		scale *= 0.5
		freq *= 2
	}

	octaves := float64(p.Octaves)
	floor := p.BaseLevel * octaves
	v := floor + sum*((p.Amplitude+p.BaseLevel)*octaves-floor)
	if !finite(v) {
		return 0, fmt.Errorf("%w: height %g for cell (%d, %d)", ErrNonFinite, v, c.X, c.Y)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

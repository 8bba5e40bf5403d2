package heightmap

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source is a coherent 2D noise function returning values in [0, 1].
// Implementations must be safe for concurrent use.
type Source interface {
	Noise2D(x, y float64) float64
}

// Noise kinds accepted by NewSource.
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
)

// NewSource builds the named noise source from a permutation seed.
func NewSource(kind string, seed int64) (Source, error) {
	switch kind {
	case NoisePerlin, "":
		return NewPerlinSource(seed), nil
	case NoiseSimplex:
		return NewSimplexSource(seed), nil
	default:
		return nil, fmt.Errorf("%w: unknown noise %q", ErrConfig, kind)
	}
}

// PerlinSource is single-octave gradient noise. Octave layering is done by
// the kernel, so the wrapped generator runs with n = 1.
type PerlinSource struct {
	p *perlin.Perlin
}

// NewPerlinSource creates a PerlinSource with a seeded gradient table.
func NewPerlinSource(seed int64) *PerlinSource {
	return &PerlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}
}

// Noise2D maps raw Perlin output, bounded by ±√½ in 2D, onto [0, 1].
func (s *PerlinSource) Noise2D(x, y float64) float64 {
	return clamp01(0.5 + s.p.Noise2D(x, y)*math.Sqrt2/2)
}

// SimplexSource is OpenSimplex noise normalized to [0, 1].
type SimplexSource struct {
	n opensimplex.Noise
}

// NewSimplexSource creates a SimplexSource from a seed.
func NewSimplexSource(seed int64) *SimplexSource {
	return &SimplexSource{n: opensimplex.NewNormalized(seed)}
}

// Noise2D returns normalized OpenSimplex noise, clamped to [0, 1].
func (s *SimplexSource) Noise2D(x, y float64) float64 {
	return clamp01(s.n.Eval2(x, y))
}

// clamp01 saturates v into [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

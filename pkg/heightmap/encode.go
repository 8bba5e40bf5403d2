package heightmap

const (
	black = 0.0
	white = 1.0
)

// Encode turns raw samples into a width×height Grid. Each value is used as the
// interpolation factor between black and white and saturates outside [0, 1].
// Samples whose coordinate falls outside the grid are ignored; cells without
// a sample stay black.
func Encode(width, height int, samples []Sample) *Grid {
	g := NewGrid(width, height)
	for _, s := range samples {
		if s.Coord.X < 0 || s.Coord.X >= width || s.Coord.Y < 0 || s.Coord.Y >= height {
			continue
		}
		g.set(s.Coord.X, s.Coord.Y, lerp(black, white, clamp01(s.Value)))
	}
	return g
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

package main

import (
	"log/slog"
	"math"
)

// summarySink stands in for a terrain surface and logs what it receives.
type summarySink struct {
	log *slog.Logger
}

func (s *summarySink) SetHeights(x0, y0 int, heights [][]float64) error {
	lo, hi := math.Inf(1), math.Inf(-1)
	var sum float64
	var n int
	for _, row := range heights {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			sum += v
			n++
		}
	}
	if n == 0 {
		s.log.Warn("empty height field", "x0", x0, "y0", y0)
		return nil
	}

	cols := 0
	if len(heights) > 0 {
		cols = len(heights[0])
	}
	s.log.Debug("heights applied",
		"x0", x0,
		"y0", y0,
		"rows", len(heights),
		"cols", cols,
		"min", lo,
		"max", hi,
		"mean", sum/float64(n),
	)
	return nil
}

// Package perf times repeated runs of a function.
package perf

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Report holds the timings of one Check run.
type Report struct {
	Name    string
	Cycles  []time.Duration
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// Check runs fn cycles times and reports how long each run took. The first
// error from fn stops the run.
func Check(name string, cycles int, fn func() error) (Report, error) {
	if cycles <= 0 {
		return Report{}, errors.New("perf: cycles must be positive")
	}

	r := Report{Name: name, Cycles: make([]time.Duration, 0, cycles)}
	for i := 0; i < cycles; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return Report{}, fmt.Errorf("%s cycle %d: %w", name, i, err)
		}
		d := time.Since(start)

		r.Cycles = append(r.Cycles, d)
		r.Total += d
		if i == 0 || d < r.Min {
			r.Min = d
		}
		if d > r.Max {
			r.Max = d
		}
	}
	r.Average = r.Total / time.Duration(cycles)
	return r, nil
}

// Speedup returns how many times faster r ran than base on average.
func (r Report) Speedup(base Report) float64 {
	if r.Average == 0 {
		return 0
	}
	return float64(base.Average) / float64(r.Average)
}

// WriteTo prints a one-line summary of r.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "%8.4f ms avg (%d cycles, min %.4f ms, max %.4f ms) %s\n",
		ms(r.Average), len(r.Cycles), ms(r.Min), ms(r.Max), r.Name)
	return int64(n), err
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

package heightmap

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Strategy selects how an Evaluator schedules kernel calls.
type Strategy int

const (
	// Parallel splits the grid into index ranges run on a bounded worker pool.
	Parallel Strategy = iota
	// Sequential walks the grid row by row on the calling goroutine.
	Sequential
)

func (s Strategy) String() string {
	switch s {
	case Parallel:
		return "parallel"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "parallel", "":
		return Parallel, nil
	case "sequential":
		return Sequential, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", ErrConfig, name)
	}
}

// chunksPerWorker is how many index ranges each worker gets by default, so
// faster workers can pick up slack from slower ones.
const chunksPerWorker = 8

// Evaluator runs a Kernel over every cell of a grid.
type Evaluator struct {
	kernel   Kernel
	strategy Strategy

	// Workers bounds concurrent goroutines for Parallel. Zero means GOMAXPROCS.
	Workers int
	// ChunkSize is the number of cells per work item for Parallel. Zero picks
	// a size from the grid and worker count.
	ChunkSize int
}

// NewEvaluator returns an Evaluator using k with the given strategy.
func NewEvaluator(k Kernel, s Strategy) *Evaluator {
	return &Evaluator{kernel: k, strategy: s}
}

// Strategy returns the scheduling strategy.
func (e *Evaluator) Strategy() Strategy { return e.strategy }

// Evaluate returns one Sample per cell in row-major order. The returned slice
// is complete when Evaluate returns; on error no samples are returned.
func (e *Evaluator) Evaluate(p Params) ([]Sample, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := make([]Sample, p.Cells())
	var err error
	switch e.strategy {
	case Sequential:
		err = e.evaluateRange(p, out, 0, len(out))
	case Parallel:
		err = e.evaluateParallel(p, out)
	default:
		err = fmt.Errorf("%w: unknown strategy %v", ErrConfig, e.strategy)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// evaluateParallel fans index ranges out to the pool and joins once. Every
// goroutine writes only the slots of its own range.
func (e *Evaluator) evaluateParallel(p Params, out []Sample) error {
	workers := e.workers()
	chunk := e.chunkSize(len(out), workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(out); start += chunk {
		end := min(start+chunk, len(out))
		g.Go(func() error {
			return e.evaluateRange(p, out, start, end)
		})
	}
	return g.Wait()
}

func (e *Evaluator) evaluateRange(p Params, out []Sample, start, end int) error {
	for i := start; i < end; i++ {
		c := p.coordAt(i)
		v, err := e.kernel.Eval(c, p)
		if err != nil {
			return err
		}
		out[i] = Sample{Coord: c, Value: v}
	}
	return nil
}

func (e *Evaluator) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Evaluator) chunkSize(cells, workers int) int {
	if e.ChunkSize > 0 {
		return e.ChunkSize
	}
	size := cells / (workers * chunksPerWorker)
	if size < 1 {
		size = 1
	}
	return size
}

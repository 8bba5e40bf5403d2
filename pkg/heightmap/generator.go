package heightmap

import "fmt"

// Generator runs the full pipeline: evaluate every cell, then encode the
// samples into a Grid. It holds no state between calls.
type Generator struct {
	eval *Evaluator
}

// NewGenerator returns a Generator backed by e.
func NewGenerator(e *Evaluator) *Generator {
	return &Generator{eval: e}
}

// NewNoiseGenerator wires a NoiseKernel over src into a Generator using s.
func NewNoiseGenerator(src Source, s Strategy) *Generator {
	return NewGenerator(NewEvaluator(NewNoiseKernel(src), s))
}

// Evaluator returns the underlying evaluator.
func (g *Generator) Evaluator() *Evaluator { return g.eval }

// Generate produces a fresh Grid for p.
func (g *Generator) Generate(p Params) (*Grid, error) {
	samples, err := g.eval.Evaluate(p)
	if err != nil {
		return nil, err
	}
	return Encode(p.Width, p.Height, samples), nil
}

// Apply generates a Grid for p and hands it to sink at origin (0, 0).
func (g *Generator) Apply(p Params, sink Sink) (*Grid, error) {
	grid, err := g.Generate(p)
	if err != nil {
		return nil, err
	}
	if err := sink.SetHeights(0, 0, grid.Rows()); err != nil {
		return nil, fmt.Errorf("set heights: %w", err)
	}
	return grid, nil
}

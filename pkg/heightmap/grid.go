package heightmap

// Grid is a dense row-major field of normalized heights in [0, 1].
type Grid struct {
	Width  int
	Height int
	data   []float64
}

// NewGrid allocates an all-zero grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		Width:  width,
		Height: height,
		data:   make([]float64, width*height),
	}
}

// At returns the height of cell (x, y).
// x must be in [0, Width) and y in [0, Height).
func (g *Grid) At(x, y int) float64 {
	return g.data[y*g.Width+x]
}

func (g *Grid) set(x, y int, v float64) {
	g.data[y*g.Width+x] = v
}

// Rows returns the grid as Height rows of Width values, row index first.
// The rows share the grid's backing storage.
func (g *Grid) Rows() [][]float64 {
	rows := make([][]float64, g.Height)
	for y := range rows {
		rows[y] = g.data[y*g.Width : (y+1)*g.Width : (y+1)*g.Width]
	}
	return rows
}

// Stats summarizes a grid.
type Stats struct {
	Min, Max, Mean float64
}

// Stats returns the minimum, maximum and mean height. An empty grid yields zeros.
func (g *Grid) Stats() Stats {
	if len(g.data) == 0 {
		return Stats{}
	}
	st := Stats{Min: g.data[0], Max: g.data[0]}
	var sum float64
	for _, v := range g.data {
		st.Min = min(st.Min, v)
		st.Max = max(st.Max, v)
		sum += v
	}
	st.Mean = sum / float64(len(g.data))
	return st
}

// Equal reports whether both grids have the same shape and identical cells.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil {
		return false
	}
	if g.Width != o.Width || g.Height != o.Height {
		return false
	}
	for i, v := range g.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// Sink receives finished height grids, such as a terrain surface.
type Sink interface {
	// SetHeights writes heights (row index first) with its first cell at (x0, y0).
	SetHeights(x0, y0 int, heights [][]float64) error
}

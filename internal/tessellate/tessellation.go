package tessellate

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/moebius/internal/mobius"
)

// Polygon is one tile evaluated against a frame's field.
type Polygon struct {
	Class    int
	Color    colorful.Color
	Vertices []mobius.Vertex
}

// Runs splits the outline at invalid vertices and returns the maximal
// runs of valid ones. A fully valid outline yields a single run.
func (p Polygon) Runs() [][]mobius.Vertex {
	var runs [][]mobius.Vertex
	start := -1
	for i, v := range p.Vertices {
		switch {
		case v.Valid && start < 0:
			start = i
		case !v.Valid && start >= 0:
			runs = append(runs, p.Vertices[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, p.Vertices[start:])
	}
	return runs
}

// Complete reports whether every vertex of the outline is valid.
func (p Polygon) Complete() bool {
	for _, v := range p.Vertices {
		if !v.Valid {
			return false
		}
	}
	return true
}

// Tessellation pairs a layout with a palette. It is immutable; WithColors
// returns a copy sharing the layout.
type Tessellation struct {
	Layout *Layout
	Colors *ColorTable
	Tiles  []Tile
}

func New(size, xstride, ystride int, colors *ColorTable) *Tessellation {
	return newTessellation(NewLayout(size, xstride, ystride), colors)
}

func newTessellation(layout *Layout, colors *ColorTable) *Tessellation {
	return &Tessellation{
		Layout: layout,
		Colors: colors,
		Tiles:  layout.Assign(colors.Len()),
	}
}

// WithColors reassigns tiles for a new palette without rebuilding the
// layout.
func (t *Tessellation) WithColors(colors *ColorTable) *Tessellation {
	return newTessellation(t.Layout, colors)
}

func (t *Tessellation) Len() int { return len(t.Tiles) }

// Evaluate reads every tile outline out of f. Polygons come back in
// tile order; all vertex slices share one backing array.
func (t *Tessellation) Evaluate(f *mobius.Field) []Polygon {
	if len(t.Tiles) == 0 {
		return nil
	}

	pathLen := t.Layout.PathLen()
	verts := make([]mobius.Vertex, len(t.Tiles)*pathLen)
	polys := make([]Polygon, len(t.Tiles))

	mobius.ParallelFor(len(t.Tiles), 64, func(start, end int) {
		for k := start; k < end; k++ {
			tile := t.Tiles[k]
			out := verts[k*pathLen : (k+1)*pathLen : (k+1)*pathLen]
			n := 0
			for _, s := range t.Layout.Path(t.Layout.Cells[tile.Cell]) {
				r, c := s.Row, s.Col
				for m := 0; m < s.Len; m++ {
					out[n] = f.At(r, c)
					n++
					r += s.DRow
					c += s.DCol
				}
			}
			polys[k] = Polygon{
				Class:    tile.Class,
				Color:    t.Colors.Tile(tile.Class),
				Vertices: out,
			}
		}
	})
	return polys
}

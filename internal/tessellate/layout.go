package tessellate

import "github.com/san-kum/moebius/internal/mobius"

// Segment is a straight run of Len grid samples starting at (Row, Col)
// and stepping by (DRow, DCol).
type Segment struct {
	Row, Col   int
	DRow, DCol int
	Len        int
}

// PathSlice is the closed outline of one cell: the far column walked
// down the rows, the far row walked back across the columns, the near
// column walked back up, and the near row walked forward to the start.
type PathSlice [4]Segment

// Len is the number of vertices in the outline, first point repeated.
func (p PathSlice) Len() int {
	n := 0
	for _, s := range p {
		n += s.Len
	}
	return n
}

// Cell is the top-left sample of one tile and its checkerboard band.
type Cell struct {
	Row, Col int
	Band     int
}

// Layout holds the cells of a grid at fixed strides.
type Layout struct {
	Size    int
	XStride int
	YStride int
	Cells   []Cell
}

// NewLayout enumerates every full cell of a size×size grid. Strides
// larger than size give an empty layout.
func NewLayout(size, xstride, ystride int) *Layout {
	l := &Layout{Size: size, XStride: xstride, YStride: ystride}
	if xstride <= 0 || ystride <= 0 || xstride > size || ystride > size {
		return l
	}

	l.Cells = make([]Cell, 0, (size/xstride)*(size/ystride))
	for i := 0; i+xstride <= size; i += xstride {
		for j := 0; j+ystride <= size; j += ystride {
			l.Cells = append(l.Cells, Cell{Row: i, Col: j, Band: i/xstride + j/ystride})
		}
	}
	mobius.Logger().Debug("tessellation layout built",
		"size", size, "xstride", xstride, "ystride", ystride, "cells", len(l.Cells))
	return l
}

// Path returns the outline of c.
func (l *Layout) Path(c Cell) PathSlice {
	xs, ys := l.XStride, l.YStride
	i, j := c.Row, c.Col
	return PathSlice{
		{Row: i, Col: j + ys, DRow: 1, Len: xs},
		{Row: i + xs, Col: j + ys, DCol: -1, Len: ys},
		{Row: i + xs, Col: j, DRow: -1, Len: xs},
		{Row: i, Col: j, DCol: 1, Len: ys + 1},
	}
}

// PathLen is the vertex count of every outline in the layout.
func (l *Layout) PathLen() int {
	return 2*l.XStride + 2*l.YStride + 1
}

// Tile is a drawn cell: an index into Layout.Cells and its colour class.
type Tile struct {
	Cell  int
	Class int
}

// Assign picks the drawn cells for n colours. Band k falls in class
// k mod n and class n-1 is skipped.
func (l *Layout) Assign(n int) []Tile {
	if n < 2 {
		return nil
	}
	tiles := make([]Tile, 0, len(l.Cells)*(n-1)/n+1)
	for idx, c := range l.Cells {
		class := c.Band % n
		if class < n-1 {
			tiles = append(tiles, Tile{Cell: idx, Class: class})
		}
	}
	return tiles
}

package mobius

import "math"

// Vertex is one mapped grid sample. Invalid vertices carry zero
// coordinates and must be skipped by renderers.
type Vertex struct {
	X, Y  float64
	Valid bool
}

// AxisLimits is the visible window of the plane.
type AxisLimits struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (l AxisLimits) Width() float64  { return l.XMax - l.XMin }
func (l AxisLimits) Height() float64 { return l.YMax - l.YMin }

// Center returns the midpoint of the window.
func (l AxisLimits) Center() complex128 {
	return complex((l.XMin+l.XMax)/2, (l.YMin+l.YMax)/2)
}

// Disk is a filled circle drawn as a static overlay.
type Disk struct {
	Center complex128
	Radius float64
}

// Field holds mapped coordinates with the same shape as the grid they
// were computed from.
type Field struct {
	Size  int
	X, Y  []float64
	Valid []bool
}

func NewField(size int) *Field {
	n := (size + 1) * (size + 1)
	return &Field{
		Size:  size,
		X:     make([]float64, n),
		Y:     make([]float64, n),
		Valid: make([]bool, n),
	}
}

// Put stores w at flat index i, or the invalid marker when ok is false.
func (f *Field) Put(i int, w complex128, ok bool) {
	if !ok {
		f.X[i], f.Y[i], f.Valid[i] = 0, 0, false
		return
	}
	f.X[i], f.Y[i], f.Valid[i] = real(w), imag(w), true
}

func (f *Field) At(row, col int) Vertex {
	i := row*(f.Size+1) + col
	return Vertex{X: f.X[i], Y: f.Y[i], Valid: f.Valid[i]}
}

// Clip invalidates every vertex farther than twice the window span from
// the window center on either axis.
func (f *Field) Clip(lim AxisLimits) {
	c := lim.Center()
	cx, cy := real(c), imag(c)
	mx, my := 2*lim.Width(), 2*lim.Height()

	ParallelFor(len(f.X), 1<<14, func(start, end int) {
		for i := start; i < end; i++ {
			if !f.Valid[i] {
				continue
			}
			if math.Abs(f.X[i]-cx) > mx || math.Abs(f.Y[i]-cy) > my {
				f.X[i], f.Y[i], f.Valid[i] = 0, 0, false
			}
		}
	})
}

// InvalidCount returns the number of vertices carrying the invalid marker.
func (f *Field) InvalidCount() int {
	n := 0
	for _, ok := range f.Valid {
		if !ok {
			n++
		}
	}
	return n
}


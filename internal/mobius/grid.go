package mobius

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

const (
	// MinGridSize is the smallest accepted grid resolution.
	MinGridSize = 256
	// MinStride is the smallest accepted tile stride.
	MinStride = 4

	// radial extent of polar grids: r spans exp(-8)..exp(8)
	logRadius = 8.0
)

// Coords selects the coordinate system a grid was sampled in.
type Coords int

const (
	Polar Coords = iota
	Cartesian
)

func (c Coords) String() string {
	switch c {
	case Polar:
		return "polar"
	case Cartesian:
		return "cartesian"
	default:
		return "unknown"
	}
}

// Grid holds (Size+1)×(Size+1) complex samples in row-major order.
type Grid struct {
	Size   int
	Coords Coords
	Data   []complex128
}

func NewGrid(size int, coords Coords) *Grid {
	n := size + 1
	return &Grid{
		Size:   size,
		Coords: coords,
		Data:   make([]complex128, n*n),
	}
}

// Stride is the number of samples per row, Size+1.
func (g *Grid) Stride() int { return g.Size + 1 }

func (g *Grid) At(row, col int) complex128 {
	return g.Data[row*(g.Size+1)+col]
}

func (g *Grid) Set(row, col int, v complex128) {
	g.Data[row*(g.Size+1)+col] = v
}

func (g *Grid) Clone() *Grid {
	c := &Grid{Size: g.Size, Coords: g.Coords, Data: make([]complex128, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// Equal reports whether both grids hold bit-identical samples.
func (g *Grid) Equal(o *Grid) bool {
	if g.Size != o.Size || len(g.Data) != len(o.Data) {
		return false
	}
	for i, v := range g.Data {
		if v != o.Data[i] {
			return false
		}
	}
	return true
}

// Linspace returns n evenly spaced samples over [lo, hi], both ends included.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi
	return out
}

// PolarGrid samples the annulus exp(-8) <= |z| <= exp(8). Row a carries
// angle θ_a = 2π·a/size, column b carries radius r_b, and the sample is
// r_b·exp(iθ_a).
func PolarGrid(size int) *Grid {
	n := size + 1
	radius := Linspace(-logRadius, logRadius, n)
	for i, v := range radius {
		radius[i] = math.Exp(v)
	}
	angle := Linspace(0, 2*math.Pi, n)

	g := NewGrid(size, Polar)
	ParallelFor(n, 64, func(start, end int) {
		for a := start; a < end; a++ {
			row := g.Data[a*n : (a+1)*n]
			for b, r := range radius {
				row[b] = cmplx.Rect(r, angle[a])
			}
		}
	})
	return g
}

// CartesianGrid samples the square [-1, 1]², with the real part varying
// along columns and the imaginary part along rows.
func CartesianGrid(size int) *Grid {
	n := size + 1
	t := Linspace(-1, 1, n)

	g := NewGrid(size, Cartesian)
	for a, y := range t {
		row := g.Data[a*n : (a+1)*n]
		for b, x := range t {
			row[b] = complex(x, y)
		}
	}
	return g
}

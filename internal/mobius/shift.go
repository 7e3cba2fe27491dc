package mobius

import "math"

// Vec2 is a displacement in grid cells along (rows, columns).
type Vec2 [2]float64

// shiftQuantum is the resolution offsets are rounded to before resampling.
// Shifts that agree to within it produce bit-identical grids, which keeps
// periodic animations exactly periodic.
const shiftQuantum = 1.0 / (1 << 30)

// cubicA is the free parameter of the Keys cubic convolution kernel.
const cubicA = -0.5

type tap struct {
	offset int
	weight float64
}

// Shift resamples src displaced by offset cells, so that
// out[i] = src[i - offset] on both axes. Both axes wrap with period
// src.Size; the seam row and column alias index 0. Fractional offsets are
// interpolated with a cubic convolution kernel evaluated directly on the
// raw samples, which reproduces the input exactly at integer offsets.
func Shift(src *Grid, offset Vec2) *Grid {
	n := src.Size + 1
	period := src.Size
	rows := stencil(offset[0], period)
	cols := stencil(offset[1], period)

	dst := NewGrid(src.Size, src.Coords)
	if isIdentity(rows) && isIdentity(cols) {
		copy(dst.Data, src.Data)
		return dst
	}

	tmp := make([]complex128, len(src.Data))
	ParallelFor(n, 16, func(start, end int) {
		for a := start; a < end; a++ {
			srow := src.Data[a*n : (a+1)*n]
			trow := tmp[a*n : (a+1)*n]
			for b := range trow {
				trow[b] = sample(srow, b, cols, period)
			}
		}
	})

	ParallelFor(n, 16, func(start, end int) {
		for a := start; a < end; a++ {
			drow := dst.Data[a*n : (a+1)*n]
			if len(rows) == 1 {
				r := wrapIndex(a+rows[0].offset, period)
				copy(drow, tmp[r*n:(r+1)*n])
				continue
			}
			for _, t := range rows {
				r := wrapIndex(a+t.offset, period)
				trow := tmp[r*n : (r+1)*n]
				for b, v := range trow {
					drow[b] += scale(v, t.weight)
				}
			}
		}
	})

	return dst
}

// stencil returns the taps for shifting one axis by s cells:
// out[i] = Σ weight·in[i+offset].
func stencil(s float64, period int) []tap {
	p := float64(period)
	s = math.Mod(s, p)
	if s < 0 {
		s += p
	}
	s = math.Round(s/shiftQuantum) * shiftQuantum
	if s >= p {
		s -= p
	}

	k := math.Floor(s)
	f := s - k
	base := -int(k)
	if f == 0 {
		return []tap{{offset: base, weight: 1}}
	}

	// sample position i-k-f = (i-k-1) + u
	u := 1 - f
	return []tap{
		{offset: base - 2, weight: keys(u + 1)},
		{offset: base - 1, weight: keys(u)},
		{offset: base, weight: keys(1 - u)},
		{offset: base + 1, weight: keys(2 - u)},
	}
}

func isIdentity(taps []tap) bool {
	return len(taps) == 1 && taps[0].offset == 0
}

func sample(row []complex128, i int, taps []tap, period int) complex128 {
	if len(taps) == 1 {
		return row[wrapIndex(i+taps[0].offset, period)]
	}
	var acc complex128
	for _, t := range taps {
		acc += scale(row[wrapIndex(i+t.offset, period)], t.weight)
	}
	return acc
}

// wrapIndex maps j onto [0, period]. In-range indices, the seam included,
// are returned unchanged.
func wrapIndex(j, period int) int {
	if j >= 0 && j <= period {
		return j
	}
	j %= period
	if j < 0 {
		j += period
	}
	return j
}

func scale(v complex128, w float64) complex128 {
	return complex(real(v)*w, imag(v)*w)
}

// keys evaluates the cubic convolution kernel at distance x.
func keys(x float64) float64 {
	x = math.Abs(x)
	switch {
	case x <= 1:
		return ((cubicA+2)*x-(cubicA+3))*x*x + 1
	case x < 2:
		return ((cubicA*x-5*cubicA)*x+8*cubicA)*x - 4*cubicA
	default:
		return 0
	}
}

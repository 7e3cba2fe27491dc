package transform

import (
	"fmt"
	"math"

	"github.com/san-kum/moebius/internal/mobius"
)

// Family names one of the supported Möbius transform classes.
type Family string

const (
	FamilyLoxodromic Family = "loxodromic"
	FamilyElliptic   Family = "elliptic"
	FamilyHyperbolic Family = "hyperbolic"
	FamilyParabolic  Family = "parabolic"
)

// TwoPoint reports whether the family is parameterised by two fixed points.
func (f Family) TwoPoint() bool {
	return f != FamilyParabolic
}

// Anchor selects where a zoomed loxodromic-family view is pulled toward.
type Anchor string

const (
	AnchorCenter Anchor = "center"
	AnchorP      Anchor = "p"
	AnchorQ      Anchor = "q"
)

func ParseAnchor(s string) (Anchor, error) {
	switch Anchor(s) {
	case "", AnchorCenter:
		return AnchorCenter, nil
	case AnchorP, AnchorQ:
		return Anchor(s), nil
	default:
		return "", mobius.NewConfigurationError("anchor", s, "expected one of center, p, q")
	}
}

// Kernel maps a sampling grid through one transform family. A kernel is
// configured once; setters invalidate its cached axis window.
type Kernel interface {
	Family() Family

	// Generate builds the base grid for a power-of-two size.
	Generate(size int) *mobius.Grid

	// Shift returns the grid displacement, in cells, at scaled time t.
	Shift(size int, t float64) mobius.Vec2

	// Map transforms a single point; ok is false at a pole.
	Map(z complex128) (w complex128, ok bool)

	// Apply maps every grid sample and clips vertices outside the window.
	Apply(grid *mobius.Grid) *mobius.Field

	Limits() mobius.AxisLimits
	Overlay() []mobius.Disk

	SetZoom(zoom float64, anchor Anchor)
	SetAspect(aspect float64)
	Clone() Kernel
}

// mapField applies fn to every sample of grid and clips the result
// against lim.
func mapField(grid *mobius.Grid, lim mobius.AxisLimits, fn func(complex128) (complex128, bool)) *mobius.Field {
	f := mobius.NewField(grid.Size)
	mobius.ParallelFor(len(grid.Data), 1<<14, func(start, end int) {
		for i := start; i < end; i++ {
			w, ok := fn(grid.Data[i])
			f.Put(i, w, ok)
		}
	})
	f.Clip(lim)
	return f
}

// clamp maps NaN to lo so a bad zoom can never poison the limits.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (f Family) String() string { return string(f) }

func (a Anchor) String() string { return string(a) }

func formatPoint(z complex128) string {
	return fmt.Sprintf("(%g, %g)", real(z), imag(z))
}

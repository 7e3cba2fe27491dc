package transform

import "github.com/san-kum/moebius/internal/mobius"

// Hyperbolic shares the loxodromic map but only drifts radially, so
// the grid streams from p toward q without rotating.
type Hyperbolic struct {
	*Loxodromic
}

func NewHyperbolic(p, q complex128) *Hyperbolic {
	l := NewLoxodromic(p, q)
	l.family = FamilyHyperbolic
	return &Hyperbolic{l}
}

func (h *Hyperbolic) Shift(size int, t float64) mobius.Vec2 {
	return mobius.Vec2{0, float64(size) * t}
}

func (h *Hyperbolic) Clone() Kernel { return &Hyperbolic{h.Loxodromic.clone()} }

package transform

import (
	"math"

	"github.com/san-kum/moebius/internal/mobius"
)

// Elliptic shares the loxodromic map but only rotates the grid, so
// circles through p and q flow around both fixed points.
type Elliptic struct {
	*Loxodromic
}

func NewElliptic(p, q complex128) *Elliptic {
	l := NewLoxodromic(p, q)
	l.family = FamilyElliptic
	return &Elliptic{l}
}

func (e *Elliptic) Shift(size int, t float64) mobius.Vec2 {
	return mobius.Vec2{float64(size) * math.Pi * t, 0}
}

func (e *Elliptic) Clone() Kernel { return &Elliptic{e.Loxodromic.clone()} }

package transform

import (
	"github.com/san-kum/moebius/internal/mobius"
)

const (
	// parabolicExtent is the half-height of the unzoomed parabolic window
	// and the upper zoom bound.
	parabolicExtent = 10.0

	overlayRadius = 0.5
)

// Parabolic maps z to 1/z + p on a cartesian grid. Lines through the
// origin become circles tangent at the single fixed point p.
type Parabolic struct {
	p      complex128
	zoom   float64
	aspect float64

	limits *mobius.LimitsCache
}

func NewParabolic(p complex128) *Parabolic {
	k := &Parabolic{p: p, zoom: 1, aspect: 1}
	k.limits = mobius.NewLimitsCache(k.computeLimits)
	return k
}

func (k *Parabolic) Family() Family { return FamilyParabolic }

func (k *Parabolic) SetFixedPoint(p complex128) {
	k.p = p
	k.limits.Invalidate()
}

func (k *Parabolic) FixedPoint() complex128 { return k.p }

// SetZoom ignores the anchor; the parabolic window is always centered on p.
func (k *Parabolic) SetZoom(zoom float64, _ Anchor) {
	k.zoom = zoom
	k.limits.Invalidate()
}

func (k *Parabolic) SetAspect(aspect float64) {
	k.aspect = aspect
	k.limits.Invalidate()
}

func (k *Parabolic) Zoom() float64 {
	return clamp(k.zoom, 1, parabolicExtent)
}

func (k *Parabolic) Generate(size int) *mobius.Grid {
	return mobius.CartesianGrid(size)
}

func (k *Parabolic) Shift(size int, t float64) mobius.Vec2 {
	return mobius.Vec2{float64(size) * t, 0}
}

func (k *Parabolic) Map(z complex128) (complex128, bool) {
	w, ok := mobius.Inv(z)
	if !ok {
		return 0, false
	}
	w += k.p
	return w, mobius.IsFinite(w)
}

func (k *Parabolic) Apply(grid *mobius.Grid) *mobius.Field {
	return mapField(grid, k.Limits(), k.Map)
}

func (k *Parabolic) Limits() mobius.AxisLimits {
	return k.limits.Get()
}

// Overlay returns the four disks tangent at p that mask the image of the
// grid boundary.
func (k *Parabolic) Overlay() []mobius.Disk {
	return []mobius.Disk{
		{Center: k.p - overlayRadius, Radius: overlayRadius},
		{Center: k.p + overlayRadius, Radius: overlayRadius},
		{Center: k.p - complex(0, overlayRadius), Radius: overlayRadius},
		{Center: k.p + complex(0, overlayRadius), Radius: overlayRadius},
	}
}

func (k *Parabolic) Clone() Kernel {
	c := &Parabolic{p: k.p, zoom: k.zoom, aspect: k.aspect}
	c.limits = mobius.NewLimitsCache(c.computeLimits)
	return c
}

func (k *Parabolic) computeLimits() mobius.AxisLimits {
	zoom := k.Zoom()
	hx := k.aspect * parabolicExtent / zoom
	hy := parabolicExtent / zoom
	mobius.Logger().Debug("axis limits computed",
		"family", k.Family(), "center", formatPoint(k.p), "zoom", zoom)

	return mobius.AxisLimits{
		XMin: real(k.p) - hx,
		XMax: real(k.p) + hx,
		YMin: imag(k.p) - hy,
		YMax: imag(k.p) + hy,
	}
}

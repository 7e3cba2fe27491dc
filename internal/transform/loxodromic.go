package transform

import (
	"math"

	"github.com/san-kum/moebius/internal/mobius"
)

// Loxodromic maps z to (p - z·q)/(1 - z), sending 0 to p and ∞ to q. The
// grid spirals out of p into q, combining rotation and radial drift.
type Loxodromic struct {
	family Family
	p, q   complex128
	center complex128
	zoom   float64
	anchor Anchor
	aspect float64

	limits *mobius.LimitsCache
}

func NewLoxodromic(p, q complex128) *Loxodromic {
	l := &Loxodromic{family: FamilyLoxodromic, zoom: 1, anchor: AnchorCenter, aspect: 1}
	l.limits = mobius.NewLimitsCache(l.computeLimits)
	l.SetFixedPoints(p, q)
	return l
}

func (l *Loxodromic) Family() Family { return l.family }

func (l *Loxodromic) SetFixedPoints(p, q complex128) {
	l.p, l.q = p, q
	l.center = (p + q) / 2
	l.limits.Invalidate()
}

func (l *Loxodromic) FixedPoints() (p, q complex128) { return l.p, l.q }

func (l *Loxodromic) Center() complex128 { return l.center }

func (l *Loxodromic) SetZoom(zoom float64, anchor Anchor) {
	l.zoom, l.anchor = zoom, anchor
	l.limits.Invalidate()
}

func (l *Loxodromic) SetAspect(aspect float64) {
	l.aspect = aspect
	l.limits.Invalidate()
}

// Distance is the larger coordinate separation of the fixed points.
func (l *Loxodromic) Distance() float64 {
	d := l.q - l.p
	return math.Max(math.Abs(real(d)), math.Abs(imag(d)))
}

// Zoom returns the zoom clamped to [1, max(1, Distance)].
func (l *Loxodromic) Zoom() float64 {
	return clamp(l.zoom, 1, math.Max(1, l.Distance()))
}

func (l *Loxodromic) Generate(size int) *mobius.Grid {
	return mobius.PolarGrid(size)
}

func (l *Loxodromic) Shift(size int, t float64) mobius.Vec2 {
	g := float64(size)
	return mobius.Vec2{g * math.Pi * t, g * t}
}

func (l *Loxodromic) Map(z complex128) (complex128, bool) {
	return mobius.Div(l.p-z*l.q, 1-z)
}

func (l *Loxodromic) Apply(grid *mobius.Grid) *mobius.Field {
	return mapField(grid, l.Limits(), l.Map)
}

func (l *Loxodromic) Limits() mobius.AxisLimits {
	return l.limits.Get()
}

func (l *Loxodromic) Overlay() []mobius.Disk { return nil }

func (l *Loxodromic) Clone() Kernel { return l.clone() }

func (l *Loxodromic) clone() *Loxodromic {
	c := &Loxodromic{
		family: l.family,
		p:      l.p,
		q:      l.q,
		center: l.center,
		zoom:   l.zoom,
		anchor: l.anchor,
		aspect: l.aspect,
	}
	c.limits = mobius.NewLimitsCache(c.computeLimits)
	return c
}

func (l *Loxodromic) computeLimits() mobius.AxisLimits {
	d := l.Distance()
	zoom := l.Zoom()
	c := l.viewCenter(zoom, d)

	hx := l.aspect * d / zoom
	hy := d / zoom
	mobius.Logger().Debug("axis limits computed",
		"family", l.Family(), "center", formatPoint(c), "distance", d, "zoom", zoom)

	return mobius.AxisLimits{
		XMin: real(c) - hx,
		XMax: real(c) + hx,
		YMin: imag(c) - hy,
		YMax: imag(c) + hy,
	}
}

// viewCenter moves the midpoint toward the anchored fixed point by
// (zoom-1)/distance of the way.
func (l *Loxodromic) viewCenter(zoom, d float64) complex128 {
	var target complex128
	switch l.anchor {
	case AnchorP:
		target = l.p
	case AnchorQ:
		target = l.q
	default:
		return l.center
	}
	if d == 0 {
		return l.center
	}
	return l.center + (target-l.center)*complex((zoom-1)/d, 0)
}

package transform

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/moebius/internal/mobius"
)

// Params carries everything needed to construct a kernel.
type Params struct {
	P, Q   complex128
	Zoom   float64
	Anchor Anchor
	Aspect float64
}

type factory func(Params) (Kernel, error)

var registry = map[Family]factory{
	FamilyLoxodromic: func(p Params) (Kernel, error) {
		if err := checkFixedPoints(p); err != nil {
			return nil, err
		}
		return NewLoxodromic(p.P, p.Q), nil
	},
	FamilyElliptic: func(p Params) (Kernel, error) {
		if err := checkFixedPoints(p); err != nil {
			return nil, err
		}
		return NewElliptic(p.P, p.Q), nil
	},
	FamilyHyperbolic: func(p Params) (Kernel, error) {
		if err := checkFixedPoints(p); err != nil {
			return nil, err
		}
		return NewHyperbolic(p.P, p.Q), nil
	},
	FamilyParabolic: func(p Params) (Kernel, error) {
		if !mobius.IsFinite(p.P) {
			return nil, mobius.NewConfigurationError("p", formatPoint(p.P), "fixed point must be finite")
		}
		return NewParabolic(p.P), nil
	},
}

// Get builds the kernel registered under name and applies zoom and aspect.
func Get(name string, params Params) (Kernel, error) {
	f, ok := registry[Family(name)]
	if !ok {
		return nil, &mobius.ConfigurationError{
			Field:   "transform",
			Value:   name,
			Reason:  fmt.Sprintf("expected one of %v", List()),
			Wrapped: mobius.ErrUnknownFamily,
		}
	}

	k, err := f(params)
	if err != nil {
		return nil, err
	}

	if params.Zoom == 0 {
		params.Zoom = 1
	}
	if params.Anchor == "" {
		params.Anchor = AnchorCenter
	}
	if params.Aspect == 0 {
		params.Aspect = 1
	}
	if !(params.Aspect > 0) || math.IsInf(params.Aspect, 0) {
		return nil, mobius.NewConfigurationError("aspect", params.Aspect, "must be positive and finite")
	}
	k.SetZoom(params.Zoom, params.Anchor)
	k.SetAspect(params.Aspect)
	return k, nil
}

func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

func checkFixedPoints(p Params) error {
	if !mobius.IsFinite(p.P) {
		return mobius.NewConfigurationError("p", formatPoint(p.P), "fixed point must be finite")
	}
	if !mobius.IsFinite(p.Q) {
		return mobius.NewConfigurationError("q", formatPoint(p.Q), "fixed point must be finite")
	}
	if p.P == p.Q {
		return mobius.NewConfigurationError("q", formatPoint(p.Q), "fixed points must differ")
	}
	return nil
}

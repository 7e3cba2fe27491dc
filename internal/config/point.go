package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/moebius/internal/mobius"
)

// Point is a complex-plane location. In YAML it is either a scalar (a
// point on the real axis) or a two-element [x, y] list.
type Point complex128

func (p Point) Complex() complex128 { return complex128(p) }

func (p Point) String() string {
	return fmt.Sprintf("%g,%g", real(p), imag(p))
}

func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var x float64
		if err := node.Decode(&x); err != nil {
			return mobius.NewConfigurationError("point", node.Value, "expected a number")
		}
		*p = Point(complex(x, 0))
		return nil

	case yaml.SequenceNode:
		var xy []float64
		if len(node.Content) != 2 {
			return mobius.NewConfigurationError("point", fmt.Sprintf("%d values", len(node.Content)),
				"expected a scalar or an [x, y] pair")
		}
		if err := node.Decode(&xy); err != nil {
			return mobius.NewConfigurationError("point", "sequence", "expected numeric coordinates")
		}
		*p = Point(complex(xy[0], xy[1]))
		return nil

	default:
		return mobius.NewConfigurationError("point", node.Tag, "expected a scalar or an [x, y] pair")
	}
}

func (p Point) MarshalYAML() (any, error) {
	if imag(p) == 0 {
		return real(p), nil
	}
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{real(p), imag(p)} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!float",
			Value: strconv.FormatFloat(v, 'g', -1, 64),
		})
	}
	return node, nil
}

// ParsePoint reads "x" or "x,y" as given on the command line.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return 0, mobius.NewConfigurationError("point", s, "expected a scalar or an x,y pair")
	}

	var xy [2]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, mobius.NewConfigurationError("point", s, "expected numeric coordinates")
		}
		xy[i] = v
	}
	return Point(complex(xy[0], xy[1])), nil
}

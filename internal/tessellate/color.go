package tessellate

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/moebius/internal/mobius"
)

var namedColors = map[string]string{
	"white":   "#ffffff",
	"black":   "#000000",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"navy":    "#000080",
	"teal":    "#008080",
	"maroon":  "#800000",
	"olive":   "#808000",
	"silver":  "#c0c0c0",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
}

// ColorTable is an ordered palette. Entry 0 is the background.
type ColorTable struct {
	colors []colorful.Color
}

// ParseColor accepts a named colour or a #rgb / #rrggbb hex string.
func ParseColor(s string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	if !strings.HasPrefix(key, "#") {
		key = "#" + key
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return colorful.Color{}, &mobius.ConfigurationError{
			Field:   "color",
			Value:   s,
			Reason:  "expected a colour name or hex value",
			Wrapped: err,
		}
	}
	return c, nil
}

func ParseColors(specs []string) (*ColorTable, error) {
	if len(specs) < 2 {
		return nil, mobius.NewConfigurationError("colors", specs, "need at least 2 colours")
	}
	colors := make([]colorful.Color, len(specs))
	for i, s := range specs {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return &ColorTable{colors: colors}, nil
}

func NewColorTable(colors ...colorful.Color) (*ColorTable, error) {
	if len(colors) < 2 {
		return nil, mobius.NewConfigurationError("colors", len(colors), "need at least 2 colours")
	}
	return &ColorTable{colors: append([]colorful.Color(nil), colors...)}, nil
}

func (t *ColorTable) Len() int { return len(t.colors) }

func (t *ColorTable) Background() colorful.Color { return t.colors[0] }

// Tile returns the paint for a drawn class.
func (t *ColorTable) Tile(class int) colorful.Color { return t.colors[class+1] }

func (t *ColorTable) At(i int) colorful.Color { return t.colors[i] }

func (t *ColorTable) Hex() []string {
	out := make([]string, len(t.colors))
	for i, c := range t.colors {
		out[i] = c.Hex()
	}
	return out
}

func (t *ColorTable) String() string {
	return strings.Join(t.Hex(), ",")
}

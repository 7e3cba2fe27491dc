package config

import "sort"

var Presets = map[string]map[string]*Config{
	"loxodromic": {
		"default": {
			Transform: "loxodromic", GridSize: 512, XStride: 16, YStride: 8,
			Colors: []string{"black", "white"}, P: -1, Q: 1, Zoom: 1,
		},
		"offset": {
			Transform: "loxodromic", GridSize: 512, XStride: 16, YStride: 16,
			Colors: []string{"black", "white"}, P: Point(complex(-1, -0.5)), Q: Point(complex(2, 1)), Zoom: 1,
		},
		"tricolor": {
			Transform: "loxodromic", GridSize: 1024, XStride: 32, YStride: 16,
			Colors: []string{"navy", "white", "orange"}, P: -1, Q: 1, Zoom: 1,
		},
	},
	"elliptic": {
		"default": {
			Transform: "elliptic", GridSize: 512, XStride: 16, YStride: 8,
			Colors: []string{"black", "white"}, P: -1, Q: 1, Zoom: 1,
		},
		"zoomed": {
			Transform: "elliptic", GridSize: 1024, XStride: 16, YStride: 8,
			Colors: []string{"black", "white"}, P: -1, Q: 1, Zoom: 2, Anchor: "p",
		},
	},
	"hyperbolic": {
		"default": {
			Transform: "hyperbolic", GridSize: 512, XStride: 16, YStride: 8,
			Colors: []string{"black", "white"}, P: -1, Q: 1, Zoom: 1,
		},
		"dense": {
			Transform: "hyperbolic", GridSize: 1024, XStride: 8, YStride: 4,
			Colors: []string{"black", "white"}, P: -1, Q: 1, Zoom: 1,
		},
	},
	"parabolic": {
		"default": {
			Transform: "parabolic", GridSize: 512, XStride: 8, YStride: 8,
			Colors: []string{"black", "white"}, P: 0, Zoom: 1,
		},
		"zoomed": {
			Transform: "parabolic", GridSize: 1024, XStride: 8, YStride: 8,
			Colors: []string{"black", "white"}, P: 0, Zoom: 4,
		},
	},
}

// GetPreset returns a copy of the named preset layered over the
// defaults, or nil if there is none.
func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	p, ok := familyPresets[preset]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Transform = p.Transform
	cfg.GridSize = p.GridSize
	cfg.XStride = p.XStride
	cfg.YStride = p.YStride
	cfg.Colors = append([]string(nil), p.Colors...)
	cfg.P, cfg.Q = p.P, p.Q
	cfg.Zoom = p.Zoom
	if p.Anchor != "" {
		cfg.Anchor = p.Anchor
	}
	return cfg
}

// ForFamily returns the family's default preset, or the global defaults
// with Transform set when the family has none.
func ForFamily(family string) *Config {
	if cfg := GetPreset(family, "default"); cfg != nil {
		return cfg
	}
	cfg := DefaultConfig()
	cfg.Transform = family
	return cfg
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

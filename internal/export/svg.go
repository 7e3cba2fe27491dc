package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/render"
)

// FrameToSVG draws f as one filled path per polygon. Runs of valid
// vertices become separate subpaths, matching the raster output.
func FrameToSVG(c *render.Canvas, f *engine.Frame) string {
	if f == nil {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, c.Width, c.Height, c.Width, c.Height, f.Background.Hex()))

	for _, p := range f.Polygons {
		var d strings.Builder
		for _, run := range p.Runs() {
			if len(run) < 3 {
				continue
			}
			for i, v := range run {
				x, y := c.Project(f.Limits, v.X, v.Y)
				if i == 0 {
					d.WriteString(fmt.Sprintf("M%.2f,%.2f", x, y))
				} else {
					d.WriteString(fmt.Sprintf(" L%.2f,%.2f", x, y))
				}
			}
			d.WriteString(" Z")
		}
		if d.Len() == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="%s" d="%s"/>
`, p.Color.Hex(), d.String()))
	}

	if len(c.Overlay) > 0 {
		scale := float64(c.Height) / f.Limits.Height()
		sb.WriteString("<g fill=\"#ffffff\">\n")
		for _, disk := range c.Overlay {
			cx, cy := c.Project(f.Limits, real(disk.Center), imag(disk.Center))
			sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f"/>
`, cx, cy, disk.Radius*scale))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func SaveSVG(path string, c *render.Canvas, f *engine.Frame) error {
	return os.WriteFile(path, []byte(FrameToSVG(c, f)), 0644)
}

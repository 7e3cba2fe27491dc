// Package render rasterises frames with gogpu/gg.
package render

import (
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/tessellate"
)

// OverlayColor fills the static landmark disks.
var OverlayColor = color.White

// Canvas maps plane coordinates onto a fixed pixel raster. It carries all
// drawing state; the engine never touches it.
type Canvas struct {
	Width, Height int
	Overlay       []mobius.Disk
}

func NewCanvas(width, height int, overlay []mobius.Disk) *Canvas {
	return &Canvas{Width: width, Height: height, Overlay: overlay}
}

// Project maps (x, y) in lim to pixel space with y growing downward.
func (c *Canvas) Project(lim mobius.AxisLimits, x, y float64) (float64, float64) {
	px := (x - lim.XMin) / lim.Width() * float64(c.Width)
	py := (lim.YMax - y) / lim.Height() * float64(c.Height)
	return px, py
}

// Draw renders f into a new gg context. The caller must Close it.
func (c *Canvas) Draw(f *engine.Frame) (*gg.Context, error) {
	dc := gg.NewContext(c.Width, c.Height)
	dc.ClearWithColor(gg.FromColor(f.Background))
	dc.SetFillRule(gg.FillRuleNonZero)

	for i := range f.Polygons {
		if err := c.fillPolygon(dc, f.Limits, &f.Polygons[i]); err != nil {
			dc.Close()
			return nil, err
		}
	}

	if len(c.Overlay) > 0 {
		dc.SetColor(OverlayColor)
		scale := float64(c.Height) / f.Limits.Height()
		for _, d := range c.Overlay {
			x, y := c.Project(f.Limits, real(d.Center), imag(d.Center))
			dc.DrawCircle(x, y, d.Radius*scale)
		}
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

// fillPolygon fills every run of valid vertices as its own closed
// subpath. Runs of fewer than three vertices enclose no area.
func (c *Canvas) fillPolygon(dc *gg.Context, lim mobius.AxisLimits, p *tessellate.Polygon) error {
	drawn := false
	for _, run := range p.Runs() {
		if len(run) < 3 {
			continue
		}
		x, y := c.Project(lim, run[0].X, run[0].Y)
		dc.MoveTo(x, y)
		for _, v := range run[1:] {
			x, y = c.Project(lim, v.X, v.Y)
			dc.LineTo(x, y)
		}
		dc.ClosePath()
		drawn = true
	}
	if !drawn {
		return nil
	}
	dc.SetColor(p.Color)
	return dc.Fill()
}

// WritePNG renders f and encodes it to w.
func (c *Canvas) WritePNG(w io.Writer, f *engine.Frame) error {
	dc, err := c.Draw(f)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG renders f to a file.
func (c *Canvas) SavePNG(path string, f *engine.Frame) error {
	dc, err := c.Draw(f)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}

package viz

import (
	"math"
	"strings"

	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/mobius"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Width×Height character grid with 2×4 dots per character.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y) in dot coordinates. Dots outside the
// canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawFrame traces every polygon outline of f. Edges touching an
// invalid vertex are skipped.
func (c *Canvas) DrawFrame(f *engine.Frame) {
	dotsX, dotsY := float64(c.Width*2), float64(c.Height*4)
	lim := f.Limits

	project := func(v mobius.Vertex) (int, int, bool) {
		if !v.Valid {
			return 0, 0, false
		}
		x := (v.X - lim.XMin) / lim.Width() * dotsX
		y := (lim.YMax - v.Y) / lim.Height() * dotsY
		// far off-canvas edges would make Bresenham walk for a long time
		if math.Abs(x) > 4*dotsX || math.Abs(y) > 4*dotsY {
			return 0, 0, false
		}
		return int(x), int(y), true
	}

	for _, p := range f.Polygons {
		for i := 1; i < len(p.Vertices); i++ {
			x0, y0, ok0 := project(p.Vertices[i-1])
			x1, y1, ok1 := project(p.Vertices[i])
			if ok0 && ok1 {
				c.DrawLine(x0, y0, x1, y1)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

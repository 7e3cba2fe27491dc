package engine

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/tessellate"
)

// Frame is everything a renderer needs to draw one instant.
type Frame struct {
	Index      int
	Time       float64
	Limits     mobius.AxisLimits
	Background colorful.Color
	Polygons   []tessellate.Polygon
	Stats      Stats
}

type Stats struct {
	Polygons int
	// Complete counts polygons without any invalid vertex.
	Complete int
	Vertices int
	Invalid  int
	Elapsed  time.Duration
}

// InvalidRatio is the share of outline vertices carrying the invalid marker.
func (s Stats) InvalidRatio() float64 {
	if s.Vertices == 0 {
		return 0
	}
	return float64(s.Invalid) / float64(s.Vertices)
}

func collectStats(polys []tessellate.Polygon) Stats {
	st := Stats{Polygons: len(polys)}
	for _, p := range polys {
		bad := 0
		for _, v := range p.Vertices {
			if !v.Valid {
				bad++
			}
		}
		st.Vertices += len(p.Vertices)
		st.Invalid += bad
		if bad == 0 {
			st.Complete++
		}
	}
	return st
}

package engine

import (
	"time"

	"github.com/san-kum/moebius/internal/config"
	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/tessellate"
	"github.com/san-kum/moebius/internal/transform"
)

// Snapshot is one fully built configuration. It is never mutated after
// publication.
type Snapshot struct {
	Config     *config.Config
	Kernel     transform.Kernel
	Grid       *mobius.Grid
	Tess       *tessellate.Tessellation
	Generation uint64
}

func (s *Snapshot) Limits() mobius.AxisLimits { return s.Kernel.Limits() }

func (s *Snapshot) Overlay() []mobius.Disk { return s.Kernel.Overlay() }

// Polygons evaluates the tessellation at scaled time t.
func (s *Snapshot) Polygons(t float64) []tessellate.Polygon {
	shifted := mobius.Shift(s.Grid, s.Kernel.Shift(s.Grid.Size, t))
	return s.Tess.Evaluate(s.Kernel.Apply(shifted))
}

// Frame computes frame index at the given number of seconds into the
// animation.
func (s *Snapshot) Frame(index int, seconds float64) (*Frame, error) {
	start := time.Now()
	polys := s.Polygons(ScaledTime(seconds, s.Config.Speed))

	st := collectStats(polys)
	st.Elapsed = time.Since(start)
	mobius.Logger().Debug("frame computed",
		"frame", index, "time", seconds, "polygons", st.Polygons,
		"invalid", st.Invalid, "elapsed", st.Elapsed)

	return &Frame{
		Index:      index,
		Time:       seconds,
		Limits:     s.Limits(),
		Background: s.Tess.Colors.Background(),
		Polygons:   polys,
		Stats:      st,
	}, nil
}

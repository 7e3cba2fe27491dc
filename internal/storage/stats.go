package storage

import (
	"context"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/pipeline"
)

// FrameStat is one row of frames.csv.
type FrameStat struct {
	Index    int
	Time     float64
	Polygons int
	Complete int
	Vertices int
	Invalid  int
	Millis   float64
}

func (s FrameStat) InvalidRatio() float64 {
	if s.Vertices == 0 {
		return 0
	}
	return float64(s.Invalid) / float64(s.Vertices)
}

func StatFromFrame(f *engine.Frame) FrameStat {
	return FrameStat{
		Index:    f.Index,
		Time:     f.Time,
		Polygons: f.Stats.Polygons,
		Complete: f.Stats.Complete,
		Vertices: f.Stats.Vertices,
		Invalid:  f.Stats.Invalid,
		Millis:   float64(f.Stats.Elapsed) / float64(time.Millisecond),
	}
}

// Summarize reduces per-frame statistics to the run metrics stored in
// metadata.json.
func Summarize(stats []FrameStat) map[string]float64 {
	m := map[string]float64{"frames": float64(len(stats))}
	if len(stats) == 0 {
		return m
	}

	ratios := make([]float64, len(stats))
	polys := make([]float64, len(stats))
	millis := make([]float64, len(stats))
	for i, s := range stats {
		ratios[i] = s.InvalidRatio()
		polys[i] = float64(s.Polygons)
		millis[i] = s.Millis
	}

	m["mean_invalid_ratio"] = stat.Mean(ratios, nil)
	m["max_invalid_ratio"] = floats.Max(ratios)
	m["mean_polygons"] = stat.Mean(polys, nil)
	m["mean_frame_ms"] = stat.Mean(millis, nil)
	m["max_frame_ms"] = floats.Max(millis)
	return m
}

// Recorder collects statistics of every frame passing through it and
// forwards the frame to the next sink, if any.
type Recorder struct {
	next  pipeline.Sink
	mu    sync.Mutex
	stats []FrameStat
}

func NewRecorder(next pipeline.Sink) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) WriteFrame(ctx context.Context, f *engine.Frame) error {
	r.mu.Lock()
	r.stats = append(r.stats, StatFromFrame(f))
	r.mu.Unlock()

	if r.next == nil {
		return nil
	}
	return r.next.WriteFrame(ctx, f)
}

func (r *Recorder) Stats() []FrameStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FrameStat(nil), r.stats...)
}

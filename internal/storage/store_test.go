package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/moebius/internal/config"
	"github.com/san-kum/moebius/internal/engine"
)

func sampleStats() []FrameStat {
	return []FrameStat{
		{Index: 0, Time: 0, Polygons: 256, Complete: 200, Vertices: 1000, Invalid: 100, Millis: 4},
		{Index: 1, Time: 0.5, Polygons: 256, Complete: 180, Vertices: 1000, Invalid: 300, Millis: 6},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Q = config.Point(complex(1, 2))
	meta := NewRunMetadata("video", "out.mp4", cfg)

	id, err := s.Save(meta, sampleStats())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != id || loaded.Kind != "video" || loaded.Transform != "loxodromic" {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Q != [2]float64{1, 2} || loaded.Frames != 2 {
		t.Errorf("q = %v, frames = %d", loaded.Q, loaded.Frames)
	}
	if got := loaded.Metrics["mean_invalid_ratio"]; math.Abs(got-0.2) > 1e-12 {
		t.Errorf("mean_invalid_ratio = %g, want 0.2", got)
	}

	stats, err := s.LoadStats(id)
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if len(stats) != 2 || stats[1] != sampleStats()[1] {
		t.Errorf("stats = %+v", stats)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	runs, err := s.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: %v, %v", runs, err)
	}

	cfg := config.DefaultConfig()
	for _, kind := range []string{"image", "video"} {
		if _, err := s.Save(NewRunMetadata(kind, "", cfg), nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "stray"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("List returned %d runs, want 2", len(runs))
	}
}

func TestLoadStatsSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "run")
	if err := os.MkdirAll(run, 0755); err != nil {
		t.Fatal(err)
	}
	data := "index,time,polygons,complete,vertices,invalid,ms\n" +
		"0,0.000000,10,10,100,0,1.000\n" +
		"x,0.1,10,10,100,0,1\n" +
		"2,0.2,10\n"
	if err := os.WriteFile(filepath.Join(run, "frames.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	stats, err := New(dir).LoadStats("run")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Polygons != 10 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSummarize(t *testing.T) {
	m := Summarize(sampleStats())

	tests := map[string]float64{
		"frames":             2,
		"mean_invalid_ratio": 0.2,
		"max_invalid_ratio":  0.3,
		"mean_polygons":      256,
		"mean_frame_ms":      5,
		"max_frame_ms":       6,
	}
	for key, want := range tests {
		if got := m[key]; math.Abs(got-want) > 1e-12 {
			t.Errorf("%s = %g, want %g", key, got, want)
		}
	}

	if empty := Summarize(nil); len(empty) != 1 || empty["frames"] != 0 {
		t.Errorf("Summarize(nil) = %v", empty)
	}
}

func TestRecorder(t *testing.T) {
	forwarded := 0
	r := NewRecorder(nil)
	for i := 0; i < 3; i++ {
		f := &engine.Frame{Index: i, Time: float64(i), Stats: engine.Stats{Polygons: 5, Elapsed: 2 * time.Millisecond}}
		if err := r.WriteFrame(context.Background(), f); err != nil {
			t.Fatal(err)
		}
		forwarded++
	}

	stats := r.Stats()
	if len(stats) != forwarded {
		t.Fatalf("recorded %d frames, want %d", len(stats), forwarded)
	}
	if stats[2].Index != 2 || stats[2].Millis != 2 {
		t.Errorf("stats[2] = %+v", stats[2])
	}
}

package engine

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/moebius/internal/config"
	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/tessellate"
)

func testConfig(family string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Transform = family
	cfg.GridSize = 256
	cfg.XStride = 16
	cfg.YStride = 8
	cfg.Colors = []string{"white", "black"}
	if family == "parabolic" {
		cfg.P = 0
	}
	return cfg
}

func mustEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func samePolygons(a, b []tessellate.Polygon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Class != b[i].Class || len(a[i].Vertices) != len(b[i].Vertices) {
			return false
		}
		for j, v := range a[i].Vertices {
			if v != b[i].Vertices[j] {
				return false
			}
		}
	}
	return true
}

func TestLoxodromicExample(t *testing.T) {
	e := mustEngine(t, testConfig("loxodromic"))
	s := e.View()

	if n := s.Tess.Len(); n != 256 {
		t.Errorf("tiles = %d, want 256", n)
	}

	aspect := 1280.0 / 720.0
	want := mobius.AxisLimits{XMin: -2 * aspect, XMax: 2 * aspect, YMin: -2, YMax: 2}
	if lim := e.Limits(); lim != want {
		t.Errorf("Limits = %+v, want %+v", lim, want)
	}
	if len(e.Overlay()) != 0 {
		t.Error("loxodromic engine has an overlay")
	}
}

func TestParabolicExample(t *testing.T) {
	e := mustEngine(t, testConfig("parabolic"))

	aspect := 1280.0 / 720.0
	want := mobius.AxisLimits{XMin: -10 * aspect, XMax: 10 * aspect, YMin: -10, YMax: 10}
	if lim := e.Limits(); lim != want {
		t.Errorf("Limits = %+v, want %+v", lim, want)
	}
	if len(e.Overlay()) != 4 {
		t.Errorf("overlay has %d disks, want 4", len(e.Overlay()))
	}
}

func TestGridSizeNormalized(t *testing.T) {
	for _, in := range []int{1, 256, 300, 700, 2000} {
		cfg := testConfig("elliptic")
		cfg.GridSize = in
		s := mustEngine(t, cfg).View()

		g := s.Grid.Size
		if g < mobius.MinGridSize || !mobius.IsPowerOfTwo(g) {
			t.Errorf("gridsize %d normalised to %d", in, g)
		}
		if len(s.Grid.Data) != (g+1)*(g+1) {
			t.Errorf("grid has %d samples, want %d", len(s.Grid.Data), (g+1)*(g+1))
		}
	}
}

func TestFrame(t *testing.T) {
	for _, family := range []string{"loxodromic", "elliptic", "hyperbolic", "parabolic"} {
		t.Run(family, func(t *testing.T) {
			e := mustEngine(t, testConfig(family))
			f, err := e.Frame(3, 1.5)
			if err != nil {
				t.Fatalf("Frame: %v", err)
			}
			if f.Index != 3 || f.Time != 1.5 {
				t.Errorf("frame %d at %g", f.Index, f.Time)
			}
			if f.Stats.Polygons != e.View().Tess.Len() || len(f.Polygons) != f.Stats.Polygons {
				t.Errorf("polygons = %d, stats = %d", len(f.Polygons), f.Stats.Polygons)
			}
			for _, p := range f.Polygons {
				for _, v := range p.Vertices {
					if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
						t.Fatal("non-finite vertex in frame output")
					}
				}
			}
			if r := f.Stats.InvalidRatio(); r < 0 || r > 1 {
				t.Errorf("InvalidRatio = %g", r)
			}
		})
	}
}

func TestFrameAtZeroMatchesBaseGrid(t *testing.T) {
	s := mustEngine(t, testConfig("hyperbolic")).View()
	want := s.Tess.Evaluate(s.Kernel.Apply(s.Grid))
	if got := s.Polygons(0); !samePolygons(got, want) {
		t.Error("polygons at t=0 differ from the unshifted grid")
	}
}

func TestEllipticPeriodic(t *testing.T) {
	s := mustEngine(t, testConfig("elliptic")).View()

	for _, t0 := range []float64{0, 0.01, 0.2} {
		a := s.Polygons(t0)
		b := s.Polygons(t0 + 1/math.Pi)
		if !samePolygons(a, b) {
			t.Errorf("polygons at t=%g and one rotation later differ", t0)
		}
	}

	if samePolygons(s.Polygons(0), s.Polygons(0.5/math.Pi)) {
		t.Error("half a rotation reproduced the start frame")
	}
}

func TestSetColorsKeepsGeometry(t *testing.T) {
	e := mustEngine(t, testConfig("loxodromic"))
	before := e.View()

	if err := e.SetColors([]string{"navy", "gold", "white"}); err == nil {
		t.Fatal("unknown colour name accepted")
	}
	if e.View() != before {
		t.Fatal("failed SetColors replaced the snapshot")
	}

	if err := e.SetColors([]string{"navy", "orange"}); err != nil {
		t.Fatalf("SetColors: %v", err)
	}
	after := e.View()
	if after.Tess.Layout != before.Tess.Layout || after.Grid != before.Grid {
		t.Error("SetColors rebuilt grid or layout")
	}
	if after.Generation != before.Generation+1 {
		t.Errorf("generation = %d, want %d", after.Generation, before.Generation+1)
	}
	if got := after.Tess.Colors.Background().Hex(); got != "#000080" {
		t.Errorf("background = %s", got)
	}
	if e.Config().Colors[1] != "orange" {
		t.Errorf("config colours = %v", e.Config().Colors)
	}
}

func TestRejectedReconfigurationKeepsState(t *testing.T) {
	e := mustEngine(t, testConfig("loxodromic"))
	before := e.View()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"one colour", func() error { return e.SetColors([]string{"white"}) }},
		{"zero height", func() error { return e.SetResolution(1920, 0, 72) }},
		{"bad anchor", func() error { return e.SetZoom(2, "left") }},
		{"NaN zoom", func() error { return e.SetZoom(math.NaN(), "center") }},
		{"coincident points", func() error { return e.SetFixedPoints(1, 1) }},
		{"unknown family", func() error {
			cfg := testConfig("spiral")
			return e.Reconfigure(cfg)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, mobius.ErrConfiguration) {
				t.Fatalf("err = %v, want ErrConfiguration", err)
			}
			if e.View() != before {
				t.Error("snapshot replaced after a rejected reconfiguration")
			}
		})
	}
}

func TestZeroEngine(t *testing.T) {
	var e Engine

	if _, err := e.Frame(0, 0); !errors.Is(err, mobius.ErrNotConfigured) {
		t.Errorf("Frame err = %v, want ErrNotConfigured", err)
	}
	if err := e.SetZoom(2, "p"); !errors.Is(err, mobius.ErrNotConfigured) {
		t.Errorf("SetZoom err = %v, want ErrNotConfigured", err)
	}
	if e.View() != nil {
		t.Fatal("rejected update published a snapshot")
	}

	if err := e.Reconfigure(testConfig("hyperbolic")); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if _, err := e.Frame(0, 0); err != nil {
		t.Errorf("Frame after Reconfigure: %v", err)
	}
}

func TestSetStridesAndGridSize(t *testing.T) {
	e := mustEngine(t, testConfig("loxodromic"))
	grid := e.View().Grid

	if err := e.SetStrides(30, 500); err != nil {
		t.Fatal(err)
	}
	s := e.View()
	if s.Tess.Layout.XStride != 32 || s.Tess.Layout.YStride != 512 {
		t.Errorf("strides = %d/%d, want 32/512", s.Tess.Layout.XStride, s.Tess.Layout.YStride)
	}
	if s.Tess.Len() != 0 {
		t.Errorf("stride above gridsize gave %d tiles", s.Tess.Len())
	}
	if s.Grid != grid {
		t.Error("SetStrides regenerated the grid")
	}

	if err := e.SetGridSize(1000); err != nil {
		t.Fatal(err)
	}
	s = e.View()
	if s.Grid.Size != 1024 || s.Tess.Layout.Size != 1024 || s.Config.GridSize != 1024 {
		t.Errorf("gridsize not propagated: grid=%d layout=%d config=%d",
			s.Grid.Size, s.Tess.Layout.Size, s.Config.GridSize)
	}
}

func TestSetResolutionAndZoom(t *testing.T) {
	e := mustEngine(t, testConfig("elliptic"))
	kernel := e.View().Kernel

	if err := e.SetResolution(1000, 1000, 100); err != nil {
		t.Fatal(err)
	}
	if w := e.Limits().Width(); w != 4 {
		t.Errorf("square window width = %g, want 4", w)
	}
	if kernel.Limits().Width() == 4 {
		t.Error("SetResolution mutated the previous snapshot's kernel")
	}

	if err := e.SetZoom(100, "q"); err != nil {
		t.Fatalf("out-of-range zoom rejected: %v", err)
	}
	lim := e.Limits()
	if lim.Height() != 2 {
		t.Errorf("height at clamped zoom = %g, want 2", lim.Height())
	}
	if c := lim.Center(); c != 0.5 {
		t.Errorf("center = %v, want 0.5", c)
	}
}

func TestReconfigureReusesLayout(t *testing.T) {
	e := mustEngine(t, testConfig("loxodromic"))
	before := e.View()

	cfg := testConfig("hyperbolic")
	cfg.Colors = []string{"black", "white", "red"}
	if err := e.Reconfigure(cfg); err != nil {
		t.Fatal(err)
	}
	after := e.View()
	if after.Tess.Layout != before.Tess.Layout {
		t.Error("layout rebuilt although gridsize and strides are unchanged")
	}
	if after.Grid == before.Grid {
		t.Error("grid reused across a family change")
	}
	if after.Kernel.Family() != "hyperbolic" {
		t.Errorf("family = %s", after.Kernel.Family())
	}
}

func TestConcurrentReadersSeeConsistentSnapshots(t *testing.T) {
	e := mustEngine(t, testConfig("loxodromic"))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := e.View()
				if s.Grid.Size != s.Tess.Layout.Size || s.Grid.Size != s.Config.GridSize {
					t.Errorf("mixed snapshot: grid=%d layout=%d config=%d",
						s.Grid.Size, s.Tess.Layout.Size, s.Config.GridSize)
					return
				}
			}
		}()
	}

	for _, g := range []int{512, 256, 1024, 256} {
		if err := e.SetGridSize(g); err != nil {
			t.Error(err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestFrameTimes(t *testing.T) {
	tests := []struct {
		fps      int
		duration float64
		n        int
	}{
		{30, 10, 300},
		{24, 2.5, 60},
		{1, 0.1, 1},
	}

	for _, tt := range tests {
		times := FrameTimes(tt.fps, tt.duration)
		if len(times) != tt.n {
			t.Errorf("FrameTimes(%d, %g) has %d frames, want %d", tt.fps, tt.duration, len(times), tt.n)
			continue
		}
		if times[0] != 0 {
			t.Errorf("first frame at %g", times[0])
		}
		if tt.n > 1 && times[len(times)-1] != tt.duration {
			t.Errorf("last frame at %g, want %g", times[len(times)-1], tt.duration)
		}
	}

	if got := ScaledTime(45, 2); got != 1 {
		t.Errorf("ScaledTime(45, 2) = %g, want 1", got)
	}
}

package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/moebius/internal/config"
	"github.com/san-kum/moebius/internal/engine"
)

// fakeSource records how often each frame is computed and how many
// computed frames are still waiting for delivery.
type fakeSource struct {
	mu       sync.Mutex
	computed map[int]int
	pending  atomic.Int64
	peak     atomic.Int64
	delay    func(i int) time.Duration
	failAt   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{computed: make(map[int]int), failAt: -1}
}

func (s *fakeSource) Frame(index int, seconds float64) (*engine.Frame, error) {
	if s.delay != nil {
		time.Sleep(s.delay(index))
	}
	if index == s.failAt {
		return nil, errors.New("boom")
	}
	s.mu.Lock()
	s.computed[index]++
	s.mu.Unlock()

	n := s.pending.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return &engine.Frame{Index: index, Time: seconds}, nil
}

func times(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / 10
	}
	return out
}

func TestRunDeliversInOrder(t *testing.T) {
	src := newFakeSource()
	src.delay = func(i int) time.Duration { return time.Duration((i*7)%5) * time.Millisecond }

	var got []int
	sink := SinkFunc(func(_ context.Context, f *engine.Frame) error {
		src.pending.Add(-1)
		got = append(got, f.Index)
		return nil
	})

	var progress []int
	sum, err := Run(context.Background(), src, times(40), sink, Options{
		Workers: 4,
		OnFrame: func(done, total int) {
			if total != 40 {
				t.Errorf("total = %d", total)
			}
			progress = append(progress, done)
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Frames != 40 || len(got) != 40 {
		t.Fatalf("delivered %d frames, summary %d", len(got), sum.Frames)
	}
	for i, idx := range got {
		if idx != i {
			t.Fatalf("frame %d delivered at position %d", idx, i)
		}
		if progress[i] != i+1 {
			t.Fatalf("progress[%d] = %d", i, progress[i])
		}
	}
}

func TestRunSlowSinkThrottles(t *testing.T) {
	src := newFakeSource()
	sink := SinkFunc(func(_ context.Context, f *engine.Frame) error {
		time.Sleep(2 * time.Millisecond)
		src.pending.Add(-1)
		return nil
	})

	const workers, buffer = 3, 2
	if _, err := Run(context.Background(), src, times(30), sink, Options{Workers: workers, Buffer: buffer}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if peak := src.peak.Load(); peak > workers+buffer {
		t.Errorf("%d frames waited for the sink, want at most %d", peak, workers+buffer)
	}
	for i := 0; i < 30; i++ {
		if n := src.computed[i]; n != 1 {
			t.Errorf("frame %d computed %d times", i, n)
		}
	}
}

func TestRunSourceError(t *testing.T) {
	src := newFakeSource()
	src.failAt = 5

	var delivered []int
	sink := SinkFunc(func(_ context.Context, f *engine.Frame) error {
		delivered = append(delivered, f.Index)
		return nil
	})

	_, err := Run(context.Background(), src, times(20), sink, Options{Workers: 2})
	if err == nil || err.Error() != "frame 5: boom" {
		t.Fatalf("err = %v, want frame 5: boom", err)
	}
	for _, idx := range delivered {
		if idx >= 5 {
			t.Errorf("frame %d delivered past the failed frame", idx)
		}
	}
}

func TestRunSinkError(t *testing.T) {
	errFull := errors.New("disk full")
	sink := SinkFunc(func(_ context.Context, f *engine.Frame) error {
		if f.Index == 3 {
			return errFull
		}
		return nil
	})

	sum, err := Run(context.Background(), newFakeSource(), times(50), sink, Options{Workers: 2, Buffer: 1})
	if !errors.Is(err, errFull) {
		t.Fatalf("err = %v, want %v", err, errFull)
	}
	if sum.Frames != 3 {
		t.Errorf("delivered %d frames, want 3", sum.Frames)
	}
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := SinkFunc(func(_ context.Context, f *engine.Frame) error {
		if f.Index == 4 {
			cancel()
		}
		return nil
	})

	src := newFakeSource()
	src.delay = func(int) time.Duration { return time.Millisecond }

	sum, err := Run(ctx, src, times(200), sink, Options{Workers: 2, Buffer: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if sum.Frames >= 200 {
		t.Error("cancelled run delivered every frame")
	}
}

func TestRunEmpty(t *testing.T) {
	sum, err := Run(context.Background(), newFakeSource(), nil, SinkFunc(func(context.Context, *engine.Frame) error {
		t.Error("sink called for an empty run")
		return nil
	}), Options{})
	if err != nil || sum.Frames != 0 {
		t.Errorf("Run = %+v, %v", sum, err)
	}
}

func TestRunWithEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Transform = "elliptic"
	cfg.GridSize = 256
	e, err := engine.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	snap := e.View()

	var counts []int
	sink := SinkFunc(func(_ context.Context, f *engine.Frame) error {
		counts = append(counts, len(f.Polygons))
		return nil
	})

	ts := engine.FrameTimes(4, 2)
	if _, err := Run(context.Background(), snap, ts, sink, Options{Workers: 3}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(counts) != len(ts) {
		t.Fatalf("delivered %d frames, want %d", len(counts), len(ts))
	}
	for _, n := range counts {
		if n != snap.Tess.Len() {
			t.Errorf("frame has %d polygons, want %d", n, snap.Tess.Len())
		}
	}
}

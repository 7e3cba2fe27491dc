// Package pipeline computes frames concurrently and delivers them to a
// sink strictly in order.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/mobius"
)

// Source computes a single frame. engine.Snapshot satisfies it.
type Source interface {
	Frame(index int, seconds float64) (*engine.Frame, error)
}

// Sink consumes frames in index order. A slow sink throttles the
// workers; frames are never recomputed.
type Sink interface {
	WriteFrame(ctx context.Context, f *engine.Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f *engine.Frame) error

func (fn SinkFunc) WriteFrame(ctx context.Context, f *engine.Frame) error {
	return fn(ctx, f)
}

type Options struct {
	// Workers bounds concurrent frame computations. Zero means GOMAXPROCS.
	Workers int
	// Buffer is how many finished frames may wait for the sink beyond
	// those being computed. Zero means Workers.
	Buffer int
	// OnFrame is called after each delivered frame with the number of
	// frames delivered so far.
	OnFrame func(done, total int)
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) buffer() int {
	if o.Buffer > 0 {
		return o.Buffer
	}
	return o.workers()
}

type Summary struct {
	Frames  int
	Elapsed time.Duration
}

// Run computes one frame per entry of times and hands them to sink in
// index order. At most Workers+Buffer frames are held undelivered at any
// time. Cancelling ctx stops new frames from being started; frames
// already running finish.
func Run(ctx context.Context, src Source, times []float64, sink Sink, opts Options) (Summary, error) {
	start := time.Now()
	workers := opts.workers()
	window := workers + opts.buffer()

	g, ctx := errgroup.WithContext(ctx)
	inflight := make(chan struct{}, window)
	results := make(chan *engine.Frame, window)

	g.Go(func() error {
		defer close(results)
		return dispatch(ctx, src, times, workers, inflight, results)
	})

	delivered := 0
	g.Go(func() error {
		pending := make(map[int]*engine.Frame, window)
		for f := range results {
			pending[f.Index] = f
			for {
				next, ok := pending[delivered]
				if !ok {
					break
				}
				delete(pending, delivered)
				if err := sink.WriteFrame(ctx, next); err != nil {
					return fmt.Errorf("write frame %d: %w", delivered, err)
				}
				<-inflight
				delivered++
				if opts.OnFrame != nil {
					opts.OnFrame(delivered, len(times))
				}
			}
		}
		return nil
	})

	err := g.Wait()
	sum := Summary{Frames: delivered, Elapsed: time.Since(start)}
	mobius.Logger().Info("pipeline finished",
		"frames", sum.Frames, "total", len(times), "workers", workers,
		"elapsed", sum.Elapsed, "error", err)
	return sum, err
}

func dispatch(ctx context.Context, src Source, times []float64, workers int, inflight chan struct{}, results chan<- *engine.Frame) error {
	compute, ctx := errgroup.WithContext(ctx)
	compute.SetLimit(workers)

	for i, sec := range times {
		select {
		case inflight <- struct{}{}:
		case <-ctx.Done():
			if err := compute.Wait(); err != nil {
				return err
			}
			return ctx.Err()
		}

		compute.Go(func() error {
			f, err := src.Frame(i, sec)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			select {
			case results <- f:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return compute.Wait()
}

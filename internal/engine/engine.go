package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/san-kum/moebius/internal/config"
	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/tessellate"
	"github.com/san-kum/moebius/internal/transform"
)

// Engine owns the current snapshot. Readers are lock-free; writers are
// serialised. A zero Engine has no snapshot until Reconfigure succeeds.
type Engine struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

func New(cfg *config.Config) (*Engine, error) {
	s, err := build(cfg, nil)
	if err != nil {
		return nil, err
	}
	e := &Engine{}
	e.snap.Store(s)
	return e, nil
}

// View returns the current snapshot. Keep using the same snapshot for a
// whole render to stay on one configuration.
func (e *Engine) View() *Snapshot {
	return e.snap.Load()
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() *config.Config {
	return e.View().Config.Clone()
}

func (e *Engine) Frame(index int, seconds float64) (*Frame, error) {
	s := e.View()
	if s == nil {
		return nil, mobius.ErrNotConfigured
	}
	return s.Frame(index, seconds)
}

func (e *Engine) Limits() mobius.AxisLimits { return e.View().Limits() }

func (e *Engine) Overlay() []mobius.Disk { return e.View().Overlay() }

// Reconfigure replaces the whole configuration, reusing the current grid
// or layout when they are unaffected.
func (e *Engine) Reconfigure(cfg *config.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publish(build(cfg, e.snap.Load()))
}

// SetColors swaps the palette. Grid and tile geometry are reused.
func (e *Engine) SetColors(colors []string) error {
	return e.update(func(cur *Snapshot, cfg *config.Config) (*Snapshot, error) {
		table, err := tessellate.ParseColors(colors)
		if err != nil {
			return nil, err
		}
		cfg.Colors = append([]string(nil), colors...)
		return cur.derive(cfg, cur.Kernel, cur.Grid, cur.Tess.WithColors(table)), nil
	})
}

func (e *Engine) SetStrides(xstride, ystride int) error {
	return e.update(func(cur *Snapshot, cfg *config.Config) (*Snapshot, error) {
		cfg.XStride, cfg.YStride = xstride, ystride
		cfg.Normalize()
		tess := tessellate.New(cur.Grid.Size, cfg.XStride, cfg.YStride, cur.Tess.Colors)
		return cur.derive(cfg, cur.Kernel, cur.Grid, tess), nil
	})
}

func (e *Engine) SetGridSize(size int) error {
	return e.update(func(cur *Snapshot, cfg *config.Config) (*Snapshot, error) {
		cfg.GridSize = size
		cfg.Normalize()
		grid := cur.Kernel.Generate(cfg.GridSize)
		tess := tessellate.New(cfg.GridSize, cfg.XStride, cfg.YStride, cur.Tess.Colors)
		return cur.derive(cfg, cur.Kernel, grid, tess), nil
	})
}

// SetResolution changes the output size, and with it the aspect ratio of
// the axis window.
func (e *Engine) SetResolution(width, height, dpi int) error {
	return e.update(func(cur *Snapshot, cfg *config.Config) (*Snapshot, error) {
		cfg.Resolution = config.ResolutionConfig{Width: width, Height: height, DPI: dpi}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		k := cur.Kernel.Clone()
		k.SetAspect(cfg.Resolution.Aspect())
		return cur.derive(cfg, k, cur.Grid, cur.Tess), nil
	})
}

// SetZoom rejects only a non-finite zoom; kernels clamp the rest.
func (e *Engine) SetZoom(zoom float64, anchor string) error {
	return e.update(func(cur *Snapshot, cfg *config.Config) (*Snapshot, error) {
		a, err := transform.ParseAnchor(anchor)
		if err != nil {
			return nil, err
		}
		cfg.Zoom, cfg.Anchor = zoom, string(a)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		k := cur.Kernel.Clone()
		k.SetZoom(zoom, a)
		return cur.derive(cfg, k, cur.Grid, cur.Tess), nil
	})
}

func (e *Engine) SetFixedPoints(p, q config.Point) error {
	return e.update(func(cur *Snapshot, cfg *config.Config) (*Snapshot, error) {
		cfg.P, cfg.Q = p, q
		k, err := transform.Get(cfg.Transform, cfg.KernelParams())
		if err != nil {
			return nil, err
		}
		return cur.derive(cfg, k, cur.Grid, cur.Tess), nil
	})
}

// update runs fn against a private copy of the configuration and
// publishes its result. Nothing is published when fn fails.
func (e *Engine) update(fn func(cur *Snapshot, cfg *config.Config) (*Snapshot, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.snap.Load()
	if cur == nil {
		return mobius.ErrNotConfigured
	}
	return e.publish(fn(cur, cur.Config.Clone()))
}

// publish stores next unless err is set. Callers hold e.mu.
func (e *Engine) publish(next *Snapshot, err error) error {
	if err != nil {
		mobius.Logger().Warn("reconfiguration rejected", "error", err)
		return err
	}
	next.Limits()
	e.snap.Store(next)

	mobius.Logger().Info("engine reconfigured",
		"generation", next.Generation, "transform", next.Config.Transform,
		"gridsize", next.Config.GridSize, "tiles", next.Tess.Len())
	return nil
}

func (s *Snapshot) derive(cfg *config.Config, k transform.Kernel, grid *mobius.Grid, tess *tessellate.Tessellation) *Snapshot {
	return &Snapshot{
		Config:     cfg,
		Kernel:     k,
		Grid:       grid,
		Tess:       tess,
		Generation: s.Generation + 1,
	}
}

// build validates cfg and constructs a snapshot from scratch, borrowing
// the grid and layout from prev when they match.
func build(in *config.Config, prev *Snapshot) (*Snapshot, error) {
	cfg := in.Clone()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	colors, err := tessellate.ParseColors(cfg.Colors)
	if err != nil {
		return nil, err
	}
	k, err := transform.Get(cfg.Transform, cfg.KernelParams())
	if err != nil {
		return nil, fmt.Errorf("build %s kernel: %w", cfg.Transform, err)
	}

	var (
		grid       *mobius.Grid
		tess       *tessellate.Tessellation
		generation uint64
	)
	if prev != nil {
		generation = prev.Generation + 1
		pc := prev.Config
		if pc.Transform == cfg.Transform && pc.GridSize == cfg.GridSize {
			grid = prev.Grid
		}
		if pc.GridSize == cfg.GridSize && pc.XStride == cfg.XStride && pc.YStride == cfg.YStride {
			tess = prev.Tess.WithColors(colors)
		}
	}
	if grid == nil {
		grid = k.Generate(cfg.GridSize)
	}
	if tess == nil {
		tess = tessellate.New(cfg.GridSize, cfg.XStride, cfg.YStride, colors)
	}

	return &Snapshot{
		Config:     cfg,
		Kernel:     k,
		Grid:       grid,
		Tess:       tess,
		Generation: generation,
	}, nil
}

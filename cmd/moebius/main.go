package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/moebius/internal/config"
	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/export"
	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/pipeline"
	"github.com/san-kum/moebius/internal/render"
	"github.com/san-kum/moebius/internal/storage"
	"github.com/san-kum/moebius/internal/tessellate"
	"github.com/san-kum/moebius/internal/transform"
	"github.com/san-kum/moebius/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	preset     string

	gridSize  int
	xStride   int
	yStride   int
	colors    []string
	pFlag     string
	qFlag     string
	zoom      float64
	anchor    string
	speed     float64
	frameRate int
	duration  float64
	width     int
	height    int
	dpi       int
	workers   int
	buffer    int

	// image / probe
	at       float64
	output   string
	preview  bool
	previewW int
	previewH int

	// video
	framesDir string
	ffmpegBin string
	quiet     bool
	noSave    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moebius",
		Short: "animated Möbius checkerboards",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".moebius", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	imageCmd := &cobra.Command{
		Use:   "image [transform]",
		Short: "render a single frame",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderImage,
	}
	addViewFlags(imageCmd)
	imageCmd.Flags().Float64Var(&at, "at", 0, "time in seconds")
	imageCmd.Flags().StringVarP(&output, "output", "o", "moebius.png", "output file (.png or .svg)")
	imageCmd.Flags().BoolVar(&preview, "preview", false, "print a terminal preview")
	imageCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	videoCmd := &cobra.Command{
		Use:   "video [transform]",
		Short: "render an animation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderVideo,
	}
	addViewFlags(videoCmd)
	videoCmd.Flags().StringVarP(&output, "output", "o", "moebius.mp4", "output video")
	videoCmd.Flags().StringVar(&framesDir, "frames-dir", "", "write numbered frames here instead of encoding")
	videoCmd.Flags().StringVar(&ffmpegBin, "ffmpeg", "ffmpeg", "ffmpeg binary")
	videoCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no progress display")
	videoCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	probeCmd := &cobra.Command{
		Use:   "probe [transform]",
		Short: "compute frames without rendering and plot their statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  probeFrames,
	}
	addViewFlags(probeCmd)
	probeCmd.Flags().BoolVar(&preview, "preview", false, "print a terminal preview of the first frame")
	probeCmd.Flags().IntVar(&previewW, "preview-width", 80, "preview width in characters")
	probeCmd.Flags().IntVar(&previewH, "preview-height", 30, "preview height in characters")
	imageCmd.Flags().IntVar(&previewW, "preview-width", 80, "preview width in characters")
	imageCmd.Flags().IntVar(&previewH, "preview-height", 30, "preview height in characters")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	transformsCmd := &cobra.Command{
		Use:   "transforms",
		Short: "list transform families",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range transform.List() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [transform]",
		Short: "list available presets for a transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for transform: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "moebius.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(imageCmd, videoCmd, probeCmd, listCmd, showCmd, transformsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&gridSize, "grid", config.DefaultGridSize, "grid size (power of two, >= 256)")
	cmd.Flags().IntVar(&xStride, "xstride", config.DefaultXStride, "tile rows (power of two, >= 4)")
	cmd.Flags().IntVar(&yStride, "ystride", config.DefaultYStride, "tile columns (power of two, >= 4)")
	cmd.Flags().StringSliceVar(&colors, "colors", []string{"black", "white"}, "background then tile colours")
	cmd.Flags().StringVar(&pFlag, "p", "-1", "first fixed point, \"x\" or \"x,y\"")
	cmd.Flags().StringVar(&qFlag, "q", "1", "second fixed point, \"x\" or \"x,y\"")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "zoom factor")
	cmd.Flags().StringVar(&anchor, "anchor", "center", "zoom anchor: center, p or q")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "animation speed")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "output width in pixels")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "output height in pixels")
	cmd.Flags().IntVar(&dpi, "dpi", config.DefaultDPI, "output dpi")
	cmd.Flags().IntVar(&workers, "workers", 0, "frame workers (0 = all cores)")
	cmd.Flags().IntVar(&buffer, "buffer", config.DefaultBuffer, "finished frames allowed to wait for the sink")
}

func setupLogging() {
	if !verbose {
		return
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mobius.SetLogger(l)
	gg.SetLogger(l)
}

// resolveConfig layers defaults, preset, config file and changed flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.ForFamily(args[0])
	}

	if preset != "" {
		p := config.GetPreset(cfg.Transform, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Transform))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			fileCfg.Transform = args[0]
		}
		cfg = fileCfg
	}

	f := cmd.Flags()
	if f.Changed("grid") {
		cfg.GridSize = gridSize
	}
	if f.Changed("xstride") {
		cfg.XStride = xStride
	}
	if f.Changed("ystride") {
		cfg.YStride = yStride
	}
	if f.Changed("colors") {
		cfg.Colors = colors
	}
	if f.Changed("p") {
		p, err := config.ParsePoint(pFlag)
		if err != nil {
			return nil, err
		}
		cfg.P = p
	}
	if f.Changed("q") {
		q, err := config.ParsePoint(qFlag)
		if err != nil {
			return nil, err
		}
		cfg.Q = q
	}
	if f.Changed("zoom") {
		cfg.Zoom = zoom
	}
	if f.Changed("anchor") {
		cfg.Anchor = anchor
	}
	if f.Changed("speed") {
		cfg.Speed = speed
	}
	if f.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("width") {
		cfg.Resolution.Width = width
	}
	if f.Changed("height") {
		cfg.Resolution.Height = height
	}
	if f.Changed("dpi") {
		cfg.Resolution.DPI = dpi
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("buffer") {
		cfg.Buffer = buffer
	}
	return cfg, nil
}

func newEngine(cmd *cobra.Command, args []string) (*engine.Engine, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg)
}

func saveRun(meta storage.RunMetadata, stats []storage.FrameStat) {
	if noSave {
		return
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	runID, err := st.Save(meta, stats)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record run: %v\n", err)
		return
	}
	fmt.Println(viz.Metric("run", runID))
}

func renderImage(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd, args)
	if err != nil {
		return err
	}
	snap := eng.View()
	cfg := snap.Config

	index := int(at*float64(cfg.FrameRate) + 0.5)
	frame, err := snap.Frame(index, at)
	if err != nil {
		return err
	}

	canvas := render.NewCanvas(cfg.Resolution.Width, cfg.Resolution.Height, snap.Overlay())
	if err := export.SaveFrame(output, canvas, frame); err != nil {
		return err
	}

	if preview {
		printPreview(frame)
	}
	printFrameSummary(cfg, frame)
	fmt.Println(viz.Metric("saved", output))

	meta := storage.NewRunMetadata("image", output, cfg)
	meta.Elapsed = frame.Stats.Elapsed.Seconds()
	saveRun(meta, []storage.FrameStat{storage.StatFromFrame(frame)})
	return nil
}

func renderVideo(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd, args)
	if err != nil {
		return err
	}
	snap := eng.View()
	cfg := snap.Config
	times := engine.FrameTimes(cfg.FrameRate, cfg.Duration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	canvas := render.NewCanvas(cfg.Resolution.Width, cfg.Resolution.Height, snap.Overlay())

	var out pipeline.Sink
	var ff *export.FFmpegSink
	dest := output
	if framesDir != "" {
		ds, err := export.NewDirSink(framesDir, export.Format(output), canvas)
		if err != nil {
			return err
		}
		out = ds
		dest = framesDir
	} else {
		ff, err = export.NewFFmpegSink(ctx, ffmpegBin, output, cfg.FrameRate, canvas)
		if err != nil {
			return err
		}
		out = ff
	}

	rec := storage.NewRecorder(out)
	opts := pipeline.Options{Workers: cfg.Workers, Buffer: cfg.Buffer}

	var summary pipeline.Summary
	if quiet || !viz.Interactive(os.Stdout) {
		summary, err = pipeline.Run(ctx, snap, times, rec, opts)
	} else {
		summary, err = runWithProgress(ctx, cancel, snap, times, rec, opts, cfg.Transform)
	}

	if ff != nil {
		if cerr := ff.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	fmt.Println(viz.Metric("frames", fmt.Sprintf("%d", summary.Frames)) + "  " +
		viz.Metric("elapsed", summary.Elapsed.Round(time.Millisecond).String()) + "  " +
		viz.Metric("saved", dest))

	meta := storage.NewRunMetadata("video", dest, cfg)
	meta.Elapsed = summary.Elapsed.Seconds()
	saveRun(meta, rec.Stats())
	return nil
}

// runWithProgress drives the pipeline in the background and the progress
// display in the foreground.
func runWithProgress(ctx context.Context, cancel context.CancelFunc, src pipeline.Source, times []float64,
	sink pipeline.Sink, opts pipeline.Options, title string) (pipeline.Summary, error) {
	m := viz.NewProgressModel(title, len(times), cancel)
	p := tea.NewProgram(m)

	progress := export.Tee(sink, pipeline.SinkFunc(func(_ context.Context, f *engine.Frame) error {
		p.Send(viz.FrameMsg{
			Done:     f.Index + 1,
			Total:    len(times),
			Polygons: f.Stats.Polygons,
			Invalid:  f.Stats.InvalidRatio(),
			Elapsed:  f.Stats.Elapsed,
		})
		return nil
	}))

	type result struct {
		summary pipeline.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		s, err := pipeline.Run(ctx, src, times, progress, opts)
		p.Send(viz.DoneMsg{Err: err})
		done <- result{s, err}
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return pipeline.Summary{}, err
	}
	r := <-done
	return r.summary, r.err
}

func probeFrames(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd, args)
	if err != nil {
		return err
	}
	snap := eng.View()
	cfg := snap.Config
	times := engine.FrameTimes(cfg.FrameRate, cfg.Duration)

	rec := storage.NewRecorder(nil)
	var first *engine.Frame
	sink := pipeline.SinkFunc(func(ctx context.Context, f *engine.Frame) error {
		if first == nil {
			first = f
		}
		return rec.WriteFrame(ctx, f)
	})

	summary, err := pipeline.Run(cmd.Context(), snap, times, sink, pipeline.Options{Workers: cfg.Workers, Buffer: cfg.Buffer})
	if err != nil {
		return err
	}

	if preview && first != nil {
		printPreview(first)
	}

	stats := rec.Stats()
	invalid := make([]float64, len(stats))
	polys := make([]float64, len(stats))
	for i, s := range stats {
		invalid[i] = 100 * s.InvalidRatio()
		polys[i] = float64(s.Polygons)
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d frames in %s", cfg.Transform, summary.Frames,
		summary.Elapsed.Round(time.Millisecond))))
	fmt.Println()
	if len(stats) > 1 {
		fmt.Println(asciigraph.Plot(invalid,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("invalid vertices (%)"),
		))
		fmt.Println()
		fmt.Println(asciigraph.Plot(polys,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("polygons"),
		))
		fmt.Println()
	}
	printMetrics(storage.Summarize(stats))
	return nil
}

func printPreview(f *engine.Frame) {
	c := viz.NewCanvas(previewW, previewH)
	c.DrawFrame(f)
	fmt.Println(viz.Panel.Render(strings.TrimRight(c.String(), "\n")))
}

func printFrameSummary(cfg *config.Config, f *engine.Frame) {
	lim := f.Limits
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s frame %d (t=%.3fs)", cfg.Transform, f.Index, f.Time)))
	fmt.Println(viz.Metric("grid", fmt.Sprintf("%d, strides %dx%d", cfg.GridSize, cfg.XStride, cfg.YStride)))
	fmt.Println(viz.Metric("window", fmt.Sprintf("x [%.4g, %.4g]  y [%.4g, %.4g]", lim.XMin, lim.XMax, lim.YMin, lim.YMax)))
	fmt.Println(viz.Metric("polygons", fmt.Sprintf("%d (%d complete)", f.Stats.Polygons, f.Stats.Complete)))
	fmt.Println(viz.Metric("invalid", fmt.Sprintf("%.1f%%", 100*f.Stats.InvalidRatio())))

	table, err := tessellate.ParseColors(cfg.Colors)
	if err == nil {
		var sw []string
		for _, hex := range table.Hex() {
			sw = append(sw, viz.Swatch(hex))
		}
		fmt.Println(viz.MetricLabel.Render("colors") + " " + strings.Join(sw, "  "))
	}
}

func printMetrics(m map[string]float64) {
	keys := []string{"frames", "mean_polygons", "mean_invalid_ratio", "max_invalid_ratio", "mean_frame_ms", "max_frame_ms"}
	for _, k := range keys {
		if v, ok := m[k]; ok {
			fmt.Println(viz.Metric(k, fmt.Sprintf("%.4g", v)))
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTRANSFORM\tTIME\tGRID\tFRAMES\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2fs\n",
			run.ID,
			run.Kind,
			run.Transform,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize,
			run.Frames,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	fmt.Println(viz.Title.Render(meta.ID))
	fmt.Println(viz.Metric("kind", meta.Kind))
	fmt.Println(viz.Metric("transform", meta.Transform))
	fmt.Println(viz.Metric("grid", fmt.Sprintf("%d, strides %dx%d", meta.GridSize, meta.XStride, meta.YStride)))
	fmt.Println(viz.Metric("p", fmt.Sprintf("%g%+gi", meta.P[0], meta.P[1])))
	fmt.Println(viz.Metric("q", fmt.Sprintf("%g%+gi", meta.Q[0], meta.Q[1])))
	fmt.Println(viz.Metric("output", meta.Output))
	fmt.Println(viz.Separator(60))
	printMetrics(meta.Metrics)

	if len(stats) > 1 {
		ms := make([]float64, len(stats))
		for i, s := range stats {
			ms[i] = s.Millis
		}
		fmt.Println()
		fmt.Println(viz.MetricLabel.Render("frame ms ") + viz.SparklineChart(ms, 60))
	}
	return nil
}

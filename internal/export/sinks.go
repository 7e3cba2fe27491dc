package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/moebius/internal/engine"
	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/pipeline"
	"github.com/san-kum/moebius/internal/render"
)

// Format picks the encoding for a file path from its extension.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "svg"
	default:
		return "png"
	}
}

// SaveFrame writes f to path as PNG or SVG depending on the extension.
func SaveFrame(path string, c *render.Canvas, f *engine.Frame) error {
	if Format(path) == "svg" {
		return SaveSVG(path, c, f)
	}
	return c.SavePNG(path, f)
}

// DirSink writes every frame as a numbered file in Dir.
type DirSink struct {
	Dir    string
	Format string
	Canvas *render.Canvas
}

func NewDirSink(dir, format string, c *render.Canvas) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if format != "svg" {
		format = "png"
	}
	return &DirSink{Dir: dir, Format: format, Canvas: c}, nil
}

func (s *DirSink) Path(index int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("frame_%05d.%s", index, s.Format))
}

func (s *DirSink) WriteFrame(_ context.Context, f *engine.Frame) error {
	path := s.Path(f.Index)
	if s.Format == "svg" {
		return SaveSVG(path, s.Canvas, f)
	}
	return s.Canvas.SavePNG(path, f)
}

// FFmpegSink pipes PNG frames into an ffmpeg process that encodes them
// to a video file.
type FFmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    *bufio.Writer
	stderr bytes.Buffer
	canvas *render.Canvas
}

// FFmpegArgs returns the command line used to encode frames read from
// stdin into out.
func FFmpegArgs(out string, fps int) []string {
	return []string{
		"-y", "-loglevel", "error",
		"-f", "image2pipe", "-framerate", strconv.Itoa(fps), "-c:v", "png", "-i", "-",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		out,
	}
}

func NewFFmpegSink(ctx context.Context, bin, out string, fps int, c *render.Canvas) (*FFmpegSink, error) {
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	s := &FFmpegSink{canvas: c}
	s.cmd = exec.CommandContext(ctx, path, FFmpegArgs(out, fps)...)
	s.cmd.Stderr = &s.stderr
	s.stdin, err = s.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	s.buf = bufio.NewWriterSize(s.stdin, 1<<20)

	mobius.Logger().Info("ffmpeg started", "path", path, "output", out, "fps", fps)
	return s, nil
}

func (s *FFmpegSink) WriteFrame(_ context.Context, f *engine.Frame) error {
	if err := s.canvas.WritePNG(s.buf, f); err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Index, err)
	}
	return nil
}

// Close flushes pending frames and waits for ffmpeg to finish encoding.
// Flush, pipe and process errors are all reported.
func (s *FFmpegSink) Close() error {
	flushErr := s.buf.Flush()
	closeErr := s.stdin.Close()
	waitErr := s.cmd.Wait()
	if waitErr != nil {
		if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
			waitErr = fmt.Errorf("%w: %s", waitErr, msg)
		}
		waitErr = fmt.Errorf("ffmpeg: %w", waitErr)
	}
	return errors.Join(waitErr, flushErr, closeErr)
}

type tee []pipeline.Sink

// Tee forwards each frame to every sink in order, stopping at the first
// error.
func Tee(sinks ...pipeline.Sink) pipeline.Sink {
	return tee(sinks)
}

func (t tee) WriteFrame(ctx context.Context, f *engine.Frame) error {
	for _, s := range t {
		if err := s.WriteFrame(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

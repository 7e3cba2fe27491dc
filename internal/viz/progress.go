package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Interactive reports whether f is a terminal that can host the progress
// display.
func Interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// FrameMsg reports one delivered frame.
type FrameMsg struct {
	Done, Total int
	Polygons    int
	Invalid     float64
	Elapsed     time.Duration
}

// DoneMsg ends the progress display.
type DoneMsg struct {
	Err error
}

const (
	barWidth   = 40
	sparkWidth = 40
)

// ProgressModel shows render progress. Cancel is invoked when the user
// quits before the render finishes.
type ProgressModel struct {
	Title  string
	Cancel func()

	done, total int
	frameTimes  []float64
	invalid     float64
	polygons    int
	started     time.Time
	finished    bool
	err         error
}

func NewProgressModel(title string, total int, cancel func()) ProgressModel {
	return ProgressModel{
		Title:   title,
		Cancel:  cancel,
		total:   total,
		started: time.Now(),
	}
}

func (m ProgressModel) Init() tea.Cmd { return nil }

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.Cancel != nil {
				m.Cancel()
			}
			return m, tea.Quit
		}
	case FrameMsg:
		m.done, m.total = msg.Done, msg.Total
		m.polygons = msg.Polygons
		m.invalid = msg.Invalid
		m.frameTimes = append(m.frameTimes, float64(msg.Elapsed)/float64(time.Millisecond))
		if len(m.frameTimes) > sparkWidth {
			m.frameTimes = m.frameTimes[len(m.frameTimes)-sparkWidth:]
		}
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// Fraction is the share of frames delivered.
func (m ProgressModel) Fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(Title.Render(m.Title) + "\n\n")
	b.WriteString(ProgressBar(m.Fraction(), barWidth))
	b.WriteString(fmt.Sprintf(" %d/%d\n\n", m.done, m.total))

	b.WriteString(Metric("polygons", fmt.Sprintf("%d", m.polygons)) + "  ")
	b.WriteString(Metric("invalid", fmt.Sprintf("%.1f%%", 100*m.invalid)) + "  ")
	b.WriteString(Metric("elapsed", time.Since(m.started).Round(100*time.Millisecond).String()) + "\n")
	b.WriteString(MetricLabel.Render("frame ms ") + SparklineChart(m.frameTimes, sparkWidth) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(StatusFailed.Render("failed: "+m.err.Error()) + "\n")
	case m.finished:
		b.WriteString(StatusRunning.Render("done") + "\n")
	default:
		b.WriteString(KeyHint.Render("q to cancel") + "\n")
	}
	return Panel.Render(b.String())
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/moebius/internal/config"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Transform string             `json:"transform"`
	Timestamp time.Time          `json:"timestamp"`
	GridSize  int                `json:"gridsize"`
	XStride   int                `json:"xstride"`
	YStride   int                `json:"ystride"`
	Colors    []string           `json:"colors"`
	P         [2]float64         `json:"p"`
	Q         [2]float64         `json:"q"`
	Zoom      float64            `json:"zoom"`
	Anchor    string             `json:"anchor"`
	Speed     float64            `json:"speed"`
	FrameRate int                `json:"frame_rate"`
	Duration  float64            `json:"duration"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Output    string             `json:"output"`
	Frames    int                `json:"frames"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewRunMetadata fills the configuration fields of a run record.
func NewRunMetadata(kind, output string, cfg *config.Config) RunMetadata {
	p, q := cfg.P.Complex(), cfg.Q.Complex()
	return RunMetadata{
		Kind:      kind,
		Transform: cfg.Transform,
		GridSize:  cfg.GridSize,
		XStride:   cfg.XStride,
		YStride:   cfg.YStride,
		Colors:    append([]string(nil), cfg.Colors...),
		P:         [2]float64{real(p), imag(p)},
		Q:         [2]float64{real(q), imag(q)},
		Zoom:      cfg.Zoom,
		Anchor:    cfg.Anchor,
		Speed:     cfg.Speed,
		FrameRate: cfg.FrameRate,
		Duration:  cfg.Duration,
		Width:     cfg.Resolution.Width,
		Height:    cfg.Resolution.Height,
		Output:    output,
	}
}

var frameHeader = []string{"index", "time", "polygons", "complete", "vertices", "invalid", "ms"}

// Save writes meta and the per-frame statistics under a new run
// directory and returns its id.
func (s *Store) Save(meta RunMetadata, stats []FrameStat) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%s_%d", meta.Transform, meta.Kind, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = len(stats)
	meta.Metrics = Summarize(stats)

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "frames.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, st := range stats {
		row := []string{
			strconv.Itoa(st.Index),
			strconv.FormatFloat(st.Time, 'f', 6, 64),
			strconv.Itoa(st.Polygons),
			strconv.Itoa(st.Complete),
			strconv.Itoa(st.Vertices),
			strconv.Itoa(st.Invalid),
			strconv.FormatFloat(st.Millis, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStats reads frames.csv back. Malformed rows are skipped.
func (s *Store) LoadStats(runID string) ([]FrameStat, error) {
	csvPath := filepath.Join(s.baseDir, runID, "frames.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameStat{}, nil
	}

	stats := make([]FrameStat, 0, len(records)-1)
	for _, record := range records[1:] {
		st, ok := parseFrameStat(record)
		if !ok {
			continue
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func parseFrameStat(record []string) (FrameStat, bool) {
	if len(record) != len(frameHeader) {
		return FrameStat{}, false
	}
	var (
		st   FrameStat
		errs [7]error
	)
	st.Index, errs[0] = strconv.Atoi(record[0])
	st.Time, errs[1] = strconv.ParseFloat(record[1], 64)
	st.Polygons, errs[2] = strconv.Atoi(record[2])
	st.Complete, errs[3] = strconv.Atoi(record[3])
	st.Vertices, errs[4] = strconv.Atoi(record[4])
	st.Invalid, errs[5] = strconv.Atoi(record[5])
	st.Millis, errs[6] = strconv.ParseFloat(record[6], 64)
	for _, err := range errs {
		if err != nil {
			return FrameStat{}, false
		}
	}
	return st, true
}

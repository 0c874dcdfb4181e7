package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/engine"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{"time_ms", "ax", "ay", "x", "y", "vx", "vy", "collision"}

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
	Source    string             `json:"source"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	PeriodMs  int64              `json:"period_ms"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Params    ball.Params        `json:"params"`
	Samples   int                `json:"samples"`
	Bounces   int                `json:"bounces"`
	Final     ball.Vec2          `json:"final_position"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (m RunMetadata) Bounds() ball.Bounds {
	return ball.Bounds{Width: m.Width, Height: m.Height}
}

// Save writes a run and returns its id. meta.ID and meta.Timestamp are
// filled in; the remaining fields are stored as given.
func (s *Store) Save(meta RunMetadata, result *engine.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Source, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Samples = result.SamplesTaken
	meta.Bounces = result.Bounces
	meta.Final = result.Final.Position
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeFrames(path string, frames []engine.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.FormatInt(fr.TimeMs, 10),
			formatFloat(fr.Accel.X),
			formatFloat(fr.Accel.Y),
			formatFloat(fr.Position.X),
			formatFloat(fr.Position.Y),
			formatFloat(fr.Velocity.X),
			formatFloat(fr.Velocity.Y),
			strconv.Itoa(int(fr.Collision)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns all readable runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]engine.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []engine.Frame{}, nil
	}

	frames := make([]engine.Frame, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s row %d: %w", runID, i+2, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(rec []string) (engine.Frame, error) {
	var f engine.Frame
	t, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return f, err
	}
	vals := make([]float64, 6)
	for i := range vals {
		if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return f, err
		}
	}
	c, err := strconv.Atoi(rec[7])
	if err != nil {
		return f, err
	}

	f.TimeMs = t
	f.Accel = ball.Vec2{X: vals[0], Y: vals[1]}
	f.Position = ball.Vec2{X: vals[2], Y: vals[3]}
	f.Velocity = ball.Vec2{X: vals[4], Y: vals[5]}
	f.Collision = ball.Collision(c)
	return f, nil
}

type ExportData struct {
	RunMetadata
	Frames []engine.Frame `json:"frames"`
}

// ExportJSON writes a run's metadata and frames to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Frames: frames})
}

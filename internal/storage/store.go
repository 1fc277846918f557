// Package storage keeps recorded headless runs on disk, one directory per
// run holding metadata.json and samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/thermal"
)

// Recording is the sampled output of one run. Rows[i] holds the Columns
// values at Times[i].
type Recording struct {
	Kernel    string             `json:"kernel"`
	Config    config.SimConfig   `json:"config"`
	Frames    int                `json:"frames"`
	TimeLabel string             `json:"time_label"`
	Columns   []string           `json:"columns"`
	Times     []float64          `json:"times"`
	Rows      [][]float64        `json:"rows"`
	Metrics   map[string]float64 `json:"metrics"`
	// Field is the final plate of a thermal run. It is not written to disk.
	Field thermal.Field `json:"field,omitempty"`
}

// Series returns the samples of one column, or nil if there is none.
func (r *Recording) Series(column string) []float64 {
	for i, c := range r.Columns {
		if c != column {
			continue
		}
		out := make([]float64, len(r.Rows))
		for j, row := range r.Rows {
			out[j] = row[i]
		}
		return out
	}
	return nil
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kernel    string             `json:"kernel"`
	Timestamp time.Time          `json:"timestamp"`
	Frames    int                `json:"frames"`
	Samples   int                `json:"samples"`
	Config    config.SimConfig   `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes rec under a new run ID and returns the ID.
func (s *Store) Save(rec *Recording) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", rec.Kernel, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Kernel:    rec.Kernel,
		Timestamp: now,
		Frames:    rec.Frames,
		Samples:   len(rec.Rows),
		Config:    rec.Config,
		Metrics:   rec.Metrics,
	}
	if err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, "samples.csv"), func(w io.Writer) error {
		return WriteCSV(w, rec)
	}); err != nil {
		return "", err
	}
	return runID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecording rebuilds a run's Recording from disk.
func (s *Store) LoadRecording(runID string) (*Recording, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	rec.Kernel = meta.Kernel
	rec.Config = meta.Config
	rec.Frames = meta.Frames
	rec.Metrics = meta.Metrics
	return rec, nil
}

// WriteCSV writes a header of TimeLabel plus Columns, then one row per
// sample.
func WriteCSV(w io.Writer, rec *Recording) error {
	cw := csv.NewWriter(w)
	header := append([]string{rec.TimeLabel}, rec.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range rec.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.FormatFloat(rec.Times[i], 'f', 6, 64))
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the WriteCSV format. Only the sample fields are filled in.
func ReadCSV(r io.Reader) (*Recording, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("storage: empty sample file")
	}

	header := records[0]
	rec := &Recording{
		TimeLabel: header[0],
		Columns:   header[1:],
		Times:     make([]float64, 0, len(records)-1),
		Rows:      make([][]float64, 0, len(records)-1),
	}
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: line %d: %w", line+2, err)
			}
			vals[i] = v
		}
		rec.Times = append(rec.Times, vals[0])
		rec.Rows = append(rec.Rows, vals[1:])
	}
	return rec, nil
}

// WriteJSON writes rec as indented JSON.
func WriteJSON(w io.Writer, rec *Recording) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// Package storage keeps a history of batch runs on disk, one directory
// per run holding metadata.json and results.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/calclab/internal/batch"
)

const DefaultDir = ".calclab/runs"

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = DefaultDir
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	Jobs       int       `json:"jobs"`
	Failed     int       `json:"failed"`
	DurationMS int64     `json:"duration_ms"`
}

// Record is one row of results.csv. Error is empty for successful jobs.
type Record struct {
	Job    string
	Method string
	Expr   string
	A, B   float64
	N      int
	Value  float64
	Error  string
}

var header = []string{"job", "method", "expr", "a", "b", "n", "value", "error"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save writes run under its ID and returns that ID.
func (s *Store) Save(run *batch.Run) (string, error) {
	runDir := filepath.Join(s.baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         run.ID,
		Name:       run.Name,
		Timestamp:  run.Started,
		Jobs:       len(run.Results),
		Failed:     run.Failed(),
		DurationMS: run.Elapsed.Milliseconds(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "results.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, res := range run.Results {
		row := []string{
			res.Job.Name,
			string(res.Job.Method),
			res.Job.Expr,
			formatFloat(res.Job.A),
			formatFloat(res.Job.B),
			strconv.Itoa(res.Job.N),
			"",
			"",
		}
		if res.Err != nil {
			row[7] = res.Err.Error()
		} else {
			row[6] = formatFloat(res.Value)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return run.ID, nil
}

// List returns saved runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadResults(runID string) ([]Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "results.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []Record{}, nil
	}

	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := Record{Job: row[0], Method: row[1], Expr: row[2], Error: row[7]}
		if rec.A, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, fmt.Errorf("results.csv line %d: %w", i+2, err)
		}
		if rec.B, err = strconv.ParseFloat(row[4], 64); err != nil {
			return nil, fmt.Errorf("results.csv line %d: %w", i+2, err)
		}
		if rec.N, err = strconv.Atoi(row[5]); err != nil {
			return nil, fmt.Errorf("results.csv line %d: %w", i+2, err)
		}
		if row[6] != "" {
			if rec.Value, err = strconv.ParseFloat(row[6], 64); err != nil {
				return nil, fmt.Errorf("results.csv line %d: %w", i+2, err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

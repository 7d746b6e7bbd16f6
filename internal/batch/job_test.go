package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sample = `
name: homework
jobs:
  - name: square
    expr: x^2
    a: 0
    b: 2
  - expr: sin(x)
    a: 0
    b: 3.14159
    method: riemann
    n: 20
`

func TestParseDefaults(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if f.Name != "homework" {
		t.Errorf("expected name homework, got %q", f.Name)
	}
	if len(f.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(f.Jobs))
	}
	if f.Jobs[0].Method != MethodIntegrate {
		t.Errorf("expected default method integrate, got %q", f.Jobs[0].Method)
	}
	if f.Jobs[1].Name != "job-2" {
		t.Errorf("expected generated name job-2, got %q", f.Jobs[1].Name)
	}
	if f.Jobs[1].N != 20 {
		t.Errorf("expected n 20, got %d", f.Jobs[1].N)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no jobs", "name: empty\n"},
		{"missing expr", "jobs:\n  - a: 0\n    b: 1\n"},
		{"bad method", "jobs:\n  - expr: x\n    method: simpson\n"},
		{"negative n", "jobs:\n  - expr: x\n    n: -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalidJob) {
				t.Errorf("expected ErrInvalidJob, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

// Package batch runs YAML files of integration jobs, optionally rerunning
// them whenever the file changes.
package batch

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Method string

const (
	MethodIntegrate Method = "integrate"
	MethodRiemann   Method = "riemann"
)

var ErrInvalidJob = errors.New("batch: invalid job")

// Job is one integral to compute. N is the subdivision count for
// integrate and the rectangle count for riemann; zero picks the default.
type Job struct {
	Name   string  `yaml:"name"`
	Expr   string  `yaml:"expr"`
	A      float64 `yaml:"a"`
	B      float64 `yaml:"b"`
	Method Method  `yaml:"method"`
	N      int     `yaml:"n"`
}

// File is the on-disk job list.
type File struct {
	Name string `yaml:"name"`
	Jobs []Job  `yaml:"jobs"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a job file. Jobs without a method integrate;
// unnamed jobs are named after their position.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("%w: no jobs", ErrInvalidJob)
	}
	for i := range f.Jobs {
		j := &f.Jobs[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%d", i+1)
		}
		if j.Method == "" {
			j.Method = MethodIntegrate
		}
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i+1, j.Name, err)
		}
	}
	return &f, nil
}

func (j Job) Validate() error {
	if j.Expr == "" {
		return fmt.Errorf("%w: expr is required", ErrInvalidJob)
	}
	switch j.Method {
	case MethodIntegrate, MethodRiemann:
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidJob, j.Method)
	}
	if j.N < 0 {
		return fmt.Errorf("%w: n must be >= 0, got %d", ErrInvalidJob, j.N)
	}
	return nil
}

package provider

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Static answers queries from captured output. Queries without an entry
// return empty output, which reads as absence.
type Static struct {
	Name    string
	Outputs map[Query]string
}

// NewStatic creates a provider backed by an in-memory map
func NewStatic(name string, outputs map[Query]string) *Static {
	if outputs == nil {
		outputs = make(map[Query]string)
	}
	return &Static{Name: name, Outputs: outputs}
}

// LoadReplay reads captured output from dir, one file per query named
// "<query>.txt" (for example "vd-list.txt").
func LoadReplay(dir string) (*Static, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "replay directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("replay path %s is not a directory", dir)
	}

	s := NewStatic(dir, nil)
	for q := range queryArgs {
		data, err := os.ReadFile(filepath.Join(dir, string(q)+".txt"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", q)
		}
		s.Outputs[q] = string(data)
	}
	return s, nil
}

// Run returns the captured output for the query
func (s *Static) Run(ctx context.Context, q Query) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(ErrTimeout, err.Error())
	}
	return Result{Output: s.Outputs[q]}, nil
}

// Target returns the provider name
func (s *Static) Target() string {
	return s.Name
}

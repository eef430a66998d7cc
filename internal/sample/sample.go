// Package sample reads laboratory measurement documents.
//
// Two layouts are accepted. A flat mapping of property name to value:
//
//	moisture: 20
//	ph: 7.1
//
// or a document carrying an identifier:
//
//	id: batch-7
//	measurements:
//	  moisture: 20
//	  ph: 7.1
package sample

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/cue"
	"github.com/dotcommander/cqe/internal/discovery"
)

// maxFileSize bounds sample files read from disk.
const maxFileSize = 1 << 20

// Sample is one set of laboratory measurements.
type Sample struct {
	ID           string
	Path         string
	Measurements compost.Inputs
}

// Load reads and parses a discovered sample file. The ID defaults to the
// file name without its extension.
func Load(f discovery.File) (*Sample, error) {
	if f.Size > maxFileSize {
		return nil, fmt.Errorf("%s: sample file too large (%d bytes)", f.RelPath, f.Size)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading sample: %w", err)
	}

	base := filepath.Base(f.Path)
	s, err := Parse(strings.TrimSuffix(base, filepath.Ext(base)), data)
	if err != nil {
		return nil, err
	}
	s.Path = f.Path
	return s, nil
}

// Parse decodes a sample document. defaultID is used when the document
// carries no id of its own.
func Parse(defaultID string, data []byte) (*Sample, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding sample: %v: %w", err, compost.ErrInvalidInput)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sample document is empty: %w", compost.ErrMissingInput)
	}

	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, err
	}
	violations, err := v.ValidateSample(raw)
	if err != nil {
		return nil, fmt.Errorf("sample schema: %v: %w", err, compost.ErrInvalidInput)
	}
	if len(violations) > 0 {
		return nil, fmt.Errorf("sample schema: %s: %w", cue.Join(violations), compost.ErrInvalidInput)
	}

	s := &Sample{ID: defaultID}
	values := raw
	if nested, ok := raw["measurements"].(map[string]any); ok {
		values = nested
		if id, ok := raw["id"].(string); ok && id != "" {
			s.ID = id
		}
	}

	s.Measurements = make(compost.Inputs, len(values))
	for name, value := range values {
		f, err := toFloat(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, compost.ErrInvalidInput)
		}
		s.Measurements[name] = f
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("value %v is not a number", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", v)
	}
	return f, nil
}

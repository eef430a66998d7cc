package cli

import (
	"context"
	"fmt"

	"github.com/dotcommander/cqe/internal/sample"
)

// CheckResult is the outcome of validating one sample file without scoring it
type CheckResult struct {
	File     string
	SampleID string
	Problems []string
}

// Valid reports whether the sample can be evaluated.
func (r CheckResult) Valid() bool {
	return len(r.Problems) == 0
}

// Check loads every discovered sample and reports what would keep it from
// being evaluated. Samples are never built or scored.
func (ctx *EvaluatorContext) Check(c context.Context) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(ctx.Files))
	for _, file := range ctx.Files {
		if err := c.Err(); err != nil {
			return nil, fmt.Errorf("validation cancelled: %w", err)
		}

		result := CheckResult{File: file.RelPath}
		s, err := sample.Load(file)
		if err == nil {
			result.SampleID = s.ID
			err = s.Check(ctx.parameters)
		}
		result.Problems = problems(err)
		if !result.Valid() {
			ctx.Logger.Debug("sample invalid", "file", file.RelPath, "problems", len(result.Problems))
		}
		results = append(results, result)
	}
	return results, nil
}

func problems(err error) []string {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/discovery"
	"github.com/dotcommander/cqe/internal/sample"
	"github.com/dotcommander/cqe/internal/scoring"
)

// EvalResult is the outcome for one sample file
type EvalResult struct {
	File     string
	Report   *scoring.Report // nil when the sample could not be evaluated
	Error    string          // Evaluation failure, empty on success
	Kind     string          // Failure class: invalid-input, missing-input, configuration
	Success  bool
	Duration int64 // milliseconds
}

// EvalSummary summarizes all evaluation results
type EvalSummary struct {
	RootPath          string
	Standard          string
	ParamsSource      string
	StartTime         time.Time
	TotalFiles        int
	CompliantFiles    int
	NonCompliantFiles int
	FailedFiles       int
	Duration          int64
	Results           []EvalResult
}

// HasFailures reports whether any sample could not be evaluated.
func (s *EvalSummary) HasFailures() bool {
	return s.FailedFiles > 0
}

// HasNonCompliant reports whether any evaluated sample is non-compliant.
func (s *EvalSummary) HasNonCompliant() bool {
	return s.NonCompliantFiles > 0
}

// Evaluate scores every discovered sample. Up to ctx.Workers files are in
// flight at once, each with its own Compost; results keep discovery order. A failing
// sample is recorded in its result and does not stop the run. The returned
// error is only set when the context is cancelled.
func (ctx *EvaluatorContext) Evaluate(c context.Context) (*EvalSummary, error) {
	summary := ctx.NewSummary()
	summary.StartTime = time.Now()
	results := make([]EvalResult, len(ctx.Files))

	g, gctx := errgroup.WithContext(c)
	g.SetLimit(ctx.Workers)

	for i, file := range ctx.Files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = ctx.evaluateFile(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	for _, r := range results {
		switch {
		case !r.Success:
			summary.FailedFiles++
		case r.Report.Compliant:
			summary.CompliantFiles++
		default:
			summary.NonCompliantFiles++
		}
	}
	summary.Results = results
	summary.Duration = time.Since(summary.StartTime).Milliseconds()

	ctx.Logger.Info("evaluation complete",
		"files", summary.TotalFiles,
		"compliant", summary.CompliantFiles,
		"non_compliant", summary.NonCompliantFiles,
		"failed", summary.FailedFiles,
	)
	return summary, nil
}

func (ctx *EvaluatorContext) evaluateFile(file discovery.File) EvalResult {
	start := time.Now()
	result := EvalResult{File: file.RelPath}

	s, err := sample.Load(file)
	if err == nil {
		var report scoring.Report
		report, err = ctx.EvaluateSample(s)
		if err == nil {
			report.Source = file.RelPath
			result.Report = &report
			result.Success = true
		}
	}
	if err != nil {
		result.Error = err.Error()
		result.Kind = ErrorKind(err)
		ctx.Logger.Warn("sample rejected", "file", file.RelPath, "kind", result.Kind, "error", err)
	} else {
		ctx.Logger.Debug("sample evaluated", "file", file.RelPath,
			slog.Bool("compliant", result.Report.Compliant),
			slog.Float64("fertility_index", result.Report.FertilityIndex),
			slog.Float64("clean_index", result.Report.CleanIndex),
		)
	}

	result.Duration = time.Since(start).Milliseconds()
	return result
}

// EvaluateSample builds and scores a single sample.
func (ctx *EvaluatorContext) EvaluateSample(s *sample.Sample) (scoring.Report, error) {
	c, err := compost.Build(ctx.parameters, s.Measurements)
	if err != nil {
		return scoring.Report{}, fmt.Errorf("%s: %w", s.ID, err)
	}
	report, err := scoring.NewReport(c, scoring.Options{
		SampleID: s.ID,
		Source:   s.Path,
		Standard: ctx.Params.Standard,
		Policy:   ctx.policy,
	})
	if err != nil {
		return scoring.Report{}, fmt.Errorf("%s: %w", s.ID, err)
	}
	return report, nil
}

// ErrorKind classifies an evaluation error for reporting.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, compost.ErrMissingInput):
		return "missing-input"
	case errors.Is(err, compost.ErrInvalidInput):
		return "invalid-input"
	case errors.Is(err, compost.ErrMissingConfiguration), errors.Is(err, compost.ErrInvalidConfiguration):
		return "configuration"
	case errors.Is(err, compost.ErrDivisionUndefined):
		return "undefined-index"
	default:
		return "error"
	}
}

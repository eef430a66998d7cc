// Package cli runs sample evaluations for the cqe commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dotcommander/cqe/internal/compost"
	"github.com/dotcommander/cqe/internal/discovery"
	"github.com/dotcommander/cqe/internal/grade"
	"github.com/dotcommander/cqe/internal/params"
)

// EvaluatorContext holds the shared state for an evaluation run: the
// reference table converted once, and the discovered sample files.
type EvaluatorContext struct {
	RootPath   string
	Params     *params.File
	Workers    int
	Logger     *slog.Logger
	Discoverer *discovery.FileDiscovery
	Files      []discovery.File

	parameters compost.Parameters
	policy     grade.Policy
}

// Options configure an evaluation run.
type Options struct {
	// RootPath anchors relative sample arguments; empty means the working directory.
	RootPath string
	// Args are files, directories or globs; empty means the root directory.
	Args           []string
	Workers        int // <= 0 means one sample at a time
	FollowSymlinks bool
	Logger         *slog.Logger
}

// NewEvaluatorContext converts the parameter table and resolves the sample
// arguments.
func NewEvaluatorContext(table *params.File, opts Options) (*EvaluatorContext, error) {
	rootPath := opts.RootPath
	if rootPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error finding working directory: %w", err)
		}
		rootPath = wd
	}
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", rootPath, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := max(opts.Workers, 1)

	ctx, err := newEvaluator(table, logger)
	if err != nil {
		return nil, err
	}
	ctx.RootPath = rootPath
	ctx.Workers = workers
	ctx.Discoverer = discovery.NewFileDiscovery(rootPath, opts.FollowSymlinks)

	args := opts.Args
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := ctx.Discoverer.Resolve(args)
	if err != nil {
		return nil, fmt.Errorf("error discovering samples: %w", err)
	}
	ctx.Files = files

	logger.Debug("samples discovered", "root", rootPath, "count", len(files), "params", table.Source())
	return ctx, nil
}

func newEvaluator(table *params.File, logger *slog.Logger) (*EvaluatorContext, error) {
	if table == nil {
		return nil, fmt.Errorf("no parameter table: %w", compost.ErrMissingConfiguration)
	}
	parameters, err := table.Parameters()
	if err != nil {
		return nil, err
	}
	policy, err := table.Policy()
	if err != nil {
		return nil, err
	}
	return &EvaluatorContext{
		Params:     table,
		Workers:    1,
		Logger:     logger,
		parameters: parameters,
		policy:     policy,
	}, nil
}

// NewSummary creates an initialized EvalSummary for this context.
func (ctx *EvaluatorContext) NewSummary() *EvalSummary {
	return &EvalSummary{
		RootPath:     ctx.RootPath,
		Standard:     ctx.Params.Standard,
		ParamsSource: ctx.Params.Source(),
		TotalFiles:   len(ctx.Files),
	}
}

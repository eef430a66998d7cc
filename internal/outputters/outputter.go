package outputters

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/config"
	"github.com/dotcommander/cqe/internal/output"
)

// Formatter renders an evaluation summary
type Formatter interface {
	Format(summary *cli.EvalSummary) error
}

// FormatterFactory creates a Formatter for a format name writing to w
type FormatterFactory interface {
	CreateFormatter(format string, w io.Writer) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters in internal/output
type DefaultFormatterFactory struct {
	config *config.Config
}

// CreateFormatter returns the console, json or markdown formatter
func (f *DefaultFormatterFactory) CreateFormatter(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(w, f.config.Quiet, f.config.Verbose), nil
	case "json":
		return output.NewJSONFormatter(w, true), nil
	case "markdown":
		return output.NewMarkdownFormatter(w, f.config.Verbose), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
	stdout  io.Writer
}

// NewOutputter creates a new Outputter writing to stdout or config.Output
func NewOutputter(cfg *config.Config) *Outputter {
	return NewOutputterWithFactory(cfg, &DefaultFormatterFactory{config: cfg})
}

// NewOutputterWithFactory creates an Outputter with a custom factory
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
		stdout:  os.Stdout,
	}
}

// SetStdout redirects output that is not sent to a file
func (o *Outputter) SetStdout(w io.Writer) {
	o.stdout = w
}

// Format formats the evaluation summary using the given format
func (o *Outputter) Format(summary *cli.EvalSummary, format string) error {
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}
	if summary.RootPath == "" {
		summary.RootPath = o.config.Root
	}

	if o.config.Output == "" {
		formatter, err := o.factory.CreateFormatter(format, o.stdout)
		if err != nil {
			return err
		}
		return formatter.Format(summary)
	}

	// Render before touching the file; a failed render leaves it unchanged.
	var buf bytes.Buffer
	formatter, err := o.factory.CreateFormatter(format, &buf)
	if err != nil {
		return err
	}
	if err := formatter.Format(summary); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(o.config.Output), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(o.config.Output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing to file %s: %w", o.config.Output, err)
	}
	return nil
}

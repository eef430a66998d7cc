package outputters

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/cqe/internal/cli"
	"github.com/dotcommander/cqe/internal/config"
)

// =============================================================================
// Mock Formatter for testing
// =============================================================================

type mockFormatter struct {
	formatCalled bool
	formatError  error
	summary      *cli.EvalSummary
}

func (m *mockFormatter) Format(summary *cli.EvalSummary) error {
	m.formatCalled = true
	m.summary = summary
	return m.formatError
}

type mockFormatterFactory struct {
	createCalled    bool
	requestedFormat string
	writer          io.Writer
	formatter       Formatter
	createError     error
}

func (m *mockFormatterFactory) CreateFormatter(format string, w io.Writer) (Formatter, error) {
	m.createCalled = true
	m.requestedFormat = format
	m.writer = w
	if m.createError != nil {
		return nil, m.createError
	}
	return m.formatter, nil
}

func TestNewOutputter(t *testing.T) {
	cfg := &config.Config{Format: "console"}
	outputter := NewOutputter(cfg)

	if outputter.config != cfg {
		t.Errorf("NewOutputter() config = %v, want %v", outputter.config, cfg)
	}
	if _, ok := outputter.factory.(*DefaultFormatterFactory); !ok {
		t.Errorf("NewOutputter() factory type = %T, want *DefaultFormatterFactory", outputter.factory)
	}
	if outputter.stdout != os.Stdout {
		t.Error("NewOutputter() does not write to stdout by default")
	}
}

func TestOutputter_Format_Success(t *testing.T) {
	cfg := &config.Config{Root: "/lab"}
	mockForm := &mockFormatter{}
	mockFactory := &mockFormatterFactory{formatter: mockForm}

	var buf bytes.Buffer
	outputter := NewOutputterWithFactory(cfg, mockFactory)
	outputter.SetStdout(&buf)

	summary := &cli.EvalSummary{TotalFiles: 2}
	if err := outputter.Format(summary, "console"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if mockFactory.requestedFormat != "console" {
		t.Errorf("requested format = %s, want console", mockFactory.requestedFormat)
	}
	if mockFactory.writer != &buf {
		t.Error("formatter was not given the stdout writer")
	}
	if mockForm.summary != summary {
		t.Error("Format() passed wrong summary to formatter")
	}
	if summary.RootPath != "/lab" {
		t.Errorf("RootPath = %q, want /lab", summary.RootPath)
	}
}

func TestOutputter_Format_StartTime(t *testing.T) {
	outputter := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: &mockFormatter{}})

	summary := &cli.EvalSummary{}
	before := time.Now()
	if err := outputter.Format(summary, "json"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if summary.StartTime.Before(before) {
		t.Errorf("StartTime = %v, want >= %v", summary.StartTime, before)
	}

	existing := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	summary = &cli.EvalSummary{StartTime: existing}
	if err := outputter.Format(summary, "json"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !summary.StartTime.Equal(existing) {
		t.Errorf("Format() changed StartTime to %v", summary.StartTime)
	}
}

func TestOutputter_Format_Errors(t *testing.T) {
	createErr := errors.New("no such format")
	outputter := NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{createError: createErr})
	if err := outputter.Format(&cli.EvalSummary{}, "xml"); !errors.Is(err, createErr) {
		t.Errorf("Format() error = %v, want %v", err, createErr)
	}

	formatErr := errors.New("write failed")
	outputter = NewOutputterWithFactory(&config.Config{}, &mockFormatterFactory{formatter: &mockFormatter{formatError: formatErr}})
	if err := outputter.Format(&cli.EvalSummary{}, "json"); !errors.Is(err, formatErr) {
		t.Errorf("Format() error = %v, want %v", err, formatErr)
	}
}

func TestOutputter_Format_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.md")
	cfg := &config.Config{Format: "markdown", Output: path}

	if err := NewOutputter(cfg).Format(&cli.EvalSummary{ParamsSource: "(built-in)"}, "markdown"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "# Compost Quality Report") {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestDefaultFormatterFactory(t *testing.T) {
	factory := &DefaultFormatterFactory{config: &config.Config{}}
	for _, format := range []string{"console", "json", "markdown"} {
		f, err := factory.CreateFormatter(format, io.Discard)
		if err != nil || f == nil {
			t.Errorf("CreateFormatter(%q) = %v, %v", format, f, err)
		}
	}
	if _, err := factory.CreateFormatter("xml", io.Discard); err == nil {
		t.Error("CreateFormatter(xml) succeeded, want error")
	}
}

func TestOutputter_Format_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xml")

	err := NewOutputter(&config.Config{Output: path}).Format(&cli.EvalSummary{}, "xml")
	if err == nil {
		t.Fatal("Format(xml) succeeded, want error")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("output file created for unsupported format: %v", statErr)
	}

	existing := filepath.Join(dir, "report.json")
	if err := os.WriteFile(existing, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}
	formatErr := errors.New("write failed")
	outputter := NewOutputterWithFactory(&config.Config{Output: existing}, &mockFormatterFactory{formatter: &mockFormatter{formatError: formatErr}})
	if err := outputter.Format(&cli.EvalSummary{}, "json"); !errors.Is(err, formatErr) {
		t.Fatalf("Format() error = %v, want %v", err, formatErr)
	}
	data, err := os.ReadFile(existing)
	if err != nil || string(data) != "previous" {
		t.Errorf("existing report changed: %q, %v", data, err)
	}
}

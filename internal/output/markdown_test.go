package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/cqe/internal/cli"
)

func TestMarkdownFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, false)
	f.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	if err := f.Format(testSummary(t)); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Compost Quality Report",
		"**Generated:** 2026-05-01 12:00:00",
		"**Standard:** default",
		"| Samples | 3 |",
		"| north-1 | north-1.yaml | ✅ | 3.53 | 4.22 | ungraded |",
		"| - | broken.yaml | ❌ | - | - | - |",
		"### south-2.yaml",
		"Non-compliant: ph",
		"### broken.yaml",
		"`missing-input` lead: missing input",
		"✗ 1 samples could not be evaluated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "### north-1.yaml") {
		t.Errorf("compliant sample detailed without verbose")
	}
}

func TestMarkdownFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, true).Format(testSummary(t)); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "### north-1.yaml") {
		t.Errorf("verbose markdown missing compliant detail")
	}
	if !strings.Contains(out, "| Nitrogen | 1 % | [0.8, 100] | ✅ | 3/5 ×3 |") {
		t.Errorf("verbose markdown missing nitrogen row:\n%s", out)
	}
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, false).Format(&cli.EvalSummary{}); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(buf.String(), "*No samples evaluated.*") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "✓ All samples compliant") {
		t.Errorf("unexpected conclusion:\n%s", buf.String())
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b"); got != `a\|b` {
		t.Errorf("escapeCell = %q", got)
	}
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crystalline/abacus/internal/abacus"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()

	n, err := abacus.Parse("123.45", 10, 4)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer n.Release()

	path := filepath.Join(t.TempDir(), "session", "results.txt")
	cfg := OutputConfig{OutputFile: path}
	if err := WriteResultToFile(n, "divf", 3*time.Millisecond, cfg); err != nil {
		t.Fatalf("WriteResultToFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	for _, want := range []string{"# Operation: divf", "# Base: 10", "# Layout: dense", "123.45"} {
		if !strings.Contains(got, want) {
			t.Errorf("output file missing %q:\n%s", want, got)
		}
	}

	// A second result appends rather than truncates.
	if err := WriteResultToFile(n, "add", time.Millisecond, cfg); err != nil {
		t.Fatalf("WriteResultToFile append: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Count(string(data), "123.45") != 2 {
		t.Errorf("append did not keep the first result:\n%s", data)
	}
}

func TestWriteResultToFileNoPath(t *testing.T) {
	t.Parallel()

	n, err := abacus.Parse("1", 10, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer n.Release()
	if err := WriteResultToFile(n, "add", 0, OutputConfig{}); err != nil {
		t.Errorf("empty OutputFile should be a no-op, got %v", err)
	}
}

func TestDisplayQuietResult(t *testing.T) {
	t.Parallel()

	n, err := abacus.Parse("-7.5", 10, 2)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer n.Release()

	var buf bytes.Buffer
	DisplayQuietResult(&buf, n)
	if got := buf.String(); got != "-7.5\n" {
		t.Errorf("DisplayQuietResult wrote %q, want %q", got, "-7.5\n")
	}
}

func TestTruncateForDisplay(t *testing.T) {
	t.Parallel()

	short := strings.Repeat("7", TruncationLimit)
	if got := TruncateForDisplay(short); got != short {
		t.Errorf("string at the limit was modified: %q", got)
	}

	long := strings.Repeat("1", 60) + strings.Repeat("2", 60)
	got := TruncateForDisplay(long)
	wantLen := 2*DisplayEdges + len("...")
	if len(got) != wantLen {
		t.Errorf("truncated length %d, want %d", len(got), wantLen)
	}
	if !strings.HasPrefix(got, strings.Repeat("1", DisplayEdges)) {
		t.Errorf("truncation lost the leading digits: %q", got)
	}
	if !strings.HasSuffix(got, strings.Repeat("2", DisplayEdges)) {
		t.Errorf("truncation lost the trailing digits: %q", got)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("truncation marker missing: %q", got)
	}
}

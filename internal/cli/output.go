// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/crystalline/abacus/internal/abacus"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode suppresses verbose output.
	Quiet bool
}

// WriteResultToFile appends a computed result to the configured output file.
// Each result carries a small header recording the operation, timing, and
// representation details so a session log stays self-describing.
func WriteResultToFile(result *abacus.Number, op string, duration time.Duration, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.OpenFile(config.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	layout := "dense"
	if result.IsSparse() {
		layout = "sparse"
	}

	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Operation: %s\n", op)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Base: %d\n", result.Base())
	fmt.Fprintf(file, "# Layout: %s\n", layout)
	fmt.Fprintf(file, "%s\n\n", result.String())

	return nil
}

// FormatQuietResult formats a result for quiet mode output.
// Returns a single-line result suitable for scripting.
func FormatQuietResult(result *abacus.Number) string {
	return result.String()
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
func DisplayQuietResult(out io.Writer, result *abacus.Number) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

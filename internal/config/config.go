// Package config defines the application configuration and the command-line
// and environment parsing that produces it.
//
// Resolution priority is: CLI flags > environment variables (ABACUS_ prefix)
// > adaptive hardware estimation > static defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	numerr "github.com/crystalline/abacus/internal/errors"
)

// EnvPrefix is prepended to every environment variable the application reads.
const EnvPrefix = "ABACUS_"

// Default configuration values.
const (
	// DefaultBase is the positional base used when none is requested.
	DefaultBase = 10
	// DefaultPrecision is the fractional digit count for inexact operations.
	DefaultPrecision = 32
	// DefaultTimeout bounds a single interactive evaluation.
	DefaultTimeout = 5 * time.Minute
)

// AppConfig holds the complete, resolved application configuration.
type AppConfig struct {
	// Base is the positional base for the session, in [2, 256].
	Base uint
	// Precision is the number of fractional digits retained by inexact
	// operations (fractional division, roots, transcendentals).
	Precision uint
	// NTTThreshold is the digit count from which multiplication switches to
	// the number-theoretic transform. Zero selects an adaptive estimate;
	// a negative value disables the NTT path entirely.
	NTTThreshold int
	// BeadLimit caps the number of beads a single allocation may request.
	// Zero selects an estimate derived from host memory.
	BeadLimit uint64
	// Timeout bounds each evaluation in interactive and one-shot modes.
	Timeout time.Duration
	// Eval holds a semicolon-separated command sequence to evaluate and
	// print without entering the interactive loop.
	Eval string
	// OutputFile receives results in addition to standard output.
	OutputFile string
	// MetricsAddr, when non-empty, serves Prometheus metrics on that address.
	MetricsAddr string
	// Completion selects shell completion script generation (bash or zsh).
	Completion string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses banners and progress decoration.
	Quiet bool
	// TUI launches the terminal dashboard instead of the line REPL.
	TUI bool
	// NoColor disables ANSI color output.
	NoColor bool
}

// ParseConfig parses command-line arguments and environment variables into an
// AppConfig. It returns flag.ErrHelp when the user requested usage output.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Base:      DefaultBase,
		Precision: DefaultPrecision,
		Timeout:   DefaultTimeout,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.UintVar(&cfg.Base, "base", DefaultBase, "positional base (2-256)")
	fs.UintVar(&cfg.Base, "b", DefaultBase, "positional base (shorthand)")
	fs.UintVar(&cfg.Precision, "prec", DefaultPrecision, "fractional digits for inexact operations")
	fs.UintVar(&cfg.Precision, "p", DefaultPrecision, "fractional digits (shorthand)")
	fs.IntVar(&cfg.NTTThreshold, "ntt-threshold", 0, "digit count activating NTT multiplication (0 = adaptive, <0 = off)")
	fs.Uint64Var(&cfg.BeadLimit, "bead-limit", 0, "maximum beads per allocation (0 = derive from host memory)")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "evaluation timeout")
	fs.StringVar(&cfg.Eval, "eval", "", "evaluate a command sequence and exit")
	fs.StringVar(&cfg.Eval, "e", "", "evaluate a command sequence (shorthand)")
	fs.StringVar(&cfg.OutputFile, "output", "", "also write results to this file")
	fs.StringVar(&cfg.OutputFile, "o", "", "output file (shorthand)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	fs.StringVar(&cfg.Completion, "completion", "", "generate shell completion script (bash|zsh)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "enable debug logging (shorthand)")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress banners and progress output")
	fs.BoolVar(&cfg.Quiet, "q", false, "suppress banners (shorthand)")
	fs.BoolVar(&cfg.TUI, "tui", false, "launch the terminal dashboard")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Arbitrary-base, arbitrary-precision interactive calculator.\n\n")
		fmt.Fprintf(errWriter, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no mode can run with.
func (c AppConfig) Validate() error {
	if c.Base < 2 || c.Base > 256 {
		return numerr.InvalidBaseError{Base: uint32(c.Base)}
	}
	if c.Precision > 1<<20 {
		return fmt.Errorf("precision %d exceeds the supported maximum of %d", c.Precision, 1<<20)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	switch c.Completion {
	case "", "bash", "zsh":
	default:
		return fmt.Errorf("unsupported completion shell %q (want bash or zsh)", c.Completion)
	}
	return nil
}

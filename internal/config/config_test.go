package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"
	"time"

	numerr "github.com/crystalline/abacus/internal/errors"
)

func parseArgs(t *testing.T, args ...string) AppConfig {
	t.Helper()
	var buf bytes.Buffer
	cfg, err := ParseConfig("abacus", args, &buf)
	if err != nil {
		t.Fatalf("ParseConfig(%v): %v\n%s", args, err, buf.String())
	}
	return cfg
}

func TestParseConfigDefaults(t *testing.T) {
	cfg := parseArgs(t)

	if cfg.Base != DefaultBase {
		t.Errorf("Base = %d, want %d", cfg.Base, DefaultBase)
	}
	if cfg.Precision != DefaultPrecision {
		t.Errorf("Precision = %d, want %d", cfg.Precision, DefaultPrecision)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.NTTThreshold != 0 || cfg.BeadLimit != 0 {
		t.Errorf("adaptive fields not zero: ntt=%d beads=%d", cfg.NTTThreshold, cfg.BeadLimit)
	}
	if cfg.Verbose || cfg.Quiet || cfg.TUI || cfg.NoColor {
		t.Error("boolean flags default on")
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg := parseArgs(t,
		"-base", "16",
		"-prec", "64",
		"-ntt-threshold", "512",
		"-bead-limit", "1000000",
		"-timeout", "30s",
		"-eval", "add 1 2",
		"-output", "/tmp/results.txt",
		"-metrics-addr", ":9090",
		"-verbose",
		"-tui",
	)

	if cfg.Base != 16 {
		t.Errorf("Base = %d, want 16", cfg.Base)
	}
	if cfg.Precision != 64 {
		t.Errorf("Precision = %d, want 64", cfg.Precision)
	}
	if cfg.NTTThreshold != 512 {
		t.Errorf("NTTThreshold = %d, want 512", cfg.NTTThreshold)
	}
	if cfg.BeadLimit != 1000000 {
		t.Errorf("BeadLimit = %d, want 1000000", cfg.BeadLimit)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Eval != "add 1 2" {
		t.Errorf("Eval = %q", cfg.Eval)
	}
	if cfg.OutputFile != "/tmp/results.txt" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if !cfg.Verbose || !cfg.TUI {
		t.Error("boolean flags not applied")
	}
}

func TestParseConfigShorthands(t *testing.T) {
	cfg := parseArgs(t, "-b", "60", "-p", "8", "-e", "const pi", "-q")

	if cfg.Base != 60 || cfg.Precision != 8 {
		t.Errorf("shorthand base/prec = %d/%d, want 60/8", cfg.Base, cfg.Precision)
	}
	if cfg.Eval != "const pi" || !cfg.Quiet {
		t.Errorf("shorthand eval/quiet not applied: %+v", cfg)
	}
}

func TestParseConfigHelp(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("abacus", []string{"-h"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("ParseConfig(-h): %v, want flag.ErrHelp", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Usage: abacus")) {
		t.Errorf("usage output missing header:\n%s", buf.String())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := AppConfig{Base: 10, Precision: 32, Timeout: time.Minute}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	for _, base := range []uint{0, 1, 257} {
		c := valid
		c.Base = base
		var invalid numerr.InvalidBaseError
		if err := c.Validate(); !errors.As(err, &invalid) {
			t.Errorf("base %d: %v, want InvalidBaseError", base, err)
		}
	}

	c := valid
	c.Precision = 1<<20 + 1
	if err := c.Validate(); err == nil {
		t.Error("excessive precision accepted")
	}

	c = valid
	c.Timeout = 0
	if err := c.Validate(); err == nil {
		t.Error("zero timeout accepted")
	}

	c = valid
	c.Completion = "fish"
	if err := c.Validate(); err == nil {
		t.Error("unsupported completion shell accepted")
	}
	c.Completion = "zsh"
	if err := c.Validate(); err != nil {
		t.Errorf("zsh completion rejected: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ABACUS_BASE", "2")
	t.Setenv("ABACUS_PRECISION", "100")
	t.Setenv("ABACUS_TIMEOUT", "90s")
	t.Setenv("ABACUS_EVAL", "mul 6 7")
	t.Setenv("ABACUS_VERBOSE", "yes")
	t.Setenv("ABACUS_NO_COLOR", "1")

	cfg := parseArgs(t)

	if cfg.Base != 2 {
		t.Errorf("Base = %d, want env override 2", cfg.Base)
	}
	if cfg.Precision != 100 {
		t.Errorf("Precision = %d, want env override 100", cfg.Precision)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.Eval != "mul 6 7" {
		t.Errorf("Eval = %q", cfg.Eval)
	}
	if !cfg.Verbose || !cfg.NoColor {
		t.Error("boolean env overrides not applied")
	}
}

func TestCLIFlagsBeatEnv(t *testing.T) {
	t.Setenv("ABACUS_BASE", "2")
	t.Setenv("ABACUS_QUIET", "true")

	cfg := parseArgs(t, "-b", "16")

	// The shorthand flag suppresses the BASE override; QUIET still applies.
	if cfg.Base != 16 {
		t.Errorf("Base = %d, want the flag value 16", cfg.Base)
	}
	if !cfg.Quiet {
		t.Error("unrelated env override dropped")
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("ABACUS_PRECISION", "not-a-number")
	t.Setenv("ABACUS_TIMEOUT", "soon")
	t.Setenv("ABACUS_VERBOSE", "maybe")

	cfg := parseArgs(t)

	if cfg.Precision != DefaultPrecision {
		t.Errorf("Precision = %d, want default after unparseable env", cfg.Precision)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default after unparseable env", cfg.Timeout)
	}
	if cfg.Verbose {
		t.Error("unrecognized boolean env flipped Verbose")
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		val        string
		defaultVal bool
		want       bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"banana", true, true},
		{"banana", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.val, tt.defaultVal); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.val, tt.defaultVal, got, tt.want)
		}
	}
}

func TestApplyAdaptiveThresholds(t *testing.T) {
	t.Parallel()

	cfg := AppConfig{Base: 10, Precision: 32, Timeout: time.Minute}
	out := ApplyAdaptiveThresholds(cfg)
	if out.NTTThreshold <= 0 {
		t.Errorf("NTTThreshold = %d, want a positive estimate", out.NTTThreshold)
	}
	if out.BeadLimit == 0 {
		t.Error("BeadLimit not estimated")
	}

	// Explicit values survive untouched, including the NTT-off sentinel.
	pinned := AppConfig{Base: 10, NTTThreshold: -1, BeadLimit: 42, Timeout: time.Minute}
	out = ApplyAdaptiveThresholds(pinned)
	if out.NTTThreshold != -1 || out.BeadLimit != 42 {
		t.Errorf("pinned thresholds changed: ntt=%d beads=%d", out.NTTThreshold, out.BeadLimit)
	}
}

func TestEstimates(t *testing.T) {
	t.Parallel()

	if got := EstimateOptimalNTTThreshold(); got <= 0 {
		t.Errorf("EstimateOptimalNTTThreshold() = %d", got)
	}
	if got := EstimateBeadLimit(); got < 64<<20 {
		t.Errorf("EstimateBeadLimit() = %d, want at least the 64Mi floor", got)
	}
}

// Package app assembles the configured application: it parses the command
// line, wires the numeric kernel to logging and metrics, and dispatches to
// the completion, one-shot, interactive, or dashboard mode.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/crystalline/abacus/internal/abacus"
	"github.com/crystalline/abacus/internal/cli"
	"github.com/crystalline/abacus/internal/config"
	numerr "github.com/crystalline/abacus/internal/errors"
	"github.com/crystalline/abacus/internal/logging"
	"github.com/crystalline/abacus/internal/metrics"
	"github.com/crystalline/abacus/internal/tui"
	"github.com/crystalline/abacus/internal/ui"
)

// Application represents the abacus application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	registry *metrics.Registry
	logger   logging.Logger
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "abacus"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	cfg = config.ApplyAdaptiveThresholds(cfg)

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	a.setupLogging()
	ui.InitTheme(a.Config.NoColor)
	a.wireKernel()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.MetricsAddr != "" {
		a.startMetricsServer(ctx)
	}

	if a.Config.Eval != "" {
		return a.runEval(ctx, out)
	}
	if a.Config.TUI {
		return tui.Run(ctx, a.Config, Version)
	}
	return a.runREPL(ctx, out)
}

// setupLogging selects the global log level and installs the kernel logger.
func (a *Application) setupLogging() {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	a.logger = logging.NewLogger(a.ErrWriter, "abacus")
}

// wireKernel pushes the resolved configuration into the numeric kernel.
func (a *Application) wireKernel() {
	abacus.SetLogger(a.logger)
	abacus.SetBeadLimit(a.Config.BeadLimit)
	abacus.SetNTTThreshold(a.Config.NTTThreshold)
}

// startMetricsServer exposes Prometheus metrics and keeps the memory gauges
// fresh until ctx ends.
func (a *Application) startMetricsServer(ctx context.Context) {
	a.registry = metrics.NewRegistry()
	abacus.SetMulPathObserver(a.registry.RecordMulPath)

	go func() {
		if err := a.registry.Serve(ctx, a.Config.MetricsAddr); err != nil {
			a.logger.Error("metrics server stopped", err,
				logging.String("addr", a.Config.MetricsAddr))
		}
	}()
	go func() {
		collector := metrics.NewCollector()
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.registry.UpdateMemory(collector.Snapshot())
			}
		}
	}()
}

// newREPL builds a REPL session from the application configuration.
func (a *Application) newREPL(out io.Writer) *cli.REPL {
	repl := cli.NewREPL(cli.REPLConfig{
		Base:       uint32(a.Config.Base),
		Precision:  int32(a.Config.Precision),
		Timeout:    a.Config.Timeout,
		Quiet:      a.Config.Quiet,
		OutputFile: a.Config.OutputFile,
	})
	repl.SetOutput(out)
	if a.registry != nil {
		repl.SetObserver(a.registry)
	}
	return repl
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return numerr.ExitErrorConfig
	}
	return numerr.ExitSuccess
}

// runEval evaluates the --eval command sequence and exits.
func (a *Application) runEval(ctx context.Context, out io.Writer) int {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancel()

	if err := a.newREPL(out).EvalSequence(ctx, a.Config.Eval); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintf(a.ErrWriter, "Evaluation canceled: %v\n", err)
			return numerr.ExitErrorCancel
		}
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return numerr.ExitErrorGeneric
	}
	return numerr.ExitSuccess
}

// runREPL runs the interactive line-oriented session.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	a.newREPL(out).Start(ctx)
	return numerr.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Package cli provides the REPL (Read-Eval-Print Loop) functionality
// for interactive abacus calculations.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crystalline/abacus/internal/abacus"
	numerr "github.com/crystalline/abacus/internal/errors"
	"github.com/crystalline/abacus/internal/format"
	"github.com/crystalline/abacus/internal/transcend"
	"github.com/crystalline/abacus/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Base is the initial positional base for operand parsing and display.
	Base uint32
	// Precision is the initial fractional digit count for inexact operations.
	Precision int32
	// Timeout is the maximum duration for each evaluation.
	Timeout time.Duration
	// Quiet suppresses the banner and the busy spinner.
	Quiet bool
	// OutputFile, when non-empty, also receives every computed result.
	OutputFile string
}

// Observer receives per-operation latency and outcome notifications. It is
// satisfied by the metrics registry; a nil Observer disables reporting.
type Observer interface {
	ObserveOperation(op string, d time.Duration, err error)
}

// REPL represents an interactive abacus session.
type REPL struct {
	config REPLConfig
	base   uint32
	prec   int32
	last   *abacus.Number
	in     io.Reader
	out    io.Writer

	observer Observer
	tracer   trace.Tracer
}

// NewREPL creates a new REPL instance.
func NewREPL(config REPLConfig) *REPL {
	return &REPL{
		config: config,
		base:   config.Base,
		prec:   config.Precision,
		in:     os.Stdin,
		out:    os.Stdout,
		tracer: otel.Tracer("abacus/cli"),
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// SetObserver installs a metrics observer for evaluated operations.
func (r *REPL) SetObserver(obs Observer) {
	r.observer = obs
}

// Start begins the interactive REPL session. It continuously reads user input
// and processes commands until the user exits, EOF is reached, or ctx is done.
func (r *REPL) Start(ctx context.Context) {
	if !r.config.Quiet {
		r.printBanner()
		r.printHelp()
		fmt.Fprintln(r.out)
	}

	reader := bufio.NewReader(r.in)

	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(r.out, ui.ColorGreen()+"abacus> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(ctx, input) {
			return // Exit command received
		}
	}
}

// Eval evaluates a single command line and returns its printable output.
// It is the programmatic entry point used by the TUI front end; "help" and
// "exit" are interactive-only and rejected here.
func (r *REPL) Eval(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	return r.evalCommand(ctx, input)
}

// EvalSequence evaluates a semicolon-separated command sequence without
// entering the interactive loop. The first failing command ends evaluation.
func (r *REPL) EvalSequence(ctx context.Context, input string) error {
	for _, part := range strings.Split(input, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if output, err := r.evalCommand(ctx, part); err != nil {
			return numerr.WrapError(err, "eval %q", part)
		} else if output != "" {
			fmt.Fprintln(r.out, output)
		}
	}
	return nil
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🧮 Crystalline Abacus - Interactive Mode%s              %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sadd/sub/mul <a> <b>%s   - Exact arithmetic\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdiv <a> <b>%s           - Integer quotient and remainder\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdivf <a> <b>%s          - Fractional division at current precision\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scmp <a> <b>%s           - Compare two numbers\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sneg/abs <a>%s           - Sign operations\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sshift <a> <k>%s         - Multiply by base^k\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sgcd/lcm <a> <b>%s       - Number theory (integers only)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scoprime <a> <b>%s       - Coprimality test\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spowmod <a> <e> <m>%s    - Modular exponentiation\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssqrt/sqrtf <a>%s        - Integer / fractional square root\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sroot <a> <k>%s          - Integer k-th root\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssin/cos <a>%s           - Trigonometry (CORDIC)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %satan2 <y> <x>%s         - Two-argument arctangent\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexp/ln <a>%s            - Exponential and natural logarithm\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spow <a> <b>%s           - General power\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sconst <name>%s          - pi, e, ln2, lnbase, phi\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %stext <base>%s           - Re-render last result in another base\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sbase <n>%s / %sprec <n>%s  - Change session base or precision\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %ssparse%s                - Storage details of the last result\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s                - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s                  - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s          - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "\nOperands are literals in the session base; %sans%s recalls the last result.\n",
		ui.ColorCyan(), ui.ColorReset())
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	cmd := strings.ToLower(strings.Fields(input)[0])
	switch cmd {
	case "help", "h", "?":
		r.printHelp()
		return true
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	}

	output, err := r.evalCommand(ctx, input)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		if !numerr.IsRecoverable(err) {
			return false
		}
		return true
	}
	if output != "" {
		fmt.Fprintln(r.out, output)
	}
	return true
}

// evalCommand evaluates a single command line and returns its printable
// output. Numeric results are additionally stored as "ans" and written to the
// output file when one is configured.
func (r *REPL) evalCommand(ctx context.Context, input string) (string, error) {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	if handled, output, err := r.sessionCommand(cmd, args); handled {
		return output, err
	}

	op, ok := replOperations[cmd]
	if !ok {
		return "", fmt.Errorf("unknown command %q (type help for the command list)", cmd)
	}
	if len(args) != op.arity {
		return "", fmt.Errorf("usage: %s %s", cmd, op.usage)
	}

	_, span := r.tracer.Start(ctx, "abacus.eval",
		trace.WithAttributes(attribute.String("op", cmd)))
	defer span.End()

	sp := r.spinner()
	sp.UpdateSuffix(" computing " + cmd + "...")
	sp.Start()
	start := time.Now()
	result, text, err := op.run(r, args)
	duration := time.Since(start)
	sp.Stop()

	if r.observer != nil {
		r.observer.ObserveOperation(cmd, duration, err)
	}
	if err != nil {
		// A precision underflow still carries the best iterate; surface both.
		if result != nil && errors.Is(err, numerr.ErrPrecisionUnderflow) {
			out := r.renderResult(cmd, result, duration) +
				fmt.Sprintf("\n%sWarning: %v%s", ui.ColorYellow(), err, ui.ColorReset())
			r.storeResult(cmd, result, duration)
			return out, nil
		}
		if result != nil {
			result.Release()
		}
		return "", err
	}

	if result == nil {
		return text, nil
	}
	out := r.renderResult(cmd, result, duration)
	if text != "" {
		out += "\n" + text
	}
	r.storeResult(cmd, result, duration)
	return out, nil
}

// spinner returns the busy indicator appropriate for the session mode.
func (r *REPL) spinner() Spinner {
	if r.config.Quiet {
		return noopSpinner{}
	}
	return newSpinner()
}

// storeResult retires the previous "ans" value and installs the new one,
// forwarding it to the output file when configured.
func (r *REPL) storeResult(op string, result *abacus.Number, duration time.Duration) {
	if r.last != nil {
		r.last.Release()
	}
	r.last = result
	if r.config.OutputFile != "" {
		cfg := OutputConfig{OutputFile: r.config.OutputFile, Quiet: r.config.Quiet}
		if err := WriteResultToFile(result, op, duration, cfg); err != nil {
			fmt.Fprintf(r.out, "%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		}
	}
}

// renderResult formats a computed number with its timing and storage details.
func (r *REPL) renderResult(op string, result *abacus.Number, duration time.Duration) string {
	result.OptimizeRepresentation()
	layout := "dense"
	if result.IsSparse() {
		layout = "sparse"
	}
	value := TruncateForDisplay(result.String())
	return fmt.Sprintf("%s%s%s  %s[%s, %s, %s]%s",
		ui.ColorGreen(), value, ui.ColorReset(),
		ui.ColorGrey(), format.FormatExecutionDuration(duration), layout,
		fmt.Sprintf("%.0f%% full", result.Sparsity()*100), ui.ColorReset())
}

// sessionCommand handles the commands that adjust or inspect session state
// rather than computing a number. The first return value reports whether the
// command was recognized.
func (r *REPL) sessionCommand(cmd string, args []string) (bool, string, error) {
	switch cmd {
	case "base":
		if len(args) != 1 {
			return true, "", fmt.Errorf("usage: base <n>")
		}
		b, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil || !abacus.ValidBase(uint32(b)) {
			return true, "", numerr.InvalidBaseError{Base: uint32(b)}
		}
		r.base = uint32(b)
		if r.last != nil {
			r.last.Release()
			r.last = nil
		}
		return true, fmt.Sprintf("Base changed to %s%d%s (ans cleared)", ui.ColorCyan(), b, ui.ColorReset()), nil
	case "prec":
		if len(args) != 1 {
			return true, "", fmt.Errorf("usage: prec <n>")
		}
		p, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil || p < 0 {
			return true, "", fmt.Errorf("invalid precision %q", args[0])
		}
		r.prec = int32(p)
		return true, fmt.Sprintf("Precision changed to %s%d%s fractional digits", ui.ColorCyan(), p, ui.ColorReset()), nil
	case "text":
		if len(args) != 1 {
			return true, "", fmt.Errorf("usage: text <base>")
		}
		if r.last == nil {
			return true, "", fmt.Errorf("no result to re-render yet")
		}
		b, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil || !abacus.ValidBase(uint32(b)) {
			return true, "", numerr.InvalidBaseError{Base: uint32(b)}
		}
		s, err := r.last.Text(uint32(b))
		if err != nil {
			return true, "", err
		}
		return true, fmt.Sprintf("%s%s%s (base %d)", ui.ColorGreen(), TruncateForDisplay(s), ui.ColorReset(), b), nil
	case "sparse":
		if r.last == nil {
			return true, "", fmt.Errorf("no result to inspect yet")
		}
		layout := "dense"
		if r.last.IsSparse() {
			layout = "sparse"
		}
		return true, fmt.Sprintf("Layout: %s%s%s  Density: %s%.2f%s  Memory: %s%d bytes%s",
			ui.ColorCyan(), layout, ui.ColorReset(),
			ui.ColorCyan(), r.last.Sparsity(), ui.ColorReset(),
			ui.ColorCyan(), r.last.MemoryUsage(), ui.ColorReset()), nil
	case "status":
		return true, r.statusText(), nil
	}
	return false, "", nil
}

// statusText renders the current session configuration.
func (r *REPL) statusText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(&b, "  Base:       %s%d%s\n", ui.ColorCyan(), r.base, ui.ColorReset())
	fmt.Fprintf(&b, "  Precision:  %s%d%s fractional digits\n", ui.ColorCyan(), r.prec, ui.ColorReset())
	fmt.Fprintf(&b, "  Timeout:    %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(&b, "  Bead limit: %s%d%s\n", ui.ColorCyan(), abacus.BeadLimit(), ui.ColorReset())
	if r.last != nil {
		fmt.Fprintf(&b, "  ans:        %s%s%s\n", ui.ColorCyan(), TruncateForDisplay(r.last.String()), ui.ColorReset())
	}
	return b.String()
}

// parseOperand turns a command argument into a Number. The literal "ans"
// recalls a copy of the last result; everything else parses in the session
// base.
func (r *REPL) parseOperand(tok string) (*abacus.Number, error) {
	if strings.EqualFold(tok, "ans") {
		if r.last == nil {
			return nil, fmt.Errorf("no previous result for %q", tok)
		}
		return r.last.Copy(), nil
	}
	return abacus.Parse(tok, r.base, r.prec)
}

// replOperation describes a single computing command: its argument shape and
// the function that evaluates it. Operations may return a Number, a plain
// text line, or both.
type replOperation struct {
	arity int
	usage string
	run   func(r *REPL, args []string) (*abacus.Number, string, error)
}

// replOperations is the declarative table of all computing commands.
var replOperations = map[string]replOperation{
	"add": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return z.Add(a, b) })
	}},
	"sub": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return z.Sub(a, b) })
	}},
	"mul": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return z.Mul(a, b) })
	}},
	"div": {2, "<a> <b>", (*REPL).cmdDiv},
	"divf": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return z.DivFrac(a, b, prec) })
	}},
	"cmp": {2, "<a> <b>", (*REPL).cmdCmp},
	"neg": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.unaryOp(args, func(z, a *abacus.Number) error { return z.Neg(a) })
	}},
	"abs": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.unaryOp(args, func(z, a *abacus.Number) error { return z.Abs(a) })
	}},
	"shift": {2, "<a> <k>", (*REPL).cmdShift},
	"gcd": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return z.GCD(a, b) })
	}},
	"lcm": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return z.LCM(a, b) })
	}},
	"coprime": {2, "<a> <b>", (*REPL).cmdCoprime},
	"powmod":  {3, "<a> <e> <m>", (*REPL).cmdPowMod},
	"sqrt": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		return r.unaryOp(args, func(z, a *abacus.Number) error { return z.Sqrt(a) })
	}},
	"sqrtf": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.unaryOp(args, func(z, a *abacus.Number) error { return z.SqrtFrac(a, prec) })
	}},
	"root": {2, "<a> <k>", (*REPL).cmdRoot},
	"sin": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.unaryOp(args, func(z, a *abacus.Number) error { return transcend.Sin(z, a, prec) })
	}},
	"cos": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.unaryOp(args, func(z, a *abacus.Number) error { return transcend.Cos(z, a, prec) })
	}},
	"atan2": {2, "<y> <x>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.binaryOp(args, func(z, y, x *abacus.Number) error { return transcend.Atan2(z, y, x, prec) })
	}},
	"exp": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.unaryOp(args, func(z, a *abacus.Number) error { return transcend.Exp(z, a, prec) })
	}},
	"ln": {1, "<a>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.unaryOp(args, func(z, a *abacus.Number) error { return transcend.Ln(z, a, prec) })
	}},
	"pow": {2, "<a> <b>", func(r *REPL, args []string) (*abacus.Number, string, error) {
		prec := r.prec
		return r.binaryOp(args, func(z, a, b *abacus.Number) error { return transcend.Pow(z, a, b, prec) })
	}},
	"const": {1, "<pi|e|ln2|lnbase|phi>", (*REPL).cmdConst},
}

// binaryOp parses two operands and evaluates op into a fresh destination.
func (r *REPL) binaryOp(args []string, op func(z, a, b *abacus.Number) error) (*abacus.Number, string, error) {
	a, err := r.parseOperand(args[0])
	if err != nil {
		return nil, "", err
	}
	defer a.Release()
	b, err := r.parseOperand(args[1])
	if err != nil {
		return nil, "", err
	}
	defer b.Release()
	z, err := abacus.New(r.base)
	if err != nil {
		return nil, "", err
	}
	if err := op(z, a, b); err != nil {
		if errors.Is(err, numerr.ErrPrecisionUnderflow) {
			return z, "", err
		}
		z.Release()
		return nil, "", err
	}
	return z, "", nil
}

// unaryOp parses one operand and evaluates op into a fresh destination.
func (r *REPL) unaryOp(args []string, op func(z, a *abacus.Number) error) (*abacus.Number, string, error) {
	a, err := r.parseOperand(args[0])
	if err != nil {
		return nil, "", err
	}
	defer a.Release()
	z, err := abacus.New(r.base)
	if err != nil {
		return nil, "", err
	}
	if err := op(z, a); err != nil {
		if errors.Is(err, numerr.ErrPrecisionUnderflow) {
			return z, "", err
		}
		z.Release()
		return nil, "", err
	}
	return z, "", nil
}

// cmdDiv computes the truncated quotient and shows the remainder alongside.
func (r *REPL) cmdDiv(args []string) (*abacus.Number, string, error) {
	a, err := r.parseOperand(args[0])
	if err != nil {
		return nil, "", err
	}
	defer a.Release()
	b, err := r.parseOperand(args[1])
	if err != nil {
		return nil, "", err
	}
	defer b.Release()
	q, err := abacus.New(r.base)
	if err != nil {
		return nil, "", err
	}
	rem, err := abacus.New(r.base)
	if err != nil {
		q.Release()
		return nil, "", err
	}
	defer rem.Release()
	if err := q.DivRem(a, b, rem); err != nil {
		q.Release()
		return nil, "", err
	}
	note := fmt.Sprintf("remainder: %s%s%s", ui.ColorCyan(), TruncateForDisplay(rem.String()), ui.ColorReset())
	return q, note, nil
}

// cmdCmp compares two operands and reports the ordering.
func (r *REPL) cmdCmp(args []string) (*abacus.Number, string, error) {
	a, err := r.parseOperand(args[0])
	if err != nil {
		return nil, "", err
	}
	defer a.Release()
	b, err := r.parseOperand(args[1])
	if err != nil {
		return nil, "", err
	}
	defer b.Release()
	c, err := a.Cmp(b)
	if err != nil {
		return nil, "", err
	}
	rel := map[int]string{-1: "<", 0: "=", 1: ">"}[c]
	return nil, fmt.Sprintf("%s %s%s%s %s", args[0], ui.ColorCyan(), rel, ui.ColorReset(), args[1]), nil
}

// cmdShift multiplies an operand by base^k.
func (r *REPL) cmdShift(args []string) (*abacus.Number, string, error) {
	k, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return nil, "", fmt.Errorf("invalid shift amount %q", args[1])
	}
	return r.unaryOp(args[:1], func(z, a *abacus.Number) error { return z.Shift(a, int32(k)) })
}

// cmdCoprime reports whether two integers share no common factor.
func (r *REPL) cmdCoprime(args []string) (*abacus.Number, string, error) {
	a, err := r.parseOperand(args[0])
	if err != nil {
		return nil, "", err
	}
	defer a.Release()
	b, err := r.parseOperand(args[1])
	if err != nil {
		return nil, "", err
	}
	defer b.Release()
	ok, err := a.Coprime(b)
	if err != nil {
		return nil, "", err
	}
	if ok {
		return nil, ui.ColorGreen() + "coprime" + ui.ColorReset(), nil
	}
	return nil, ui.ColorYellow() + "not coprime" + ui.ColorReset(), nil
}

// cmdPowMod evaluates a^e mod m.
func (r *REPL) cmdPowMod(args []string) (*abacus.Number, string, error) {
	a, err := r.parseOperand(args[0])
	if err != nil {
		return nil, "", err
	}
	defer a.Release()
	e, err := r.parseOperand(args[1])
	if err != nil {
		return nil, "", err
	}
	defer e.Release()
	m, err := r.parseOperand(args[2])
	if err != nil {
		return nil, "", err
	}
	defer m.Release()
	z, err := abacus.New(r.base)
	if err != nil {
		return nil, "", err
	}
	if err := z.PowMod(a, e, m); err != nil {
		z.Release()
		return nil, "", err
	}
	return z, "", nil
}

// cmdRoot evaluates the integer k-th root.
func (r *REPL) cmdRoot(args []string) (*abacus.Number, string, error) {
	k, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return nil, "", fmt.Errorf("invalid root degree %q", args[1])
	}
	return r.unaryOp(args[:1], func(z, a *abacus.Number) error { return z.Root(a, uint32(k)) })
}

// cmdConst evaluates a named constant at the session precision.
func (r *REPL) cmdConst(args []string) (*abacus.Number, string, error) {
	var (
		z   *abacus.Number
		err error
	)
	switch strings.ToLower(args[0]) {
	case "pi":
		z, err = transcend.Pi(r.base, r.prec)
	case "e":
		z, err = transcend.E(r.base, r.prec)
	case "ln2":
		z, err = transcend.Ln2(r.base, r.prec)
	case "lnbase":
		z, err = transcend.LnBase(r.base, r.prec)
	case "phi":
		z, err = transcend.Phi(r.base, r.prec)
	default:
		return nil, "", fmt.Errorf("unknown constant %q (want pi, e, ln2, lnbase or phi)", args[0])
	}
	return z, "", err
}

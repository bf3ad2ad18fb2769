package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "base", Short: "b", Help: "Positional base (2-256)", Values: []string{"2", "8", "10", "16", "60", "256"}, ValueName: "base"},
	{Long: "prec", Short: "p", Help: "Fractional digits for inexact operations", Values: []string{"16", "32", "64", "128"}, ValueName: "digits"},
	{Long: "ntt-threshold", Help: "Digit count activating NTT multiplication", Values: []string{"128", "256", "512", "1024"}, ValueName: "digits"},
	{Long: "bead-limit", Help: "Maximum beads per allocation", ValueName: "beads"},
	{Long: "timeout", Help: "Evaluation timeout", Values: []string{"1m", "5m", "10m", "30m", "1h"}, ValueName: "duration"},
	{Long: "eval", Short: "e", Help: "Evaluate a command sequence and exit", ValueName: "commands"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file"},
	{Long: "metrics-addr", Help: "Prometheus metrics listen address", ValueName: "address"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts"},
	{Long: "tui", Help: "Launch the terminal dashboard"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh)", shell)
	}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	// Build opts string from registry
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	// Build case entries from registry: value flags first, then file flags.
	var caseBody strings.Builder
	for _, f := range flagRegistry {
		if len(f.Values) == 0 {
			continue
		}
		caseBody.WriteString("        --" + f.Long + ")\n")
		fmt.Fprintf(&caseBody, `            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`,
			strings.Join(f.Values, " "))
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}
	var filePatterns []string
	for _, f := range flagRegistry {
		if f.IsFile {
			if f.Long != "" {
				filePatterns = append(filePatterns, "--"+f.Long)
			}
			if f.Short != "" {
				filePatterns = append(filePatterns, "-"+f.Short)
			}
		}
	}
	if len(filePatterns) > 0 {
		caseBody.WriteString("        " + strings.Join(filePatterns, "|") + ")\n")
		caseBody.WriteString(`            COMPREPLY=( $(compgen -f -- "${cur}") )`)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for abacus
# Add this to your ~/.bashrc or ~/.bash_completion

_abacus_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _abacus_completions abacus
`, strings.Join(opts, " "), caseBody.String())

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	// Build _arguments entries from registry
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef abacus

# Zsh completion script for abacus
# Add this to your ~/.zshrc or place in $fpath

_abacus() {
    _arguments -s \
%s
}

_abacus "$@"
`, strings.Join(args, " \\\n"))

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	// Build the value suffix
	valueSuffix := ""
	if f.IsFile {
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	} else if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	} else if f.ValueName != "" {
		// Value-taking flag with no suggestions (e.g., --bead-limit)
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		// Has both short and long form
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	}
	// Short only
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
}

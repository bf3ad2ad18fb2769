package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps the output roles of the calculator surfaces to ANSI escape
// codes. Roles, not raw colors: the REPL asks for "a result", "a warning",
// "a muted annotation", and the active theme decides what that looks like.
type Theme struct {
	// Name identifies the theme in ABACUS_THEME and diagnostics.
	Name string
	// Primary colors prompts and headline accents.
	Primary string
	// Secondary colors de-emphasized annotations such as timings.
	Secondary string
	// Success colors computed values and positive confirmations.
	Success string
	// Warning colors recoverable problems and inexact-result notes.
	Warning string
	// Error colors evaluation failures.
	Error string
	// Info colors session facts: bases, precisions, remainders.
	Info string
	// Bold and Underline are text attributes; Reset clears everything.
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // bright blue
		Secondary: "\033[38;5;245m", // grey
		Success:   "\033[38;5;82m",  // bright green
		Warning:   "\033[38;5;220m", // yellow
		Error:     "\033[38;5;196m", // red
		Info:      "\033[38;5;141m", // purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme darkens every role for light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // dark blue
		Secondary: "\033[38;5;240m", // dark grey
		Success:   "\033[38;5;28m",  // dark green
		Warning:   "\033[38;5;130m", // orange
		Error:     "\033[38;5;124m", // dark red
		Info:      "\033[38;5;54m",  // dark purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// CrystalTheme is the signature palette: cool cyan and violet facets.
	CrystalTheme = Theme{
		Name:      "crystal",
		Primary:   "\033[38;5;51m",  // bright cyan
		Secondary: "\033[38;5;245m", // grey
		Success:   "\033[38;5;86m",  // aquamarine
		Warning:   "\033[38;5;221m", // pale gold
		Error:     "\033[38;5;204m", // rose
		Info:      "\033[38;5;147m", // light violet
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme renders every role as plain text. Active when NO_COLOR
	// is set or --no-color is passed.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme. Safe for concurrent use.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetTheme activates the theme with the given name: "dark", "light",
// "crystal" or "none". Unknown names fall back to dark.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = themeByName(name)
}

func themeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "crystal":
		return CrystalTheme
	case "none":
		return NoColorTheme
	default:
		return DarkTheme
	}
}

// InitTheme picks the startup theme. Precedence: the --no-color flag, then
// the NO_COLOR convention (https://no-color.org/, any non-empty value), then
// ABACUS_THEME, then dark.
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = themeByName(os.Getenv("ABACUS_THEME"))
}

// TUIPalette carries the lipgloss colors for the dashboard panels. The
// dashboard derives every style in one place (see tui.initTUIStyles), so a
// palette swap restyles the whole screen.
type TUIPalette struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	// CrystalTUIPalette is the dashboard rendering of the crystal theme:
	// cyan borders, violet accents.
	CrystalTUIPalette = TUIPalette{
		Bg:      lipgloss.Color("#000000"),
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#00B8D4"),
		Accent:  lipgloss.Color("#64FFDA"),
		Warning: lipgloss.Color("#FFD54F"),
		Success: lipgloss.Color("#69F0AE"),
		Error:   lipgloss.Color("#FF5370"),
		Dim:     lipgloss.Color("#666666"),
		Info:    lipgloss.Color("#B39DDB"),
	}

	// NoColorTUIPalette leaves every panel in the terminal's default colors.
	NoColorTUIPalette = TUIPalette{
		Bg:      lipgloss.NoColor{},
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// CurrentTUIPalette returns the dashboard palette matching the active theme.
func CurrentTUIPalette() TUIPalette {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == "none" {
		return NoColorTUIPalette
	}
	return CrystalTUIPalette
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/crystalline/abacus/internal/ui"
)

// Dashboard styles, derived from the active ui palette by initTUIStyles.
var (
	panelStyle  lipgloss.Style
	headerStyle lipgloss.Style
	titleStyle  lipgloss.Style

	dimStyle   lipgloss.Style // labels, separators, key hints
	valueStyle lipgloss.Style // metric readings
	keyStyle   lipgloss.Style // footer key names

	promptStyle lipgloss.Style // echoed "abacus>" lines in the scrollback
	errorStyle  lipgloss.Style // evaluation failures in the scrollback

	chartStyle    lipgloss.Style // CPU sparkline and braille trace
	memChartStyle lipgloss.Style // memory sparkline

	statusBusyStyle  lipgloss.Style
	statusReadyStyle lipgloss.Style
	statusErrorStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds every style from the current palette. Run() calls
// it again after InitTheme has settled the theme, so NO_COLOR sessions get
// unstyled panels.
func initTUIStyles() {
	p := ui.CurrentTUIPalette()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Background(p.Bg).
		Foreground(p.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.Bg).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)

	dimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	valueStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	keyStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	promptStyle = lipgloss.NewStyle().Foreground(p.Info)
	errorStyle = lipgloss.NewStyle().Foreground(p.Error)

	chartStyle = lipgloss.NewStyle().Foreground(p.Accent)
	memChartStyle = lipgloss.NewStyle().Foreground(p.Warning)

	statusBusyStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	statusReadyStyle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
}

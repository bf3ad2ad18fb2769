package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the bottom bar with key hints and session status.
type FooterModel struct {
	width int
	busy  bool
	err   bool
}

// NewFooterModel creates a new footer.
func NewFooterModel() FooterModel {
	return FooterModel{}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// SetBusy marks an evaluation as in flight.
func (f *FooterModel) SetBusy(busy bool) {
	f.busy = busy
}

// SetError marks the last evaluation as failed.
func (f *FooterModel) SetError(err bool) {
	f.err = err
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.busy:
		status = statusBusyStyle.Render(" COMPUTING ")
	case f.err:
		status = statusErrorStyle.Render(" ERROR ")
	default:
		status = statusReadyStyle.Render(" READY ")
	}

	hints := keyStyle.Render("enter") + dimStyle.Render(" eval  ") +
		keyStyle.Render("↑/↓") + dimStyle.Render(" scroll  ") +
		keyStyle.Render("ctrl+l") + dimStyle.Render(" clear  ") +
		keyStyle.Render("ctrl+c") + dimStyle.Render(" quit")

	gap := f.width - lipgloss.Width(status) - lipgloss.Width(hints)
	if gap < 1 {
		gap = 1
	}
	return status + strings.Repeat(" ", gap) + hints
}

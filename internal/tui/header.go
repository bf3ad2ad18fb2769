package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/crystalline/abacus/internal/format"
)

// HeaderModel renders the top bar: title and version on the left, session
// base and precision plus elapsed time on the right.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	base      uint32
	prec      int32
	width     int
}

// NewHeaderModel creates a header for the given build version.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetSession records the numeric session shown on the right of the bar.
func (h *HeaderModel) SetSession(base uint32, prec int32) {
	h.base = base
	h.prec = prec
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header bar.
func (h HeaderModel) View() string {
	title := "Crystalline Abacus"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	left := titleStyle.Render(title)

	var facts []string
	if h.base != 0 {
		facts = append(facts, fmt.Sprintf("base %d", h.base), fmt.Sprintf("prec %d", h.prec))
	}
	facts = append(facts, format.FormatExecutionDuration(h.elapsed()))
	right := dimStyle.Render(strings.Join(facts, " · "))

	gap := (h.width - 2) - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap) + right)
}

package tui

import (
	"fmt"
	"strings"

	"github.com/crystalline/abacus/internal/format"
	"github.com/crystalline/abacus/internal/metrics"
)

// MetricsModel displays runtime memory statistics and system-wide CPU and
// memory usage sparklines.
type MetricsModel struct {
	mem  metrics.MemorySnapshot
	load float64

	opCount  uint64
	errCount uint64

	cpuHistory *SampleRing
	memHistory *SampleRing

	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpuHistory: NewSampleRing(64),
		memHistory: NewSampleRing(64),
	}
}

// SetSize updates dimensions, resizing the sample histories to the panel.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	samples := w - 20
	if samples < 8 {
		samples = 8
	}
	m.cpuHistory.Resize(samples)
	m.memHistory.Resize(samples)
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg.Snapshot
}

// UpdateSysStats appends a system-wide CPU and memory sample.
func (m *MetricsModel) UpdateSysStats(s SysStatsMsg) {
	m.cpuHistory.Push(s.CPUPercent)
	m.memHistory.Push(s.MemPercent)
	m.load = s.Load1
}

// RecordEval counts an evaluated command and whether it failed.
func (m *MetricsModel) RecordEval(failed bool) {
	m.opCount++
	if failed {
		m.errCount++
	}
}

// Reset clears the session counters and sample histories.
func (m *MetricsModel) Reset() {
	m.opCount = 0
	m.errCount = 0
	m.cpuHistory.Reset()
	m.memHistory.Reset()
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	// Compact top line: Heap: X / Y | GC: N (Xms) | Goroutines: N | Load: L
	heapStr := valueStyle.Render(format.Bytes(m.mem.HeapAlloc) + " / " + format.Bytes(m.mem.HeapSys))
	gcPauseStr := valueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6))
	goroutineStr := valueStyle.Render(fmt.Sprintf("%d", m.mem.Goroutines))
	loadStr := valueStyle.Render(fmt.Sprintf("%.2f", m.load))
	pipe := dimStyle.Render(" | ")
	fmt.Fprintf(&rows, "  %s %s%s%s %s%s%s %s%s%s %s",
		dimStyle.Render("Heap:"), heapStr, pipe,
		dimStyle.Render("GC:"), gcPauseStr, pipe,
		dimStyle.Render("Goroutines:"), goroutineStr, pipe,
		dimStyle.Render("Load:"), loadStr)

	fmt.Fprintf(&rows, "\n  %s %s%s%s %s",
		dimStyle.Render("Ops:"), valueStyle.Render(fmt.Sprintf("%d", m.opCount)), pipe,
		dimStyle.Render("Errors:"), valueStyle.Render(fmt.Sprintf("%d", m.errCount)))

	fmt.Fprintf(&rows, "\n  %s %s %s",
		dimStyle.Render("CPU: "),
		chartStyle.Render(RenderSparkline(m.cpuHistory.Slice())),
		valueStyle.Render(fmt.Sprintf("%5.1f%%", m.cpuHistory.Last())))

	fmt.Fprintf(&rows, "\n  %s %s %s",
		dimStyle.Render("MEM: "),
		memChartStyle.Render(RenderSparkline(m.memHistory.Slice())),
		valueStyle.Render(fmt.Sprintf("%5.1f%%", m.memHistory.Last())))

	// A denser CPU trace when the panel has spare rows.
	if chartRows := (m.height - 2) - 4; chartRows >= 2 {
		for _, line := range RenderBrailleChart(m.cpuHistory.Slice(), m.width-8, chartRows) {
			rows.WriteString("\n  " + chartStyle.Render(line))
		}
	}

	return panelStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(rows.String())
}

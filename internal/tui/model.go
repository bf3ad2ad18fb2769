package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crystalline/abacus/internal/cli"
	"github.com/crystalline/abacus/internal/config"
	numerr "github.com/crystalline/abacus/internal/errors"
	"github.com/crystalline/abacus/internal/metrics"
	"github.com/crystalline/abacus/internal/sysmon"
)

// Message types flowing through the dashboard.
type (
	// TickMsg drives periodic resource sampling.
	TickMsg time.Time
	// MemStatsMsg carries a runtime memory snapshot.
	MemStatsMsg struct {
		Snapshot metrics.MemorySnapshot
	}
	// SysStatsMsg carries a system-wide CPU, memory and load sample.
	SysStatsMsg struct {
		CPUPercent float64
		MemPercent float64
		Load1      float64
	}
	// EvalResultMsg carries the outcome of an asynchronous evaluation.
	EvalResultMsg struct {
		Input  string
		Output string
		Err    error
	}
)

// Layout constants for the TUI dashboard.
const (
	headerHeight       = 1
	footerHeight       = 1
	inputHeight        = 3
	metricsPanelHeight = 9
	minHistoryHeight   = 3
)

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header  HeaderModel
	input   textinput.Model
	history viewport.Model
	metrics MetricsModel
	footer  FooterModel
	keymap  KeyMap

	repl   *cli.REPL
	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	ready    bool
	busy     bool
	lines    []string
	exitCode int
}

// NewModel creates a new TUI model around an evaluator session.
func NewModel(parentCtx context.Context, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	repl := cli.NewREPL(cli.REPLConfig{
		Base:       uint32(cfg.Base),
		Precision:  int32(cfg.Precision),
		Timeout:    cfg.Timeout,
		Quiet:      true, // the dashboard renders its own busy indicator
		OutputFile: cfg.OutputFile,
	})

	ti := textinput.New()
	ti.Placeholder = "add 12:34 56:78 | divf 1 7 | const pi | help in the REPL"
	ti.Prompt = "abacus> "
	ti.Focus()

	header := NewHeaderModel(version)
	header.SetSession(uint32(cfg.Base), int32(cfg.Precision))

	return Model{
		header:   header,
		input:    ti,
		metrics:  NewMetricsModel(),
		footer:   NewFooterModel(),
		keymap:   DefaultKeyMap(),
		repl:     repl,
		ctx:      ctx,
		cancel:   cancel,
		exitCode: numerr.ExitSuccess,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case EvalResultMsg:
		m.busy = false
		m.footer.SetBusy(false)
		m.footer.SetError(msg.Err != nil)
		m.metrics.RecordEval(msg.Err != nil)
		m.appendHistory(promptStyle.Render("abacus> ") + msg.Input)
		if msg.Err != nil {
			m.appendHistory(errorStyle.Render("Error: " + msg.Err.Error()))
		} else if msg.Output != "" {
			m.appendHistory(msg.Output)
		}
		m.appendHistory("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Clear):
		m.lines = nil
		m.history.SetContent("")
		m.metrics.Reset()
		m.footer.SetError(false)
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	if msg.Type == tea.KeyEnter {
		input := strings.TrimSpace(m.input.Value())
		if input == "" || m.busy {
			return m, nil
		}
		switch strings.ToLower(strings.Fields(input)[0]) {
		case "exit", "quit", "q":
			m.cancel()
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.busy = true
		m.footer.SetBusy(true)
		return m, evalCmd(m.ctx, m.repl, input)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// appendHistory adds a line to the scrollback and keeps the view pinned to
// the bottom.
func (m *Model) appendHistory(line string) {
	m.lines = append(m.lines, line)
	m.history.SetContent(strings.Join(m.lines, "\n"))
	m.history.GotoBottom()
}

// View renders the entire dashboard.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	history := panelStyle.
		Width(m.width - 2).
		Height(m.history.Height).
		Render(m.history.View())

	input := panelStyle.
		Width(m.width - 2).
		Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		history,
		m.metrics.View(),
		input,
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.metrics.SetSize(m.width, metricsPanelHeight)

	historyHeight := m.height - headerHeight - footerHeight - inputHeight - metricsPanelHeight - 2
	if historyHeight < minHistoryHeight {
		historyHeight = minHistoryHeight
	}
	if !m.ready {
		m.history = viewport.New(m.width-4, historyHeight)
		m.history.SetContent(strings.Join(m.lines, "\n"))
		m.ready = true
	} else {
		m.history.Width = m.width - 4
		m.history.Height = historyHeight
	}
	m.input.Width = m.width - 14
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return numerr.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return numerr.ExitSuccess
}

// evalCmd runs a REPL evaluation off the UI thread.
func evalCmd(ctx context.Context, repl *cli.REPL, input string) tea.Cmd {
	return func() tea.Msg {
		output, err := repl.Eval(ctx, input)
		return EvalResultMsg{Input: input, Output: output, Err: err}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// memCollector feeds the dashboard's heap readings.
var memCollector = metrics.NewCollector()

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg{Snapshot: memCollector.Snapshot()}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
			Load1:      s.Load1,
		}
	}
}

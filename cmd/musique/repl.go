package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"musique/internal/interp"
	"musique/internal/session"
)

// REPL color palette, grounded on display/tui.go's style block (primary
// cyan for active state, dim gray for chrome, green for success, red for
// errors) rather than inventing a new scheme.
var (
	replPrimary = lipgloss.Color("#00FFFF")
	replDim     = lipgloss.Color("#666666")
	replAccent  = lipgloss.Color("#00FF00")
	replError   = lipgloss.Color("#FF6666")

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(replPrimary)
	dimStyle    = lipgloss.NewStyle().Foreground(replDim)
	okStyle     = lipgloss.NewStyle().Foreground(replAccent)
	errStyle    = lipgloss.NewStyle().Foreground(replError)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
)

// evalDoneMsg is delivered when a background evaluation (run via goroutine
// so `play`/`par`/`sim` can sleep without freezing the Elm update loop)
// finishes.
type evalDoneMsg struct {
	source string
	output string
	errMsg string
}

// replModel is the bubbletea Elm-architecture model, grounded on
// display/tui.go's TUIModel shape (Init/Update/View, a style block, a
// scrolling transcript) but driving musique evaluation instead of backing
// track playback.
type replModel struct {
	it          *interp.Interpreter
	input       string
	history     []string
	historyPos  int
	transcript  []string
	busy        bool
	sessionPath string
	quitting    bool
}

func newREPLModel(it *interp.Interpreter, sessionPath string) *replModel {
	return &replModel{it: it, sessionPath: sessionPath}
}

func (m *replModel) Init() tea.Cmd { return nil }

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case evalDoneMsg:
		m.busy = false
		line := promptStyle.Render("musique> ") + msg.source
		m.transcript = append(m.transcript, line)
		if msg.errMsg != "" {
			m.transcript = append(m.transcript, errStyle.Render(msg.errMsg))
		} else if msg.output != "" {
			m.transcript = append(m.transcript, okStyle.Render(msg.output))
		}
		return m, nil
	}
	return m, nil
}

// handleKey dispatches on msg.String(), the same style display/tui.go's
// Update uses ("q", "ctrl+c", "up", "down", ...) rather than matching on
// msg.Type constants directly.
func (m *replModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.busy {
			// First Ctrl+C during playback interrupts evaluation/playback
			// (spec.md §5); it does not exit the REPL.
			m.it.IssueInterrupt()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case "up":
		m.navigateHistory(-1)
	case "down":
		m.navigateHistory(1)
	default:
		if len(msg.Runes) > 0 {
			m.input += string(msg.Runes)
		} else if msg.String() == " " {
			m.input += " "
		}
	}
	return m, nil
}

func (m *replModel) navigateHistory(delta int) {
	if len(m.history) == 0 {
		return
	}
	m.historyPos += delta
	if m.historyPos < 0 {
		m.historyPos = 0
	}
	if m.historyPos >= len(m.history) {
		m.historyPos = len(m.history)
		m.input = ""
		return
	}
	m.input = m.history[m.historyPos]
}

func (m *replModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input)
	m.input = ""
	if line == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.historyPos = len(m.history)

	if handled, cmd := m.handleMeta(line); handled {
		return m, cmd
	}

	if m.busy {
		return m, nil
	}
	m.busy = true
	return m, m.evalCmd(line)
}

// handleMeta recognizes `:save`, `:load`, and `:quit` meta-commands,
// outside the musique language proper.
func (m *replModel) handleMeta(line string) (bool, tea.Cmd) {
	switch {
	case line == ":quit" || line == ":q":
		m.quitting = true
		return true, tea.Quit
	case strings.HasPrefix(line, ":save"):
		path := strings.TrimSpace(strings.TrimPrefix(line, ":save"))
		if path == "" {
			path = m.sessionPath
		}
		snap := session.FromContext(m.history, m.it.Context)
		msg := "saved session to " + path
		if err := session.Save(path, snap); err != nil {
			msg = "error saving session: " + err.Error()
		}
		m.transcript = append(m.transcript, dimStyle.Render(msg))
		return true, nil
	case strings.HasPrefix(line, ":load"):
		path := strings.TrimSpace(strings.TrimPrefix(line, ":load"))
		if path == "" {
			path = m.sessionPath
		}
		snap, err := session.Load(path)
		msg := "loaded session from " + path
		if err == nil {
			err = snap.Apply(m.it.Context)
		}
		if err != nil {
			msg = "error loading session: " + err.Error()
		} else {
			m.history = append([]string(nil), snap.History...)
			m.historyPos = len(m.history)
		}
		m.transcript = append(m.transcript, dimStyle.Render(msg))
		return true, nil
	}
	return false, nil
}

// evalCmd runs line through the interpreter in a goroutine so that
// `play`/`par`/`sim`'s blocking sleeps don't freeze the Elm update loop —
// Ctrl+C still reaches Update and calls IssueInterrupt while evaluation is
// in flight.
func (m *replModel) evalCmd(line string) tea.Cmd {
	it := m.it
	return func() tea.Msg {
		v, err := evalSourceValue(it, "<repl>", line)
		if err != nil {
			return evalDoneMsg{source: line, errMsg: errorText(err, line)}
		}
		return evalDoneMsg{source: line, output: v.String()}
	}
}

func errorText(err error, source string) string {
	return strings.TrimRight(reportErrorString(err, source), "\n")
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("musique") + dimStyle.Render(" — Ctrl+C interrupts playback, twice to quit") + "\n\n")

	start := 0
	if len(m.transcript) > 20 {
		start = len(m.transcript) - 20
	}
	for _, line := range m.transcript[start:] {
		b.WriteString(line + "\n")
	}

	status := ""
	if m.busy {
		status = dimStyle.Render(" (playing…)")
	}
	b.WriteString(promptStyle.Render("musique> ") + m.input + status + "\n")
	return b.String()
}

// runREPL starts the interactive front end (spec.md §6's "enter REPL"),
// grounded on display/tui.go's bubbletea program setup.
func runREPL(opts options) int {
	it, closer, err := newInterpreter("<repl>", opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRecoverable
	}
	defer closer()
	defer it.TurnOffAllActiveNotes()

	sessionPath := defaultSessionPath()
	model := newREPLModel(it, sessionPath)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitBug
	}
	return exitSuccess
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "musique-session.yaml"
	}
	return filepath.Join(dir, "musique", "session.yaml")
}

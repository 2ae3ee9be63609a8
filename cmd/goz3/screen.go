package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// uiMainText appends text to the main window transcript.
type uiMainText string

// uiMainChar appends a single ZSCII character code to the main window.
type uiMainChar uint8

// uiStatus redraws the status line.
type uiStatus string

// uiWaitForInput tells the model the interpreter is blocked on a line of
// input.
type uiWaitForInput struct{}

// uiQuit tells the model the interpreter has finished running.
type uiQuit struct{}

// teaScreen is the zscreen.Screen implementation backed by a bubbletea
// program. The core calls its methods synchronously from the VM's own
// goroutine (spec.md section 5: the VM is single-threaded); those methods
// forward to the UI over channels and, for ReadLine, block until the UI
// sends a completed line back. This mirrors the teacher's
// outputChannel/inputChannel split, narrowed behind the zscreen.Screen
// interface instead of exposed as the VM's own public surface.
type teaScreen struct {
	program *tea.Program
	toUI    chan tea.Msg
	fromUI  chan string
	width   int
}

func newTeaScreen(width int) *teaScreen {
	return &teaScreen{
		toUI:   make(chan tea.Msg, 64),
		fromUI: make(chan string),
		width:  width,
	}
}

func (s *teaScreen) Width() int { return s.width }

func (s *teaScreen) WriteMain(text string) {
	s.toUI <- uiMainText(text)
}

func (s *teaScreen) WriteMainChar(code uint8) {
	s.toUI <- uiMainChar(code)
}

func (s *teaScreen) WriteStatus(text string) {
	s.toUI <- uiStatus(text)
}

func (s *teaScreen) ReadLine() string {
	s.toUI <- uiWaitForInput{}
	return <-s.fromUI
}

func (s *teaScreen) Init() {}

func (s *teaScreen) Teardown() {
	s.toUI <- uiQuit{}
}

// run starts the bubbletea event loop; it returns when the interpreter
// quits or the user interrupts.
func (s *teaScreen) run() error {
	s.program = tea.NewProgram(newUIModel(s), tea.WithAltScreen())
	_, err := s.program.Run()
	return err
}

type uiModel struct {
	screen    *teaScreen
	transcript string
	status     string
	input      textinput.Model
	waiting    bool
	width      int
	height     int
	done       bool
}

func newUIModel(s *teaScreen) uiModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 0
	ti.Prompt = "> "

	return uiModel{screen: s, input: ti, width: 80, height: 24}
}

func waitForUI(s *teaScreen) tea.Cmd {
	return func() tea.Msg {
		return <-s.toUI
	}
}

func (m uiModel) Init() tea.Cmd {
	return waitForUI(m.screen)
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.width = msg.Width
		m.input.Width = msg.Width - len(m.input.Prompt) - 1

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		if m.waiting {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			if msg.Type == tea.KeyEnter {
				line := m.input.Value() + "\n"
				m.transcript += m.input.Prompt + m.input.Value() + "\n"
				m.input.SetValue("")
				m.waiting = false
				m.screen.fromUI <- line
				return m, waitForUI(m.screen)
			}
			return m, cmd
		}

	case uiMainText:
		m.transcript += string(msg)
		return m, waitForUI(m.screen)

	case uiMainChar:
		m.transcript += string(rune(msg))
		return m, waitForUI(m.screen)

	case uiStatus:
		m.status = string(msg)
		return m, waitForUI(m.screen)

	case uiWaitForInput:
		m.waiting = true
		return m, nil

	case uiQuit:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m uiModel) View() string {
	statusBar := lipgloss.NewStyle().
		Reverse(true).
		Width(m.width).
		Render(padRight(m.status, m.width))

	body := wordwrap.String(m.transcript, m.width)

	if m.done {
		return statusBar + "\n" + body
	}
	return statusBar + "\n" + body + m.input.View()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

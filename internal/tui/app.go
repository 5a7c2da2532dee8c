// Package tui provides the terminal user interface for deckhand runs.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab constants for navigation.
const (
	TabPhases = iota
	TabTasks
	TabLogs
)

// Task row display states.
const (
	taskRunning = "running"
	taskDone    = "done"
	taskFailed  = "failed"
)

// OrchestratorEventMsg carries one pipeline event into the TUI. The CLI
// converts events from the orchestrator stream; the TUI never imports
// the engine directly.
type OrchestratorEventMsg struct {
	Type      string
	Phase     string
	TaskID    string
	TaskName  string
	AgentName string
	Message   string
	Error     string
	Timestamp time.Time
}

// RunDoneMsg signals that the generation run has finished.
type RunDoneMsg struct {
	Success    bool
	Message    string
	OutputPath string
}

// DebugLogMsg adds a diagnostic line to the logs pane.
type DebugLogMsg struct {
	Message string
}

// LogEntry represents a log message displayed in the logs pane.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
}

type phaseStatus int

const (
	phasePending phaseStatus = iota
	phaseRunning
	phaseDone
	phaseFailed
	phaseSkipped
)

// phaseRow tracks one pipeline phase in the phase list.
type phaseRow struct {
	id     string
	label  string
	status phaseStatus
}

// taskRow tracks one dispatched task.
type taskRow struct {
	id     string
	name   string
	agent  string
	status string
}

// App is the main bubbletea model for the deckhand run display.
type App struct {
	// topic is the presentation topic shown in the header.
	topic string
	// currentTab is the currently selected pane.
	currentTab int
	// spin animates next to the running phase.
	spin spinner.Model
	// phases is the fixed pipeline phase list.
	phases []*phaseRow
	// tasks is the list of dispatched tasks.
	tasks []*taskRow
	// logs is the list of log entries.
	logs []LogEntry
	// footer renders the status bar.
	footer *Footer
	// width is the terminal width.
	width int
	// height is the terminal height.
	height int
	// quitting indicates the app is shutting down.
	quitting bool
	// done indicates the generation run has completed.
	done bool
	// success indicates whether the run succeeded.
	success bool
	// message holds the final run message.
	message string
	// outputPath holds the generated file path on success.
	outputPath string
}

// New creates a new App for a run on the given topic.
func New(topic string) *App {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &App{
		topic: topic,
		spin:  s,
		phases: []*phaseRow{
			{id: "research", label: "Research"},
			{id: "content", label: "Content"},
			{id: "design_and_charts", label: "Design & Charts"},
			{id: "build", label: "Build"},
		},
		tasks:  make([]*taskRow, 0),
		logs:   make([]LogEntry, 0),
		footer: NewFooter(),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.spin.Tick
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		case "tab":
			a.currentTab = (a.currentTab + 1) % 3
		case "1":
			a.currentTab = TabPhases
		case "2":
			a.currentTab = TabTasks
		case "3":
			a.currentTab = TabLogs
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.footer.SetWidth(msg.Width)

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case OrchestratorEventMsg:
		a.handleOrchestratorEvent(msg)

	case RunDoneMsg:
		a.done = true
		a.success = msg.Success
		a.message = msg.Message
		a.outputPath = msg.OutputPath
		a.settlePhases()
		a.footer.SetRunDone(msg.Success, msg.Message)

	case DebugLogMsg:
		a.logs = append(a.logs, LogEntry{
			Timestamp: time.Now(),
			Level:     "DEBUG",
			Message:   msg.Message,
		})
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var content string
	switch a.currentTab {
	case TabPhases:
		content = a.viewPhases()
	case TabTasks:
		content = a.viewTasks()
	case TabLogs:
		content = a.viewLogs()
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", a.viewHeader(), content, a.footer.View())
}

// viewHeader renders the title line and the tab bar.
func (a *App) viewHeader() string {
	tabs := []string{"Phases", "Tasks", "Logs"}
	var bar string
	for i, tab := range tabs {
		if i == a.currentTab {
			bar += fmt.Sprintf("[%s] ", tab)
		} else {
			bar += fmt.Sprintf(" %s  ", tab)
		}
	}
	return fmt.Sprintf("deckhand: %s\n%s", a.topic, bar)
}

// viewPhases renders the pipeline phase list.
func (a *App) viewPhases() string {
	var b strings.Builder
	for _, p := range a.phases {
		var marker string
		switch p.status {
		case phaseRunning:
			marker = a.spin.View()
		case phaseDone:
			marker = "✓"
		case phaseFailed:
			marker = "✗"
		case phaseSkipped:
			marker = "-"
		default:
			marker = "○"
		}
		fmt.Fprintf(&b, "  %s %s\n", marker, p.label)
	}
	return b.String()
}

// viewTasks renders the tasks pane.
func (a *App) viewTasks() string {
	if len(a.tasks) == 0 {
		return "No tasks yet"
	}

	var b strings.Builder
	for _, row := range a.tasks {
		fmt.Fprintf(&b, "  %-10s %-8s %s\n", row.agent, row.status, row.name)
	}
	return b.String()
}

// viewLogs renders the logs pane.
func (a *App) viewLogs() string {
	if len(a.logs) == 0 {
		return "No log entries"
	}

	// Show the most recent logs (up to 20)
	start := 0
	if len(a.logs) > 20 {
		start = len(a.logs) - 20
	}

	var b strings.Builder
	for _, entry := range a.logs[start:] {
		ts := entry.Timestamp.Format("15:04:05")
		fmt.Fprintf(&b, "  %s [%s] %s\n", ts, entry.Level, entry.Message)
	}
	return b.String()
}

// handleOrchestratorEvent processes a pipeline event and updates state.
func (a *App) handleOrchestratorEvent(msg OrchestratorEventMsg) {
	level := "INFO"
	if msg.Error != "" {
		level = "ERROR"
	}
	text := msg.Message
	if text == "" {
		text = msg.Type
	}
	a.logs = append(a.logs, LogEntry{
		Timestamp: msg.Timestamp,
		Level:     level,
		Message:   text,
	})

	switch msg.Type {
	case "phase_started":
		a.setPhase(msg.Phase, phaseRunning)

	case "phase_completed":
		a.setPhase(msg.Phase, phaseDone)

	case "task_started":
		row := a.findOrCreateTask(msg.TaskID)
		row.name = msg.TaskName
		row.agent = msg.AgentName
		row.status = taskRunning

	case "task_completed":
		row := a.findOrCreateTask(msg.TaskID)
		row.status = taskDone

	case "task_failed":
		row := a.findOrCreateTask(msg.TaskID)
		row.status = taskFailed

	case "run_failed":
		for _, p := range a.phases {
			if p.status == phaseRunning {
				p.status = phaseFailed
			}
		}
	}

	a.footer.SetTaskCounts(a.taskCounts())
}

// setPhase updates the status of the named phase row.
func (a *App) setPhase(id string, status phaseStatus) {
	for _, p := range a.phases {
		if p.id == id {
			p.status = status
			return
		}
	}
}

// settlePhases resolves rows the event stream never closed out, such as
// the research row on runs without a data file.
func (a *App) settlePhases() {
	for _, p := range a.phases {
		switch p.status {
		case phaseRunning:
			if a.success {
				p.status = phaseDone
			} else {
				p.status = phaseFailed
			}
		case phasePending:
			if a.success {
				p.status = phaseSkipped
			}
		}
	}
}

// findOrCreateTask finds a task row by ID or creates a new one.
func (a *App) findOrCreateTask(id string) *taskRow {
	for _, row := range a.tasks {
		if row.id == id {
			return row
		}
	}
	row := &taskRow{id: id}
	a.tasks = append(a.tasks, row)
	return row
}

// taskCounts tallies task rows by display state.
func (a *App) taskCounts() TaskCounts {
	var c TaskCounts
	for _, row := range a.tasks {
		switch row.status {
		case taskDone:
			c.Done++
		case taskFailed:
			c.Failed++
		case taskRunning:
			c.Running++
		}
	}
	return c
}

// Run starts the TUI and blocks until the user quits.
func Run(topic string) error {
	app := New(topic)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// NewProgram creates a Bubbletea program that can be fed messages from
// outside via Send().
func NewProgram(topic string) (*tea.Program, *App) {
	app := New(topic)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}

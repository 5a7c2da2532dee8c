package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// TaskCounts holds the number of dispatched tasks in each state.
type TaskCounts struct {
	Done    int
	Failed  int
	Running int
}

// Footer renders the status bar and keyboard hints.
type Footer struct {
	message    string
	success    bool
	runDone    bool
	width      int
	taskCounts TaskCounts

	// Styles
	successStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	hintStyle      lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetRunDone marks the run as complete.
func (f *Footer) SetRunDone(success bool, message string) {
	f.runDone = true
	f.success = success
	f.message = message
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetTaskCounts updates the task counts for display.
func (f *Footer) SetTaskCounts(counts TaskCounts) {
	f.taskCounts = counts
}

// View renders the footer.
func (f *Footer) View() string {
	var left string

	// Left side: task counts, replaced by the final verdict once done.
	total := f.taskCounts.Done + f.taskCounts.Failed + f.taskCounts.Running
	if total > 0 {
		left = fmt.Sprintf("✓%d", f.taskCounts.Done)
		if f.taskCounts.Failed > 0 {
			left += f.errorStyle.Render(fmt.Sprintf(" ✗%d", f.taskCounts.Failed))
		}
		if f.taskCounts.Running > 0 {
			left += fmt.Sprintf(" ⏳%d", f.taskCounts.Running)
		}
	}

	if f.runDone {
		if f.success {
			left = f.successStyle.Render("✓ " + f.message)
		} else {
			left = f.errorStyle.Render("✗ " + f.message)
		}
	}

	// Right side: keyboard hints
	right := f.keyboardHints()

	sep := f.separatorStyle.Render(" │ ")

	if left != "" {
		return left + sep + right
	}
	return right
}

// keyboardHints returns the hint line for the current state.
func (f *Footer) keyboardHints() string {
	if f.runDone {
		return f.hintStyle.Render("Press q to exit")
	}
	return f.hintStyle.Render("1/2/3 or Tab to switch panes │ q to quit")
}

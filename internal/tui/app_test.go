package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNew(t *testing.T) {
	app := New("Q1 Review")

	if app == nil {
		t.Fatal("New returned nil")
	}
	if app.topic != "Q1 Review" {
		t.Errorf("topic = %q, want %q", app.topic, "Q1 Review")
	}
	if len(app.phases) != 4 {
		t.Fatalf("expected 4 phase rows, got %d", len(app.phases))
	}
	wantLabels := []string{"Research", "Content", "Design & Charts", "Build"}
	for i, p := range app.phases {
		if p.label != wantLabels[i] {
			t.Errorf("phase %d label = %q, want %q", i, p.label, wantLabels[i])
		}
		if p.status != phasePending {
			t.Errorf("phase %q should start pending", p.label)
		}
	}
	if len(app.tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(app.tasks))
	}
}

func TestApp_Update_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		app := New("topic")
		model, cmd := app.Update(key)

		updated := model.(*App)
		if !updated.quitting {
			t.Errorf("quitting should be true after %q", key.String())
		}
		if cmd == nil {
			t.Errorf("expected quit command after %q", key.String())
		}
	}
}

func TestApp_Update_WindowSize(t *testing.T) {
	app := New("topic")

	msg := tea.WindowSizeMsg{Width: 120, Height: 40}
	model, _ := app.Update(msg)

	updated := model.(*App)
	if updated.width != 120 {
		t.Errorf("width = %d, want 120", updated.width)
	}
	if updated.height != 40 {
		t.Errorf("height = %d, want 40", updated.height)
	}
}

func TestApp_Update_TabSwitch(t *testing.T) {
	app := New("topic")

	tabKey := tea.KeyMsg{Type: tea.KeyTab}
	for _, want := range []int{TabTasks, TabLogs, TabPhases} {
		model, _ := app.Update(tabKey)
		app = model.(*App)
		if app.currentTab != want {
			t.Fatalf("currentTab = %d, want %d", app.currentTab, want)
		}
	}

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = model.(*App)
	if app.currentTab != TabLogs {
		t.Errorf("currentTab = %d, want %d", app.currentTab, TabLogs)
	}
}

func TestApp_PhaseEvents(t *testing.T) {
	app := New("topic")

	app.Update(OrchestratorEventMsg{
		Type:      "phase_started",
		Phase:     "content",
		Message:   "phase content started",
		Timestamp: time.Now(),
	})
	if app.phases[1].status != phaseRunning {
		t.Errorf("content phase status = %d, want running", app.phases[1].status)
	}
	if app.phases[0].status != phasePending {
		t.Errorf("research phase should stay pending")
	}

	app.Update(OrchestratorEventMsg{
		Type:      "phase_completed",
		Phase:     "content",
		Message:   "phase content completed",
		Timestamp: time.Now(),
	})
	if app.phases[1].status != phaseDone {
		t.Errorf("content phase status = %d, want done", app.phases[1].status)
	}

	view := app.View()
	if !strings.Contains(view, "✓ Content") {
		t.Errorf("phase view should show completed content phase, got:\n%s", view)
	}
	if !strings.Contains(view, "○ Build") {
		t.Errorf("phase view should show pending build phase, got:\n%s", view)
	}
}

func TestApp_TaskEvents(t *testing.T) {
	app := New("topic")

	app.Update(OrchestratorEventMsg{
		Type:      "task_started",
		TaskID:    "t1",
		TaskName:  "create outline",
		AgentName: "planner",
		Timestamp: time.Now(),
	})

	if len(app.tasks) != 1 {
		t.Fatalf("expected 1 task row, got %d", len(app.tasks))
	}
	row := app.tasks[0]
	if row.agent != "planner" || row.name != "create outline" || row.status != taskRunning {
		t.Errorf("unexpected task row: %+v", *row)
	}
	if app.footer.taskCounts.Running != 1 {
		t.Errorf("footer running count = %d, want 1", app.footer.taskCounts.Running)
	}

	app.Update(OrchestratorEventMsg{
		Type:      "task_completed",
		TaskID:    "t1",
		Timestamp: time.Now(),
	})
	if row.status != taskDone {
		t.Errorf("task status = %q, want %q", row.status, taskDone)
	}
	if app.footer.taskCounts.Done != 1 || app.footer.taskCounts.Running != 0 {
		t.Errorf("footer counts = %+v, want 1 done, 0 running", app.footer.taskCounts)
	}

	app.currentTab = TabTasks
	if !strings.Contains(app.View(), "create outline") {
		t.Errorf("tasks view should list the task name")
	}
}

func TestApp_RunDone_Success(t *testing.T) {
	app := New("topic")
	app.Update(OrchestratorEventMsg{Type: "phase_started", Phase: "content", Timestamp: time.Now()})
	app.Update(OrchestratorEventMsg{Type: "phase_completed", Phase: "content", Timestamp: time.Now()})

	app.Update(RunDoneMsg{
		Success:    true,
		Message:    "saved presentation.pptx",
		OutputPath: "output/presentation.pptx",
	})

	if !app.done || !app.success {
		t.Fatalf("done = %v success = %v, want both true", app.done, app.success)
	}
	if app.outputPath != "output/presentation.pptx" {
		t.Errorf("outputPath = %q, want %q", app.outputPath, "output/presentation.pptx")
	}
	// Phases that never ran settle as skipped on success.
	if app.phases[0].status != phaseSkipped {
		t.Errorf("research phase status = %d, want skipped", app.phases[0].status)
	}

	footer := app.footer.View()
	if !strings.Contains(footer, "saved presentation.pptx") {
		t.Errorf("footer should show the final message, got %q", footer)
	}
	if !strings.Contains(footer, "Press q to exit") {
		t.Errorf("footer should hint at exit, got %q", footer)
	}
}

func TestApp_RunFailed_MarksRunningPhase(t *testing.T) {
	app := New("topic")
	app.Update(OrchestratorEventMsg{Type: "phase_started", Phase: "build", Timestamp: time.Now()})

	app.Update(OrchestratorEventMsg{
		Type:      "run_failed",
		Error:     "builder exploded",
		Message:   "run failed",
		Timestamp: time.Now(),
	})
	if app.phases[3].status != phaseFailed {
		t.Errorf("build phase status = %d, want failed", app.phases[3].status)
	}

	app.Update(RunDoneMsg{Success: false, Message: "run failed"})
	if app.success {
		t.Error("success should be false")
	}
	// Phases that never started stay pending on failure.
	if app.phases[0].status != phasePending {
		t.Errorf("research phase status = %d, want pending", app.phases[0].status)
	}
}

func TestApp_ViewLogsCapped(t *testing.T) {
	app := New("topic")
	for i := 0; i < 25; i++ {
		app.Update(DebugLogMsg{Message: "tick"})
	}

	app.currentTab = TabLogs
	logs := app.viewLogs()
	if got := strings.Count(logs, "\n"); got != 20 {
		t.Errorf("logs pane shows %d lines, want 20", got)
	}
}

func TestApp_EventWithErrorLogsAsError(t *testing.T) {
	app := New("topic")
	app.Update(OrchestratorEventMsg{
		Type:      "task_failed",
		TaskID:    "t9",
		Error:     "render backend exploded",
		Message:   "task render charts failed",
		Timestamp: time.Now(),
	})

	if len(app.logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(app.logs))
	}
	if app.logs[0].Level != "ERROR" {
		t.Errorf("log level = %q, want ERROR", app.logs[0].Level)
	}
}

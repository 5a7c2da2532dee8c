package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deckhand-io/deckhand/internal/config"
	"github.com/deckhand-io/deckhand/internal/orchestrator"
	"github.com/deckhand-io/deckhand/internal/tui"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// runWithTUI runs the generation behind the interactive progress display.
func runWithTUI(ctx context.Context, orch *orchestrator.Orchestrator, cfg *config.Config, req models.Request, mode orchestrator.Mode) (retErr error) {
	verbose := os.Getenv("DECKHAND_DEBUG") != ""

	// Suppress log output while the TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runWithTUI: %v", r)
		}
	}()

	program, _ := tui.NewProgram(req.Topic)

	// Start event forwarding goroutine
	go forwardEventsToTUI(program, orch.Events())

	// Run the pipeline in the background
	resCh := make(chan *models.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resCh <- models.Failure(fmt.Errorf("PANIC in generation: %v", r), nil)
			}
		}()
		resCh <- generate(ctx, orch, cfg, req, mode)
	}()

	tuiDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				tuiDone <- fmt.Errorf("PANIC in TUI: %v", r)
			}
		}()
		_, err := program.Run()
		tuiDone <- err
	}()

	debugLog := func(msg string) {
		if verbose {
			program.Send(tui.DebugLogMsg{Message: msg})
		}
	}
	debugLog("TUI started, waiting for completion...")

	select {
	case res := <-resCh:
		debugLog(fmt.Sprintf("Generation done, success=%v", res.Success))
		msg := tui.RunDoneMsg{Success: res.Success, OutputPath: res.OutputPath}
		if res.Success {
			msg.Message = fmt.Sprintf("Saved %s (%d slides)", res.OutputPath, res.SlideCount)
		} else {
			msg.Message = res.Error
		}
		program.Send(msg)
		// Wait for the user to quit (press q) so they can read the verdict.
		if err := <-tuiDone; err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("generation failed: %s", res.Error)
		}
		return nil

	case err := <-tuiDone:
		// User quit before the run finished; the caller's deferred
		// cancel stops the pipeline.
		if verbose {
			fmt.Printf("[DEBUG] runWithTUI: TUI done early, err=%v\n", err)
		}
		return err
	}
}

// forwardEventsToTUI converts pipeline events to TUI messages.
func forwardEventsToTUI(program *tea.Program, events <-chan orchestrator.Event) {
	for event := range events {
		errStr := ""
		if event.Error != nil {
			errStr = event.Error.Error()
		}
		program.Send(tui.OrchestratorEventMsg{
			Type:      string(event.Type),
			Phase:     string(event.Phase),
			TaskID:    event.TaskID,
			TaskName:  event.TaskName,
			AgentName: event.AgentName,
			Message:   event.Message,
			Error:     errStr,
			Timestamp: event.Timestamp,
		})
	}
}

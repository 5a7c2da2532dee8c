// Package orchestrator coordinates the specialist agents through the
// four-phase presentation pipeline: research, content, design and
// charts, build.
package orchestrator

import (
	"time"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventPhaseStarted indicates a pipeline phase has begun.
	EventPhaseStarted EventType = "phase_started"
	// EventPhaseCompleted indicates a pipeline phase finished.
	EventPhaseCompleted EventType = "phase_completed"
	// EventTaskStarted indicates a task was handed to an agent.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventRunCompleted indicates the whole pipeline finished.
	EventRunCompleted EventType = "run_completed"
	// EventRunFailed indicates the pipeline stopped on a failure.
	EventRunFailed EventType = "run_failed"
)

// Event is emitted by the orchestrator as the pipeline advances. Events
// feed the TUI and progress displays; they are informational and carry
// no control flow.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Phase is the pipeline phase the event belongs to.
	Phase State
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// TaskName is the name of the related task, if applicable.
	TaskName string
	// AgentName is the name of the agent working the task.
	AgentName string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

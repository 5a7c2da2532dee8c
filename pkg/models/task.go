// Package models defines the shared data types that flow between the
// workflow engine, the agents, and the orchestrator: tasks, messages,
// and the presentation request/result envelopes.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusWaitingApproval is reserved for approval gates; no engine
	// transition produces it today, but the value is kept for forward
	// compatibility with persisted payloads.
	TaskStatusWaitingApproval TaskStatus = "waiting_approval"
	// TaskStatusCompleted indicates the task completed successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusCancelled is reserved for external cancellation; like
	// waiting_approval it is accepted but never set by the engine.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusWaitingApproval,
		TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is an end state.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Task represents a unit of orchestrated work. Tasks are created pending,
// started by the agent that receives them, and finish in exactly one of
// two ways: Complete stores an output payload, Fail stores an error
// message. Never both.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Name is the short description of the task.
	Name string `json:"name"`
	// Description provides detailed information about the task.
	Description string `json:"description,omitempty"`
	// AssignedTo is the ID of the agent working on this task.
	AssignedTo string `json:"assigned_to,omitempty"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Priority orders ready tasks; lower values run first.
	Priority int `json:"priority"`
	// Dependencies lists task IDs that must complete before this task.
	// Duplicate entries are harmless.
	Dependencies []string `json:"dependencies,omitempty"`
	// Input is the opaque payload handed to the executing agent. By
	// convention it carries the task kind under the "kind" key.
	Input map[string]any `json:"input,omitempty"`
	// Output is the opaque payload produced on completion.
	Output map[string]any `json:"output,omitempty"`
	// Error contains the error message if the task failed.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when an agent began executing the task, if it has.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal state, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a pending task with a fresh short ID.
func NewTask(name, description string, priority int, input map[string]any) *Task {
	return &Task{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Status:      TaskStatusPending,
		Priority:    priority,
		Input:       input,
		CreatedAt:   time.Now(),
	}
}

// NewID returns the 8-character ID form used for tasks, messages,
// workflows, and runs.
func NewID() string {
	return uuid.New().String()[:8]
}

// Start transitions the task to in_progress and stamps StartedAt.
func (t *Task) Start() {
	now := time.Now()
	t.Status = TaskStatusInProgress
	t.StartedAt = &now
}

// Complete transitions the task to completed, stamps CompletedAt, and
// stores the output payload. The error message is cleared so that a
// terminal task carries exactly one of output or error.
func (t *Task) Complete(output map[string]any) {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.Output = output
	t.Error = ""
}

// Fail transitions the task to failed, stamps CompletedAt, and stores
// the error message. Any partial output is discarded.
func (t *Task) Fail(message string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.CompletedAt = &now
	t.Error = message
	t.Output = nil
}

// IsReady reports whether the task is pending and every dependency ID
// appears in the completed set.
func (t *Task) IsReady(completed map[string]bool) bool {
	if t.Status != TaskStatusPending {
		return false
	}
	for _, dep := range t.Dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

// Kind returns the task kind carried in the input payload, or the empty
// string when none is set. Agents map unknown kinds to their own default.
func (t *Task) Kind() string {
	if t.Input == nil {
		return ""
	}
	kind, _ := t.Input["kind"].(string)
	return kind
}

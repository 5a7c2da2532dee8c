// Package workflow holds the per-request task container: a set of tasks,
// the message log, and the completion ledger that gates task readiness.
// A workflow lives for exactly one presentation request and is never
// persisted.
package workflow

import (
	"sort"
	"sync"

	"github.com/deckhand-io/deckhand/pkg/models"
)

// Progress summarizes task counts for one workflow.
type Progress struct {
	// Total is the number of registered tasks.
	Total int `json:"total"`
	// Completed is the number of completed tasks.
	Completed int `json:"completed"`
	// InProgress is the number of tasks currently executing.
	InProgress int `json:"in_progress"`
	// Failed is the number of failed tasks.
	Failed int `json:"failed"`
	// Pending is the number of tasks not yet started.
	Pending int `json:"pending"`
	// PercentComplete is Completed/Total as a percentage, 0 for an
	// empty workflow.
	PercentComplete float64 `json:"percent_complete"`
}

// Workflow is a named collection of tasks plus the ledger of completed
// task IDs. All methods are safe for concurrent use.
type Workflow struct {
	mu           sync.RWMutex
	id           string
	name         string
	description  string
	tasks        map[string]*models.Task
	messages     []*models.Message
	completedIDs []string
	completedSet map[string]bool
}

// New creates an empty workflow.
func New(name, description string) *Workflow {
	return &Workflow{
		id:           models.NewID(),
		name:         name,
		description:  description,
		tasks:        make(map[string]*models.Task),
		completedSet: make(map[string]bool),
	}
}

// ID returns the workflow's identifier.
func (w *Workflow) ID() string { return w.id }

// Name returns the workflow's name.
func (w *Workflow) Name() string { return w.name }

// Description returns the workflow's description.
func (w *Workflow) Description() string { return w.description }

// AddTask registers a task and returns its ID. Dependency IDs are not
// validated: a dependency that never completes simply leaves the task
// pending forever.
func (w *Workflow) AddTask(t *models.Task) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tasks[t.ID] = t
	return t.ID
}

// Task returns the task with the given ID, or nil.
func (w *Workflow) Task(id string) *models.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tasks[id]
}

// Tasks returns all registered tasks in unspecified order.
func (w *Workflow) Tasks() []*models.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*models.Task, 0, len(w.tasks))
	for _, t := range w.tasks {
		out = append(out, t)
	}
	return out
}

// ReadyTasks returns the pending tasks whose dependencies are all in the
// completion ledger, sorted ascending by priority (stable for ties). The
// list is recomputed on every call.
func (w *Workflow) ReadyTasks() []*models.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ready := make([]*models.Task, 0)
	for _, t := range w.tasks {
		if t.IsReady(w.completedSet) {
			ready = append(ready, t)
		}
	}
	// Map iteration order is random; fix it before the stable sort so
	// equal priorities come out in a deterministic order.
	sort.Slice(ready, func(i, j int) bool { return ready[i].ID < ready[j].ID })
	sort.SliceStable(ready, func(i, j int) bool { return ready[i].Priority < ready[j].Priority })
	return ready
}

// CompleteTask marks the task completed with the given output and
// appends its ID to the completion ledger. Unknown IDs are a no-op.
func (w *Workflow) CompleteTask(id string, output map[string]any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.tasks[id]
	if !ok {
		return
	}
	if t.Status != models.TaskStatusCompleted {
		t.Complete(output)
	}
	if !w.completedSet[id] {
		w.completedSet[id] = true
		w.completedIDs = append(w.completedIDs, id)
	}
}

// FailTask marks the task failed with the given message. Unknown IDs are
// a no-op.
func (w *Workflow) FailTask(id, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.tasks[id]
	if !ok {
		return
	}
	t.Fail(message)
}

// CompletedIDs returns task IDs in completion order.
func (w *Workflow) CompletedIDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.completedIDs))
	copy(out, w.completedIDs)
	return out
}

// IsComplete reports whether every task is completed or cancelled. An
// empty workflow is complete.
func (w *Workflow) IsComplete() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range w.tasks {
		if t.Status != models.TaskStatusCompleted && t.Status != models.TaskStatusCancelled {
			return false
		}
	}
	return true
}

// HasFailed reports whether any task has failed.
func (w *Workflow) HasFailed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range w.tasks {
		if t.Status == models.TaskStatusFailed {
			return true
		}
	}
	return false
}

// Progress returns current task counts.
func (w *Workflow) Progress() Progress {
	w.mu.RLock()
	defer w.mu.RUnlock()

	p := Progress{Total: len(w.tasks)}
	for _, t := range w.tasks {
		switch t.Status {
		case models.TaskStatusCompleted:
			p.Completed++
		case models.TaskStatusInProgress:
			p.InProgress++
		case models.TaskStatusFailed:
			p.Failed++
		case models.TaskStatusPending:
			p.Pending++
		}
	}
	if p.Total > 0 {
		p.PercentComplete = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// LogMessage appends a message to the workflow's ordered log.
func (w *Workflow) LogMessage(m *models.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, m)
}

// Messages returns the logged messages in append order.
func (w *Workflow) Messages() []*models.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*models.Message, len(w.messages))
	copy(out, w.messages)
	return out
}

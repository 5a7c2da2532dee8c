// Package agent defines the execution contract shared by every
// specialist: a single current-task slot, an append-only completed list,
// message inbox/outbox, and a Run loop that drives the specialist's
// kind-dispatch function. Specialists embed *Core rather than
// inheriting; the dispatch function is injected at construction.
package agent

import (
	"context"
	"sync"

	"github.com/deckhand-io/deckhand/pkg/models"
)

// Logger is the minimal logging sink components accept. *log.Logger
// satisfies it, as does the orchestrator's debug logger.
type Logger interface {
	Printf(format string, v ...any)
}

// nopLogger discards everything. Used when no logger is injected.
type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// ExecuteFunc is a specialist's kind-dispatch: input payload in, output
// payload out. It must not mutate the task itself; Core owns the task's
// state transitions.
type ExecuteFunc func(ctx context.Context, task *models.Task) (map[string]any, error)

// Executor is the capability set every specialist exposes.
type Executor interface {
	// ID returns the agent's unique identifier.
	ID() string
	// Name returns the agent's display name.
	Name() string
	// Role returns the agent's role description.
	Role() string
	// ReceiveTask binds a task if the agent is idle. It returns false
	// and leaves the task untouched when a task is already held.
	ReceiveTask(task *models.Task) bool
	// Run executes the current task to completion or failure. With no
	// current task it returns (nil, nil).
	Run(ctx context.Context) (map[string]any, error)
	// Status reports the agent's current occupancy and counters.
	Status() Status
	// Send constructs an outbound message from this agent.
	Send(receiver string, typ models.MessageType, content map[string]any) *models.Message
	// Receive appends an inbound message to the agent's inbox.
	Receive(msg *models.Message)
}

// Status is a point-in-time snapshot of one agent.
type Status struct {
	// ID is the agent's identifier.
	ID string `json:"id"`
	// Name is the agent's display name.
	Name string `json:"name"`
	// Role is the agent's role description.
	Role string `json:"role"`
	// Busy reports whether a task is currently held.
	Busy bool `json:"busy"`
	// CurrentTask is the held task's name, empty when idle.
	CurrentTask string `json:"current_task,omitempty"`
	// CompletedCount is the number of tasks this agent has completed.
	CompletedCount int `json:"completed_count"`
	// InboxCount is the number of messages received.
	InboxCount int `json:"inbox_count"`
}

// Core implements the Executor contract. The zero value is not usable;
// construct with NewCore.
type Core struct {
	id      string
	name    string
	role    string
	execute ExecuteFunc
	log     Logger

	mu        sync.RWMutex
	current   *models.Task
	completed []*models.Task
	inbox     []*models.Message
	outbox    []*models.Message
}

// NewCore creates the shared agent state for a specialist. A nil logger
// is replaced with a no-op sink.
func NewCore(name, role string, execute ExecuteFunc, log Logger) *Core {
	if log == nil {
		log = nopLogger{}
	}
	return &Core{
		id:      models.NewID(),
		name:    name,
		role:    role,
		execute: execute,
		log:     log,
	}
}

// ID returns the agent's unique identifier.
func (c *Core) ID() string { return c.id }

// Name returns the agent's display name.
func (c *Core) Name() string { return c.name }

// Role returns the agent's role description.
func (c *Core) Role() string { return c.role }

// Logf writes to the agent's logger prefixed with the agent name.
func (c *Core) Logf(format string, v ...any) {
	c.log.Printf("["+c.name+"] "+format, v...)
}

// ReceiveTask binds the task and stamps it in_progress. A second call
// while a task is held returns false without touching either task.
func (c *Core) ReceiveTask(task *models.Task) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.log.Printf("[%s] rejected task %s: already working on %s", c.name, task.ID, c.current.ID)
		return false
	}
	c.current = task
	task.AssignedTo = c.id
	task.Start()
	c.log.Printf("[%s] accepted task %s (%s)", c.name, task.ID, task.Name)
	return true
}

// Run executes the current task. On success the task is completed with
// the dispatch output, recorded, and the slot cleared. On failure the
// task is failed, the slot cleared, and the error returned to the
// caller. With no current task Run returns (nil, nil).
func (c *Core) Run(ctx context.Context) (map[string]any, error) {
	c.mu.RLock()
	task := c.current
	c.mu.RUnlock()

	if task == nil {
		return nil, nil
	}

	output, err := c.execute(ctx, task)
	if err != nil {
		task.Fail(err.Error())
		c.mu.Lock()
		c.current = nil
		c.mu.Unlock()
		c.log.Printf("[%s] task %s failed: %v", c.name, task.ID, err)
		return nil, err
	}

	task.Complete(output)
	c.mu.Lock()
	c.completed = append(c.completed, task)
	c.current = nil
	c.mu.Unlock()
	c.log.Printf("[%s] task %s completed", c.name, task.ID)
	return output, nil
}

// CurrentTask returns the held task, or nil when idle.
func (c *Core) CurrentTask() *models.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// CompletedTasks returns the tasks this agent has completed, in order.
func (c *Core) CompletedTasks() []*models.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*models.Task, len(c.completed))
	copy(out, c.completed)
	return out
}

// Status reports the agent's occupancy and counters.
func (c *Core) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{
		ID:             c.id,
		Name:           c.name,
		Role:           c.role,
		Busy:           c.current != nil,
		CompletedCount: len(c.completed),
		InboxCount:     len(c.inbox),
	}
	if c.current != nil {
		s.CurrentTask = c.current.Name
	}
	return s
}

// Send constructs a message from this agent and appends it to the
// outbox. Delivery to the receiver is the caller's responsibility.
func (c *Core) Send(receiver string, typ models.MessageType, content map[string]any) *models.Message {
	msg := models.NewMessage(c.id, receiver, typ, content)
	c.mu.Lock()
	c.outbox = append(c.outbox, msg)
	c.mu.Unlock()
	return msg
}

// Receive appends an inbound message to the inbox.
func (c *Core) Receive(msg *models.Message) {
	c.mu.Lock()
	c.inbox = append(c.inbox, msg)
	c.mu.Unlock()
}

// Inbox returns received messages in arrival order.
func (c *Core) Inbox() []*models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*models.Message, len(c.inbox))
	copy(out, c.inbox)
	return out
}

// Outbox returns sent messages in send order.
func (c *Core) Outbox() []*models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*models.Message, len(c.outbox))
	copy(out, c.outbox)
	return out
}

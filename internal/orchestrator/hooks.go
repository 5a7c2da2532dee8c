package orchestrator

import "sync"

// HookEvent identifies a lifecycle point callers can attach a hook to.
type HookEvent string

const (
	// HookPhaseStart fires when a pipeline phase begins.
	HookPhaseStart HookEvent = "phase_start"
	// HookPhaseComplete fires when a pipeline phase finishes.
	HookPhaseComplete HookEvent = "phase_complete"
	// HookTaskComplete is reserved for per-task notifications. Hooks may
	// be registered for it but the pipeline does not fire it yet; task
	// progress is reported through the event channel instead.
	HookTaskComplete HookEvent = "task_complete"
	// HookError fires when a phase, branch, or the run itself fails.
	HookError HookEvent = "error"
)

// HookFunc is called synchronously when the hooked lifecycle point is
// reached. phase is the pipeline phase at the time of the call, payload
// carries event-specific data, and err is non-nil only for HookError.
type HookFunc func(phase State, payload map[string]any, err error)

// hookRegistry stores hook callbacks keyed by event.
type hookRegistry struct {
	mu    sync.RWMutex
	hooks map[HookEvent][]HookFunc
}

func newHookRegistry() *hookRegistry {
	return &hookRegistry{hooks: make(map[HookEvent][]HookFunc)}
}

// add registers fn for event. Hooks run in registration order.
func (r *hookRegistry) add(event HookEvent, fn HookFunc) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[event] = append(r.hooks[event], fn)
}

// fire invokes every hook registered for event, in order, on the
// calling goroutine. A hook that blocks stalls the pipeline, so hooks
// should be quick.
func (r *hookRegistry) fire(event HookEvent, phase State, payload map[string]any, err error) {
	r.mu.RLock()
	fns := r.hooks[event]
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(phase, payload, err)
	}
}

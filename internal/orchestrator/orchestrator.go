package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/builder"
	"github.com/deckhand-io/deckhand/internal/catalog"
	"github.com/deckhand-io/deckhand/internal/charts"
	"github.com/deckhand-io/deckhand/internal/content"
	"github.com/deckhand-io/deckhand/internal/design"
	"github.com/deckhand-io/deckhand/internal/research"
	"github.com/deckhand-io/deckhand/internal/workflow"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// State is the orchestrator's position in the pipeline state machine.
type State string

const (
	// StateNotStarted is the initial state before any run.
	StateNotStarted State = "not_started"
	// StateResearch covers data ingestion, statistics, and insights.
	StateResearch State = "research"
	// StateContent covers outline and slide content creation.
	StateContent State = "content"
	// StateDesignAndCharts covers the concurrent styling and chart branches.
	StateDesignAndCharts State = "design_and_charts"
	// StateBuild covers document assembly.
	StateBuild State = "build"
	// StateDone is the terminal state of a successful run.
	StateDone State = "done"
	// StateFailed is the terminal state of a failed run.
	StateFailed State = "failed"
)

// Mode selects how the independent design and chart branches are
// scheduled in the third phase.
type Mode string

const (
	// ModeSequential runs design, then charts, on one goroutine.
	ModeSequential Mode = "sequential"
	// ModeParallel always fans the two branches out together.
	ModeParallel Mode = "parallel"
	// ModeAdaptive fans out like parallel but stays inline when the
	// chart branch has nothing to do.
	ModeAdaptive Mode = "adaptive"
)

// Valid returns true if the mode is a known value.
func (m Mode) Valid() bool {
	switch m {
	case ModeSequential, ModeParallel, ModeAdaptive:
		return true
	default:
		return false
	}
}

// Orchestrator owns one instance of every specialist agent and drives
// the four-phase pipeline for each presentation request. Requests on one
// Orchestrator serialize; concurrent requests need their own instance
// because each agent holds at most one task at a time.
type Orchestrator struct {
	outDir string
	mode   Mode
	cat    *catalog.Catalog
	log    *DebugLogger

	emitter *EventEmitter
	hooks   *hookRegistry

	researcher *research.Agent
	writer     *content.Writer
	planner    *content.Planner
	designer   *design.Agent
	chartist   *charts.Agent
	builder    *builder.Agent

	// runMu serializes whole pipeline runs.
	runMu sync.Mutex
	// mu guards state and wf.
	mu    sync.RWMutex
	state State
	wf    *workflow.Workflow
}

// New creates an Orchestrator with required config and options.
//
//	orc := orchestrator.New(
//		orchestrator.RequiredConfig{OutputDir: "output"},
//		orchestrator.WithMode(orchestrator.ModeParallel),
//		orchestrator.WithGenerator(gen),
//	)
func New(req RequiredConfig, opts ...Option) *Orchestrator {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if req.OutputDir == "" {
		req.OutputDir = "output"
	}
	if !options.mode.Valid() {
		options.mode = ModeAdaptive
	}
	cat := options.catalog
	if cat == nil {
		cat = catalog.New()
	}
	log := options.logger
	if log == nil {
		log = NopLogger()
	}
	renderer := options.renderer
	if !options.rendererSet {
		renderer = charts.NewImageRenderer()
	}

	return &Orchestrator{
		outDir:     req.OutputDir,
		mode:       options.mode,
		cat:        cat,
		log:        log,
		emitter:    NewEventEmitter(options.emitBuf),
		hooks:      newHookRegistry(),
		researcher: research.New(options.search, log),
		writer:     content.NewWriter(options.generator, log),
		planner:    content.NewPlanner(log),
		designer:   design.New(cat, log),
		chartist:   charts.New(renderer, filepath.Join(req.OutputDir, "charts"), log),
		builder:    builder.New(cat, req.OutputDir, log),
		state:      StateNotStarted,
	}
}

// On registers a lifecycle hook. Hooks for one event run synchronously
// in registration order; a slow hook delays the pipeline.
func (o *Orchestrator) On(event HookEvent, fn HookFunc) {
	o.hooks.add(event, fn)
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Mode returns the configured execution mode.
func (o *Orchestrator) Mode() Mode { return o.mode }

// Events returns the channel lifecycle events are published on.
func (o *Orchestrator) Events() <-chan Event {
	return o.emitter.Events()
}

// Progress reports task counts for the current run's workflow.
func (o *Orchestrator) Progress() workflow.Progress {
	o.mu.RLock()
	wf := o.wf
	o.mu.RUnlock()
	if wf == nil {
		return workflow.Progress{}
	}
	return wf.Progress()
}

// AgentStatuses reports the occupancy of every specialist agent.
func (o *Orchestrator) AgentStatuses() []agent.Status {
	return []agent.Status{
		o.researcher.Status(),
		o.writer.Status(),
		o.planner.Status(),
		o.designer.Status(),
		o.chartist.Status(),
		o.builder.Status(),
	}
}

// Close shuts down the event channel. Call after the last run, once
// every event consumer is done.
func (o *Orchestrator) Close() {
	o.emitter.Close()
}

// Generate runs the full pipeline for one request and returns its
// result envelope. Failures come back inside the result, never as a
// panic or error return.
func (o *Orchestrator) Generate(ctx context.Context, req models.Request) *models.Result {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	res, _ := o.run(ctx, req, nil)
	return res
}

// GenerateFromTemplate seeds the request from a named structure
// archetype before running the pipeline: the archetype's recommended
// theme and slide structure apply wherever the request kept the
// defaults. An unknown archetype name fails the run before any phase
// starts.
func (o *Orchestrator) GenerateFromTemplate(ctx context.Context, req models.Request) *models.Result {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	tpl, ok := o.cat.Type(req.PresentationType)
	if !ok {
		err := fmt.Errorf("unknown presentation type %q", req.PresentationType)
		o.log.Log("template run rejected: %v", err)
		o.hooks.fire(HookError, o.State(), map[string]any{"presentation_type": req.PresentationType}, err)
		return models.Failure(err, nil)
	}

	if req.Theme == "" || req.Theme == models.DefaultTheme {
		req.Theme = tpl.RecommendedTheme
	}
	if req.NumSlides <= 0 || req.NumSlides == models.DefaultNumSlides {
		req.NumSlides = len(tpl.SlideStructure)
	}

	res, _ := o.run(ctx, req, &tpl)
	return res
}

// GenerateWithNotes runs the pipeline and then, when the run succeeded
// and a generator is configured, adds speaker notes in a best-effort
// post-process step. A notes failure never invalidates the base result.
func (o *Orchestrator) GenerateWithNotes(ctx context.Context, req models.Request) *models.Result {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	res, outputs := o.run(ctx, req, nil)
	if !res.Success || o.writer.Offline() {
		return res
	}

	contentOut, _ := outputs["content"].(map[string]any)
	if contentOut == nil {
		return res
	}

	notesTask := models.NewTask("speaker notes", "per-slide talking points", 2, map[string]any{
		"kind":   content.KindSpeakerNotes,
		"slides": contentOut["slides"],
	})
	out, err := o.dispatch(ctx, o.writer, notesTask)
	if err != nil {
		o.log.Log("speaker notes skipped: %v", err)
		return res
	}
	slides := sliceAny(out["slides"])
	if len(slides) == 0 {
		return res
	}
	contentOut["slides"] = slides

	notes := make([]string, 0, len(slides))
	for _, raw := range slides {
		slide, _ := raw.(map[string]any)
		text, _ := slide["notes"].(string)
		notes = append(notes, text)
	}

	// Rebuild so the notes land in the document. The original file stays
	// valid if this fails.
	designOut, _ := outputs["design"].(map[string]any)
	if rebuilt, err := o.dispatch(ctx, o.builder, o.buildTask(req, contentOut, designOut)); err != nil {
		o.log.Log("notes rebuild skipped: %v", err)
	} else {
		res.OutputPath = stringFrom(rebuilt, "file_path", res.OutputPath)
		res.SlideCount = intFrom(rebuilt, "slide_count", res.SlideCount)
	}

	res.SpeakerNotes = notes
	return res
}

// run drives the four phases for one request. The second return value
// exposes the raw phase outputs for post-process steps.
func (o *Orchestrator) run(ctx context.Context, req models.Request, tpl *catalog.PresentationType) (*models.Result, map[string]any) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		o.hooks.fire(HookError, o.State(), nil, err)
		return models.Failure(err, nil), nil
	}

	o.mu.Lock()
	o.state = StateNotStarted
	o.wf = workflow.New("presentation: "+req.Topic, "four-phase generation pipeline")
	o.mu.Unlock()

	o.log.Log("run started: topic=%q theme=%s slides=%d mode=%s", req.Topic, req.Theme, req.NumSlides, o.mode)

	partial := make(map[string]any)
	var phases []string

	// Phase 1: research, only when a data source exists.
	var researchOut map[string]any
	if req.DataFile != "" {
		o.enterPhase(StateResearch)
		out, err := o.researchPhase(ctx, req)
		if err != nil {
			return o.fail(StateResearch, err, partial), partial
		}
		researchOut = out
		partial["research"] = out
		phases = append(phases, string(StateResearch))
		o.completePhase(StateResearch, out)
	}

	// Phase 2: content.
	o.enterPhase(StateContent)
	contentOut, err := o.contentPhase(ctx, req, researchOut, tpl)
	if err != nil {
		return o.fail(StateContent, err, partial), partial
	}
	partial["content"] = contentOut
	phases = append(phases, string(StateContent))
	o.completePhase(StateContent, contentOut)

	// Phase 3: design and charts. Branch failures degrade to nil and
	// never stop the run.
	o.enterPhase(StateDesignAndCharts)
	designOut, chartOuts := o.designAndCharts(ctx, req, contentOut, researchOut)
	if designOut != nil {
		partial["design"] = designOut
	}
	chartCount := attachCharts(contentOut, chartOuts)
	if len(chartOuts) > 0 {
		partial["charts"] = chartOuts
	}
	phases = append(phases, string(StateDesignAndCharts))
	o.completePhase(StateDesignAndCharts, map[string]any{
		"design": designOut,
		"charts": chartCount,
	})

	// Phase 4: build.
	o.enterPhase(StateBuild)
	buildOut, err := o.dispatch(ctx, o.builder, o.buildTask(req, contentOut, designOut))
	if err != nil {
		return o.fail(StateBuild, err, partial), partial
	}
	partial["build"] = buildOut
	phases = append(phases, string(StateBuild))
	o.completePhase(StateBuild, buildOut)

	o.setState(StateDone)
	path := stringFrom(buildOut, "file_path", "")
	o.log.Log("run completed: %s", path)
	o.emitter.Emit(Event{
		Type:    EventRunCompleted,
		Phase:   StateDone,
		Message: fmt.Sprintf("presentation saved to %s", path),
	})

	return &models.Result{
		Success:         true,
		OutputPath:      path,
		SlideCount:      intFrom(buildOut, "slide_count", 0),
		PhasesCompleted: phases,
		ChartsGenerated: chartCount,
	}, partial
}

// buildTask assembles the phase 4 task input.
func (o *Orchestrator) buildTask(req models.Request, contentOut, designOut map[string]any) *models.Task {
	input := map[string]any{
		"kind":        builder.KindBuildPresentation,
		"content":     contentOut,
		"theme":       req.Theme,
		"output_path": req.OutputFilename,
	}
	if designOut != nil {
		input["design"] = designOut
	}
	return models.NewTask("build presentation", "assemble and save the deck", 1, input)
}

// dispatch runs one task through an agent: register it in the workflow,
// verify readiness, hand it over, execute, and record the outcome. The
// returned output is the task's output payload.
func (o *Orchestrator) dispatch(ctx context.Context, ag agent.Executor, task *models.Task) (map[string]any, error) {
	o.mu.RLock()
	wf := o.wf
	o.mu.RUnlock()
	if wf == nil {
		return nil, errors.New("no active workflow")
	}

	wf.AddTask(task)
	if !taskReady(wf, task.ID) {
		wf.FailTask(task.ID, "dependencies not satisfied")
		return nil, fmt.Errorf("task %s (%s) is not ready", task.ID, task.Name)
	}

	o.emitter.Emit(Event{
		Type:      EventTaskStarted,
		Phase:     o.State(),
		TaskID:    task.ID,
		TaskName:  task.Name,
		AgentName: ag.Name(),
	})

	if !ag.ReceiveTask(task) {
		wf.FailTask(task.ID, "agent "+ag.Name()+" is busy")
		err := fmt.Errorf("agent %s rejected task %s: busy", ag.Name(), task.Name)
		o.emitter.Emit(Event{
			Type:      EventTaskFailed,
			Phase:     o.State(),
			TaskID:    task.ID,
			TaskName:  task.Name,
			AgentName: ag.Name(),
			Error:     err,
		})
		return nil, err
	}

	out, err := ag.Run(ctx)
	if err != nil {
		// Run already failed the task; the workflow sees the terminal
		// status through the shared task pointer.
		o.emitter.Emit(Event{
			Type:      EventTaskFailed,
			Phase:     o.State(),
			TaskID:    task.ID,
			TaskName:  task.Name,
			AgentName: ag.Name(),
			Error:     err,
		})
		return nil, fmt.Errorf("%s: %w", task.Name, err)
	}

	wf.CompleteTask(task.ID, out)
	o.emitter.Emit(Event{
		Type:      EventTaskCompleted,
		Phase:     o.State(),
		TaskID:    task.ID,
		TaskName:  task.Name,
		AgentName: ag.Name(),
	})
	return out, nil
}

// taskReady reports whether the task appears in the workflow's current
// ready list.
func taskReady(wf *workflow.Workflow, id string) bool {
	for _, t := range wf.ReadyTasks() {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) enterPhase(s State) {
	o.setState(s)
	o.log.Log("phase %s started", s)
	o.hooks.fire(HookPhaseStart, s, nil, nil)
	o.emitter.Emit(Event{Type: EventPhaseStarted, Phase: s})
}

func (o *Orchestrator) completePhase(s State, payload map[string]any) {
	o.log.Log("phase %s completed", s)
	o.hooks.fire(HookPhaseComplete, s, payload, nil)
	o.emitter.Emit(Event{Type: EventPhaseCompleted, Phase: s})
}

// fail stops the pipeline: terminal state, error hook, failure event,
// and a result that preserves the phase outputs produced so far.
func (o *Orchestrator) fail(s State, err error, partial map[string]any) *models.Result {
	o.setState(StateFailed)
	o.log.Log("pipeline failed in %s: %v", s, err)
	o.hooks.fire(HookError, s, partial, err)
	o.emitter.Emit(Event{
		Type:    EventRunFailed,
		Phase:   s,
		Message: err.Error(),
		Error:   err,
	})
	return models.Failure(err, partial)
}

package orchestrator

import (
	"github.com/deckhand-io/deckhand/internal/catalog"
	"github.com/deckhand-io/deckhand/internal/charts"
	"github.com/deckhand-io/deckhand/internal/llm"
	"github.com/deckhand-io/deckhand/internal/research"
)

// RequiredConfig contains the minimal required configuration for an Orchestrator.
type RequiredConfig struct {
	// OutputDir is the directory where presentations, chart images, and
	// debug logs are written.
	OutputDir string
}

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	mode        Mode
	catalog     *catalog.Catalog
	generator   llm.Generator
	renderer    charts.Renderer
	rendererSet bool
	search      research.SearchFunc
	logger      *DebugLogger
	emitBuf     int
}

// defaultOptions returns the option set applied before user options run.
func defaultOptions() *orchestratorOptions {
	return &orchestratorOptions{
		mode:    ModeAdaptive,
		emitBuf: 100,
	}
}

// WithMode sets the execution mode for the design and charts phase.
func WithMode(m Mode) Option {
	return func(o *orchestratorOptions) { o.mode = m }
}

// WithCatalog sets the theme and template catalog shared by the agents.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *orchestratorOptions) { o.catalog = c }
}

// WithGenerator sets the text generator for the content agents. A nil
// generator leaves the pipeline offline, producing deterministic
// fallback content.
func WithGenerator(g llm.Generator) Option {
	return func(o *orchestratorOptions) { o.generator = g }
}

// WithRenderer sets the chart renderer. Passing nil explicitly disables
// chart image rendering.
func WithRenderer(r charts.Renderer) Option {
	return func(o *orchestratorOptions) {
		o.renderer = r
		o.rendererSet = true
	}
}

// WithSearch sets the web search function used during research.
func WithSearch(s research.SearchFunc) Option {
	return func(o *orchestratorOptions) { o.search = s }
}

// WithLogger sets the debug logger threaded through every agent.
func WithLogger(l *DebugLogger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithEventBuffer sets the event channel buffer size.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) {
		if n > 0 {
			o.emitBuf = n
		}
	}
}

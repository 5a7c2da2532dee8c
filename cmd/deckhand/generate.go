package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deckhand-io/deckhand/internal/config"
	"github.com/deckhand-io/deckhand/internal/history"
	"github.com/deckhand-io/deckhand/internal/llm"
	"github.com/deckhand-io/deckhand/internal/orchestrator"
	"github.com/deckhand-io/deckhand/internal/watch"
	"github.com/deckhand-io/deckhand/pkg/models"
)

var (
	genDataFile  string
	genTheme     string
	genType      string
	genOutput    string
	genOutputDir string
	genSlides    int
	genNoCharts  bool
	genAudience  string
	genTone      string
	genMode      string
	genOffline   bool
	genNotes     bool
	genHeadless  bool
	genWatch     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a presentation",
	Long: `Generate a .pptx presentation for a topic.

The topic drives the outline and slide content. With --data, the
research phase reads the spreadsheet first and the deck gets charts
rendered from its real numbers plus an auto-detected key metrics
figure.

Themes come from the built-in catalog (see 'deckhand themes');
--type applies a structure archetype with a recommended theme
(see 'deckhand templates').

With an Anthropic API key configured the content phase writes through
the model; without one the run is fully offline and deterministic.
--offline forces the deterministic path even when a key is present.

Execution modes (--mode):
  sequential: design and charts run one after the other
  parallel:   design and charts always run concurrently
  adaptive:   concurrent only when both branches have work (default)

Watch mode (--watch, implies --headless) regenerates the deck on every
change to the data file until interrupted.

Examples:
  deckhand generate "Q1 Sales Review"
  deckhand generate "Q1 Sales Review" --data metrics.csv --theme modern
  deckhand generate "Platform Update" --type project_update --notes
  deckhand generate "Board Deck" --data q1.xlsx --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genDataFile, "data", "", "Spreadsheet to analyze (.csv or .xlsx)")
	generateCmd.Flags().StringVar(&genTheme, "theme", "", "Visual theme (see 'deckhand themes')")
	generateCmd.Flags().StringVar(&genType, "type", "", "Structure archetype (see 'deckhand templates')")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Output file name (default presentation.pptx)")
	generateCmd.Flags().StringVar(&genOutputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().IntVar(&genSlides, "slides", 0, "Target slide count (default from config)")
	generateCmd.Flags().BoolVar(&genNoCharts, "no-charts", false, "Skip chart rendering even with a data file")
	generateCmd.Flags().StringVar(&genAudience, "audience", "", "Audience hint for the content phase")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "Tone hint for the content phase")
	generateCmd.Flags().StringVar(&genMode, "mode", "adaptive", "Execution mode: sequential, parallel, or adaptive")
	generateCmd.Flags().BoolVar(&genOffline, "offline", false, "Force deterministic generation, no model calls")
	generateCmd.Flags().BoolVar(&genNotes, "notes", false, "Add speaker notes after the build")
	generateCmd.Flags().BoolVar(&genHeadless, "headless", false, "Run without TUI (headless mode)")
	generateCmd.Flags().BoolVar(&genWatch, "watch", false, "Regenerate when the data file changes (implies --headless)")
}

func runGenerate(cmd *cobra.Command, args []string) (retErr error) {
	// Recover from panics and report them
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runGenerate: %v", r)
		}
	}()

	topic := strings.Join(args, " ")
	verbose := os.Getenv("DECKHAND_DEBUG") != ""

	if verbose {
		fmt.Println("[DEBUG] Starting runGenerate...")
		fmt.Printf("[DEBUG] Topic: %s\n", topic)
		fmt.Printf("[DEBUG] Data file: %q\n", genDataFile)
		fmt.Printf("[DEBUG] Mode: %s\n", genMode)
		fmt.Printf("[DEBUG] Headless: %v\n", genHeadless)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mode := orchestrator.Mode(genMode)
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q: must be sequential, parallel, or adaptive", genMode)
	}

	req := buildRequest(topic, cfg)
	if err := req.Validate(); err != nil {
		return err
	}
	if req.DataFile != "" {
		if _, err := os.Stat(req.DataFile); err != nil {
			return fmt.Errorf("data file %s: %w", req.DataFile, err)
		}
	}
	if genWatch && req.DataFile == "" {
		return fmt.Errorf("--watch requires --data")
	}
	if genNotes && req.PresentationType != "" {
		fmt.Println("Note: --notes is ignored when --type is set")
	}

	outputDir := genOutputDir
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	// Create context with cancellation for all modes
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	gen := buildGenerator(cfg, verbose)
	if verbose {
		fmt.Printf("[DEBUG] Generator configured: %v\n", gen != nil)
	}

	logger := orchestrator.NewDebugLoggerInDir(".deckhand")
	defer logger.Close()

	orch := orchestrator.New(
		orchestrator.RequiredConfig{OutputDir: outputDir},
		orchestrator.WithMode(mode),
		orchestrator.WithGenerator(gen),
		orchestrator.WithLogger(logger),
	)
	defer orch.Close()
	if verbose {
		fmt.Println("[DEBUG] Orchestrator created")
	}

	if genWatch {
		return runWatchMode(ctx, orch, cfg, req, mode)
	}
	if genHeadless {
		return runHeadless(ctx, orch, cfg, req, mode)
	}
	return runWithTUI(ctx, orch, cfg, req, mode)
}

// buildRequest assembles the generation request from the topic, flags,
// and configured defaults. Flags win over config, config over built-in
// defaults.
func buildRequest(topic string, cfg *config.Config) models.Request {
	req := models.NewRequest(topic)
	req.DataFile = genDataFile
	req.PresentationType = genType
	req.Audience = genAudience
	req.Tone = genTone
	req.IncludeCharts = !genNoCharts

	if genTheme != "" {
		req.Theme = genTheme
	} else if cfg.Defaults.Theme != "" {
		req.Theme = cfg.Defaults.Theme
	}
	if genSlides > 0 {
		req.NumSlides = genSlides
	} else if cfg.Defaults.NumSlides > 0 {
		req.NumSlides = cfg.Defaults.NumSlides
	}
	if genOutput != "" {
		req.OutputFilename = genOutput
	}
	return req
}

// buildGenerator selects the text generator for the run. A missing or
// unusable client is never fatal: the pipeline runs offline with
// deterministic content instead.
func buildGenerator(cfg *config.Config, verbose bool) llm.Generator {
	if genOffline {
		return llm.Offline{}
	}
	if !cfg.LLM.Enabled {
		return nil
	}

	lcfg := llm.Config{
		Model:     anthropic.Model(cfg.LLM.Model),
		MaxTokens: int64(cfg.LLM.MaxTokens),
	}
	if cfg.LLM.UseBedrock {
		lcfg.UseAWSBedrock = true
		lcfg.AWSRegion = cfg.LLM.AWSRegion
	} else {
		key, source, err := config.ResolveAPIKey(cfg)
		if err != nil {
			fmt.Println("No Anthropic API key found; running offline with deterministic content.")
			return nil
		}
		if verbose {
			fmt.Printf("[DEBUG] API key source: %s\n", source)
		}
		lcfg.APIKey = key
	}

	client, err := llm.NewAnthropic(lcfg)
	if err != nil {
		fmt.Printf("Warning: anthropic client unavailable, running offline: %v\n", err)
		return nil
	}
	return client
}

// generate runs the request through the right engine entry point and
// records the outcome in the run history.
func generate(ctx context.Context, orch *orchestrator.Orchestrator, cfg *config.Config, req models.Request, mode orchestrator.Mode) *models.Result {
	startedAt := time.Now()

	var res *models.Result
	switch {
	case req.PresentationType != "":
		res = orch.GenerateFromTemplate(ctx, req)
	case genNotes:
		res = orch.GenerateWithNotes(ctx, req)
	default:
		res = orch.Generate(ctx, req)
	}

	recordHistory(cfg, req, res, string(mode), startedAt, time.Now())
	return res
}

// recordHistory stores the run outcome. Failures only log: history must
// never fail a run.
func recordHistory(cfg *config.Config, req models.Request, res *models.Result, mode string, startedAt, completedAt time.Time) {
	if !cfg.History.Enabled {
		return
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		log.Printf("Warning: history unavailable: %v", err)
		return
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Printf("Warning: history migration failed: %v", err)
		return
	}
	if err := store.RecordRun(history.FromResult(req, res, mode, startedAt, completedAt)); err != nil {
		log.Printf("Warning: could not record run: %v", err)
	}
}

// runHeadless runs the generation printing events to stdout.
func runHeadless(ctx context.Context, orch *orchestrator.Orchestrator, cfg *config.Config, req models.Request, mode orchestrator.Mode) error {
	go consumeEventsHeadless(orch.Events())

	fmt.Printf("Generating presentation: %s\n", req.Topic)
	fmt.Printf("  Theme: %s\n", req.Theme)
	fmt.Printf("  Slides: %d\n", req.NumSlides)
	if req.DataFile != "" {
		fmt.Printf("  Data: %s\n", req.DataFile)
	}
	fmt.Printf("  Mode: %s\n", mode)
	fmt.Println()

	res := generate(ctx, orch, cfg, req, mode)
	printResult(res)
	if !res.Success {
		return fmt.Errorf("generation failed: %s", res.Error)
	}
	return nil
}

// runWatchMode builds once, then rebuilds on every change to the data
// file until the context is cancelled.
func runWatchMode(ctx context.Context, orch *orchestrator.Orchestrator, cfg *config.Config, req models.Request, mode orchestrator.Mode) error {
	w, err := watch.New(req.DataFile, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", req.DataFile, err)
	}
	defer w.Close()

	go consumeEventsHeadless(orch.Events())

	res := generate(ctx, orch, cfg, req, mode)
	printResult(res)

	fmt.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", w.Path())
	err = w.Run(ctx, func() {
		fmt.Println("\nChange detected, regenerating...")
		res := generate(ctx, orch, cfg, req, mode)
		printResult(res)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// consumeEventsHeadless prints pipeline events to stdout.
func consumeEventsHeadless(events <-chan orchestrator.Event) {
	phaseColor := color.New(color.FgCyan)
	for event := range events {
		switch event.Type {
		case orchestrator.EventPhaseStarted:
			phaseColor.Printf("==> %s\n", event.Message)
		case orchestrator.EventPhaseCompleted:
			fmt.Printf("    %s\n", event.Message)
		case orchestrator.EventTaskStarted:
			fmt.Printf("[STARTED] %s (agent: %s)\n", event.TaskName, event.AgentName)
		case orchestrator.EventTaskCompleted:
			fmt.Printf("[DONE] %s\n", event.TaskName)
		case orchestrator.EventTaskFailed:
			fmt.Printf("[FAILED] %s: %v\n", event.TaskName, event.Error)
		case orchestrator.EventRunFailed:
			fmt.Printf("[RUN] failed: %v\n", event.Error)
		}
	}
}

// printResult prints the final run verdict.
func printResult(res *models.Result) {
	fmt.Println()
	if res.Success {
		printStatus("✓", fmt.Sprintf("Saved %s (%d slides, %d charts)",
			res.OutputPath, res.SlideCount, res.ChartsGenerated), color.FgGreen)
		if len(res.PhasesCompleted) > 0 {
			fmt.Printf("  Phases: %s\n", strings.Join(res.PhasesCompleted, ", "))
		}
		if len(res.SpeakerNotes) > 0 {
			fmt.Printf("  Speaker notes: %d slides\n", len(res.SpeakerNotes))
		}
	} else {
		printStatus("✗", fmt.Sprintf("Generation failed: %s", res.Error), color.FgRed)
	}
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

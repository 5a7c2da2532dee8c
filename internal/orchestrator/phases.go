package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/deckhand-io/deckhand/internal/catalog"
	"github.com/deckhand-io/deckhand/internal/charts"
	"github.com/deckhand-io/deckhand/internal/content"
	"github.com/deckhand-io/deckhand/internal/data"
	"github.com/deckhand-io/deckhand/internal/design"
	"github.com/deckhand-io/deckhand/internal/research"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// researchPhase chains the three research steps: read the file, analyze
// its first sheet, derive insights framed by the topic. Each step is a
// workflow task depending on the previous one.
func (o *Orchestrator) researchPhase(ctx context.Context, req models.Request) (map[string]any, error) {
	readTask := models.NewTask("read data", "ingest "+req.DataFile, 1, map[string]any{
		"kind":      research.KindReadData,
		"file_path": req.DataFile,
	})
	readOut, err := o.dispatch(ctx, o.researcher, readTask)
	if err != nil {
		return nil, err
	}

	cacheKey := req.DataFile
	if summary, ok := readOut["summary"].(map[string]any); ok {
		if names, ok := summary["sheet_names"].([]string); ok && len(names) > 0 {
			cacheKey = req.DataFile + ":" + names[0]
		}
	}

	analyzeTask := models.NewTask("analyze data", "summary statistics for the first sheet", 1, map[string]any{
		"kind":      research.KindAnalyzeData,
		"cache_key": cacheKey,
	})
	analyzeTask.Dependencies = []string{readTask.ID}
	analyzeOut, err := o.dispatch(ctx, o.researcher, analyzeTask)
	if err != nil {
		return nil, err
	}

	insightsTask := models.NewTask("generate insights", "ranked findings for "+req.Topic, 1, map[string]any{
		"kind":     research.KindGenerateInsights,
		"analysis": analyzeOut["analysis"],
		"context":  req.Topic,
	})
	insightsTask.Dependencies = []string{analyzeTask.ID}
	insightsOut, err := o.dispatch(ctx, o.researcher, insightsTask)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"source":    readOut,
		"analysis":  analyzeOut,
		"insights":  insightsOut["insights"],
		"cache_key": cacheKey,
	}, nil
}

// contentPhase produces the deck content. With a generator configured
// the writer drafts the whole deck in one task; otherwise the planner
// builds an outline and expands it. A template archetype replaces the
// planner's outline and becomes a structure hint for the writer.
func (o *Orchestrator) contentPhase(ctx context.Context, req models.Request, researchOut map[string]any, tpl *catalog.PresentationType) (map[string]any, error) {
	var insights any
	var researchData map[string]any
	if researchOut != nil {
		insights = researchOut["insights"]
		researchData, _ = researchOut["analysis"].(map[string]any)
	}

	if !o.writer.Offline() {
		input := map[string]any{
			"kind":       content.KindGenerateContent,
			"topic":      req.Topic,
			"num_slides": req.NumSlides,
		}
		if req.Audience != "" {
			input["audience"] = req.Audience
		}
		if req.Tone != "" {
			input["tone"] = req.Tone
		}
		if note := contentContext(researchOut, tpl); note != "" {
			input["context"] = note
		}
		out, err := o.dispatch(ctx, o.writer, models.NewTask("generate content", "draft the deck for "+req.Topic, 1, input))
		if err != nil {
			return nil, err
		}
		out["outline"] = outlineView(out)
		return out, nil
	}

	var outline map[string]any
	var outlineID string
	if tpl != nil {
		outline = templateOutline(req.Topic, tpl)
	} else {
		outlineInput := map[string]any{
			"kind":       content.KindCreateOutline,
			"topic":      req.Topic,
			"num_slides": req.NumSlides,
		}
		if insights != nil {
			outlineInput["insights"] = insights
		}
		outlineTask := models.NewTask("create outline", "deck skeleton", 1, outlineInput)
		out, err := o.dispatch(ctx, o.planner, outlineTask)
		if err != nil {
			return nil, err
		}
		outline = out
		outlineID = outlineTask.ID
	}

	expandInput := map[string]any{
		"kind":    content.KindCreateFullContent,
		"outline": outline,
	}
	if researchData != nil {
		expandInput["research_data"] = researchData
	}
	if insights != nil {
		expandInput["insights"] = insights
	}
	expandTask := models.NewTask("create full content", "expand the outline into slides", 1, expandInput)
	if outlineID != "" {
		expandTask.Dependencies = []string{outlineID}
	}
	return o.dispatch(ctx, o.planner, expandTask)
}

// contentContext builds the writer's framing note from the research
// results and the optional structure archetype.
func contentContext(researchOut map[string]any, tpl *catalog.PresentationType) string {
	var parts []string
	if tpl != nil {
		purposes := make([]string, len(tpl.SlideStructure))
		for i, ref := range tpl.SlideStructure {
			purposes[i] = ref.Purpose
		}
		parts = append(parts, fmt.Sprintf("Follow the %s structure: %s.", tpl.Name, strings.Join(purposes, "; ")))
	}
	if researchOut != nil {
		if descs := insightLines(researchOut["insights"]); len(descs) > 0 {
			parts = append(parts, "Data insights: "+strings.Join(descs, " "))
		}
	}
	return strings.Join(parts, "\n")
}

// insightLines flattens research insights to their descriptions.
func insightLines(v any) []string {
	list, _ := v.([]research.Insight)
	out := make([]string, 0, len(list))
	for _, ins := range list {
		out = append(out, ins.Description)
	}
	return out
}

// outlineView derives the lightweight outline from generated content:
// slide numbers, types, and titles only.
func outlineView(contentOut map[string]any) []any {
	slides := sliceAny(contentOut["slides"])
	view := make([]any, 0, len(slides))
	for i, raw := range slides {
		slide, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		view = append(view, map[string]any{
			"slide_number": i + 1,
			"type":         stringFrom(slide, "type", "content"),
			"title":        stringFrom(slide, "title", ""),
		})
	}
	return view
}

// templateOutline turns an archetype into a planner-shaped outline. The
// first slide takes the topic as its title and every other slide takes
// its archetype purpose.
func templateOutline(topic string, tpl *catalog.PresentationType) map[string]any {
	slides := make([]any, 0, len(tpl.SlideStructure))
	for i, ref := range tpl.SlideStructure {
		slide := catalog.ContentTemplate(ref.Kind)
		slide["slide_number"] = i + 1
		if i == 0 {
			slide["title"] = topic
		} else if ref.Purpose != "" {
			slide["title"] = ref.Purpose
		}
		slides = append(slides, slide)
	}
	return map[string]any{"title": topic, "slides": slides}
}

// designAndCharts runs the two independent phase 3 branches. A branch
// failure degrades that branch to nil and leaves the sibling intact, so
// the pipeline always reaches the build phase.
func (o *Orchestrator) designAndCharts(ctx context.Context, req models.Request, contentOut, researchOut map[string]any) (map[string]any, []map[string]any) {
	runDesign := func() (map[string]any, error) {
		task := models.NewTask("design presentation", "theme and layout for the deck", 1, map[string]any{
			"kind":    design.KindDesignPresentation,
			"theme":   req.Theme,
			"content": contentOut,
		})
		return o.dispatch(ctx, o.designer, task)
	}
	runCharts := func() ([]map[string]any, error) {
		tasks := o.chartTasks(req, researchOut)
		var outs []map[string]any
		for _, task := range tasks {
			title, _ := task.Input["title"].(string)
			out, err := o.dispatch(ctx, o.chartist, task)
			if err != nil {
				return nil, err
			}
			if _, has := out["title"]; !has {
				out["title"] = title
			}
			outs = append(outs, out)
		}
		return outs, nil
	}

	chartWork := req.IncludeCharts && researchOut != nil
	parallel := o.mode != ModeSequential
	if o.mode == ModeAdaptive && !chartWork {
		parallel = false
	}

	var (
		designOut map[string]any
		designErr error
		chartOuts []map[string]any
		chartErr  error
	)
	if parallel {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			designOut, designErr = runDesign()
		}()
		go func() {
			defer wg.Done()
			chartOuts, chartErr = runCharts()
		}()
		wg.Wait()
	} else {
		designOut, designErr = runDesign()
		chartOuts, chartErr = runCharts()
	}

	if designErr != nil {
		o.branchFailed("design", designErr)
		designOut = nil
	}
	if chartErr != nil {
		o.branchFailed("charts", chartErr)
		chartOuts = nil
	}
	return designOut, chartOuts
}

// branchFailed records a recovered phase 3 branch failure.
func (o *Orchestrator) branchFailed(branch string, err error) {
	o.log.Log("%s branch failed, continuing without it: %v", branch, err)
	o.hooks.fire(HookError, StateDesignAndCharts, map[string]any{"branch": branch}, err)
}

// maxChartRows is the largest table the per-row bar chart is drawn for.
const maxChartRows = 10

// chartTasks derives up to two chart tasks from the research results: an
// auto-selected chart over the numeric column means, and a bar chart of
// the first numeric column keyed by the first text column when the
// table is small enough to label.
func (o *Orchestrator) chartTasks(req models.Request, researchOut map[string]any) []*models.Task {
	if !req.IncludeCharts || researchOut == nil {
		return nil
	}
	analysisOut, _ := researchOut["analysis"].(map[string]any)
	if analysisOut == nil {
		return nil
	}
	analysis, _ := analysisOut["analysis"].(*data.Analysis)
	if analysis == nil {
		return nil
	}

	var tasks []*models.Task

	numeric := analysis.NumericColumns()
	if len(numeric) > 0 {
		means := make(map[string]any, len(numeric))
		for _, col := range numeric {
			means[col] = analysis.Stats[col].Mean
		}
		tasks = append(tasks, models.NewTask("chart key metrics", "averages across numeric columns", 1, map[string]any{
			"kind":  charts.KindAuto,
			"title": "Key Metrics",
			"data":  means,
		}))
	}

	cacheKey, _ := researchOut["cache_key"].(string)
	if task := o.rowChartTask(cacheKey, analysis); task != nil {
		tasks = append(tasks, task)
	}
	return tasks
}

// rowChartTask builds a per-row bar chart when the cached table has a
// text label column, a numeric value column, and few enough rows.
func (o *Orchestrator) rowChartTask(cacheKey string, analysis *data.Analysis) *models.Task {
	table := o.researcher.CachedTable(cacheKey)
	if table == nil || len(table.Rows) == 0 || len(table.Rows) > maxChartRows {
		return nil
	}

	labelCol := -1
	valueCol := -1
	for i, name := range table.Headers {
		switch analysis.Types[name] {
		case data.TypeText:
			if labelCol < 0 {
				labelCol = i
			}
		case data.TypeNumeric:
			if valueCol < 0 {
				valueCol = i
			}
		}
	}
	if labelCol < 0 || valueCol < 0 {
		return nil
	}

	var labels []string
	var values []float64
	for _, row := range table.Rows {
		if labelCol >= len(row) || valueCol >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[valueCol]), 64)
		if err != nil {
			continue
		}
		labels = append(labels, row[labelCol])
		values = append(values, v)
	}
	if len(labels) == 0 {
		return nil
	}

	title := table.Headers[valueCol] + " by " + table.Headers[labelCol]
	return models.NewTask("chart "+table.Headers[valueCol], "per-row values from "+table.Name, 1, map[string]any{
		"kind":   charts.KindBarChart,
		"title":  title,
		"labels": labels,
		"values": values,
	})
}

// attachCharts appends one chart slide per rendered image to the content
// and returns the number attached. Unavailable renders are skipped.
func attachCharts(contentOut map[string]any, chartOuts []map[string]any) int {
	if contentOut == nil || len(chartOuts) == 0 {
		return 0
	}

	slides := sliceAny(contentOut["slides"])
	count := 0
	for _, out := range chartOuts {
		if available, _ := out["available"].(bool); !available {
			continue
		}
		path, _ := out["chart_path"].(string)
		if path == "" {
			continue
		}
		slides = append(slides, map[string]any{
			"type":       "chart",
			"title":      stringFrom(out, "title", "Chart"),
			"chart_path": path,
		})
		count++
	}
	contentOut["slides"] = slides
	return count
}

// sliceAny normalizes a slides payload to []any.
func sliceAny(v any) []any {
	switch list := v.(type) {
	case []any:
		return list
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out
	}
	return nil
}

func stringFrom(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func intFrom(m map[string]any, key string, fallback int) int {
	if m == nil {
		return fallback
	}
	switch n := m[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

package charts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// Task kinds the chart agent dispatches on.
const (
	KindBarChart        = "bar_chart"
	KindLineChart       = "line_chart"
	KindPieChart        = "pie_chart"
	KindTableImage      = "table_image"
	KindComparisonChart = "comparison_chart"
	KindAuto            = "auto"
)

// autoPieLimit is the category count above which auto selection
// prefers a bar chart over a pie chart.
const autoPieLimit = 6

// Agent is the chart specialist. A nil Renderer degrades every task to
// an explicit unavailable payload instead of failing, so decks can
// still build without chart support.
type Agent struct {
	*agent.Core
	renderer Renderer
	outDir   string
	count    int
}

// New creates the chart agent writing images under outDir.
func New(renderer Renderer, outDir string, log agent.Logger) *Agent {
	a := &Agent{renderer: renderer, outDir: outDir}
	a.Core = agent.NewCore("chartist", "chart generation", a.execute, log)
	return a
}

func (a *Agent) execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	switch task.Kind() {
	case KindBarChart:
		return a.single(ChartBar, task.Input)
	case KindLineChart:
		return a.lineChart(task.Input)
	case KindPieChart:
		return a.single(ChartPie, task.Input)
	case KindTableImage:
		return a.tableImage(task.Input)
	case KindComparisonChart:
		return a.comparison(task.Input)
	default:
		return a.auto(task.Input)
	}
}

// single handles the bar and pie kinds, which share the labels+values
// payload shape.
func (a *Agent) single(kind string, input map[string]any) (map[string]any, error) {
	labels := toStrings(input["labels"])
	values, _ := toFloats(input["values"])
	return a.render(Spec{
		Kind:    kind,
		Title:   title(input),
		Labels:  labels,
		Values:  values,
		Palette: toStrings(input["palette"]),
	})
}

func (a *Agent) lineChart(input map[string]any) (map[string]any, error) {
	spec := Spec{
		Kind:    ChartLine,
		Title:   title(input),
		Labels:  toStrings(input["labels"]),
		Palette: toStrings(input["palette"]),
	}
	if series, ok := toSeries(input["series"]); ok {
		spec.Series = series
	} else {
		spec.Values, _ = toFloats(input["values"])
	}
	return a.render(spec)
}

func (a *Agent) tableImage(input map[string]any) (map[string]any, error) {
	cells, _ := input["rows"].([][]string)
	if cells == nil {
		if raw, ok := input["rows"].([]any); ok {
			for _, r := range raw {
				cells = append(cells, toStrings(r))
			}
		}
	}
	return a.render(Spec{
		Kind:    ChartTable,
		Title:   title(input),
		Columns: toStrings(input["columns"]),
		Cells:   cells,
		Palette: toStrings(input["palette"]),
	})
}

func (a *Agent) comparison(input map[string]any) (map[string]any, error) {
	series, ok := toSeries(input["series"])
	if !ok {
		return nil, errors.New("comparison chart needs a series map")
	}
	return a.render(Spec{
		Kind:    ChartStacked,
		Title:   title(input),
		Labels:  toStrings(input["labels"]),
		Series:  series,
		Palette: toStrings(input["palette"]),
	})
}

// auto inspects input["data"] and picks a chart kind: a flat map of
// category to number becomes a pie chart up to autoPieLimit categories
// and a bar chart beyond that, while a nested map becomes a comparison
// chart.
func (a *Agent) auto(input map[string]any) (map[string]any, error) {
	if flat, ok := toFlatData(input["data"]); ok {
		labels := make([]string, 0, len(flat))
		for label := range flat {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		values := make([]float64, len(labels))
		for i, label := range labels {
			values[i] = flat[label]
		}
		kind := ChartPie
		if len(labels) > autoPieLimit {
			kind = ChartBar
		}
		return a.render(Spec{
			Kind:    kind,
			Title:   title(input),
			Labels:  labels,
			Values:  values,
			Palette: toStrings(input["palette"]),
		})
	}

	if nested, ok := toNestedData(input["data"]); ok {
		order := make([]string, 0, len(nested))
		for name := range nested {
			order = append(order, name)
		}
		sort.Strings(order)

		seen := map[string]bool{}
		var labelList []string
		for _, inner := range nested {
			for label := range inner {
				if !seen[label] {
					seen[label] = true
					labelList = append(labelList, label)
				}
			}
		}
		sort.Strings(labelList)

		series := make(map[string][]float64, len(nested))
		for _, name := range order {
			values := make([]float64, len(labelList))
			for i, label := range labelList {
				values[i] = nested[name][label]
			}
			series[name] = values
		}
		return a.render(Spec{
			Kind:        ChartStacked,
			Title:       title(input),
			Labels:      labelList,
			Series:      series,
			SeriesOrder: order,
			Palette:     toStrings(input["palette"]),
		})
	}

	return nil, errors.New("chart data must be a map of numbers or a map of maps")
}

// render writes the spec to the next numbered file and reports its
// path.
func (a *Agent) render(spec Spec) (map[string]any, error) {
	if a.renderer == nil {
		return map[string]any{
			"available":  false,
			"chart_type": spec.Kind,
			"message":    "chart rendering disabled",
		}, nil
	}

	if err := os.MkdirAll(a.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("chart output dir: %w", err)
	}
	a.count++
	base := sanitizeName(spec.Title)
	if base == "" {
		base = spec.Kind
	}
	path := filepath.Join(a.outDir, fmt.Sprintf("%s_%d.png", base, a.count))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("chart file: %w", err)
	}
	if err := a.renderer.Render(spec, f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("render %s: %w", spec.Kind, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("chart file: %w", err)
	}

	return map[string]any{
		"available":  true,
		"chart_path": path,
		"chart_type": spec.Kind,
	}, nil
}

func title(input map[string]any) string {
	s, _ := input["title"].(string)
	return s
}

// sanitizeName lowercases and strips a title down to a safe file stem.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toFloats(v any) ([]float64, bool) {
	switch vals := v.(type) {
	case []float64:
		return vals, true
	case []int:
		out := make([]float64, len(vals))
		for i, n := range vals {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, 0, len(vals))
		for _, raw := range vals {
			f, ok := toFloat(raw)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	}
	return nil, false
}

func toStrings(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, raw := range vals {
			if s, ok := raw.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(raw))
			}
		}
		return out
	}
	return nil
}

func toSeries(v any) (map[string][]float64, bool) {
	switch m := v.(type) {
	case map[string][]float64:
		return m, len(m) > 0
	case map[string]any:
		out := make(map[string][]float64, len(m))
		for name, raw := range m {
			vals, ok := toFloats(raw)
			if !ok {
				return nil, false
			}
			out[name] = vals
		}
		return out, len(out) > 0
	}
	return nil, false
}

func toFlatData(v any) (map[string]float64, bool) {
	switch m := v.(type) {
	case map[string]float64:
		return m, len(m) > 0
	case map[string]any:
		out := make(map[string]float64, len(m))
		for k, raw := range m {
			f, ok := toFloat(raw)
			if !ok {
				return nil, false
			}
			out[k] = f
		}
		return out, len(out) > 0
	}
	return nil, false
}

func toNestedData(v any) (map[string]map[string]float64, bool) {
	switch m := v.(type) {
	case map[string]map[string]float64:
		return m, len(m) > 0
	case map[string]any:
		out := make(map[string]map[string]float64, len(m))
		for name, raw := range m {
			inner, ok := toFlatData(raw)
			if !ok {
				return nil, false
			}
			out[name] = inner
		}
		return out, len(out) > 0
	}
	return nil, false
}


// Package design implements the visual design specialist: it resolves
// themes from the catalog, assigns layout geometry per slide kind, and
// recommends chart types for data shapes.
package design

import (
	"context"
	"fmt"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/catalog"
	"github.com/deckhand-io/deckhand/internal/charts"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// Task kinds the design agent dispatches on.
const (
	KindSelectTheme        = "select_theme"
	KindDesignSlide        = "design_slide"
	KindDesignPresentation = "design_presentation"
	KindRecommendChart     = "recommend_chart"
)

// Slide dimensions in inches, 16:9.
const (
	SlideWidth  = 10.0
	SlideHeight = 5.625
)

// Box is a placement rectangle in inches from the slide's top left.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// layouts maps slide kind to named placement boxes. Kinds without an
// entry use the content layout.
var layouts = map[string]map[string]Box{
	"title": {
		"title":    {X: 0.5, Y: 2.0, W: 9.0, H: 1.5},
		"subtitle": {X: 0.5, Y: 3.5, W: 9.0, H: 1.0},
	},
	"section": {
		"title": {X: 0.5, Y: 2.2, W: 9.0, H: 1.2},
	},
	"content": {
		"title": {X: 0.5, Y: 0.3, W: 9.0, H: 0.8},
		"body":  {X: 0.5, Y: 1.3, W: 9.0, H: 4.0},
	},
	"two_column": {
		"title": {X: 0.5, Y: 0.3, W: 9.0, H: 0.8},
		"left":  {X: 0.5, Y: 1.3, W: 4.2, H: 4.0},
		"right": {X: 5.2, Y: 1.3, W: 4.2, H: 4.0},
	},
	"quote": {
		"body": {X: 1.0, Y: 2.0, W: 8.0, H: 1.8},
	},
	"chart": {
		"title": {X: 0.5, Y: 0.3, W: 9.0, H: 0.8},
		"image": {X: 1.0, Y: 1.2, W: 8.0, H: 4.1},
	},
}

// Layout resolves a slide kind to its placement boxes, treating
// comparison as two columns and the media kinds alike. The builder uses
// the same geometry when no per-slide design is supplied.
func Layout(kind string) (string, map[string]Box) {
	switch kind {
	case "comparison":
		return kind, layouts["two_column"]
	case "table", "image":
		return kind, layouts["chart"]
	}
	if boxes, ok := layouts[kind]; ok {
		return kind, boxes
	}
	return kind, layouts["content"]
}

// Agent is the design specialist.
type Agent struct {
	*agent.Core
	catalog *catalog.Catalog
}

// New creates the design agent backed by the given theme catalog.
func New(cat *catalog.Catalog, log agent.Logger) *Agent {
	a := &Agent{catalog: cat}
	a.Core = agent.NewCore("designer", "visual design and layout", a.execute, log)
	return a
}

func (a *Agent) execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	switch task.Kind() {
	case KindDesignSlide:
		return a.designSlide(task.Input), nil
	case KindDesignPresentation:
		return a.designPresentation(task.Input), nil
	case KindRecommendChart:
		return a.recommendChart(task.Input), nil
	default:
		return a.selectTheme(task.Input), nil
	}
}

// selectTheme resolves the requested theme through the catalog and
// applies any color overrides on top.
func (a *Agent) selectTheme(input map[string]any) map[string]any {
	id, _ := input["theme"].(string)
	if id == "" {
		id = catalog.DefaultThemeID
	}

	theme := a.catalog.Theme(id)
	theme.Colors = applyOverrides(theme.Colors, colorOverrides(input["overrides"]))

	a.Logf("selected theme: %s", theme.ID)
	return map[string]any{
		"theme":   theme,
		"name":    theme.ID,
		"palette": Palette(theme),
	}
}

// designSlide assigns layout geometry and element roles for one slide.
func (a *Agent) designSlide(input map[string]any) map[string]any {
	kind, _ := input["slide_type"].(string)
	if kind == "" {
		kind = "content"
	}
	kind, boxes := Layout(kind)

	design := map[string]any{
		"layout_type": kind,
		"boxes":       boxes,
		"elements":    elementsFor(kind),
	}
	return design
}

// designPresentation styles a whole deck: theme resolution plus one
// slide design per content slide.
func (a *Agent) designPresentation(input map[string]any) map[string]any {
	themed := a.selectTheme(input)
	theme := themed["theme"].(catalog.Theme)
	content, _ := input["content"].(map[string]any)

	a.Logf("designing presentation")

	var designs []any
	for i, raw := range anyList(content["slides"]) {
		slide, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d := a.designSlide(map[string]any{"slide_type": slide["type"]})
		if n, ok := slide["slide_number"]; ok {
			d["slide_number"] = n
		} else {
			d["slide_number"] = i + 1
		}
		designs = append(designs, d)
	}

	a.Logf("designed %d slides", len(designs))
	return map[string]any{
		"theme":   theme,
		"name":    theme.ID,
		"palette": Palette(theme),
		"slides":  designs,
		"global": map[string]any{
			"width":      SlideWidth,
			"height":     SlideHeight,
			"background": theme.Colors.Background,
		},
	}
}

// chartKinds is the deterministic preference order for alternatives.
var chartKinds = []string{
	charts.KindBarChart,
	charts.KindLineChart,
	charts.KindPieChart,
	charts.KindComparisonChart,
	charts.KindTableImage,
}

// recommendChart picks a renderable chart kind for the described data.
// Compositions wider than the pie limit fall back to bars.
func (a *Agent) recommendChart(input map[string]any) map[string]any {
	dataType, _ := input["data_type"].(string)
	if dataType == "" {
		dataType = "comparison"
	}
	points := intOr(input, "data_points", 0)

	a.Logf("recommending chart for: %s", dataType)

	var kind string
	switch dataType {
	case "trend", "relationship":
		kind = charts.KindLineChart
	case "composition":
		kind = charts.KindPieChart
		if points > 6 {
			kind = charts.KindBarChart
		}
	case "breakdown":
		kind = charts.KindTableImage
	case "series":
		kind = charts.KindComparisonChart
	default:
		kind = charts.KindBarChart
	}

	var alternatives []string
	for _, alt := range chartKinds {
		if alt != kind && len(alternatives) < 2 {
			alternatives = append(alternatives, alt)
		}
	}

	return map[string]any{
		"recommended_chart": kind,
		"alternatives":      alternatives,
		"reasoning":         fmt.Sprintf("Based on %s data with %d points", dataType, points),
	}
}

// Palette returns the theme's chart color sequence.
func Palette(t catalog.Theme) []string {
	return []string{t.Colors.Primary, t.Colors.Secondary, t.Colors.Accent}
}

func elementsFor(kind string) []any {
	switch kind {
	case "title":
		return []any{
			map[string]any{"type": "title", "style": "centered"},
			map[string]any{"type": "subtitle", "style": "centered"},
		}
	case "section", "quote":
		return []any{
			map[string]any{"type": "title", "style": "centered"},
		}
	case "two_column", "comparison":
		return []any{
			map[string]any{"type": "title", "style": "left"},
			map[string]any{"type": "column_left", "style": "standard"},
			map[string]any{"type": "column_right", "style": "standard"},
		}
	case "chart", "table", "image":
		return []any{
			map[string]any{"type": "title", "style": "left"},
			map[string]any{"type": "image", "style": "standard"},
		}
	default:
		return []any{
			map[string]any{"type": "title", "style": "left"},
			map[string]any{"type": "bullet_list", "style": "standard"},
		}
	}
}

// colorOverrides accepts both string and any maps from task payloads.
func colorOverrides(v any) map[string]string {
	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, raw := range m {
			if s, ok := raw.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

func applyOverrides(c catalog.Colors, ov map[string]string) catalog.Colors {
	for key, val := range ov {
		switch key {
		case "primary":
			c.Primary = val
		case "secondary":
			c.Secondary = val
		case "accent":
			c.Accent = val
		case "text":
			c.Text = val
		case "text_light":
			c.TextLight = val
		case "background":
			c.Background = val
		case "background_alt":
			c.BackgroundAlt = val
		}
	}
	return c
}

func anyList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return nil
}

func intOr(m map[string]any, key string, fallback int) int {
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

package content

import (
	"context"
	"fmt"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/research"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// Task kinds the planner dispatches on.
const (
	KindCreateOutline     = "create_outline"
	KindWriteSlide        = "write_slide"
	KindCreateFullContent = "create_full_content"
)

// Planner is the structuring specialist: it builds outlines and full
// deck content from fixed shapes plus research insights, with no model
// involved.
type Planner struct {
	*agent.Core
}

// NewPlanner creates the planner agent.
func NewPlanner(log agent.Logger) *Planner {
	p := &Planner{}
	p.Core = agent.NewCore("planner", "content structure", p.execute, log)
	return p
}

func (p *Planner) execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	switch task.Kind() {
	case KindWriteSlide:
		return p.writeSlide(task.Input), nil
	case KindCreateFullContent:
		return p.fullContent(task.Input), nil
	default:
		return p.outline(task.Input), nil
	}
}

// outline produces the deck skeleton: title and agenda, content slides
// filling the middle, then a conclusion. Title, agenda, and conclusion
// are fixed, so num_slides-3 content slots remain; an insight slide
// takes the first slot when insights exist, generic section slides fill
// the rest. The deck never has fewer than four slides.
func (p *Planner) outline(input map[string]any) map[string]any {
	topic := stringOr(input, "topic", "Presentation")
	insights := insightDescriptions(input["insights"])
	numSlides := intOr(input, "num_slides", models.DefaultNumSlides)

	p.Logf("creating outline for: %s", topic)

	slides := []any{
		map[string]any{
			"slide_number": 1,
			"type":         "title",
			"title":        topic,
			"subtitle":     "Presentation",
		},
		map[string]any{
			"slide_number": 2,
			"type":         "agenda",
			"title":        "Agenda",
			"items":        []any{"Background and goals", "Analysis results", "Proposal", "Summary"},
		},
	}

	contentSlots := numSlides - 3
	if contentSlots < 1 {
		contentSlots = 1
	}

	slideNum := 3
	if len(insights) > 0 {
		if len(insights) > 4 {
			insights = insights[:4]
		}
		items := make([]any, len(insights))
		for i, d := range insights {
			items[i] = d
		}
		slides = append(slides, map[string]any{
			"slide_number": slideNum,
			"type":         "content",
			"title":        "Analysis Results",
			"items":        items,
		})
		slideNum++
		contentSlots--
	}

	for i := 0; i < contentSlots; i++ {
		slides = append(slides, map[string]any{
			"slide_number": slideNum,
			"type":         "content",
			"title":        fmt.Sprintf("Section %d", i+1),
			"items":        []any{"Key point 1", "Key point 2", "Key point 3"},
		})
		slideNum++
	}

	slides = append(slides, map[string]any{
		"slide_number": slideNum,
		"type":         "conclusion",
		"title":        "Summary",
		"items":        []any{"Key points", "Next steps", "Contact"},
	})

	p.Logf("created outline with %d slides", len(slides))
	return map[string]any{"title": topic, "slides": slides}
}

// writeSlide fills in one slide from its type and supplied material.
func (p *Planner) writeSlide(input map[string]any) map[string]any {
	slideType := stringOr(input, "slide_type", "content")
	title, _ := input["title"].(string)
	keyPoints := anyList(input["key_points"])

	p.Logf("writing slide: %s", title)

	slide := map[string]any{
		"title": title,
		"type":  slideType,
		"body":  []any{},
		"notes": "",
	}

	switch slideType {
	case "title":
		slide["subtitle"], _ = input["subtitle"].(string)
	case "content":
		if len(keyPoints) > 0 {
			slide["body"] = keyPoints
		} else {
			slide["body"] = []any{"Point 1", "Point 2", "Point 3"}
		}
	case "comparison", "two_column":
		slide["left"] = anyList(input["left_items"])
		slide["right"] = anyList(input["right_items"])
	}

	return slide
}

// fullContent expands every outline entry through writeSlide and wraps
// the result with deck metadata.
func (p *Planner) fullContent(input map[string]any) map[string]any {
	outline, _ := input["outline"].(map[string]any)
	researchData, hasData := input["research_data"].(map[string]any)
	insights := anyList(input["insights"])

	p.Logf("creating full presentation content")

	presentation := map[string]any{
		"title":  stringOr(outline, "title", "Presentation"),
		"slides": []any{},
		"metadata": map[string]any{
			"total_slides":  0,
			"has_data":      hasData && len(researchData) > 0,
			"insight_count": len(insights),
		},
	}

	var slides []any
	for _, raw := range anyList(outline["slides"]) {
		def, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		slide := p.writeSlide(map[string]any{
			"slide_type": stringOr(def, "type", "content"),
			"title":      def["title"],
			"key_points": def["items"],
			"subtitle":   def["subtitle"],
		})
		if n, ok := def["slide_number"]; ok {
			slide["slide_number"] = n
		} else {
			slide["slide_number"] = len(slides) + 1
		}
		slides = append(slides, slide)
	}

	presentation["slides"] = slides
	presentation["metadata"].(map[string]any)["total_slides"] = len(slides)

	p.Logf("created full content with %d slides", len(slides))
	return presentation
}

// insightDescriptions pulls descriptions out of whatever shape the
// research phase handed over.
func insightDescriptions(v any) []string {
	switch list := v.(type) {
	case []research.Insight:
		out := make([]string, len(list))
		for i, ins := range list {
			out[i] = ins.Description
		}
		return out
	case []string:
		return list
	case []any:
		var out []string
		for _, raw := range list {
			switch item := raw.(type) {
			case string:
				out = append(out, item)
			case map[string]any:
				if d, ok := item["description"].(string); ok {
					out = append(out, d)
				}
			case research.Insight:
				out = append(out, item.Description)
			}
		}
		return out
	}
	return nil
}

func anyList(v any) []any {
	switch list := v.(type) {
	case []any:
		return list
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out
	case []research.Insight:
		out := make([]any, len(list))
		for i, ins := range list {
			out[i] = ins
		}
		return out
	}
	return nil
}

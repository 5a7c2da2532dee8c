// Package content implements the two content specialists: the Writer,
// which drafts slide decks through a text-generation model, and the
// Planner, which structures decks from templates and research insights
// without one. Every Writer kind degrades to a deterministic fallback
// when no generator is configured or a model call fails, so a deck
// always comes out.
package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/llm"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// Task kinds the writer dispatches on.
const (
	KindGenerateContent = "generate_content"
	KindGenerateSlides  = "generate_slides"
	KindImproveContent  = "improve_content"
	KindSpeakerNotes    = "generate_speaker_notes"
	KindSummarizeData   = "summarize_data"
	KindTranslate       = "translate"
)

const contentSystem = `You are a presentation specialist. Generate structured presentation content for the given topic.
Output must be JSON only, following this structure:

{
    "title": "presentation title",
    "slides": [
        {
            "type": "title|agenda|content|two_column|conclusion",
            "title": "slide title",
            "body": ["bullet 1", "bullet 2"],
            "notes": "speaker notes"
        }
    ]
}`

const slidesSystem = `You are a presentation specialist. Expand the outline into detailed slides using the research data.
Include concrete figures and insights from the data.
Output must be JSON only; every slide needs these fields:
- title: slide title
- type: slide type
- body: body text (array)
- key_points: key points (array)
- notes: speaker notes`

const improveSystem = `You are a presentation specialist. Improve the existing content into a more effective presentation.
Keep the original structure while raising the quality of the content.`

const notesSystem = `You are a presentation coach. Write effective speaker notes for every slide.
Notes should cover the points to make, what to emphasize, and pacing hints.`

const summarizeSystem = `You are a data analyst. Analyze the given data and summarize it in a form usable in a presentation.`

// Writer is the model-backed content specialist. A nil generator keeps
// every kind on its fallback path.
type Writer struct {
	*agent.Core
	gen llm.Generator
}

// NewWriter creates the writer agent.
func NewWriter(gen llm.Generator, log agent.Logger) *Writer {
	w := &Writer{gen: gen}
	w.Core = agent.NewCore("writer", "ai content generation", w.execute, log)
	return w
}

// Offline reports whether the writer has no generator configured.
func (w *Writer) Offline() bool { return w.gen == nil }

func (w *Writer) execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	switch task.Kind() {
	case KindGenerateSlides:
		return w.generateSlides(ctx, task.Input)
	case KindImproveContent:
		return w.improveContent(ctx, task.Input)
	case KindSpeakerNotes:
		return w.speakerNotes(ctx, task.Input)
	case KindSummarizeData:
		return w.summarizeData(ctx, task.Input)
	case KindTranslate:
		return w.translate(ctx, task.Input)
	default:
		return w.generateContent(ctx, task.Input)
	}
}

// call runs one model round trip and parses the JSON object out of the
// response. Any failure returns ok=false so callers take their
// fallback.
func (w *Writer) call(ctx context.Context, system, prompt string) (map[string]any, bool) {
	if w.gen == nil {
		return nil, false
	}
	resp, err := w.gen.Generate(ctx, system, prompt)
	if err != nil {
		w.Logf("model call failed, using fallback: %v", err)
		return nil, false
	}
	var out map[string]any
	if err := llm.ExtractObject(resp, &out); err != nil {
		w.Logf("unparseable model response, using fallback: %v", err)
		return nil, false
	}
	return out, true
}

func (w *Writer) generateContent(ctx context.Context, input map[string]any) (map[string]any, error) {
	topic, _ := input["topic"].(string)
	note, _ := input["context"].(string)
	audience := stringOr(input, "audience", "business professionals")
	tone := stringOr(input, "tone", "professional")
	numSlides := intOr(input, "num_slides", models.DefaultNumSlides)

	w.Logf("generating content for: %s", topic)

	prompt := fmt.Sprintf(`Generate presentation content with these requirements:

Topic: %s
Context: %s
Audience: %s
Tone: %s
Slides: %d

Output JSON only.`, topic, note, audience, tone, numSlides)

	if out, ok := w.call(ctx, contentSystem, prompt); ok {
		return out, nil
	}
	return FallbackContent(topic, numSlides), nil
}

func (w *Writer) generateSlides(ctx context.Context, input map[string]any) (map[string]any, error) {
	outline, _ := input["outline"].(map[string]any)
	research := input["research_data"]
	insights := input["insights"]

	w.Logf("generating detailed slides from outline")

	prompt := fmt.Sprintf(`Expand this outline into detailed slides:

Outline:
%s

Research data:
%s

Insights:
%s

Output JSON only.`, jsonBlock(outline), jsonBlock(research), jsonBlock(insights))

	if out, ok := w.call(ctx, slidesSystem, prompt); ok {
		return out, nil
	}
	return outline, nil
}

func (w *Writer) improveContent(ctx context.Context, input map[string]any) (map[string]any, error) {
	current, _ := input["content"].(map[string]any)
	instructions := stringOr(input, "instructions", "Make the content more persuasive")

	w.Logf("improving content")

	prompt := fmt.Sprintf(`Improve this content:

Instructions: %s

Current content:
%s

Output the improved content as JSON.`, instructions, jsonBlock(current))

	if out, ok := w.call(ctx, improveSystem, prompt); ok {
		return out, nil
	}
	return current, nil
}

func (w *Writer) speakerNotes(ctx context.Context, input map[string]any) (map[string]any, error) {
	slides := slideList(input["slides"])

	w.Logf("generating speaker notes")

	prompt := fmt.Sprintf(`Add speaker notes to these slides:

%s

Output JSON with a notes field added to every slide.`, jsonBlock(slides))

	if out, ok := w.call(ctx, notesSystem, prompt); ok {
		return out, nil
	}

	for _, slide := range slides {
		if _, has := slide["notes"]; !has {
			title := stringOr(slide, "title", "this slide")
			slide["notes"] = fmt.Sprintf("Talk through %s.", title)
		}
	}
	return map[string]any{"slides": slides}, nil
}

func (w *Writer) summarizeData(ctx context.Context, input map[string]any) (map[string]any, error) {
	focus, _ := input["focus"].(string)

	w.Logf("summarizing data")

	prompt := fmt.Sprintf(`Analyze this data and summarize the key points:

Focus: %s

Data:
%s

Output in this JSON structure:
{
    "summary": "overview",
    "key_findings": ["finding 1", "finding 2"],
    "recommendations": ["recommendation 1"],
    "data_highlights": [{}]
}`, focus, jsonBlock(input["data"]))

	if out, ok := w.call(ctx, summarizeSystem, prompt); ok {
		return out, nil
	}
	return map[string]any{
		"summary":         "Data analysis results",
		"key_findings":    []any{"Review the supplied data"},
		"recommendations": []any{},
		"data_highlights": []any{},
	}, nil
}

func (w *Writer) translate(ctx context.Context, input map[string]any) (map[string]any, error) {
	current, _ := input["content"].(map[string]any)
	target := stringOr(input, "target_language", "English")

	w.Logf("translating to %s", target)

	system := fmt.Sprintf(`You are a professional translator. Translate the presentation content into %s.
Use phrasing appropriate for business documents and keep the original structure.`, target)
	prompt := fmt.Sprintf(`Translate this content into %s:

%s

Output the translated JSON.`, target, jsonBlock(current))

	if out, ok := w.call(ctx, system, prompt); ok {
		return out, nil
	}
	return current, nil
}

// FallbackContent builds a deterministic deck for a topic: title and
// agenda slides, one content slide per remaining requested slot, and a
// closing summary. Requests below four slides still produce the three
// fixed slides.
func FallbackContent(topic string, numSlides int) map[string]any {
	slides := []map[string]any{
		{
			"type":     "title",
			"title":    topic,
			"subtitle": "Presentation",
			"notes":    "Title slide. Open with a greeting.",
		},
		{
			"type":  "agenda",
			"title": "Agenda",
			"body":  []any{"Background and goals", "Current state", "Proposal", "Summary"},
			"notes": "Walk through today's agenda.",
		},
	}

	for i := 0; i < numSlides-3; i++ {
		slides = append(slides, map[string]any{
			"type":  "content",
			"title": fmt.Sprintf("Point %d", i+1),
			"body":  []any{"Key point 1", "Key point 2", "Key point 3"},
			"notes": fmt.Sprintf("Discuss section %d.", i+1),
		})
	}

	slides = append(slides, map[string]any{
		"type":  "conclusion",
		"title": "Summary",
		"body":  []any{"Today's takeaways", "Next steps", "Contact"},
		"notes": "Close with the summary and next actions.",
	})

	out := make([]any, len(slides))
	for i, s := range slides {
		out[i] = s
	}
	return map[string]any{"title": topic, "slides": out}
}

// jsonBlock renders v as indented JSON for prompt embedding; nil or
// unmarshalable values render as "none".
func jsonBlock(v any) string {
	if v == nil {
		return "none"
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "none"
	}
	return string(b)
}

// slideList normalizes the slides payload into mutable maps.
func slideList(v any) []map[string]any {
	switch s := v.(type) {
	case []map[string]any:
		return s
	case []any:
		out := make([]map[string]any, 0, len(s))
		for _, raw := range s {
			if m, ok := raw.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func stringOr(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
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

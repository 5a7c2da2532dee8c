package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Offline is a deterministic Generator for air-gapped runs and tests.
// It recognizes the writer's prompt families by their role line and
// synthesizes parseable JSON without network access: content prompts
// get a fixed deck shape, rewrite prompts echo the JSON embedded in the
// prompt, and notes prompts annotate the embedded slide list.
type Offline struct{}

// Generate returns a canned response for the prompt family.
func (Offline) Generate(ctx context.Context, system, prompt string) (string, error) {
	switch {
	case strings.Contains(system, "presentation coach"):
		return offlineNotes(prompt), nil
	case strings.Contains(system, "data analyst"):
		return offlineSummary(prompt), nil
	case strings.Contains(system, "translator"),
		strings.Contains(system, "Improve the existing content"),
		strings.Contains(system, "Expand the outline"):
		return offlineEcho(prompt), nil
	default:
		return offlineContent(prompt), nil
	}
}

// promptField returns the value of a "Label: value" line in the
// prompt, or empty.
func promptField(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}

func offlineContent(prompt string) string {
	topic := promptField(prompt, "Topic:")
	if topic == "" {
		topic = "Presentation"
	}
	n := 5
	if v, err := strconv.Atoi(promptField(prompt, "Slides:")); err == nil && v > 0 {
		n = v
	}

	slides := []map[string]any{
		{
			"type":     "title",
			"title":    topic,
			"subtitle": "Presentation",
			"notes":    "Title slide.",
		},
		{
			"type":  "agenda",
			"title": "Agenda",
			"body":  []string{"Background and goals", "Analysis results", "Proposal", "Summary"},
			"notes": "Walk through the agenda.",
		},
	}
	for i := 0; i < n-3; i++ {
		slides = append(slides, map[string]any{
			"type":  "content",
			"title": fmt.Sprintf("Key Topic %d", i+1),
			"body":  []string{"Supporting point", "Supporting detail", "Implication"},
			"notes": fmt.Sprintf("Cover key topic %d.", i+1),
		})
	}
	slides = append(slides, map[string]any{
		"type":  "conclusion",
		"title": "Summary",
		"body":  []string{"Takeaways", "Next steps"},
		"notes": "Wrap up.",
	})

	b, _ := json.Marshal(map[string]any{"title": topic, "slides": slides})
	return string(b)
}

// offlineEcho replays the first JSON object embedded in the prompt,
// which makes slide expansion, improvement, and translation behave as
// structure-preserving no-ops offline. Prompts can embed several JSON
// blocks, so only the first complete object is decoded.
func offlineEcho(prompt string) string {
	start := strings.Index(prompt, "{")
	if start == -1 {
		return "{}"
	}
	var obj map[string]any
	dec := json.NewDecoder(strings.NewReader(prompt[start:]))
	if err := dec.Decode(&obj); err != nil {
		return "{}"
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func offlineNotes(prompt string) string {
	var slides []map[string]any
	if err := ExtractArray(prompt, &slides); err != nil {
		return `{"slides": []}`
	}
	for _, slide := range slides {
		if _, has := slide["notes"]; !has {
			title, _ := slide["title"].(string)
			if title == "" {
				title = "this slide"
			}
			slide["notes"] = fmt.Sprintf("Talk through %s.", title)
		}
	}
	b, err := json.Marshal(map[string]any{"slides": slides})
	if err != nil {
		return `{"slides": []}`
	}
	return string(b)
}

func offlineSummary(prompt string) string {
	focus := promptField(prompt, "Focus:")
	summary := "Summary of the supplied data."
	if focus != "" {
		summary = fmt.Sprintf("Summary of the supplied data, focused on %s.", focus)
	}
	b, _ := json.Marshal(map[string]any{
		"summary":         summary,
		"key_findings":    []string{"Values are concentrated in a small number of columns", "Several columns show a wide range"},
		"recommendations": []string{"Highlight the widest-ranging metric"},
		"data_highlights": []any{},
	})
	return string(b)
}

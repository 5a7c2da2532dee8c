package content

import (
	"testing"

	"github.com/deckhand-io/deckhand/internal/research"
)

func TestPlannerOutlineWithoutInsights(t *testing.T) {
	p := NewPlanner(nil)
	out := run(t, p, map[string]any{"kind": KindCreateOutline, "topic": "Roadmap", "num_slides": 4})

	if out["title"] != "Roadmap" {
		t.Errorf("title = %v, want %q", out["title"], "Roadmap")
	}
	slides := out["slides"].([]any)
	if len(slides) != 4 {
		t.Fatalf("len(slides) = %d, want 4", len(slides))
	}
	types := []string{"title", "agenda", "content", "conclusion"}
	for i, want := range types {
		slide := slides[i].(map[string]any)
		if slide["type"] != want {
			t.Errorf("slide %d type = %v, want %q", i, slide["type"], want)
		}
		if slide["slide_number"] != i+1 {
			t.Errorf("slide %d number = %v, want %d", i, slide["slide_number"], i+1)
		}
	}
}

func TestPlannerOutlineSlideCount(t *testing.T) {
	p := NewPlanner(nil)

	tests := []struct {
		name      string
		numSlides int
		want      int
	}{
		{"default request", 0, 5},
		{"requested six", 6, 6},
		{"below the fixed minimum", 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := map[string]any{"kind": KindCreateOutline, "topic": "Plan"}
			if tt.numSlides > 0 {
				input["num_slides"] = tt.numSlides
			}
			out := run(t, p, input)
			slides := out["slides"].([]any)
			if len(slides) != tt.want {
				t.Errorf("len(slides) = %d, want %d", len(slides), tt.want)
			}
		})
	}
}

func TestPlannerOutlineWithInsights(t *testing.T) {
	p := NewPlanner(nil)
	insights := []research.Insight{
		{Description: "revenue ranges from 100.00 to 150.00"},
		{Description: "revenue averages 130.00"},
		{Description: "units ranges from 5.00 to 9.00"},
		{Description: "units averages 7.00"},
		{Description: "margin averages 0.30"},
	}

	out := run(t, p, map[string]any{
		"kind":       KindCreateOutline,
		"topic":      "Q1 Review",
		"insights":   insights,
		"num_slides": 4,
	})

	slides := out["slides"].([]any)
	if len(slides) != 4 {
		t.Fatalf("len(slides) = %d, want 4", len(slides))
	}
	findings := slides[2].(map[string]any)
	if findings["title"] != "Analysis Results" {
		t.Errorf("findings slide title = %v", findings["title"])
	}
	items := findings["items"].([]any)
	if len(items) != 4 {
		t.Errorf("findings items = %d, want capped at 4", len(items))
	}
	if items[0] != "revenue ranges from 100.00 to 150.00" {
		t.Errorf("items[0] = %v", items[0])
	}
	conclusion := slides[3].(map[string]any)
	if conclusion["slide_number"] != 4 {
		t.Errorf("conclusion number = %v, want 4", conclusion["slide_number"])
	}
}

func TestPlannerWriteSlide(t *testing.T) {
	p := NewPlanner(nil)

	t.Run("title slide carries subtitle", func(t *testing.T) {
		out := run(t, p, map[string]any{
			"kind":       KindWriteSlide,
			"slide_type": "title",
			"title":      "Deck",
			"subtitle":   "FY25",
		})
		if out["subtitle"] != "FY25" {
			t.Errorf("subtitle = %v, want FY25", out["subtitle"])
		}
	})

	t.Run("content slide defaults body", func(t *testing.T) {
		out := run(t, p, map[string]any{
			"kind":       KindWriteSlide,
			"slide_type": "content",
			"title":      "Points",
		})
		if len(out["body"].([]any)) != 3 {
			t.Errorf("default body = %v", out["body"])
		}
	})

	t.Run("content slide uses key points", func(t *testing.T) {
		out := run(t, p, map[string]any{
			"kind":       KindWriteSlide,
			"slide_type": "content",
			"key_points": []string{"a", "b"},
		})
		body := out["body"].([]any)
		if len(body) != 2 || body[0] != "a" {
			t.Errorf("body = %v, want key points", body)
		}
	})

	t.Run("comparison slide splits columns", func(t *testing.T) {
		out := run(t, p, map[string]any{
			"kind":        KindWriteSlide,
			"slide_type":  "comparison",
			"left_items":  []string{"old"},
			"right_items": []string{"new"},
		})
		if out["left"].([]any)[0] != "old" || out["right"].([]any)[0] != "new" {
			t.Errorf("columns = %v / %v", out["left"], out["right"])
		}
	})
}

func TestPlannerFullContent(t *testing.T) {
	p := NewPlanner(nil)
	outline := map[string]any{
		"title": "Q1 Review",
		"slides": []any{
			map[string]any{"slide_number": 1, "type": "title", "title": "Q1 Review", "subtitle": "Presentation"},
			map[string]any{"slide_number": 2, "type": "content", "title": "Findings", "items": []any{"up 14%"}},
		},
	}

	out := run(t, p, map[string]any{
		"kind":          KindCreateFullContent,
		"outline":       outline,
		"research_data": map[string]any{"rows": 12},
		"insights":      []any{"one", "two"},
	})

	slides := out["slides"].([]any)
	if len(slides) != 2 {
		t.Fatalf("len(slides) = %d, want 2", len(slides))
	}
	second := slides[1].(map[string]any)
	if second["body"].([]any)[0] != "up 14%" {
		t.Errorf("items did not flow into body: %v", second["body"])
	}
	if second["slide_number"] != 2 {
		t.Errorf("slide_number = %v, want preserved", second["slide_number"])
	}

	meta := out["metadata"].(map[string]any)
	if meta["total_slides"] != 2 || meta["has_data"] != true || meta["insight_count"] != 2 {
		t.Errorf("metadata = %v", meta)
	}
}

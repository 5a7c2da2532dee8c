package llm

import (
	"context"
	"strings"
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantKey string
		wantErr bool
	}{
		{"bare object", `{"title": "Deck"}`, "title", false},
		{"prose wrapped", "Here is the JSON you asked for:\n{\"title\": \"Deck\"}\nLet me know!", "title", false},
		{"code fence", "```json\n{\"title\": \"Deck\"}\n```", "title", false},
		{"nested braces", `{"outer": {"inner": 1}}`, "outer", false},
		{"no object", "sorry, I cannot do that", "", true},
		{"mismatched", "} {", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]any
			err := ExtractObject(tt.in, &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractObject() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if _, ok := out[tt.wantKey]; !ok {
					t.Errorf("ExtractObject() missing key %q: %v", tt.wantKey, out)
				}
			}
		})
	}
}

func TestExtractArray(t *testing.T) {
	var out []map[string]any
	in := "Slides below:\n[{\"title\": \"One\"}, {\"title\": \"Two\"}]\ndone"
	if err := ExtractArray(in, &out); err != nil {
		t.Fatalf("ExtractArray() error = %v", err)
	}
	if len(out) != 2 || out[1]["title"] != "Two" {
		t.Errorf("ExtractArray() = %v", out)
	}

	if err := ExtractArray("no array here", &out); err == nil {
		t.Error("ExtractArray() on plain text should fail")
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(100, 50)
	tracker.Add(200, 75)

	in, out := tracker.Total()
	if in != 300 || out != 125 {
		t.Errorf("Total() = (%d, %d), want (300, 125)", in, out)
	}
	if tracker.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", tracker.Calls())
	}

	tracker.Reset()
	in, out = tracker.Total()
	if in != 0 || out != 0 || tracker.Calls() != 0 {
		t.Error("Reset() did not clear the tracker")
	}
}

func TestOfflineContentDeterministic(t *testing.T) {
	prompt := "Generate presentation content:\n\nTopic: Q1 Review\nSlides: 5\n"
	first, err := Offline{}.Generate(context.Background(), "You are a presentation specialist.", prompt)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, _ := Offline{}.Generate(context.Background(), "You are a presentation specialist.", prompt)
	if first != second {
		t.Error("offline output is not deterministic")
	}

	var deck struct {
		Title  string           `json:"title"`
		Slides []map[string]any `json:"slides"`
	}
	if err := ExtractObject(first, &deck); err != nil {
		t.Fatalf("offline content is not parseable: %v", err)
	}
	if deck.Title != "Q1 Review" {
		t.Errorf("title = %q, want %q", deck.Title, "Q1 Review")
	}
	if len(deck.Slides) != 5 {
		t.Errorf("len(slides) = %d, want 5", len(deck.Slides))
	}
}

func TestOfflineEchoPreservesStructure(t *testing.T) {
	prompt := "Improve this content:\n\n{\"title\": \"Keep Me\", \"slides\": []}\n"
	out, err := Offline{}.Generate(context.Background(), "Improve the existing content into a more effective presentation.", prompt)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var obj map[string]any
	if err := ExtractObject(out, &obj); err != nil {
		t.Fatal(err)
	}
	if obj["title"] != "Keep Me" {
		t.Errorf("echoed title = %v, want %q", obj["title"], "Keep Me")
	}
}

func TestOfflineEchoTakesFirstObject(t *testing.T) {
	prompt := "Expand this outline into detailed slides:\n\n" +
		"Outline:\n{\"title\": \"First\", \"slides\": [{\"title\": \"One\"}]}\n\n" +
		"Research data:\n{\"rows\": 12}\n\n" +
		"Insights:\n[{\"description\": \"x\"}]\n\n" +
		"Output JSON only."
	out, err := Offline{}.Generate(context.Background(), "Expand the outline into detailed slides using the research data.", prompt)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var obj map[string]any
	if err := ExtractObject(out, &obj); err != nil {
		t.Fatal(err)
	}
	if obj["title"] != "First" {
		t.Errorf("echoed object = %v, want the outline block", obj)
	}
	if _, ok := obj["rows"]; ok {
		t.Error("echo leaked a later JSON block into the outline")
	}
}

func TestOfflineNotesAnnotatesSlides(t *testing.T) {
	prompt := "Add speaker notes to these slides:\n\n[{\"title\": \"Intro\"}, {\"title\": \"Data\", \"notes\": \"existing\"}]\n"
	out, err := Offline{}.Generate(context.Background(), "You are a presentation coach.", prompt)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var payload struct {
		Slides []map[string]any `json:"slides"`
	}
	if err := ExtractObject(out, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Slides) != 2 {
		t.Fatalf("len(slides) = %d, want 2", len(payload.Slides))
	}
	if !strings.Contains(payload.Slides[0]["notes"].(string), "Intro") {
		t.Errorf("notes = %v, want mention of slide title", payload.Slides[0]["notes"])
	}
	if payload.Slides[1]["notes"] != "existing" {
		t.Errorf("existing notes were overwritten: %v", payload.Slides[1]["notes"])
	}
}

func TestOfflineSummaryShape(t *testing.T) {
	out, err := Offline{}.Generate(context.Background(), "You are a data analyst.", "Focus: revenue\n\nData:\n{}")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var payload map[string]any
	if err := ExtractObject(out, &payload); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"summary", "key_findings", "recommendations", "data_highlights"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("summary payload missing %q", key)
		}
	}
	if !strings.Contains(payload["summary"].(string), "revenue") {
		t.Errorf("summary = %v, want focus mentioned", payload["summary"])
	}
}

package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/llm"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// fakeGen is a scripted generator.
type fakeGen struct {
	resp       string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (f *fakeGen) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.resp, f.err
}

func run(t *testing.T, a interface {
	ReceiveTask(*models.Task) bool
	Run(context.Context) (map[string]any, error)
}, input map[string]any) map[string]any {
	t.Helper()
	task := models.NewTask("content step", "", 1, input)
	if !a.ReceiveTask(task) {
		t.Fatal("ReceiveTask() = false, want true")
	}
	out, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out
}

func TestWriterParsesModelResponse(t *testing.T) {
	gen := &fakeGen{resp: `Sure! {"title": "Model Deck", "slides": [{"type": "title", "title": "Model Deck"}]}`}
	w := NewWriter(gen, nil)

	out := run(t, w, map[string]any{
		"kind":       KindGenerateContent,
		"topic":      "Q1 Review",
		"num_slides": 4,
	})

	if out["title"] != "Model Deck" {
		t.Errorf("title = %v, want model-provided title", out["title"])
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestWriterPromptCarriesParameters(t *testing.T) {
	gen := &fakeGen{resp: `{"title": "x", "slides": []}`}
	w := NewWriter(gen, nil)

	run(t, w, map[string]any{
		"kind":       KindGenerateContent,
		"topic":      "Churn Analysis",
		"audience":   "executives",
		"tone":       "urgent",
		"num_slides": 7,
	})

	for _, want := range []string{"Topic: Churn Analysis", "Audience: executives", "Tone: urgent", "Slides: 7"} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.lastPrompt)
		}
	}
}

func TestWriterFallsBackOnModelError(t *testing.T) {
	gen := &fakeGen{err: errors.New("rate limited")}
	w := NewWriter(gen, nil)

	out := run(t, w, map[string]any{
		"kind":       KindGenerateContent,
		"topic":      "Q1 Review",
		"num_slides": 5,
	})

	if out["title"] != "Q1 Review" {
		t.Errorf("fallback title = %v, want topic", out["title"])
	}
	if n := len(out["slides"].([]any)); n != 5 {
		t.Errorf("fallback slide count = %d, want 5", n)
	}
}

func TestWriterFallsBackOnUnparseableResponse(t *testing.T) {
	gen := &fakeGen{resp: "I am unable to produce JSON today."}
	w := NewWriter(gen, nil)

	out := run(t, w, map[string]any{"kind": KindGenerateContent, "topic": "T", "num_slides": 4})
	if len(out["slides"].([]any)) != 4 {
		t.Errorf("fallback slide count = %d, want 4", len(out["slides"].([]any)))
	}
}

func TestFallbackContentSlideCounts(t *testing.T) {
	tests := []struct {
		request int
		want    int
	}{
		{2, 3},
		{3, 3},
		{4, 4},
		{5, 5},
		{8, 8},
	}
	for _, tt := range tests {
		deck := FallbackContent("Topic", tt.request)
		if got := len(deck["slides"].([]any)); got != tt.want {
			t.Errorf("FallbackContent(%d) slides = %d, want %d", tt.request, got, tt.want)
		}
	}
}

func TestFallbackContentShape(t *testing.T) {
	deck := FallbackContent("Launch Plan", 5)
	slides := deck["slides"].([]any)

	first := slides[0].(map[string]any)
	if first["type"] != "title" || first["title"] != "Launch Plan" {
		t.Errorf("first slide = %v, want topic title slide", first)
	}
	second := slides[1].(map[string]any)
	if second["type"] != "agenda" {
		t.Errorf("second slide type = %v, want agenda", second["type"])
	}
	last := slides[len(slides)-1].(map[string]any)
	if last["type"] != "conclusion" {
		t.Errorf("last slide type = %v, want conclusion", last["type"])
	}
}

func TestWriterGenerateSlidesFallbackReturnsOutline(t *testing.T) {
	w := NewWriter(nil, nil)
	outline := map[string]any{"title": "From Outline", "slides": []any{}}

	out := run(t, w, map[string]any{"kind": KindGenerateSlides, "outline": outline})
	if out["title"] != "From Outline" {
		t.Errorf("fallback = %v, want the outline back", out)
	}
}

func TestWriterSpeakerNotesFallback(t *testing.T) {
	w := NewWriter(nil, nil)
	slides := []any{
		map[string]any{"title": "Intro"},
		map[string]any{"title": "Data", "notes": "keep me"},
	}

	out := run(t, w, map[string]any{"kind": KindSpeakerNotes, "slides": slides})
	got := out["slides"].([]map[string]any)
	if got[0]["notes"] == nil || got[0]["notes"] == "" {
		t.Error("missing notes were not filled in")
	}
	if got[1]["notes"] != "keep me" {
		t.Errorf("existing notes overwritten: %v", got[1]["notes"])
	}
}

func TestWriterSummarizeFallbackShape(t *testing.T) {
	w := NewWriter(nil, nil)
	out := run(t, w, map[string]any{"kind": KindSummarizeData, "data": map[string]any{"rows": 10}})
	for _, key := range []string{"summary", "key_findings", "recommendations", "data_highlights"} {
		if _, ok := out[key]; !ok {
			t.Errorf("summary fallback missing %q", key)
		}
	}
}

func TestWriterTranslateFallbackEchoes(t *testing.T) {
	w := NewWriter(nil, nil)
	content := map[string]any{"title": "原文"}
	out := run(t, w, map[string]any{"kind": KindTranslate, "content": content})
	if out["title"] != "原文" {
		t.Errorf("fallback = %v, want original content", out)
	}
}

func TestWriterWithOfflineGenerator(t *testing.T) {
	w := NewWriter(llm.Offline{}, nil)
	if w.Offline() {
		t.Fatal("Offline() = true with a generator configured")
	}

	out := run(t, w, map[string]any{
		"kind":       KindGenerateContent,
		"topic":      "Offline Deck",
		"num_slides": 6,
	})
	if out["title"] != "Offline Deck" {
		t.Errorf("title = %v, want topic", out["title"])
	}
	if n := len(out["slides"].([]any)); n != 6 {
		t.Errorf("slides = %d, want 6", n)
	}
}

func TestWriterUnknownKindGeneratesContent(t *testing.T) {
	w := NewWriter(nil, nil)
	out := run(t, w, map[string]any{"kind": "compose_symphony", "topic": "T", "num_slides": 4})
	if _, ok := out["slides"]; !ok {
		t.Error("unknown kind did not fall back to content generation")
	}
}

var _ agent.Executor = (*Writer)(nil)
var _ agent.Executor = (*Planner)(nil)

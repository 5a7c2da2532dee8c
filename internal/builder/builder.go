// Package builder renders finished content and design decisions into a
// .pptx file. It is the last specialist in the pipeline: everything
// before it deals in payload maps, the builder turns those maps into
// slide geometry and writes the package to disk.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/deckhand-io/deckhand/internal/agent"
	"github.com/deckhand-io/deckhand/internal/catalog"
	"github.com/deckhand-io/deckhand/internal/design"
	"github.com/deckhand-io/deckhand/internal/pptx"
	"github.com/deckhand-io/deckhand/pkg/models"
)

// Task kinds the builder dispatches on.
const (
	// KindBuildPresentation assembles a whole deck and saves it.
	KindBuildPresentation = "build_presentation"
	// KindBuildSlide appends one slide to the deck under construction.
	KindBuildSlide = "build_slide"
	// KindSavePresentation writes the deck under construction to disk.
	KindSavePresentation = "save_presentation"
)

// DefaultFileName is used when the task names no output file.
const DefaultFileName = "presentation.pptx"

// Agent is the presentation builder. Incremental builds accumulate a
// deck across build_slide tasks until save_presentation flushes it.
type Agent struct {
	*agent.Core
	catalog *catalog.Catalog
	outDir  string

	mu   sync.Mutex
	deck *pptx.Deck
}

// New creates the builder. Relative output paths resolve under outDir.
func New(cat *catalog.Catalog, outDir string, log agent.Logger) *Agent {
	if cat == nil {
		cat = catalog.New()
	}
	if outDir == "" {
		outDir = "output"
	}
	a := &Agent{catalog: cat, outDir: outDir}
	a.Core = agent.NewCore("builder", "presentation file construction", a.execute, log)
	return a
}

func (a *Agent) execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	switch task.Kind() {
	case KindBuildSlide:
		return a.buildSlide(task.Input)
	case KindSavePresentation:
		return a.savePresentation(task.Input)
	default:
		return a.buildPresentation(task.Input)
	}
}

// buildPresentation assembles the full deck from the content payload
// and writes it in one step.
func (a *Agent) buildPresentation(input map[string]any) (map[string]any, error) {
	content, _ := input["content"].(map[string]any)
	if content == nil {
		return nil, fmt.Errorf("build_presentation: no content payload")
	}
	theme := a.resolveTheme(input)

	deck, err := Assemble(content, theme)
	if err != nil {
		return nil, err
	}

	path, err := a.outputPath(input)
	if err != nil {
		return nil, err
	}
	if err := deck.Save(path); err != nil {
		return nil, fmt.Errorf("build_presentation: %w", err)
	}
	a.Logf("saved %s (%d slides)", path, len(deck.Slides))

	a.mu.Lock()
	a.deck = deck
	a.mu.Unlock()

	return map[string]any{
		"success":     true,
		"file_path":   path,
		"slide_count": len(deck.Slides),
	}, nil
}

// buildSlide appends one slide to the deck under construction, creating
// the deck on first use.
func (a *Agent) buildSlide(input map[string]any) (map[string]any, error) {
	slide, _ := input["slide"].(map[string]any)
	if slide == nil {
		return nil, fmt.Errorf("build_slide: no slide payload")
	}
	theme := a.resolveTheme(input)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deck == nil {
		title := stringOr(input, "title", "Presentation")
		a.deck = pptx.New(title)
	}
	addSlide(a.deck, slide, theme)
	return map[string]any{"slide_count": len(a.deck.Slides)}, nil
}

// savePresentation flushes the deck built by prior build_slide tasks.
func (a *Agent) savePresentation(input map[string]any) (map[string]any, error) {
	a.mu.Lock()
	deck := a.deck
	a.mu.Unlock()
	if deck == nil {
		return nil, fmt.Errorf("save_presentation: no deck built")
	}

	path, err := a.outputPath(input)
	if err != nil {
		return nil, err
	}
	if err := deck.Save(path); err != nil {
		return nil, fmt.Errorf("save_presentation: %w", err)
	}
	a.Logf("saved %s (%d slides)", path, len(deck.Slides))
	return map[string]any{
		"success":     true,
		"file_path":   path,
		"slide_count": len(deck.Slides),
	}, nil
}

// SlideCount reports the size of the deck under construction.
func (a *Agent) SlideCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deck == nil {
		return 0
	}
	return len(a.deck.Slides)
}

// resolveTheme prefers a full theme object from the design phase, then
// a theme name, then the catalog default.
func (a *Agent) resolveTheme(input map[string]any) catalog.Theme {
	if d, ok := input["design"].(map[string]any); ok {
		if t, ok := d["theme"].(catalog.Theme); ok {
			return t
		}
	}
	if t, ok := input["theme"].(catalog.Theme); ok {
		return t
	}
	name, _ := input["theme"].(string)
	return a.catalog.Theme(name)
}

// outputPath resolves the target file, creating parent directories.
// Absolute paths are honored as given; everything else lands in outDir.
func (a *Agent) outputPath(input map[string]any) (string, error) {
	path := stringOr(input, "output_path", "")
	if path == "" {
		path = stringOr(input, "filename", DefaultFileName)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pptx") {
		path += ".pptx"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.outDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}
	return path, nil
}

// Assemble turns a content payload into a deck styled by the theme.
// Slide geometry follows the shared layout table in the design package.
func Assemble(content map[string]any, theme catalog.Theme) (*pptx.Deck, error) {
	title := stringOr(content, "title", "Presentation")
	slides := slideMaps(content["slides"])
	if len(slides) == 0 {
		return nil, fmt.Errorf("content has no slides")
	}

	deck := pptx.New(title)
	for _, slide := range slides {
		addSlide(deck, slide, theme)
	}
	return deck, nil
}

// addSlide renders one content slide. A chart or image path overrides
// the declared type and produces a picture slide.
func addSlide(deck *pptx.Deck, slide map[string]any, t catalog.Theme) {
	s := deck.AddSlide()
	if notes := stringOr(slide, "notes", ""); notes != "" {
		s.Notes = notes
	}

	if img := imagePath(slide); img != "" {
		addImageSlide(s, slide, t, img)
		return
	}

	kind := stringOr(slide, "type", "content")
	switch kind {
	case "title":
		addTitleSlide(s, slide, t)
	case "section":
		addSectionSlide(s, slide, t)
	case "two_column", "comparison":
		addColumnSlide(s, slide, t)
	case "quote":
		addQuoteSlide(s, slide, t)
	default:
		addContentSlide(s, slide, t)
	}
}

func addTitleSlide(s *pptx.Slide, slide map[string]any, t catalog.Theme) {
	_, boxes := design.Layout("title")
	s.AddText(box(boxes["title"]), pptx.Paragraph{
		Text:   stringOr(slide, "title", "Presentation"),
		Font:   t.Fonts.TitleName,
		Size:   sizeOr(t.Fonts.TitleSize, 44),
		Bold:   true,
		Color:  t.Colors.Primary,
		Center: true,
	})
	if subtitle := stringOr(slide, "subtitle", ""); subtitle != "" {
		s.AddText(box(boxes["subtitle"]), pptx.Paragraph{
			Text:   subtitle,
			Font:   t.Fonts.BodyName,
			Size:   24,
			Color:  t.Colors.Text,
			Center: true,
		})
	}
}

func addSectionSlide(s *pptx.Slide, slide map[string]any, t catalog.Theme) {
	_, boxes := design.Layout("section")
	s.AddText(box(boxes["title"]), pptx.Paragraph{
		Text:   stringOr(slide, "title", ""),
		Font:   t.Fonts.TitleName,
		Size:   sizeOr(t.Fonts.TitleSize, 40),
		Bold:   true,
		Color:  t.Colors.Primary,
		Center: true,
	})
}

func addContentSlide(s *pptx.Slide, slide map[string]any, t catalog.Theme) {
	_, boxes := design.Layout("content")
	addSlideTitle(s, boxes["title"], slide, t)

	items := itemStrings(slide)
	if body := stringOr(slide, "body", ""); body != "" && len(items) == 0 {
		items = []string{body}
	}
	if len(items) == 0 {
		return
	}
	paras := make([]pptx.Paragraph, 0, len(items))
	for _, item := range items {
		paras = append(paras, pptx.Paragraph{
			Text:       "• " + item,
			Font:       t.Fonts.BodyName,
			Size:       sizeOr(t.Fonts.BodySize, 18),
			Color:      t.Colors.Text,
			SpaceAfter: 12,
		})
	}
	s.AddText(box(boxes["body"]), paras...)
}

func addColumnSlide(s *pptx.Slide, slide map[string]any, t catalog.Theme) {
	_, boxes := design.Layout("two_column")
	addSlideTitle(s, boxes["title"], slide, t)

	left := columnStrings(slide, "left", "left_items")
	right := columnStrings(slide, "right", "right_items")
	addColumn(s, boxes["left"], left, t)
	addColumn(s, boxes["right"], right, t)
}

func addColumn(s *pptx.Slide, b design.Box, items []string, t catalog.Theme) {
	if len(items) == 0 {
		return
	}
	paras := make([]pptx.Paragraph, 0, len(items))
	for _, item := range items {
		paras = append(paras, pptx.Paragraph{
			Text:       "• " + item,
			Font:       t.Fonts.BodyName,
			Size:       16,
			Color:      t.Colors.Text,
			SpaceAfter: 8,
		})
	}
	s.AddText(box(b), paras...)
}

func addQuoteSlide(s *pptx.Slide, slide map[string]any, t catalog.Theme) {
	_, boxes := design.Layout("quote")
	text := stringOr(slide, "body", stringOr(slide, "title", ""))
	s.AddText(box(boxes["body"]), pptx.Paragraph{
		Text:   text,
		Font:   t.Fonts.BodyName,
		Size:   24,
		Color:  t.Colors.TextLight,
		Center: true,
	})
}

func addImageSlide(s *pptx.Slide, slide map[string]any, t catalog.Theme, img string) {
	_, boxes := design.Layout("image")
	addSlideTitle(s, boxes["title"], slide, t)
	s.AddImage(box(boxes["image"]), img)
}

func addSlideTitle(s *pptx.Slide, b design.Box, slide map[string]any, t catalog.Theme) {
	title := stringOr(slide, "title", "")
	if title == "" {
		return
	}
	s.AddText(box(b), pptx.Paragraph{
		Text:  title,
		Font:  t.Fonts.TitleName,
		Size:  32,
		Bold:  true,
		Color: t.Colors.Primary,
	})
}

// box converts design geometry into pptx geometry.
func box(b design.Box) pptx.Box {
	return pptx.Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// imagePath returns the picture to embed, chart output first.
func imagePath(slide map[string]any) string {
	if p := stringOr(slide, "chart_path", ""); p != "" {
		return p
	}
	return stringOr(slide, "image_path", "")
}

// itemStrings collects the slide's bullet items from whichever key the
// content phase used.
func itemStrings(slide map[string]any) []string {
	for _, key := range []string{"bullets", "body", "key_points", "items", "content"} {
		if items := toStrings(slide[key]); len(items) > 0 {
			return items
		}
	}
	return nil
}

func columnStrings(slide map[string]any, keys ...string) []string {
	for _, key := range keys {
		if items := toStrings(slide[key]); len(items) > 0 {
			return items
		}
	}
	return nil
}

// slideMaps normalizes the slides list shapes the content phase emits.
func slideMaps(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprint(item))
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

func sizeOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// Package pptx writes PowerPoint files directly as Office Open XML
// packages: a zip of fixed scaffold parts plus one generated XML part
// per slide. Geometry is specified in inches and converted to EMU at
// write time. The feature surface is deliberately small: text boxes,
// embedded PNG images, and speaker notes on a blank 16:9 layout.
package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// emuPerInch converts inches to English Metric Units.
const emuPerInch = 914400

// Default slide dimensions in inches, 16:9.
const (
	DefaultWidth  = 10.0
	DefaultHeight = 5.625
)

// Box is a placement rectangle in inches from the slide's top left.
type Box struct {
	X, Y, W, H float64
}

// Paragraph is one line or bullet inside a text box.
type Paragraph struct {
	// Text is the paragraph text, bullets included.
	Text string
	// Font is the typeface name; empty inherits the theme default.
	Font string
	// Size is the point size; zero inherits.
	Size int
	// Bold sets the weight.
	Bold bool
	// Color is an RRGGBB hex string, with or without "#".
	Color string
	// Center horizontally centers the paragraph.
	Center bool
	// SpaceAfter adds trailing spacing in points.
	SpaceAfter int
}

// TextBox is a positioned block of paragraphs.
type TextBox struct {
	Box        Box
	Paragraphs []Paragraph
}

// Image is a positioned picture loaded from a PNG file on disk.
type Image struct {
	Box Box
	// Path is the source file read at write time.
	Path string
}

// Slide is one deck page.
type Slide struct {
	Texts  []TextBox
	Images []Image
	// Notes is the speaker notes text; empty emits no notes part.
	Notes string
}

// AddText appends a text box to the slide.
func (s *Slide) AddText(box Box, paragraphs ...Paragraph) {
	s.Texts = append(s.Texts, TextBox{Box: box, Paragraphs: paragraphs})
}

// AddImage appends a picture to the slide.
func (s *Slide) AddImage(box Box, path string) {
	s.Images = append(s.Images, Image{Box: box, Path: path})
}

// Deck is a presentation under construction.
type Deck struct {
	// Title lands in the document properties.
	Title string
	// Width and Height are slide dimensions in inches.
	Width, Height float64
	// Slides in presentation order.
	Slides []*Slide
}

// New creates an empty 16:9 deck.
func New(title string) *Deck {
	return &Deck{Title: title, Width: DefaultWidth, Height: DefaultHeight}
}

// AddSlide appends an empty slide and returns it for population.
func (d *Deck) AddSlide() *Slide {
	s := &Slide{}
	d.Slides = append(d.Slides, s)
	return s
}

// hasNotes reports whether any slide carries speaker notes.
func (d *Deck) hasNotes() bool {
	for _, s := range d.Slides {
		if s.Notes != "" {
			return true
		}
	}
	return false
}

// hasImages reports whether any slide embeds a picture.
func (d *Deck) hasImages() bool {
	for _, s := range d.Slides {
		if len(s.Images) > 0 {
			return true
		}
	}
	return false
}

// Save writes the deck to path, creating or truncating the file.
func (d *Deck) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pptx file: %w", err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pptx file: %w", err)
	}
	return nil
}

// Write streams the deck as a zip package.
func (d *Deck) Write(w io.Writer) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck has no slides")
	}
	if d.Width <= 0 {
		d.Width = DefaultWidth
	}
	if d.Height <= 0 {
		d.Height = DefaultHeight
	}

	zw := zip.NewWriter(w)
	p := &packager{deck: d, zw: zw}
	if err := p.write(); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("pptx package: %w", err)
	}
	return nil
}

// packager tracks media numbering while parts are emitted.
type packager struct {
	deck       *Deck
	zw         *zip.Writer
	mediaCount int
}

func (p *packager) write() error {
	if err := p.part("[Content_Types].xml", p.contentTypes()); err != nil {
		return err
	}
	if err := p.part("_rels/.rels", rootRels); err != nil {
		return err
	}
	if err := p.part("docProps/core.xml", p.coreProps()); err != nil {
		return err
	}
	if err := p.part("docProps/app.xml", appProps); err != nil {
		return err
	}
	if err := p.part("ppt/presentation.xml", p.presentation()); err != nil {
		return err
	}
	if err := p.part("ppt/_rels/presentation.xml.rels", p.presentationRels()); err != nil {
		return err
	}
	if err := p.part("ppt/slideMasters/slideMaster1.xml", slideMaster); err != nil {
		return err
	}
	if err := p.part("ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels); err != nil {
		return err
	}
	if err := p.part("ppt/slideLayouts/slideLayout1.xml", slideLayout); err != nil {
		return err
	}
	if err := p.part("ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels); err != nil {
		return err
	}
	if err := p.part("ppt/theme/theme1.xml", themePart); err != nil {
		return err
	}
	if p.deck.hasNotes() {
		if err := p.part("ppt/notesMasters/notesMaster1.xml", notesMaster); err != nil {
			return err
		}
		if err := p.part("ppt/notesMasters/_rels/notesMaster1.xml.rels", notesMasterRels); err != nil {
			return err
		}
	}

	for i, slide := range p.deck.Slides {
		if err := p.writeSlide(i+1, slide); err != nil {
			return err
		}
	}
	return nil
}

// writeSlide emits the slide part, its relationships, any media it
// references, and its notes part.
func (p *packager) writeSlide(n int, slide *Slide) error {
	var mediaNames []string
	for _, img := range slide.Images {
		p.mediaCount++
		name := fmt.Sprintf("image%d.png", p.mediaCount)
		data, err := os.ReadFile(img.Path)
		if err != nil {
			return fmt.Errorf("slide %d image: %w", n, err)
		}
		if err := p.binary("ppt/media/"+name, data); err != nil {
			return err
		}
		mediaNames = append(mediaNames, name)
	}

	if err := p.part(fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(slide)); err != nil {
		return err
	}
	if err := p.part(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRels(n, mediaNames, slide.Notes != "")); err != nil {
		return err
	}
	if slide.Notes != "" {
		if err := p.part(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notesXML(slide.Notes)); err != nil {
			return err
		}
		if err := p.part(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), notesRels(n)); err != nil {
			return err
		}
	}
	return nil
}

func (p *packager) part(name, content string) error {
	w, err := p.zw.Create(name)
	if err != nil {
		return fmt.Errorf("pptx part %s: %w", name, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("pptx part %s: %w", name, err)
	}
	return nil
}

func (p *packager) binary(name string, data []byte) error {
	w, err := p.zw.Create(name)
	if err != nil {
		return fmt.Errorf("pptx part %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("pptx part %s: %w", name, err)
	}
	return nil
}

// emu converts inches to an EMU attribute value, rounding so that
// values like 0.3in do not land one unit short.
func emu(inches float64) int {
	return int(math.Round(inches * emuPerInch))
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// esc escapes text for XML character data and attribute values.
func esc(s string) string {
	return textEscaper.Replace(s)
}

// hexColor strips the leading # accepted in theme colors.
func hexColor(s string) string {
	return strings.TrimPrefix(s, "#")
}

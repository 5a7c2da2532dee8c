package pptx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildZip writes the deck and reopens it as a zip archive.
func buildZip(t *testing.T, d *Deck) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	return zr
}

func readPart(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	f, err := zr.Open(name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func hasPart(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func TestWritePackageLayout(t *testing.T) {
	d := New("Quarterly Review")
	s := d.AddSlide()
	s.AddText(Box{X: 0.5, Y: 2, W: 9, H: 1.5}, Paragraph{Text: "Quarterly Review", Size: 44, Bold: true, Center: true})
	d.AddSlide().AddText(Box{X: 0.5, Y: 0.3, W: 9, H: 0.8}, Paragraph{Text: "Agenda", Size: 32})

	zr := buildZip(t, d)

	want := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideMasters/_rels/slideMaster1.xml.rels",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide2.xml.rels",
	}
	for _, name := range want {
		if !hasPart(zr, name) {
			t.Errorf("package missing part %s", name)
		}
	}
	if hasPart(zr, "ppt/notesMasters/notesMaster1.xml") {
		t.Error("notes master present without notes")
	}
}

func TestWriteEmptyDeck(t *testing.T) {
	d := New("Empty")
	if err := d.Write(io.Discard); err == nil {
		t.Error("Write() with no slides should fail")
	}
}

func TestSlideGeometryAndText(t *testing.T) {
	d := New("Geometry")
	s := d.AddSlide()
	s.AddText(Box{X: 0.5, Y: 2, W: 9, H: 1.5},
		Paragraph{Text: "Title & <Subtitle>", Size: 44, Bold: true, Color: "#1F4E79", Center: true, Font: "Calibri"},
	)

	zr := buildZip(t, d)
	pres := readPart(t, zr, "ppt/presentation.xml")
	if !strings.Contains(pres, `<p:sldSz cx="9144000" cy="5143500"/>`) {
		t.Errorf("presentation.xml slide size wrong:\n%s", pres)
	}

	slide := readPart(t, zr, "ppt/slides/slide1.xml")
	checks := []string{
		`<a:off x="457200" y="1828800"/>`,
		`<a:ext cx="8229600" cy="1371600"/>`,
		`sz="4400"`,
		`b="1"`,
		`<a:srgbClr val="1F4E79"/>`,
		`algn="ctr"`,
		`<a:latin typeface="Calibri"/>`,
		`<a:t>Title &amp; &lt;Subtitle&gt;</a:t>`,
	}
	for _, want := range checks {
		if !strings.Contains(slide, want) {
			t.Errorf("slide1.xml missing %q", want)
		}
	}
}

func TestParagraphSpacing(t *testing.T) {
	d := New("Spacing")
	d.AddSlide().AddText(Box{X: 0.5, Y: 1.3, W: 9, H: 4},
		Paragraph{Text: "• First point", Size: 18, SpaceAfter: 12},
		Paragraph{Text: "• Second point", Size: 18, SpaceAfter: 12},
	)

	zr := buildZip(t, d)
	slide := readPart(t, zr, "ppt/slides/slide1.xml")
	if got := strings.Count(slide, `<a:spcPts val="1200"/>`); got != 2 {
		t.Errorf("spcPts count = %d, want 2", got)
	}
	if !strings.Contains(slide, `<a:t>• First point</a:t>`) {
		t.Error("bullet text not preserved")
	}
}

func TestImageEmbedding(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "chart.png")
	payload := []byte("\x89PNG\r\n\x1a\nfakedata")
	if err := os.WriteFile(png, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	d := New("Charts")
	s := d.AddSlide()
	s.AddText(Box{X: 0.5, Y: 0.3, W: 9, H: 0.8}, Paragraph{Text: "Revenue", Size: 32})
	s.AddImage(Box{X: 1, Y: 1.2, W: 8, H: 4.1}, png)

	zr := buildZip(t, d)

	types := readPart(t, zr, "[Content_Types].xml")
	if !strings.Contains(types, `Extension="png"`) {
		t.Error("content types missing png default")
	}
	if got := readPart(t, zr, "ppt/media/image1.png"); got != string(payload) {
		t.Errorf("media payload = %q, want %q", got, payload)
	}

	slide := readPart(t, zr, "ppt/slides/slide1.xml")
	if !strings.Contains(slide, `<a:blip r:embed="rId2"/>`) {
		t.Error("picture not wired to rId2")
	}
	rels := readPart(t, zr, "ppt/slides/_rels/slide1.xml.rels")
	if !strings.Contains(rels, `Target="../media/image1.png"`) {
		t.Error("slide rels missing media target")
	}
}

func TestNoImageNoPngType(t *testing.T) {
	d := New("Plain")
	d.AddSlide().AddText(Box{X: 0.5, Y: 2, W: 9, H: 1}, Paragraph{Text: "Plain"})

	zr := buildZip(t, d)
	types := readPart(t, zr, "[Content_Types].xml")
	if strings.Contains(types, `Extension="png"`) {
		t.Error("png default present without images")
	}
}

func TestSpeakerNotes(t *testing.T) {
	d := New("Notes")
	s1 := d.AddSlide()
	s1.AddText(Box{X: 0.5, Y: 2, W: 9, H: 1}, Paragraph{Text: "One"})
	s1.Notes = "Open with the headline.\nPause for questions."
	s2 := d.AddSlide()
	s2.AddText(Box{X: 0.5, Y: 2, W: 9, H: 1}, Paragraph{Text: "Two"})

	zr := buildZip(t, d)

	if !hasPart(zr, "ppt/notesMasters/notesMaster1.xml") {
		t.Fatal("notes master not emitted")
	}
	if !hasPart(zr, "ppt/notesSlides/notesSlide1.xml") {
		t.Fatal("notesSlide1.xml not emitted")
	}
	if hasPart(zr, "ppt/notesSlides/notesSlide2.xml") {
		t.Error("notesSlide2.xml emitted for slide without notes")
	}

	notes := readPart(t, zr, "ppt/notesSlides/notesSlide1.xml")
	if !strings.Contains(notes, "<a:t>Open with the headline.</a:t>") {
		t.Error("first notes line missing")
	}
	if !strings.Contains(notes, "<a:t>Pause for questions.</a:t>") {
		t.Error("second notes line missing")
	}

	rels := readPart(t, zr, "ppt/slides/_rels/slide1.xml.rels")
	if !strings.Contains(rels, "notesSlide1.xml") {
		t.Error("slide1 rels missing notes link")
	}
	pres := readPart(t, zr, "ppt/presentation.xml")
	if !strings.Contains(pres, "<p:notesMasterIdLst>") {
		t.Error("presentation missing notes master list")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "deck.pptx")

	d := New("Saved")
	d.AddSlide().AddText(Box{X: 1, Y: 1, W: 8, H: 1}, Paragraph{Text: "Saved"})
	if err := d.Save(out); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("saved file is empty")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Errorf("saved file is not a zip: %v", err)
	}
}

func TestCorePropsTitle(t *testing.T) {
	d := New(`AI & "Robotics"`)
	d.AddSlide().AddText(Box{X: 1, Y: 1, W: 8, H: 1}, Paragraph{Text: "x"})

	zr := buildZip(t, d)
	core := readPart(t, zr, "docProps/core.xml")
	if !strings.Contains(core, "<dc:title>AI &amp; &quot;Robotics&quot;</dc:title>") {
		t.Errorf("core.xml title not escaped:\n%s", core)
	}
}

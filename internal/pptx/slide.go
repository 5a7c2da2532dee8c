package pptx

import (
	"fmt"
	"strings"
)

// slideXML renders one slide part. Shape ids start at 2; id 1 belongs
// to the group shape. Image relationship ids follow slideRels numbering.
func slideXML(s *Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="` + nsDrawing + `" xmlns:r="` + nsOfficeRel + `" xmlns:p="` + nsPresentation + `">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	id := 2
	for _, tb := range s.Texts {
		writeTextShape(&b, id, tb)
		id++
	}
	for i, img := range s.Images {
		writePicture(&b, id, 2+i, img)
		id++
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func writeTextShape(b *strings.Builder, id int, tb TextBox) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, tb.Box)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	b.WriteString(`</p:spPr>`)
	b.WriteString(`<p:txBody>`)
	b.WriteString(`<a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr>`)
	b.WriteString(`<a:lstStyle/>`)
	for _, para := range tb.Paragraphs {
		writeParagraph(b, para)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

// writeParagraph emits one a:p. Sizes are points scaled by 100 for the
// sz attribute and spcPts val.
func writeParagraph(b *strings.Builder, p Paragraph) {
	b.WriteString(`<a:p>`)

	var pPr strings.Builder
	if p.Center {
		pPr.WriteString(` algn="ctr"`)
	}
	var spc string
	if p.SpaceAfter > 0 {
		spc = fmt.Sprintf(`<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, p.SpaceAfter*100)
	}
	if pPr.Len() > 0 || spc != "" {
		fmt.Fprintf(b, `<a:pPr%s>%s</a:pPr>`, pPr.String(), spc)
	}

	b.WriteString(`<a:r>`)
	var rPr strings.Builder
	rPr.WriteString(`<a:rPr lang="en-US"`)
	if p.Size > 0 {
		fmt.Fprintf(&rPr, ` sz="%d"`, p.Size*100)
	}
	if p.Bold {
		rPr.WriteString(` b="1"`)
	}
	rPr.WriteString(` dirty="0"`)
	rPr.WriteString(`>`)
	if p.Color != "" {
		fmt.Fprintf(&rPr, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, esc(hexColor(p.Color)))
	}
	if p.Font != "" {
		fmt.Fprintf(&rPr, `<a:latin typeface="%s"/>`, esc(p.Font))
	}
	rPr.WriteString(`</a:rPr>`)
	b.WriteString(rPr.String())
	fmt.Fprintf(b, `<a:t>%s</a:t>`, esc(p.Text))
	b.WriteString(`</a:r>`)

	b.WriteString(`</a:p>`)
}

// writePicture emits one p:pic referencing the slide relationship rId.
func writePicture(b *strings.Builder, id, rid int, img Image) {
	fmt.Fprintf(b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(b, `<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, rid)
	b.WriteString(`<p:spPr>`)
	writeXfrm(b, img.Box)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	b.WriteString(`</p:spPr></p:pic>`)
}

func writeXfrm(b *strings.Builder, box Box) {
	fmt.Fprintf(b, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(box.X), emu(box.Y), emu(box.W), emu(box.H))
}

// notesXML renders a notes part. Each line of the notes text becomes
// its own paragraph.
func notesXML(notes string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:notes xmlns:a="` + nsDrawing + `" xmlns:r="` + nsOfficeRel + `" xmlns:p="` + nsPresentation + `">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, esc(line))
	}
	b.WriteString(`</p:txBody></p:sp>`)
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`</p:notes>`)
	return b.String()
}

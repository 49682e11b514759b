package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path"
	"strings"
)

type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

type Anchor string

const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

type Geometry string

const (
	GeomRect      Geometry = "rect"
	GeomRoundRect Geometry = "roundRect"
)

// Run is a span of uniformly formatted text. Size is in points, Color is
// a six-digit hex value.
type Run struct {
	Text  string
	Size  float64
	Bold  bool
	Color string
	Font  string
	Link  string
}

type Paragraph struct {
	Runs       []Run
	Align      Align
	SpaceAfter float64
}

// TextFrame describes the body of a text box. Text wraps inside the box
// and shrinks on overflow unless NoAutofit is set.
type TextFrame struct {
	Paragraphs []Paragraph
	Anchor     Anchor
	Inset      int64
	NoAutofit  bool
}

// Slide collects shapes for one slide of a Presentation.
type Slide struct {
	pres        *Presentation
	number      int
	shapes      bytes.Buffer
	rels        []relationship
	imageRels   map[string]string // media part -> relationship id
	nextShapeID int
}

func (s *Slide) Number() int {
	return s.number
}

func (s *Slide) addRel(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", len(s.rels)+1)
	s.rels = append(s.rels, relationship{ID: id, Type: relType, Target: target, External: external})
	return id
}

func (s *Slide) shapeID() int {
	id := s.nextShapeID
	s.nextShapeID++
	return id
}

// AddRect draws a borderless solid rectangle.
func (s *Slide) AddRect(x, y, cx, cy int64, fill string) {
	s.AddShape(GeomRect, x, y, cx, cy, fill, nil)
}

// AddShape draws a preset shape with an optional fill and text body.
func (s *Slide) AddShape(geom Geometry, x, y, cx, cy int64, fill string, text *TextFrame) {
	id := s.shapeID()
	buf := &s.shapes

	fmt.Fprintf(buf, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, id)
	buf.WriteString(`<p:spPr>`)
	writeXfrm(buf, x, y, cx, cy)
	fmt.Fprintf(buf, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, geom)
	writeFill(buf, fill)
	buf.WriteString(`<a:ln><a:noFill/></a:ln></p:spPr>`)
	if text != nil {
		s.writeTextBody(buf, *text)
	}
	buf.WriteString(`</p:sp>`)
}

// AddTextBox places a transparent text box.
func (s *Slide) AddTextBox(x, y, cx, cy int64, text TextFrame) {
	id := s.shapeID()
	buf := &s.shapes

	fmt.Fprintf(buf, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	buf.WriteString(`<p:spPr>`)
	writeXfrm(buf, x, y, cx, cy)
	buf.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	s.writeTextBody(buf, text)
	buf.WriteString(`</p:sp>`)
}

// AddPicture embeds an image file stretched to the given box.
func (s *Slide) AddPicture(filePath string, x, y, cx, cy int64) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image %s: %w", filePath, err)
	}
	if _, ok := imageContentTypes[format]; !ok {
		return fmt.Errorf("unsupported image format %s", format)
	}

	part := s.pres.addMedia(filePath, data, format)
	relID, ok := s.imageRels[part]
	if !ok {
		relID = s.addRel(relImage, "../media/"+path.Base(part), false)
		if s.imageRels == nil {
			s.imageRels = make(map[string]string)
		}
		s.imageRels[part] = relID
	}

	id := s.shapeID()
	buf := &s.shapes
	fmt.Fprintf(buf, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(buf, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	buf.WriteString(`<p:spPr>`)
	writeXfrm(buf, x, y, cx, cy)
	buf.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
	return nil
}

// ImageSize returns the pixel dimensions of an image file.
func ImageSize(filePath string) (int, int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func (s *Slide) writeTextBody(buf *bytes.Buffer, text TextFrame) {
	anchor := text.Anchor
	if anchor == "" {
		anchor = AnchorTop
	}
	inset := text.Inset
	if inset <= 0 {
		inset = 91440
	}

	fmt.Fprintf(buf, `<p:txBody><a:bodyPr wrap="square" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="%s">`,
		inset, inset/2, inset, inset/2, anchor)
	if text.NoAutofit {
		buf.WriteString(`<a:noAutofit/>`)
	} else {
		buf.WriteString(`<a:normAutofit/>`)
	}
	buf.WriteString(`</a:bodyPr><a:lstStyle/>`)

	if len(text.Paragraphs) == 0 {
		buf.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	for _, p := range text.Paragraphs {
		s.writeParagraph(buf, p)
	}
	buf.WriteString(`</p:txBody>`)
}

func (s *Slide) writeParagraph(buf *bytes.Buffer, p Paragraph) {
	buf.WriteString(`<a:p>`)
	if p.Align != "" || p.SpaceAfter > 0 {
		buf.WriteString(`<a:pPr`)
		if p.Align != "" {
			fmt.Fprintf(buf, ` algn="%s"`, p.Align)
		}
		buf.WriteString(`>`)
		if p.SpaceAfter > 0 {
			fmt.Fprintf(buf, `<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, hundredths(p.SpaceAfter))
		}
		buf.WriteString(`</a:pPr>`)
	}
	for _, r := range p.Runs {
		s.writeRun(buf, r)
	}
	buf.WriteString(`<a:endParaRPr lang="en-US"/></a:p>`)
}

func (s *Slide) writeRun(buf *bytes.Buffer, r Run) {
	buf.WriteString(`<a:r><a:rPr lang="en-US"`)
	if r.Size > 0 {
		fmt.Fprintf(buf, ` sz="%d"`, hundredths(r.Size))
	}
	if r.Bold {
		buf.WriteString(` b="1"`)
	}
	buf.WriteString(` dirty="0">`)
	if r.Color != "" {
		writeFill(buf, r.Color)
	}
	if r.Font != "" {
		buf.WriteString(`<a:latin typeface="`)
		writeAttr(buf, r.Font)
		buf.WriteString(`"/>`)
	}
	if r.Link != "" {
		relID := s.addRel(relHyperlink, r.Link, true)
		fmt.Fprintf(buf, `<a:hlinkClick r:id="%s"/>`, relID)
	}
	buf.WriteString(`</a:rPr><a:t>`)
	xml.EscapeText(buf, []byte(r.Text))
	buf.WriteString(`</a:t></a:r>`)
}

func writeXfrm(buf *bytes.Buffer, x, y, cx, cy int64) {
	fmt.Fprintf(buf, `<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, x, y, max(cx, 0), max(cy, 0))
}

func writeFill(buf *bytes.Buffer, color string) {
	color = strings.TrimPrefix(strings.ToUpper(color), "#")
	if color == "" {
		buf.WriteString(`<a:noFill/>`)
		return
	}
	fmt.Fprintf(buf, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, color)
}

// hundredths converts points to the hundredths-of-a-point integers used
// by font sizes and spacing.
func hundredths(pt float64) int {
	return int(math.Round(pt * 100))
}

func (s *Slide) xml() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<p:sld ` + pmlRoot + `><p:cSld><p:spTree>`)
	buf.WriteString(emptyGroup)
	buf.Write(s.shapes.Bytes())
	buf.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return buf.Bytes()
}

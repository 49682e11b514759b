package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	slidePartPattern  = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	layoutPartPattern = regexp.MustCompile(`^ppt/slideLayouts/slideLayout(\d+)\.xml$`)
	relIDPattern      = regexp.MustCompile(`^rId(\d+)$`)
)

// Presentation is an append-only OOXML presentation package. Slides added
// through AddSlide are materialized when the package is written.
type Presentation struct {
	parts  map[string][]byte
	order  []string
	width  int64
	height int64

	layoutPart    string
	baseSlides    int
	firstSlideNum int
	firstSlideID  int
	firstRelID    int

	slides []*Slide
	media  map[string]string // source file path -> part name
	images []string          // media part names in insertion order
}

// New returns an empty 10in x 7.5in presentation.
func New() *Presentation {
	return &Presentation{
		parts:         blankParts("Technical Update Briefing"),
		order:         slices.Clone(blankOrder),
		width:         DefaultWidth,
		height:        DefaultHeight,
		layoutPart:    "ppt/slideLayouts/slideLayout1.xml",
		firstSlideNum: 1,
		firstSlideID:  256,
		firstRelID:    6,
		media:         make(map[string]string),
	}
}

// Open loads an existing presentation to append slides after its own.
func Open(filePath string) (*Presentation, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer r.Close()

	p := &Presentation{
		parts: make(map[string][]byte, len(r.File)),
		media: make(map[string]string),
	}
	for _, f := range r.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read template part %s: %w", f.Name, err)
		}
		p.parts[f.Name] = data
		p.order = append(p.order, f.Name)
	}

	if err := p.inspect(); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", filePath, err)
	}
	return p, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type presentationDoc struct {
	SldSz struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
	SldIDs []struct {
		ID int `xml:"id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type relationshipsDoc struct {
	Relationships []relationship `xml:"Relationship"`
}

type layoutDoc struct {
	Type string `xml:"type,attr"`
	CSld struct {
		Name string `xml:"name,attr"`
	} `xml:"cSld"`
}

// inspect reads slide size, id counters and the blank layout from a
// loaded package.
func (p *Presentation) inspect() error {
	presXML, ok := p.parts[partPresentation]
	if !ok {
		return fmt.Errorf("missing %s", partPresentation)
	}
	if _, ok := p.parts[partPresRels]; !ok {
		return fmt.Errorf("missing %s", partPresRels)
	}
	if _, ok := p.parts[partContentTypes]; !ok {
		return fmt.Errorf("missing %s", partContentTypes)
	}

	var pres presentationDoc
	if err := xml.Unmarshal(presXML, &pres); err != nil {
		return fmt.Errorf("failed to parse presentation: %w", err)
	}
	p.width, p.height = pres.SldSz.Cx, pres.SldSz.Cy
	if p.width <= 0 || p.height <= 0 {
		p.width, p.height = DefaultWidth, DefaultHeight
	}

	p.firstSlideID = 256
	for _, s := range pres.SldIDs {
		if s.ID >= p.firstSlideID {
			p.firstSlideID = s.ID + 1
		}
	}

	var rels relationshipsDoc
	if err := xml.Unmarshal(p.parts[partPresRels], &rels); err != nil {
		return fmt.Errorf("failed to parse presentation relationships: %w", err)
	}
	p.firstRelID = 1
	for _, rel := range rels.Relationships {
		if m := relIDPattern.FindStringSubmatch(rel.ID); m != nil {
			if n, _ := strconv.Atoi(m[1]); n >= p.firstRelID {
				p.firstRelID = n + 1
			}
		}
	}

	p.firstSlideNum = 1
	var layouts []string
	for _, name := range p.order {
		if m := slidePartPattern.FindStringSubmatch(name); m != nil {
			p.baseSlides++
			if n, _ := strconv.Atoi(m[1]); n >= p.firstSlideNum {
				p.firstSlideNum = n + 1
			}
		}
		if layoutPartPattern.MatchString(name) {
			layouts = append(layouts, name)
		}
	}
	if len(layouts) == 0 {
		return fmt.Errorf("no slide layouts")
	}

	p.layoutPart = pickLayout(p.parts, layouts)
	return nil
}

// pickLayout prefers a layout named "Blank", then one of type blank, then
// the highest-numbered layout.
func pickLayout(parts map[string][]byte, layouts []string) string {
	slices.SortFunc(layouts, func(a, b string) int {
		return layoutNumber(a) - layoutNumber(b)
	})

	byType := ""
	for _, name := range layouts {
		var doc layoutDoc
		if err := xml.Unmarshal(parts[name], &doc); err != nil {
			continue
		}
		if strings.EqualFold(doc.CSld.Name, "blank") {
			return name
		}
		if byType == "" && doc.Type == "blank" {
			byType = name
		}
	}
	if byType != "" {
		return byType
	}
	return layouts[len(layouts)-1]
}

func layoutNumber(name string) int {
	m := layoutPartPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// SlideSize returns the canvas size in EMU.
func (p *Presentation) SlideSize() (int64, int64) {
	return p.width, p.height
}

// SlideCount counts template slides plus appended ones.
func (p *Presentation) SlideCount() int {
	return p.baseSlides + len(p.slides)
}

// AddSlide appends a blank slide.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{
		pres:        p,
		number:      p.firstSlideNum + len(p.slides),
		nextShapeID: 2,
	}
	s.rels = append(s.rels, relationship{
		ID:     "rId1",
		Type:   relSlideLayout,
		Target: "../slideLayouts/" + path.Base(p.layoutPart),
	})
	p.slides = append(p.slides, s)
	return s
}

// Save writes the package to filePath.
func (p *Presentation) Save(filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if _, err := p.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Bytes renders the package in memory.
func (p *Presentation) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package as a zip archive. The presentation stays
// usable afterwards.
func (p *Presentation) WriteTo(w io.Writer) (int64, error) {
	parts, order := p.materialize()

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, name := range order {
		fw, err := zw.Create(name)
		if err != nil {
			return cw.n, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := fw.Write(parts[name]); err != nil {
			return cw.n, fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finalize package: %w", err)
	}
	return cw.n, nil
}

// materialize builds the final part set without touching p.parts.
func (p *Presentation) materialize() (map[string][]byte, []string) {
	parts := make(map[string][]byte, len(p.parts)+2*len(p.slides)+len(p.images))
	for k, v := range p.parts {
		parts[k] = v
	}
	order := slices.Clone(p.order)
	if i := slices.Index(order, partContentTypes); i > 0 {
		order = slices.Delete(order, i, i+1)
		order = slices.Insert(order, 0, partContentTypes)
	}

	var sldIDs, presRels, overrides bytes.Buffer
	for i, s := range p.slides {
		slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", s.number)
		relsPart := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.number)
		relID := fmt.Sprintf("rId%d", p.firstRelID+i)

		parts[slidePart] = s.xml()
		parts[relsPart] = writeRelationships(s.rels)
		order = append(order, slidePart, relsPart)

		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, p.firstSlideID+i, relID)
		writeRelationship(&presRels, relationship{ID: relID, Type: relSlide, Target: fmt.Sprintf("slides/slide%d.xml", s.number)})
		fmt.Fprintf(&overrides, `<Override PartName="/%s" ContentType="%s"/>`, slidePart, ctSlide)
	}

	parts[partPresentation] = insertSlideIDs(parts[partPresentation], sldIDs.String())
	parts[partPresRels] = insertBefore(parts[partPresRels], "</Relationships>", presRels.String())

	contentTypes := parts[partContentTypes]
	for ext, ct := range imageContentTypes {
		if len(p.images) > 0 && !bytes.Contains(bytes.ToLower(contentTypes), []byte(`extension="`+ext+`"`)) {
			contentTypes = insertBefore(contentTypes, "</Types>", fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, ext, ct))
		}
	}
	parts[partContentTypes] = insertBefore(contentTypes, "</Types>", overrides.String())

	return parts, order
}

func insertSlideIDs(presXML []byte, ids string) []byte {
	if ids == "" {
		return presXML
	}
	s := string(presXML)
	switch {
	case strings.Contains(s, "</p:sldIdLst>"):
		return insertBefore(presXML, "</p:sldIdLst>", ids)
	case strings.Contains(s, "<p:sldIdLst/>"):
		return []byte(strings.Replace(s, "<p:sldIdLst/>", "<p:sldIdLst>"+ids+"</p:sldIdLst>", 1))
	default:
		return insertBefore(presXML, "<p:sldSz", "<p:sldIdLst>"+ids+"</p:sldIdLst>")
	}
}

func insertBefore(doc []byte, marker, insert string) []byte {
	if insert == "" {
		return doc
	}
	i := bytes.LastIndex(doc, []byte(marker))
	if i < 0 {
		return doc
	}
	out := make([]byte, 0, len(doc)+len(insert))
	out = append(out, doc[:i]...)
	out = append(out, insert...)
	return append(out, doc[i:]...)
}

// addMedia stores an image once per source path and returns its part name.
func (p *Presentation) addMedia(srcPath string, data []byte, format string) string {
	if name, ok := p.media[srcPath]; ok {
		return name
	}
	n := len(p.images) + 1
	name := fmt.Sprintf("ppt/media/techdeck%d.%s", n, format)
	for p.parts[name] != nil {
		n++
		name = fmt.Sprintf("ppt/media/techdeck%d.%s", n, format)
	}
	p.parts[name] = data
	p.media[srcPath] = name
	p.images = append(p.images, name)
	p.order = append(p.order, name)
	return name
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

package deck

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/techdeck/app/item"
	"github.com/lysyi3m/techdeck/app/pptx"
)

// AddCoverSlide appends the title slide: background, centered title,
// dates line and up to two bottom logos.
func AddCoverSlide(p *pptx.Presentation, c *Context) {
	s := p.AddSlide()
	w, _ := p.SlideSize()
	drawBackground(s, p, c.background(c.CoverBackground))

	margin := Inches(0.5)
	s.AddTextBox(margin, Inches(2.1), w-2*margin, Inches(1.5),
		singleLine(c.coverTitle(), 54, true, ColorGold, fontTitle, pptx.AlignCenter))

	if dates := c.coverDates(); dates != "" {
		s.AddTextBox(margin, Inches(3.8), w-2*margin, Inches(0.8),
			singleLine(dates, 30, false, ColorSubtle, fontBody, pptx.AlignCenter))
	}

	logoH := Inches(0.6)
	drawLogo(s, c.Logo, Inches(0.4), Inches(6.6), logoH, w)
	drawLogo(s, c.Logo2, Inches(ToInches(&w)-2.0), Inches(6.6), logoH, w)
}

// AddAgendaSlide appends the agenda with one bullet box per line.
func AddAgendaSlide(p *pptx.Presentation, c *Context) {
	s := p.AddSlide()
	w, _ := p.SlideSize()
	drawBackground(s, p, c.background(c.AgendaBackground))

	left := Inches(0.9)
	s.AddTextBox(left, Inches(0.9), w-2*left, Inches(1.0),
		singleLine("Agenda", 52, true, ColorGold, fontTitle, pptx.AlignLeft))

	for i, line := range c.agendaLines() {
		top := 2.1 + 0.55*float64(i)
		s.AddTextBox(left, Inches(top), w-2*left, Inches(0.55),
			singleLine("• "+line, 26, false, ColorText, fontBody, pptx.AlignLeft))
	}
}

// AddSeparatorSlide appends a section heading slide.
func AddSeparatorSlide(p *pptx.Presentation, c *Context, title string) {
	s := p.AddSlide()
	w, _ := p.SlideSize()
	drawBackground(s, p, c.background(c.SeparatorBackground))

	margin := Inches(0.5)
	s.AddTextBox(margin, Inches(3.0), w-2*margin, Inches(1.3),
		singleLine(title, 56, true, ColorText, fontTitle, pptx.AlignCenter))
}

// AddItemSlide appends the slide for one update: a colored rail holding
// status and metadata, with title and summary in the remaining area.
func AddItemSlide(p *pptx.Presentation, c *Context, it item.Item) {
	s := p.AddSlide()
	w, h := p.SlideSize()
	drawBackground(s, p, c.BrandBackground)

	railW := min(Inches(c.railWidth()), w)
	railX := min(max(Inches(c.RailLeft), 0), w-railW)
	s.AddRect(railX, 0, railW, h, c.RailColor(it.PrimaryProduct()))

	contentX, contentW := contentRegion(railX, railW, w)
	s.AddTextBox(contentX, Inches(0.5), contentW, Inches(1.7),
		singleLine(it.Title, TitleFontSize(it.Title), true, ColorText, fontTitle, pptx.AlignLeft))

	if body := cmp.Or(it.Summary, it.Description); body != "" {
		top := Inches(2.4)
		s.AddTextBox(contentX, top, contentW, h-top-Inches(0.6),
			singleLine(body, 18, false, ColorSubtle, fontBody, pptx.AlignLeft))
	}

	drawStatus(s, c, it.Status, railX, railW)

	inset := Inches(0.25)
	metaX, metaW := railX+inset, railW-2*inset
	if metaW <= 0 {
		metaX, metaW = railX, railW
	}
	next := drawMeta(s, it, metaX, metaW, h)
	drawAudience(s, c, it, metaX, metaW, next, h)
}

// AddConclusionSlide appends the closing links slide.
func AddConclusionSlide(p *pptx.Presentation, c *Context) {
	s := p.AddSlide()
	w, _ := p.SlideSize()
	drawBackground(s, p, c.background(c.ConclusionBackground))

	left := Inches(0.9)
	s.AddTextBox(left, Inches(0.9), w-2*left, Inches(1.0),
		singleLine("Final Thoughts", 48, true, ColorGold, fontTitle, pptx.AlignLeft))

	for i, link := range c.conclusionLinks() {
		line := link.URL
		if link.Label != "" {
			line = link.Label + ": " + link.URL
		}
		top := 2.3 + 0.6*float64(i)
		s.AddTextBox(left, Inches(top), w-2*left, Inches(0.6),
			singleLine(line, 22, false, ColorText, fontBody, pptx.AlignLeft))
	}
}

// AddThankYouSlide appends a background-only slide.
func AddThankYouSlide(p *pptx.Presentation, c *Context) {
	s := p.AddSlide()
	drawBackground(s, p, c.background(c.ThankYouBackground))
}

// TitleFontSize approximates shrink-to-fit by title length.
func TitleFontSize(title string) float64 {
	n := utf8.RuneCountInString(title)
	switch {
	case n <= 48:
		return 36
	case n <= 72:
		return 32
	case n <= 100:
		return 28
	case n <= 140:
		return 24
	default:
		return 22
	}
}

type metaField struct {
	label string
	value string
	link  string
}

// metaFields lists the rail entries of an item in display order, leaving
// out empty values.
func metaFields(it item.Item) []metaField {
	fields := []metaField{
		{label: "ID", value: it.RoadmapID},
		{label: "Status", value: it.Status},
		{label: "GA", value: it.GA},
		{label: "Products", value: strings.Join(it.Products, ", ")},
		{label: "Platforms", value: strings.Join(it.Platforms, ", ")},
		{label: "Clouds", value: strings.Join(it.Clouds, ", ")},
		{label: "Audience", value: strings.Join(it.Audience, ", ")},
		{label: "Month", value: it.Month},
		{label: "Link", value: it.URL, link: it.URL},
	}
	return slices.DeleteFunc(fields, func(f metaField) bool {
		return strings.TrimSpace(f.value) == ""
	})
}

// drawMeta stacks the rail entries and returns the top of the first
// unused row.
func drawMeta(s *pptx.Slide, it item.Item, x, width, slideH int64) int64 {
	boxH := Inches(0.5)
	top := Inches(1.2)
	for _, f := range metaFields(it) {
		if top+boxH > slideH {
			slog.Debug("Meta field does not fit on slide", "label", f.label, "title", it.Title)
			break
		}
		s.AddTextBox(x, top, width, boxH, pptx.TextFrame{
			Inset: Inches(0.05),
			Paragraphs: []pptx.Paragraph{
				{Runs: []pptx.Run{{Text: f.label, Size: 10, Bold: true, Color: ColorGold, Font: fontBody}}},
				{Runs: []pptx.Run{{Text: f.value, Size: 12, Color: ColorText, Font: fontBody, Link: f.link}}},
			},
		})
		top += Inches(0.52)
	}
	return top
}

// audienceFlags reads end-user and admin targeting from audience entries.
// Entries may be bare roles ("End users") or "role: yes/no" pairs. A nil
// flag means the role is not mentioned.
func audienceFlags(audience []string) (endUsers, admins *bool) {
	for _, entry := range audience {
		role, value, hasValue := strings.Cut(strings.ToLower(entry), ":")
		flag := true
		if hasValue {
			flag = yesish(value)
		}
		if strings.Contains(role, "user") {
			endUsers = &flag
		}
		if strings.Contains(role, "admin") {
			admins = &flag
		}
	}
	return endUsers, admins
}

func yesish(v string) bool {
	v = strings.TrimSpace(v)
	switch v {
	case "y", "true", "1", "\u2713", "\u2714", "\u2611":
		return true
	}
	return strings.Contains(v, "yes")
}

func audienceValue(flag *bool) string {
	switch {
	case flag == nil:
		return "?"
	case *flag:
		return "Yes"
	default:
		return "No"
	}
}

// drawAudience renders the "Target Audience" block below the meta rows.
// Items with no audience get no block.
func drawAudience(s *pptx.Slide, c *Context, it item.Item, x, width, top, slideH int64) {
	endUsers, admins := audienceFlags(it.Audience)
	if endUsers == nil && admins == nil {
		return
	}

	rowH, rowStep := Inches(0.45), Inches(0.5)
	top += Inches(0.1)
	if top+Inches(0.4)+2*rowStep > slideH {
		slog.Debug("Audience block does not fit on slide", "title", it.Title)
		return
	}

	s.AddTextBox(x, top, width, Inches(0.4),
		singleLine("Target Audience:", 14, true, "CBD5E1", fontBody, pptx.AlignLeft))
	top += Inches(0.45)

	rows := []struct {
		label string
		icon  string
		flag  *bool
	}{
		{"End Users:", c.EndUsersIcon, endUsers},
		{"Admins:", c.AdminsIcon, admins},
	}
	iconSize, textX := Inches(0.38), x+Inches(0.5)
	for _, row := range rows {
		if row.icon != "" {
			drawPicture(s, row.icon, x, top, iconSize, iconSize)
		}
		s.AddTextBox(textX, top, max(width-Inches(0.5), 0), rowH, pptx.TextFrame{
			Inset: Inches(0.05),
			Paragraphs: []pptx.Paragraph{{Runs: []pptx.Run{
				{Text: row.label + " ", Size: 13, Bold: true, Color: ColorText, Font: fontBody},
				{Text: audienceValue(row.flag), Size: 13, Color: "E5E7EB", Font: fontBody},
			}}},
		})
		top += rowStep
	}
}

func drawStatus(s *pptx.Slide, c *Context, status string, railX, railW int64) {
	if status == "" {
		return
	}

	inset := Inches(0.25)
	x, y := railX+inset, Inches(0.4)
	size := Inches(0.5)
	chipW := railW - 2*inset

	if icon := statusIcon(c, status); icon != "" && chipW > Inches(1.5) {
		chipW -= size + Inches(0.1)
		drawPicture(s, icon, x+chipW+Inches(0.1), y, size, size)
	}
	if chipW <= 0 {
		return
	}

	fill, text := statusColors(status)
	s.AddShape(pptx.GeomRoundRect, x, y, chipW, size, fill, &pptx.TextFrame{
		Anchor: pptx.AnchorMiddle,
		Paragraphs: []pptx.Paragraph{{
			Align: pptx.AlignCenter,
			Runs:  []pptx.Run{{Text: status, Size: 14, Bold: true, Color: text, Font: fontBody}},
		}},
	})
}

func statusColors(status string) (fill, text string) {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "rolling out"):
		return "3B82F6", ColorText
	case strings.Contains(s, "preview"):
		return "F59E0B", "111827"
	case strings.Contains(s, "development"):
		return "6B7280", ColorText
	case s == "ga" || strings.Contains(s, "general") || strings.Contains(s, "launched") || strings.Contains(s, "available"):
		return "16A34A", ColorText
	default:
		return ColorDarkPurple, ColorText
	}
}

func statusIcon(c *Context, status string) string {
	s := strings.ToLower(status)
	switch {
	case s == "ga" || strings.Contains(s, "launched") || strings.Contains(s, "rolling out") ||
		strings.Contains(s, "rolled out") || strings.Contains(s, "general") || strings.Contains(s, "available"):
		return c.RocketIcon
	case s == "dev" || strings.Contains(s, "development") || strings.Contains(s, "preview"):
		return c.PreviewIcon
	default:
		return ""
	}
}

// contentRegion returns the horizontal span beside the rail.
func contentRegion(railX, railW, slideW int64) (int64, int64) {
	margin := Inches(0.4)

	x, width := railX+railW+margin, slideW-railX-railW-2*margin
	if railX+railW/2 > slideW/2 {
		x, width = margin, railX-2*margin
	}
	if width < Inches(1) {
		x, width = margin, slideW-2*margin
	}
	return x, width
}

func singleLine(text string, size float64, bold bool, color, font string, align pptx.Align) pptx.TextFrame {
	return pptx.TextFrame{
		Paragraphs: []pptx.Paragraph{{
			Align: align,
			Runs:  []pptx.Run{{Text: text, Size: size, Bold: bold, Color: color, Font: font}},
		}},
	}
}

func drawBackground(s *pptx.Slide, p *pptx.Presentation, asset string) {
	w, h := p.SlideSize()
	if asset != "" && drawPicture(s, asset, 0, 0, w, h) {
		return
	}
	s.AddRect(0, 0, w, h, ColorFallbackBg)
}

// drawLogo places a logo at a fixed height keeping its aspect ratio.
func drawLogo(s *pptx.Slide, asset string, x, y, height, slideW int64) {
	if asset == "" {
		return
	}
	pw, ph, err := pptx.ImageSize(asset)
	if err != nil || ph == 0 {
		slog.Debug("Logo skipped", "path", asset, "error", err)
		return
	}
	width := height * int64(pw) / int64(ph)
	x = max(min(x, slideW-Inches(0.4)-width), 0)
	drawPicture(s, asset, x, y, width, height)
}

func drawPicture(s *pptx.Slide, asset string, x, y, cx, cy int64) bool {
	if err := s.AddPicture(asset, x, y, cx, cy); err != nil {
		slog.Debug("Picture skipped", "path", asset, "slide", s.Number(), "error", err)
		return false
	}
	return true
}

package deck

import (
	"cmp"
	"slices"
	"strings"
)

const (
	DefaultCoverTitle     = "M365 Technical Update Briefing"
	DefaultSeparatorTitle = "%s updates"
	DefaultRailWidth      = 3.5
	NoUpdatesTitle        = "No updates found"
)

// Colors shared by every slide archetype.
const (
	ColorGold       = "D6A84C"
	ColorDarkPurple = "331236"
	ColorFallbackBg = "161C24"
	ColorText       = "FFFFFF"
	ColorSubtle     = "E6E8EF"
)

const (
	fontTitle = "Segoe UI Semibold"
	fontBody  = "Segoe UI"
)

var DefaultAgenda = []string{
	"Overview",
	"Key updates by product",
	"Timeline & rollout status",
	"Q&A",
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

var DefaultConclusionLinks = []Link{
	{Label: "Microsoft Security", URL: "https://www.microsoft.com/en-us/security"},
	{Label: "Azure Updates", URL: "https://azure.microsoft.com/en-us/updates/"},
	{Label: "Dynamics 365 & Power Platform", URL: "https://www.microsoft.com/en-us/dynamics-365"},
	{Label: "Documentation", URL: "https://learn.microsoft.com/"},
}

// DefaultPalette maps product keywords to rail colors. The "default" key
// applies when no keyword matches.
var DefaultPalette = map[string]string{
	"teams":      "4F46E5",
	"sharepoint": "16A34A",
	"onedrive":   "0EA5E9",
	"exchange":   "F97316",
	"outlook":    "2563EB",
	"purview":    "065F46",
	"entra":      "1D4ED8",
	"default":    "0F172A",
}

// Context is the read-only input shared by all slide builders of one
// build. Asset paths are either empty or point at files that existed when
// the context was resolved.
type Context struct {
	Month string

	CoverBackground      string
	AgendaBackground     string
	SeparatorBackground  string
	ConclusionBackground string
	ThankYouBackground   string
	BrandBackground      string
	Logo                 string
	Logo2                string
	RocketIcon           string
	PreviewIcon          string
	EndUsersIcon         string
	AdminsIcon           string

	CoverTitle     string
	CoverDates     string
	SeparatorTitle string

	RailWidth float64
	RailLeft  float64

	Palette         map[string]string
	AgendaLines     []string
	ConclusionLinks []Link
}

func (c *Context) coverTitle() string {
	return cmp.Or(c.CoverTitle, DefaultCoverTitle)
}

func (c *Context) coverDates() string {
	return cmp.Or(c.CoverDates, c.Month)
}

func (c *Context) agendaLines() []string {
	if len(c.AgendaLines) > 0 {
		return c.AgendaLines
	}
	return DefaultAgenda
}

func (c *Context) conclusionLinks() []Link {
	if len(c.ConclusionLinks) > 0 {
		return c.ConclusionLinks
	}
	return DefaultConclusionLinks
}

// SeparatorTitleFor renders the separator heading for a product group. A
// SeparatorTitle without a %s verb replaces the heading entirely.
func (c *Context) SeparatorTitleFor(product string) string {
	tmpl := cmp.Or(c.SeparatorTitle, DefaultSeparatorTitle)
	if strings.Contains(tmpl, "%s") {
		return strings.Replace(tmpl, "%s", product, 1)
	}
	return tmpl
}

func (c *Context) railWidth() float64 {
	if c.RailWidth <= 0 {
		return DefaultRailWidth
	}
	return c.RailWidth
}

func (c *Context) background(specific string) string {
	return cmp.Or(specific, c.BrandBackground)
}

// RailColor picks the palette color for a product name. Longer keywords
// are tried first.
func (c *Context) RailColor(product string) string {
	palette := c.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	keys := make([]string, 0, len(palette))
	for k := range palette {
		if k != "default" {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(len(b)-len(a), strings.Compare(a, b))
	})

	name := strings.ToLower(product)
	for _, k := range keys {
		if strings.Contains(name, strings.ToLower(k)) {
			return palette[k]
		}
	}
	return cmp.Or(palette["default"], DefaultPalette["default"])
}

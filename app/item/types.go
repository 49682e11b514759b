package item

// Item is one product update as it appears on a slide.
type Item struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	RoadmapID   string   `json:"roadmap_id"`
	URL         string   `json:"url"`
	Month       string   `json:"month"`
	Product     string   `json:"product"`
	Products    []string `json:"products"`
	Platforms   []string `json:"platforms"`
	Audience    []string `json:"audience"`
	Clouds      []string `json:"clouds"`
	Status      string   `json:"status"`
	Phases      string   `json:"phases"`
	Created     string   `json:"created"`
	Modified    string   `json:"modified"`
	GA          string   `json:"ga"`
	Source      string   `json:"source,omitempty"`
}

// PrimaryProduct is the grouping key for separator slides.
func (i Item) PrimaryProduct() string {
	if len(i.Products) > 0 && i.Products[0] != "" {
		return i.Products[0]
	}
	return DefaultGroup
}

// Group is a run of items sharing a primary product.
type Group struct {
	Product string
	Items   []Item
}

// Filter is an include/exclude rule over one item field.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

const (
	DefaultGroup = "General"
	MaxTitleLen  = 140
)

// FilterFields lists the item fields a Filter may name.
var FilterFields = map[string]bool{
	"title":     true,
	"summary":   true,
	"products":  true,
	"platforms": true,
	"audience":  true,
	"clouds":    true,
	"status":    true,
}

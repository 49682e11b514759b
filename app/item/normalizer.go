package item

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lysyi3m/techdeck/app/source"
)

// phaseVocabulary is consulted in order; the first substring hit wins.
var phaseVocabulary = []struct {
	phrase string
	status string
}{
	{"rolling out", "Rolling out"},
	{"in development", "In development"},
	{"launched", "Launched"},
	{"public preview", "Public preview"},
	{"preview", "Preview"},
	{"general availability", "Generally available"},
	{"cancelled", "Cancelled"},
}

var listSeparators = regexp.MustCompile(`[,;|•\n]+`)

// StatusFromPhase maps raw phase text onto a status label. Unmapped text
// is returned cleaned but otherwise unchanged.
func StatusFromPhase(phase string) string {
	phase = source.Clean(phase)
	lower := strings.ToLower(phase)
	for _, v := range phaseVocabulary {
		if strings.Contains(lower, v.phrase) {
			return v.status
		}
	}
	return phase
}

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run converts parser output into Items. Records with neither title nor
// url are dropped.
func (n *Normalizer) Run(raws []source.RawRecord, monthFallback string) []Item {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		it := n.normalizeRecord(raw, monthFallback)
		if it.Title == "" && it.URL == "" {
			continue
		}
		items = append(items, it)
	}
	return items
}

// Tidy applies the same rules to an Item that did not come from a parser.
func (n *Normalizer) Tidy(it Item) Item {
	raw := source.RawRecord{
		"title":       it.Title,
		"summary":     it.Summary,
		"description": it.Description,
		"roadmap_id":  it.RoadmapID,
		"url":         it.URL,
		"product":     it.Product,
		"products":    it.Products,
		"platforms":   it.Platforms,
		"audience":    it.Audience,
		"clouds":      it.Clouds,
		"status":      it.Status,
		"phases":      it.Phases,
		"created":     it.Created,
		"modified":    it.Modified,
		"ga":          it.GA,
		"source":      it.Source,
	}
	return n.normalizeRecord(raw, it.Month)
}

func (n *Normalizer) normalizeRecord(raw source.RawRecord, monthFallback string) Item {
	text := func(key string) string {
		return source.Clean(scalar(raw[key]))
	}

	it := Item{
		Title:       ClampTitle(text("title")),
		Summary:     text("summary"),
		Description: text("description"),
		RoadmapID:   text("roadmap_id"),
		URL:         text("url"),
		Month:       cmp.Or(text("month"), source.Clean(monthFallback)),
		Product:     text("product"),
		Products:    coerceList(raw["products"]),
		Platforms:   coerceList(raw["platforms"]),
		Audience:    coerceList(raw["audience"]),
		Clouds:      coerceList(raw["clouds"]),
		Status:      text("status"),
		Phases:      text("phases"),
		Created:     text("created"),
		Modified:    text("modified"),
		GA:          text("ga"),
		Source:      text("source"),
	}

	if it.Status == "" && it.Phases != "" {
		it.Status = StatusFromPhase(it.Phases)
	}

	n.enforcePrimaryProduct(&it)
	return it
}

// enforcePrimaryProduct keeps Product and Products[0] in agreement.
func (n *Normalizer) enforcePrimaryProduct(it *Item) {
	if it.Product == "" {
		if len(it.Products) > 0 {
			it.Product = it.Products[0]
		}
		return
	}
	if i := slices.Index(it.Products, it.Product); i >= 0 {
		it.Products = slices.Delete(it.Products, i, i+1)
	}
	it.Products = slices.Insert(it.Products, 0, it.Product)
}

// ClampTitle shortens s to MaxTitleLen runes, ending in an ellipsis.
func ClampTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTitleLen {
		return s
	}
	return string(runes[:MaxTitleLen-1]) + "…"
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, scalar(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// coerceList turns a string, a separator-joined string or a list into a
// clean list of distinct non-empty strings. Never nil.
func coerceList(v any) []string {
	var parts []string
	switch val := v.(type) {
	case nil:
	case string:
		parts = listSeparators.Split(val, -1)
	case []string:
		parts = val
	case []any:
		for _, p := range val {
			parts = append(parts, scalar(p))
		}
	default:
		parts = []string{fmt.Sprint(val)}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = source.Clean(p); p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// DedupeKey is the lowercased roadmap id, else title, else url.
func DedupeKey(it Item) string {
	key := strings.TrimSpace(cmp.Or(
		strings.TrimSpace(it.RoadmapID),
		strings.TrimSpace(it.Title),
		strings.TrimSpace(it.URL),
	))
	return cases.Lower(language.Und).String(key)
}

// DedupeAndOrder drops later duplicates and sorts survivors by product
// list then title. Applying it twice changes nothing.
func DedupeAndOrder(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		key := DedupeKey(it)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}

	slices.SortStableFunc(out, func(a, b Item) int {
		return cmp.Or(
			cmp.Compare(strings.Join(a.Products, ", "), strings.Join(b.Products, ", ")),
			cmp.Compare(a.Title, b.Title),
		)
	})
	return out
}

// GroupByProduct buckets items by primary product in first-seen order.
func GroupByProduct(items []Item) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, it := range items {
		key := it.PrimaryProduct()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Product: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

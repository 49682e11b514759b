package source

import (
	"cmp"
	"log/slog"
	"strings"
)

// headerAliases maps canonical column keys to the header spellings seen in
// roadmap exports.
var headerAliases = []struct {
	key     string
	aliases []string
}{
	{"feature id", []string{"feature id", "featureid", "id", "roadmap id", "feature_id"}},
	{"title", []string{"title", "feature name", "feature title"}},
	{"description", []string{"description", "summary", "details"}},
	{"status", []string{"status", "release status"}},
	{"products", []string{"product", "products", "workload"}},
	{"platforms", []string{"platform", "platforms", "device"}},
	{"audience", []string{"audience"}},
	{"phase", []string{"phase", "release phase"}},
	{"clouds", []string{"cloud", "clouds"}},
	{"created", []string{"created", "date added"}},
	{"modified", []string{"modified", "last modified", "updated"}},
	{"ga", []string{"ga", "general availability", "release"}},
	{"url", []string{"more info", "learn more", "link", "url"}},
}

// NormalizeHeader folds a header cell's text onto its canonical key.
// Unknown headers come back lowercased and cleaned.
func NormalizeHeader(s string) string {
	s = strings.ToLower(Clean(s))
	for _, h := range headerAliases {
		for _, alias := range h.aliases {
			if s == alias {
				return h.key
			}
		}
	}
	return s
}

// rowFields lists header keys copied into a RawRecord and the record key
// each lands under.
var rowFields = []struct {
	header string
	key    string
}{
	{"description", "summary"},
	{"status", "status"},
	{"products", "products"},
	{"platforms", "platforms"},
	{"audience", "audience"},
	{"phase", "phases"},
	{"clouds", "clouds"},
	{"created", "created"},
	{"modified", "modified"},
	{"ga", "ga"},
}

type RoadmapParser struct{}

func NewRoadmapParser() *RoadmapParser {
	return &RoadmapParser{}
}

// Run extracts records from a roadmap export. Tables win outright; card
// markup is only consulted when no table produced a record.
func (p *RoadmapParser) Run(path, month string) []RawRecord {
	doc, ok := loadDocument(path)
	if !ok {
		slog.Debug("Roadmap input unavailable", "path", path)
		return []RawRecord{}
	}

	for _, table := range p.tableCandidates(doc) {
		if records := p.parseTable(table, month); len(records) > 0 {
			slog.Debug("Roadmap parsed", "path", path, "layout", "table", "records", len(records))
			return records
		}
	}

	records := p.parseCards(doc, month)
	slog.Debug("Roadmap parsed", "path", path, "layout", "cards", "records", len(records))
	return records
}

func (p *RoadmapParser) tableCandidates(doc Node) []Node {
	var out []Node
	for _, table := range AllMatches(doc, "table") {
		headers := make([]string, 0)
		for _, th := range AllMatches(table, "th") {
			headers = append(headers, NormalizeHeader(TextOf(th)))
		}
		blob := strings.Join(headers, " ")
		if strings.Contains(blob, "feature id") || strings.Contains(blob, "title") || strings.Contains(blob, "description") {
			out = append(out, table)
		}
	}
	return out
}

func (p *RoadmapParser) headerMap(table Node) map[string]int {
	cells := AllMatches(table, "th")
	if len(cells) == 0 {
		cells = AllMatches(FirstMatch(table, "tr"), "th, td")
	}

	mapping := make(map[string]int, len(cells))
	for i, cell := range cells {
		key := NormalizeHeader(TextOf(cell))
		if _, seen := mapping[key]; key != "" && !seen {
			mapping[key] = i
		}
	}
	return mapping
}

func (p *RoadmapParser) parseTable(table Node, month string) []RawRecord {
	headers := p.headerMap(table)
	if len(headers) == 0 {
		return nil
	}

	var records []RawRecord
	for _, row := range AllMatches(table, "tr") {
		cells := AllMatches(row, "td")
		if len(cells) == 0 {
			continue
		}

		get := func(name string) string {
			if i, ok := headers[name]; ok && i < len(cells) {
				return TextOf(cells[i])
			}
			return ""
		}

		title := get("title")
		if title == "" {
			title = TextOf(cells[0])
		}

		url := ""
		if i, ok := headers["url"]; ok && i < len(cells) {
			url = cmp.Or(firstHref(cells[i]), TextOf(cells[i]))
		}
		if url == "" {
			url = firstHref(row)
		}

		id := get("feature id")
		if id == "" {
			id = featureIDFromURL(url)
		}
		if id == "" {
			id = firstDigitRun(TextOf(row))
		}
		if url == "" {
			url = roadmapURL(id)
		}

		if title == "" && url == "" {
			continue
		}

		record := RawRecord{"source": OriginRoadmap}
		record.set("title", title)
		record.set("roadmap_id", id)
		record.set("url", url)
		record.set("month", month)
		for _, f := range rowFields {
			record.set(f.key, get(f.header))
		}
		records = append(records, record)
	}
	return records
}

func (p *RoadmapParser) parseCards(doc Node, month string) []RawRecord {
	cards := selectCards(AllMatchesFunc(doc, func(n Node) bool {
		return HasClassLike(n, "card", "item", "tile", "ms-")
	}))

	records := make([]RawRecord, 0, len(cards))
	for _, card := range cards {
		title := TextOf(classedTitle(card))
		if title == "" {
			title = TextOf(FirstMatch(card, "h1, h2, h3"))
		}
		if title == "" {
			title = TextOf(FirstMatch(card, "a"))
		}
		if title == "" {
			title = TextOf(card)
		}

		url := preferredHref(card)
		id := featureIDFromURL(url)
		if id == "" {
			id = firstDigitRun(TextOf(card))
		}

		if title == "" && url == "" {
			continue
		}

		record := RawRecord{"source": OriginRoadmap}
		record.set("title", title)
		record.set("summary", longestText(card, paragraphSelectors))
		record.set("roadmap_id", id)
		record.set("url", url)
		record.set("month", month)
		records = append(records, record)
	}
	return records
}

package source

import (
	"log/slog"
	"regexp"
	"strings"
)

// tagField describes a card field resolved from class-tagged descendants
// first and a "Label: value" scan second.
type tagField struct {
	key    string
	needle string
	labels []string
}

var cardTagFields = []tagField{
	{"products", "product", []string{"Products"}},
	{"platforms", "platform", []string{"Platform"}},
	{"audience", "audience", []string{"Audience"}},
	{"status", "status", []string{"Status"}},
	{"phases", "phase", []string{"Phase"}},
	{"clouds", "cloud", []string{"Cloud"}},
}

var cardDateFields = []tagField{
	{key: "created", labels: []string{"Created"}},
	{key: "modified", labels: []string{"Updated", "Modified"}},
	{key: "ga", labels: []string{"GA"}},
}

// knownLabels bounds a label scan so "Status: Launched Platform: Web"
// yields "Launched" rather than the rest of the card.
var knownLabels = regexp.MustCompile(`(?i)\b(products?|platforms?|audience|status|phases?|clouds?|created|updated|modified|ga|feature\s*id)\s*[:\-]\s`)

type MessageCenterParser struct{}

func NewMessageCenterParser() *MessageCenterParser {
	return &MessageCenterParser{}
}

// Run extracts records from a message-center export. Card markup wins
// whenever any card candidate exists, even if none of them is accepted.
func (p *MessageCenterParser) Run(path, month string) []RawRecord {
	doc, ok := loadDocument(path)
	if !ok {
		slog.Debug("Message center input unavailable", "path", path)
		return []RawRecord{}
	}

	if cards := p.findCards(doc); len(cards) > 0 {
		records := make([]RawRecord, 0, len(cards))
		for _, card := range cards {
			if record := p.parseCard(card, month); record != nil {
				records = append(records, record)
			}
		}
		slog.Debug("Message center parsed", "path", path, "layout", "cards", "candidates", len(cards), "records", len(records))
		return records
	}

	records := p.parseTables(doc, month)
	slog.Debug("Message center parsed", "path", path, "layout", "table", "records", len(records))
	return records
}

func (p *MessageCenterParser) findCards(doc Node) []Node {
	return selectCards(AllMatchesFunc(doc, func(n Node) bool {
		if !HasClassLike(n, "card", "ms-", "item", "tile") {
			return false
		}
		return FirstMatch(n, "a, p").Kind() == KindTag
	}))
}

func (p *MessageCenterParser) parseCard(card Node, month string) RawRecord {
	url := preferredHref(card)
	text := TextOf(card)

	id := ""
	if m := labelledIDPattern.FindStringSubmatch(text); m != nil {
		id = m[2]
	}
	if id == "" {
		id = featureIDFromURL(url)
	}

	title := p.title(card)
	if title == "" && url == "" {
		return nil
	}

	record := RawRecord{"source": OriginMessageCenter}
	record.set("title", title)
	record.set("summary", p.summary(card))
	record.set("roadmap_id", id)
	record.set("url", url)
	record.set("month", month)

	for _, f := range cardTagFields {
		value := classJoined(card, f.needle)
		if value == "" {
			value = labelValue(text, f.labels...)
		}
		record.set(f.key, value)
	}
	for _, f := range cardDateFields {
		record.set(f.key, labelValue(text, f.labels...))
	}
	return record
}

func (p *MessageCenterParser) title(card Node) string {
	if s := AttrOf(card, "data-title"); s != "" {
		return s
	}
	if s := TextOf(classedTitle(card)); s != "" {
		return s
	}
	for _, h := range []string{"h1", "h2", "h3", "h4"} {
		if s := TextOf(FirstMatch(card, h)); s != "" {
			return s
		}
	}
	if s := TextOf(FirstMatch(card, "a")); s != "" {
		return s
	}
	if s := longestText(card, paragraphSelectors); s != "" {
		return s
	}
	return TextOf(card)
}

func (p *MessageCenterParser) summary(card Node) string {
	described := FirstMatchFunc(card, func(n Node) bool {
		return HasClassLike(n, "summary", "description")
	})
	if s := TextOf(described); s != "" {
		return s
	}
	return longestText(card, paragraphSelectors)
}

func (p *MessageCenterParser) parseTables(doc Node, month string) []RawRecord {
	var records []RawRecord
	for _, table := range AllMatches(doc, "table") {
		for _, row := range AllMatches(table, "tr") {
			cells := AllMatches(row, "td")
			if len(cells) == 0 {
				continue
			}

			url := firstHref(row)
			if url == "" {
				url = firstHref(table)
			}
			id := ""
			if m := labelledIDPattern.FindStringSubmatch(TextOf(row)); m != nil {
				id = m[2]
			}

			record := RawRecord{}
			record.set("title", TextOf(cells[0]))
			if len(cells) > 1 {
				record.set("summary", TextOf(cells[1]))
			}
			record.set("roadmap_id", id)
			record.set("url", url)
			record.set("month", month)
			if len(record) == 0 {
				continue
			}
			record["source"] = OriginMessageCenter
			records = append(records, record)
		}
	}
	return records
}

// classJoined joins the distinct texts of descendants whose class contains
// needle.
func classJoined(card Node, needle string) string {
	var hits []string
	seen := make(map[string]bool)
	for _, n := range AllMatchesFunc(card, func(n Node) bool { return HasClassLike(n, needle) }) {
		if s := TextOf(n); s != "" && !seen[s] {
			seen[s] = true
			hits = append(hits, s)
		}
	}
	return strings.Join(hits, ", ")
}

// labelValue finds the first "Label: value" or "Label - value" occurrence
// in text for any of labels.
func labelValue(text string, labels ...string) string {
	for _, label := range labels {
		pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(label) + `\s*[:\-]\s*([^\n\r|]+)`)
		if err != nil {
			continue
		}
		m := pattern.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		value := text[m[2]:m[3]]
		if next := knownLabels.FindStringIndex(value); next != nil {
			value = value[:next[0]]
		}
		if value = Clean(value); value != "" {
			return value
		}
	}
	return ""
}

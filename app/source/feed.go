package source

import (
	"cmp"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// statusWords are category values the roadmap RSS export uses for release
// state rather than for products.
var statusWords = []string{
	"in development", "rolling out", "launched", "preview", "general availability", "cancelled",
}

// FeedParser reads the roadmap RSS/Atom export.
type FeedParser struct {
	gofeedParser *gofeed.Parser
}

func NewFeedParser() *FeedParser {
	return &FeedParser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *FeedParser) Run(path, month string) []RawRecord {
	f, err := os.Open(path)
	if err != nil {
		slog.Debug("Feed input unavailable", "path", path)
		return []RawRecord{}
	}
	defer f.Close()

	feed, err := p.gofeedParser.Parse(f)
	if err != nil {
		slog.Debug("Feed input not parseable", "path", path, "error", err)
		return []RawRecord{}
	}

	records := make([]RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		if record := p.normalizeItem(item, month); record != nil {
			records = append(records, record)
		}
	}

	slog.Debug("Feed parsed", "path", path, "title", feed.Title, "records", len(records))
	return records
}

func (p *FeedParser) normalizeItem(item *gofeed.Item, month string) RawRecord {
	title := Clean(item.Title)
	url := strings.TrimSpace(item.Link)
	if title == "" && url == "" {
		return nil
	}

	id := featureIDFromURL(url)
	if id == "" {
		id = firstDigitRun(item.GUID)
	}

	record := RawRecord{"source": OriginFeed}
	record.set("title", title)
	record.set("summary", p.htmlText(cmp.Or(item.Description, item.Content)))
	record.set("roadmap_id", id)
	record.set("url", cmp.Or(url, roadmapURL(id)))
	record.set("month", month)

	var products, status []string
	for _, category := range item.Categories {
		category = Clean(category)
		if category == "" {
			continue
		}
		if p.isStatusWord(category) {
			status = append(status, category)
		} else {
			products = append(products, category)
		}
	}
	if len(products) > 0 {
		record["products"] = products
	}
	if len(status) > 0 {
		record["phases"] = strings.Join(status, ", ")
	}

	if item.PublishedParsed != nil {
		record.set("created", item.PublishedParsed.Format(time.DateOnly))
	}
	if item.UpdatedParsed != nil {
		record.set("modified", item.UpdatedParsed.Format(time.DateOnly))
	}

	return record
}

func (p *FeedParser) isStatusWord(category string) bool {
	lower := strings.ToLower(category)
	for _, w := range statusWords {
		if lower == w {
			return true
		}
	}
	return false
}

// htmlText flattens an HTML description to plain text.
func (p *FeedParser) htmlText(s string) string {
	if !strings.Contains(s, "<") {
		return Clean(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return Clean(s)
	}
	return TextOf(TagOf(doc.Get(0)))
}

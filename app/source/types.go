package source

import (
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// RawRecord is the loosely typed output of a parser for one matched node.
// Values are either string or []string.
type RawRecord map[string]any

func (r RawRecord) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return ""
	}
}

// set stores a non-empty value under key.
func (r RawRecord) set(key, value string) {
	if value != "" {
		r[key] = value
	}
}

// Origin tags recorded on every RawRecord under the "source" key.
const (
	OriginRoadmap       = "rm"
	OriginMessageCenter = "mc"
	OriginFeed          = "feed"
)

const roadmapURLTemplate = "https://www.microsoft.com/microsoft-365/roadmap?featureid="

var (
	digitRunPattern   = regexp.MustCompile(`\b(\d{3,})\b`)
	featureIDPattern  = regexp.MustCompile(`(?i)[?&#]featureid=(\d{3,})\b`)
	roadmapURLPattern = regexp.MustCompile(`(?i)(featureid=|\broadmap\b|\bmicrosoft-365-roadmap\b)`)
	labelledIDPattern = regexp.MustCompile(`(?i)\b(feature\s*id|id)\s*[:#]?\s*(\d{3,})\b`)
)

const paragraphSelectors = "p, div, span"

// loadDocument parses path into a tree. Missing, unreadable or empty files
// yield ok == false.
func loadDocument(path string) (Node, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Absent(), false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() || info.Size() == 0 {
		return Absent(), false
	}

	reader, err := charset.NewReader(f, "text/html")
	if err != nil {
		return Absent(), false
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return Absent(), false
	}
	return TagOf(doc.Get(0)), true
}

func featureIDFromURL(url string) string {
	if m := featureIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

func firstDigitRun(text string) string {
	if m := digitRunPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func roadmapURL(id string) string {
	if id == "" {
		return ""
	}
	return roadmapURLTemplate + id
}

// firstHref returns the href of the first anchor under n that has one.
func firstHref(n Node) string {
	return AttrOf(FirstMatch(n, "a[href]"), "href")
}

// preferredHref picks the first roadmap-looking link, else the first link.
func preferredHref(n Node) string {
	anchors := AllMatches(n, "a[href]")
	for _, a := range anchors {
		if href := AttrOf(a, "href"); roadmapURLPattern.MatchString(href) {
			return href
		}
	}
	if len(anchors) > 0 {
		return AttrOf(anchors[0], "href")
	}
	return ""
}

// longestText returns the longest text among descendants matched by selector.
func longestText(n Node, selector string) string {
	best := ""
	for _, m := range AllMatches(n, selector) {
		if s := TextOf(m); len(s) > len(best) {
			best = s
		}
	}
	return best
}

func classedTitle(n Node) Node {
	return FirstMatchFunc(n, func(m Node) bool {
		return HasClassLike(m, "title")
	})
}

// cardLink is the href a card candidate points at.
func cardLink(n Node) string {
	if TagName(n) == "a" {
		return AttrOf(n, "href")
	}
	return preferredHref(n)
}

// selectCards reduces class-matched candidates to one node per card.
// Candidates wrapping two or more differently linked candidates are lists,
// not cards. Candidates nested in a kept card are parts of that card.
func selectCards(candidates []Node) []Node {
	cards := make([]Node, 0, len(candidates))
	for _, c := range candidates {
		links := make(map[string]bool)
		for _, inner := range candidates {
			if Contains(c, inner) {
				if href := cardLink(inner); href != "" {
					links[href] = true
				}
			}
		}
		if len(links) >= 2 {
			continue
		}

		nested := false
		for _, kept := range cards {
			if Contains(kept, c) {
				nested = true
				break
			}
		}
		if !nested {
			cards = append(cards, c)
		}
	}
	return cards
}

package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

type Kind int

const (
	KindAbsent Kind = iota
	KindTag
	KindText
	KindSequence
)

// Node is anything a query over the parsed HTML tree can hand back: an
// element, a bare text run, a list of nodes, or nothing at all. Every
// accessor in this file accepts any Node and returns a usable zero value.
type Node struct {
	kind Kind
	tag  *html.Node
	text string
	seq  []Node
}

func Absent() Node {
	return Node{}
}

func TextNode(s string) Node {
	return Node{kind: KindText, text: s}
}

func SequenceOf(nodes ...Node) Node {
	return Node{kind: KindSequence, seq: nodes}
}

// TagOf wraps a raw tree node. Text nodes become Text, elements and the
// document root become Tag, everything else is Absent.
func TagOf(n *html.Node) Node {
	if n == nil {
		return Absent()
	}
	switch n.Type {
	case html.ElementNode, html.DocumentNode:
		return Node{kind: KindTag, tag: n}
	case html.TextNode:
		return TextNode(n.Data)
	default:
		return Absent()
	}
}

func FromSelection(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return Absent()
	}
	if sel.Length() == 1 {
		return TagOf(sel.Get(0))
	}
	nodes := make([]Node, 0, sel.Length())
	for _, n := range sel.Nodes {
		nodes = append(nodes, TagOf(n))
	}
	return SequenceOf(nodes...)
}

func (n Node) Kind() Kind {
	return n.kind
}

func IsTag(n Node) bool {
	return n.kind == KindTag && n.tag != nil && n.tag.Type == html.ElementNode
}

// TagName returns the lowercased element name, or "" for non-elements.
func TagName(n Node) string {
	if !IsTag(n) {
		return ""
	}
	return strings.ToLower(n.tag.Data)
}

// TextOf returns the visible text of n with whitespace collapsed.
func TextOf(n Node) string {
	switch n.kind {
	case KindTag:
		if n.tag == nil {
			return ""
		}
		var parts []string
		collectText(n.tag, &parts)
		return Clean(strings.Join(parts, " "))
	case KindText:
		return Clean(n.text)
	case KindSequence:
		parts := make([]string, 0, len(n.seq))
		for _, child := range n.seq {
			if s := TextOf(child); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// AttrOf returns the trimmed value of the named attribute. The class
// attribute arrives from the tokenizer already space-joined.
func AttrOf(n Node, name string) string {
	if !IsTag(n) {
		return ""
	}
	for _, a := range n.tag.Attr {
		if strings.EqualFold(a.Key, name) {
			return Clean(a.Val)
		}
	}
	return ""
}

// FirstMatch returns the first descendant of n matching the CSS selector.
func FirstMatch(n Node, selector string) Node {
	matches := AllMatches(n, selector)
	if len(matches) == 0 {
		return Absent()
	}
	return matches[0]
}

// AllMatches returns every descendant of n matching the CSS selector in
// document order. Bad selectors and non-tag inputs yield nil.
func AllMatches(n Node, selector string) (out []Node) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()

	if n.kind != KindTag || n.tag == nil {
		return nil
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	sel := goquery.NewDocumentFromNode(n.tag).Selection.FindMatcher(matcher)
	out = make([]Node, 0, sel.Length())
	for _, node := range sel.Nodes {
		out = append(out, TagOf(node))
	}
	return out
}

// FirstMatchFunc returns the first descendant element satisfying keep.
func FirstMatchFunc(n Node, keep func(Node) bool) Node {
	if matches := AllMatchesFunc(n, keep); len(matches) > 0 {
		return matches[0]
	}
	return Absent()
}

// AllMatchesFunc returns every descendant element satisfying keep.
func AllMatchesFunc(n Node, keep func(Node) bool) (out []Node) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()

	for _, m := range AllMatches(n, "*") {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Contains reports whether inner is a strict descendant of outer.
func Contains(outer, inner Node) bool {
	if !IsTag(outer) || !IsTag(inner) {
		return false
	}
	for n := inner.tag.Parent; n != nil; n = n.Parent {
		if n == outer.tag {
			return true
		}
	}
	return false
}

// HasClassLike reports whether the class attribute of n contains any of
// the keywords, compared case-insensitively as substrings.
func HasClassLike(n Node, keywords ...string) bool {
	class := strings.ToLower(AttrOf(n, "class"))
	if class == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(class, kw) {
			return true
		}
	}
	return false
}

// Clean maps non-breaking and other unicode spaces to plain spaces,
// collapses runs and trims.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\ufeff':
			return -1
		}
		return r
	}, norm.NFC.String(s))
	return strings.Join(strings.Fields(s), " ")
}

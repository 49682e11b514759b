package source

import (
	"path/filepath"
	"testing"
)

const roadmapRSSFixture = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Microsoft 365 Roadmap</title>
    <link>https://www.microsoft.com/microsoft-365/roadmap</link>
    <description>Roadmap updates</description>
    <item>
      <guid isPermaLink="false">482601</guid>
      <title>Microsoft Teams: Town hall Q&amp;A improvements</title>
      <link>https://www.microsoft.com/microsoft-365/roadmap?featureid=482601</link>
      <description>&lt;p&gt;Organizers can &lt;b&gt;pin&lt;/b&gt; questions.&lt;/p&gt;</description>
      <category>Microsoft Teams</category>
      <category>Rolling out</category>
      <category>Web</category>
      <pubDate>Mon, 01 Sep 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <guid isPermaLink="false">500100</guid>
      <title>Outlook: Pinned mail</title>
      <description>Plain text body</description>
    </item>
    <item>
      <description>No title, no link</description>
    </item>
  </channel>
</rss>`

func TestFeedParser_Run(t *testing.T) {
	path := writeFixture(t, "roadmap.rss", roadmapRSSFixture)

	records := NewFeedParser().Run(path, "September 2025")
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if got := first.String("title"); got != "Microsoft Teams: Town hall Q&A improvements" {
		t.Errorf("Expected title, got '%s'", got)
	}
	if got := first.String("roadmap_id"); got != "482601" {
		t.Errorf("Expected roadmap_id '482601', got '%s'", got)
	}
	if got := first.String("summary"); got != "Organizers can pin questions." {
		t.Errorf("Expected HTML stripped summary, got '%s'", got)
	}
	if got := first.String("phases"); got != "Rolling out" {
		t.Errorf("Expected phases 'Rolling out', got '%s'", got)
	}
	products, ok := first["products"].([]string)
	if !ok || len(products) != 2 || products[0] != "Microsoft Teams" || products[1] != "Web" {
		t.Errorf("Expected products [Microsoft Teams Web], got %v", first["products"])
	}
	if got := first.String("created"); got != "2025-09-01" {
		t.Errorf("Expected created '2025-09-01', got '%s'", got)
	}
	if got := first.String("source"); got != OriginFeed {
		t.Errorf("Expected source '%s', got '%s'", OriginFeed, got)
	}

	second := records[1]
	if got := second.String("roadmap_id"); got != "500100" {
		t.Errorf("Expected roadmap_id from GUID, got '%s'", got)
	}
	want := "https://www.microsoft.com/microsoft-365/roadmap?featureid=500100"
	if got := second.String("url"); got != want {
		t.Errorf("Expected synthesized url '%s', got '%s'", want, got)
	}
}

func TestFeedParser_InvalidInput(t *testing.T) {
	parser := NewFeedParser()

	if records := parser.Run(filepath.Join(t.TempDir(), "missing.xml"), ""); len(records) != 0 {
		t.Errorf("Expected no records for missing file, got %d", len(records))
	}
	if records := parser.Run(writeFixture(t, "broken.xml", "not a feed"), ""); records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil result for unparseable file, got %v", records)
	}
}

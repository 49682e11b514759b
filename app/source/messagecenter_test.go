package source

import (
	"path/filepath"
	"testing"
)

const messageCenterCardsFixture = `<html><body>
<div class="results">
  <div class="message-card" data-title="SharePoint agents in Copilot app">
    <p>Agents created in SharePoint sites now appear in the Copilot app.</p>
    <a href="https://learn.microsoft.com/sharepoint/agents">Learn more</a>
  </div>
  <div class="message-card">
    <h2 class="card-title">Teams meeting recap</h2>
    <div class="card-summary">Recap now includes speaker timeline.</div>
    <span class="product-tag">Microsoft Teams</span>
    <span class="product-tag">Microsoft Teams</span>
    <span class="product-tag">Outlook</span>
    <a href="https://www.microsoft.com/microsoft-365/roadmap?featureid=412345">Roadmap</a>
    <p>Feature ID: 412345 Status: Rolling out Platform: Web, Desktop</p>
    <p>Created: 2025-08-01</p>
    <p>Updated: 2025-09-02</p>
  </div>
</div>
</body></html>`

func TestMessageCenterParser_Cards(t *testing.T) {
	path := writeFixture(t, "messagecenter.html", messageCenterCardsFixture)

	records := NewMessageCenterParser().Run(path, "September 2025")

	var plain, rich RawRecord
	for _, r := range records {
		switch r.String("title") {
		case "SharePoint agents in Copilot app":
			plain = r
		case "Teams meeting recap":
			rich = r
		}
	}

	if plain == nil {
		t.Fatalf("Expected a record titled from data-title, got %v", records)
	}
	if got := plain.String("status"); got != "" {
		t.Errorf("Expected empty status, got '%s'", got)
	}
	if got := plain.String("phases"); got != "" {
		t.Errorf("Expected empty phases, got '%s'", got)
	}
	if got := plain.String("url"); got != "https://learn.microsoft.com/sharepoint/agents" {
		t.Errorf("Expected first link as url, got '%s'", got)
	}
	if got := plain.String("source"); got != OriginMessageCenter {
		t.Errorf("Expected source '%s', got '%s'", OriginMessageCenter, got)
	}

	if rich == nil {
		t.Fatalf("Expected a record titled from the classed title, got %v", records)
	}
	if got := rich.String("summary"); got != "Recap now includes speaker timeline." {
		t.Errorf("Expected summary from classed element, got '%s'", got)
	}
	if got := rich.String("products"); got != "Microsoft Teams, Outlook" {
		t.Errorf("Expected distinct joined products, got '%s'", got)
	}
	if got := rich.String("roadmap_id"); got != "412345" {
		t.Errorf("Expected roadmap_id '412345', got '%s'", got)
	}
	if got := rich.String("status"); got != "Rolling out" {
		t.Errorf("Expected status from label scan, got '%s'", got)
	}
	if got := rich.String("platforms"); got != "Web, Desktop" {
		t.Errorf("Expected platforms from label scan, got '%s'", got)
	}
	if got := rich.String("created"); got != "2025-08-01" {
		t.Errorf("Expected created date, got '%s'", got)
	}
	if got := rich.String("modified"); got != "2025-09-02" {
		t.Errorf("Expected modified date, got '%s'", got)
	}
}

func TestMessageCenterParser_TableFallback(t *testing.T) {
	fixture := `<table>
  <tr><th>Title</th><th>Summary</th></tr>
  <tr><td>Exchange retention change</td><td>ID: 5001 retention policy update</td></tr>
  <tr><td>Viva Engage Q&amp;A</td><td>Questions get answers.</td><td><a href="https://example.com/qa">more</a></td></tr>
</table>`
	path := writeFixture(t, "message_center.html", fixture)

	records := NewMessageCenterParser().Run(path, "")
	if len(records) != 2 {
		t.Fatalf("Expected 2 table records, got %d", len(records))
	}
	if got := records[0].String("roadmap_id"); got != "5001" {
		t.Errorf("Expected roadmap_id '5001', got '%s'", got)
	}
	if got := records[0].String("url"); got != "https://example.com/qa" {
		t.Errorf("Expected table-level link fallback, got '%s'", got)
	}
	if got := records[1].String("summary"); got != "Questions get answers." {
		t.Errorf("Expected summary from second column, got '%s'", got)
	}
}

func TestMessageCenterParser_MissingFile(t *testing.T) {
	records := NewMessageCenterParser().Run(filepath.Join(t.TempDir(), "missing.html"), "")
	if records == nil || len(records) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", records)
	}
}

func TestLabelValue(t *testing.T) {
	text := "Feature ID: 1 Status: Launched Platform - Web | Audience: Admins"

	if got := labelValue(text, "Status"); got != "Launched" {
		t.Errorf("Expected 'Launched', got '%s'", got)
	}
	if got := labelValue(text, "Platform"); got != "Web" {
		t.Errorf("Expected 'Web', got '%s'", got)
	}
	if got := labelValue(text, "Cloud"); got != "" {
		t.Errorf("Expected empty value for missing label, got '%s'", got)
	}
	if got := labelValue("Modified: yesterday", "Updated", "Modified"); got != "yesterday" {
		t.Errorf("Expected fallback label to match, got '%s'", got)
	}
}

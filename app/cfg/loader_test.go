package cfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	original := Version
	defer func() { Version = original }()

	Version = ""
	if GetVersion() != "unknown" {
		t.Errorf("Expected 'unknown', got '%s'", GetVersion())
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{"-i", "roadmap.html", "--inputs", "messagecenter.html", "-o", "deck.pptx"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(cfg.Inputs) != 2 || cfg.Inputs[1] != "messagecenter.html" {
		t.Errorf("Expected 2 inputs, got %v", cfg.Inputs)
	}
	if cfg.Output != "deck.pptx" {
		t.Errorf("Expected output 'deck.pptx', got '%s'", cfg.Output)
	}
	if cfg.RailWidth != 3.5 {
		t.Errorf("Expected rail width 3.5, got %v", cfg.RailWidth)
	}
	if _, err := time.Parse(MonthLayout, cfg.Month); err != nil {
		t.Errorf("Expected month in '%s' layout, got '%s'", MonthLayout, cfg.Month)
	}
	if cfg.Style == nil {
		t.Error("Expected empty style, got nil")
	}
}

func TestLoad_AssetsResolved(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	os.WriteFile(logo, []byte("png"), 0644)

	cfg, err := Load([]string{
		"-i", "a.html", "-o", "deck.pptx",
		"--month", "September 2025",
		"--logo", logo,
		"--cover", filepath.Join(dir, "missing.png"),
		"--brand-bg", dir,
		"--rail-width", "2.75",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Logo != logo {
		t.Errorf("Expected logo '%s', got '%s'", logo, cfg.Logo)
	}
	if cfg.CoverBackground != "" {
		t.Errorf("Expected missing cover to be dropped, got '%s'", cfg.CoverBackground)
	}
	if cfg.BrandBackground != "" {
		t.Errorf("Expected directory asset to be dropped, got '%s'", cfg.BrandBackground)
	}

	opts := cfg.DeckOptions()
	if opts.Month != "September 2025" || opts.Context.Month != "September 2025" {
		t.Errorf("Expected month carried into options, got '%s'", opts.Month)
	}
	if opts.Context.RailWidth != 2.75 || opts.Context.Logo != logo {
		t.Errorf("Expected context from flags, got %+v", opts.Context)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load([]string{"-o", "deck.pptx"}); err == nil {
		t.Error("Expected error when inputs are missing")
	}
	if _, err := Load([]string{"-i", "a.html", "-o", "deck.pptx", "--rail-width", "0"}); err == nil {
		t.Error("Expected error for zero rail width")
	}
	if _, err := Load([]string{"-i", "a.html", "-o", "deck.pptx", "--style", "missing.yml"}); err == nil {
		t.Error("Expected error for missing style file")
	}
}

func TestLoad_Help(t *testing.T) {
	cfg, err := Load([]string{"--help"})
	if cfg != nil || err != nil {
		t.Errorf("Expected nil, nil for help, got %v, %v", cfg, err)
	}
}

func TestLoadServer(t *testing.T) {
	dir := t.TempDir()
	style := filepath.Join(dir, "style.yml")
	os.WriteFile(style, []byte("palette:\n  Viva: '#112233'\n"), 0644)

	cfg, err := LoadServer([]string{"--port", "9090", "--api-key", "secret", "--style", style})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Port != "9090" || cfg.APIAccessKey != "secret" {
		t.Errorf("Unexpected server config: %+v", cfg)
	}

	ctx := cfg.SlideContext()
	if ctx.RailWidth != 3.5 {
		t.Errorf("Expected default rail width, got %v", ctx.RailWidth)
	}
	if got := ctx.RailColor("Viva Engage"); got != "112233" {
		t.Errorf("Expected palette from style, got '%s'", got)
	}
}

func TestLoadStyle(t *testing.T) {
	dir := t.TempDir()
	content := `
palette:
  Teams: "#4f46e5"
  default: 0F172A
agenda:
  - Welcome
  - Roadmap
conclusion_links:
  - label: Docs
    url: https://learn.microsoft.com/
filters:
  - field: status
    excludes:
      - cancelled
month_filter: true
`
	path := filepath.Join(dir, "style.yml")
	os.WriteFile(path, []byte(content), 0644)

	style, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if style.Palette["teams"] != "4F46E5" {
		t.Errorf("Expected normalized palette entry, got %v", style.Palette)
	}
	if len(style.Agenda) != 2 || style.Agenda[0] != "Welcome" {
		t.Errorf("Expected agenda lines, got %v", style.Agenda)
	}
	if len(style.ConclusionLinks) != 1 || style.ConclusionLinks[0].Label != "Docs" {
		t.Errorf("Expected conclusion link, got %v", style.ConclusionLinks)
	}
	if len(style.Filters) != 1 || style.Filters[0].Field != "status" {
		t.Errorf("Expected status filter, got %v", style.Filters)
	}
	if !style.MonthFilter {
		t.Error("Expected month filter enabled")
	}

	empty, err := LoadStyle("")
	if err != nil || empty == nil {
		t.Errorf("Expected empty style for empty path, got %v, %v", empty, err)
	}
}

func TestLoadStyle_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad color":    "palette:\n  teams: blue\n",
		"bad field":    "filters:\n  - field: link\n    includes: [x]\n",
		"empty filter": "filters:\n  - field: title\n",
		"link no url":  "conclusion_links:\n  - label: Docs\n",
		"bad yaml":     "palette: [",
	}

	dir := t.TempDir()
	for name, content := range tests {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yml")
		os.WriteFile(path, []byte(content), 0644)

		if _, err := LoadStyle(path); err == nil {
			t.Errorf("Expected error for %s", name)
		}
	}
}

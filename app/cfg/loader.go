package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lysyi3m/techdeck/app/deck"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// MonthLayout is the format of briefing period labels.
const MonthLayout = "January 2006"

type rawCfg struct {
	// Build inputs
	Inputs   []string `short:"i" long:"inputs" env:"TECHDECK_INPUTS" env-delim:"," required:"true" description:"Roadmap or message center export (repeatable)"`
	Output   string   `short:"o" long:"output" env:"TECHDECK_OUTPUT" required:"true" description:"Destination .pptx path"`
	Month    string   `long:"month" env:"TECHDECK_MONTH" description:"Briefing period label (default: current month)"`
	Template string   `long:"template" env:"TECHDECK_TEMPLATE" description:"Presentation to append slides to"`

	// Layout
	RailWidth float64 `long:"rail-width" env:"TECHDECK_RAIL_WIDTH" default:"3.5" description:"Item slide rail width in inches"`
	RailLeft  float64 `long:"rail-left" env:"TECHDECK_RAIL_LEFT" default:"0" description:"Item slide rail left offset in inches"`

	// Assets
	Cover      string `long:"cover" description:"Cover background image"`
	Agenda     string `long:"agenda" description:"Agenda background image"`
	Separator  string `long:"separator" description:"Separator background image"`
	Conclusion string `long:"conclusion" description:"Conclusion background image"`
	ThankYou   string `long:"thankyou" description:"Thank-you background image"`
	BrandBg    string `long:"brand-bg" env:"TECHDECK_BRAND_BG" description:"Default background image"`
	Logo       string `long:"logo" description:"Primary logo"`
	Logo2      string `long:"logo2" description:"Secondary logo"`
	IconRocket string `long:"icon-rocket" description:"Icon for launched and rolling out items"`
	IconPrev   string `long:"icon-preview" description:"Icon for preview and in development items"`
	IconUsers  string `long:"icon-endusers" description:"Icon for the end users audience row"`
	IconAdmins string `long:"icon-admins" description:"Icon for the admins audience row"`

	// Text overrides
	CoverTitle     string `long:"cover-title" description:"Cover title"`
	CoverDates     string `long:"cover-dates" description:"Cover dates line (default: month)"`
	SeparatorTitle string `long:"separator-title" description:"Separator title, %s is replaced by the product"`

	StyleFile string `long:"style" env:"TECHDECK_STYLE" description:"YAML style file"`
	DebugDump string `long:"debug-dump" description:"Write normalized items as JSON to this path"`
	ArchiveDB string `long:"archive-db" env:"TECHDECK_ARCHIVE_DB" description:"SQLite file recording each build"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type rawServerCfg struct {
	Port         string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string  `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	BrandBg      string  `long:"brand-bg" env:"TECHDECK_BRAND_BG" description:"Slide background image"`
	IconRocket   string  `long:"icon-rocket" description:"Icon for launched and rolling out items"`
	IconPrev     string  `long:"icon-preview" description:"Icon for preview and in development items"`
	IconUsers    string  `long:"icon-endusers" description:"Icon for the end users audience row"`
	IconAdmins   string  `long:"icon-admins" description:"Icon for the admins audience row"`
	RailWidth    float64 `long:"rail-width" env:"TECHDECK_RAIL_WIDTH" default:"3.5" description:"Rail width in inches"`
	StyleFile    string  `long:"style" env:"TECHDECK_STYLE" description:"YAML style file"`
	ArchiveDB    string  `long:"archive-db" env:"TECHDECK_ARCHIVE_DB" description:"SQLite build archive to expose under /api/builds"`
	Debug        bool    `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses build flags. It returns nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg
	if ok, err := parse(&raw, args); !ok || err != nil {
		return nil, err
	}

	style, err := LoadStyle(raw.StyleFile)
	if err != nil {
		return nil, err
	}

	cfg := &Cfg{
		Inputs:               raw.Inputs,
		Output:               raw.Output,
		Month:                cmp.Or(raw.Month, time.Now().Format(MonthLayout)),
		Template:             resolveAsset("template", raw.Template),
		RailWidth:            raw.RailWidth,
		RailLeft:             raw.RailLeft,
		CoverBackground:      resolveAsset("cover", raw.Cover),
		AgendaBackground:     resolveAsset("agenda", raw.Agenda),
		SeparatorBackground:  resolveAsset("separator", raw.Separator),
		ConclusionBackground: resolveAsset("conclusion", raw.Conclusion),
		ThankYouBackground:   resolveAsset("thankyou", raw.ThankYou),
		BrandBackground:      resolveAsset("brand-bg", raw.BrandBg),
		Logo:                 resolveAsset("logo", raw.Logo),
		Logo2:                resolveAsset("logo2", raw.Logo2),
		RocketIcon:           resolveAsset("icon-rocket", raw.IconRocket),
		PreviewIcon:          resolveAsset("icon-preview", raw.IconPrev),
		EndUsersIcon:         resolveAsset("icon-endusers", raw.IconUsers),
		AdminsIcon:           resolveAsset("icon-admins", raw.IconAdmins),
		CoverTitle:           raw.CoverTitle,
		CoverDates:           raw.CoverDates,
		SeparatorTitle:       raw.SeparatorTitle,
		Style:                style,
		DebugDump:            raw.DebugDump,
		ArchiveDB:            raw.ArchiveDB,
		Debug:                raw.Debug,
		Version:              GetVersion(),
	}

	if cfg.RailWidth <= 0 {
		return nil, fmt.Errorf("rail width must be positive, got %v", cfg.RailWidth)
	}

	return cfg, nil
}

// LoadServer parses render service flags. It returns nil, nil when help
// was requested.
func LoadServer(args []string) (*ServerCfg, error) {
	var raw rawServerCfg
	if ok, err := parse(&raw, args); !ok || err != nil {
		return nil, err
	}

	style, err := LoadStyle(raw.StyleFile)
	if err != nil {
		return nil, err
	}

	return &ServerCfg{
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		BrandBackground: resolveAsset("brand-bg", raw.BrandBg),
		RocketIcon:      resolveAsset("icon-rocket", raw.IconRocket),
		PreviewIcon:     resolveAsset("icon-preview", raw.IconPrev),
		EndUsersIcon:    resolveAsset("icon-endusers", raw.IconUsers),
		AdminsIcon:      resolveAsset("icon-admins", raw.IconAdmins),
		RailWidth:       raw.RailWidth,
		Style:           style,
		ArchiveDB:       raw.ArchiveDB,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}, nil
}

func parse(data any, args []string) (bool, error) {
	parser := flags.NewParser(data, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return true, nil
}

// resolveAsset drops paths that do not name an existing file.
func resolveAsset(name, path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		slog.Warn("Asset not found, skipping", "asset", name, "path", path)
		return ""
	}
	return path
}

// DeckOptions maps the configuration onto a deck build.
func (c *Cfg) DeckOptions() deck.Options {
	style := c.Style
	if style == nil {
		style = &Style{}
	}

	return deck.Options{
		Inputs:      c.Inputs,
		Output:      c.Output,
		Month:       c.Month,
		Template:    c.Template,
		Filters:     style.Filters,
		MonthFilter: style.MonthFilter,
		DebugDump:   c.DebugDump,
		Context: deck.Context{
			Month:                c.Month,
			CoverBackground:      c.CoverBackground,
			AgendaBackground:     c.AgendaBackground,
			SeparatorBackground:  c.SeparatorBackground,
			ConclusionBackground: c.ConclusionBackground,
			ThankYouBackground:   c.ThankYouBackground,
			BrandBackground:      c.BrandBackground,
			Logo:                 c.Logo,
			Logo2:                c.Logo2,
			RocketIcon:           c.RocketIcon,
			PreviewIcon:          c.PreviewIcon,
			EndUsersIcon:         c.EndUsersIcon,
			AdminsIcon:           c.AdminsIcon,
			CoverTitle:           c.CoverTitle,
			CoverDates:           c.CoverDates,
			SeparatorTitle:       c.SeparatorTitle,
			RailWidth:            c.RailWidth,
			RailLeft:             c.RailLeft,
			Palette:              style.Palette,
			AgendaLines:          style.Agenda,
			ConclusionLinks:      style.ConclusionLinks,
		},
	}
}

// SlideContext is the render context for single-slide requests.
func (c *ServerCfg) SlideContext() deck.Context {
	ctx := deck.Context{
		BrandBackground: c.BrandBackground,
		RocketIcon:      c.RocketIcon,
		PreviewIcon:     c.PreviewIcon,
		EndUsersIcon:    c.EndUsersIcon,
		AdminsIcon:      c.AdminsIcon,
		RailWidth:       c.RailWidth,
	}
	if c.Style != nil {
		ctx.Palette = c.Style.Palette
	}
	return ctx
}

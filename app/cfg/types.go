package cfg

import (
	"github.com/lysyi3m/techdeck/app/deck"
	"github.com/lysyi3m/techdeck/app/item"
)

type Cfg struct {
	Inputs   []string
	Output   string
	Month    string
	Template string

	RailWidth float64
	RailLeft  float64

	// Asset paths, empty when not provided or missing on disk
	CoverBackground      string
	AgendaBackground     string
	SeparatorBackground  string
	ConclusionBackground string
	ThankYouBackground   string
	BrandBackground      string
	Logo                 string
	Logo2                string
	RocketIcon           string
	PreviewIcon          string
	EndUsersIcon         string
	AdminsIcon           string

	CoverTitle     string
	CoverDates     string
	SeparatorTitle string

	Style     *Style
	DebugDump string
	ArchiveDB string
	Debug     bool
	Version   string
}

type ServerCfg struct {
	Port         string
	APIAccessKey string

	BrandBackground string
	RocketIcon      string
	PreviewIcon     string
	EndUsersIcon    string
	AdminsIcon      string
	RailWidth       float64

	Style     *Style
	ArchiveDB string
	Debug     bool
	Version   string
}

// Style is the YAML look-and-filter file shared by the CLI and the server.
type Style struct {
	Palette         map[string]string `yaml:"palette"`
	Agenda          []string          `yaml:"agenda"`
	ConclusionLinks []deck.Link       `yaml:"conclusion_links"`
	Filters         []item.Filter     `yaml:"filters"`
	MonthFilter     bool              `yaml:"month_filter"`
}

package cfg

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/lysyi3m/techdeck/app/item"
	"gopkg.in/yaml.v3"
)

var hexColorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// LoadStyle reads a style file. An empty path yields an empty style.
func LoadStyle(path string) (*Style, error) {
	if path == "" {
		return &Style{}, nil
	}

	style, err := parseStyle(path)
	if err != nil {
		return nil, err
	}

	if err := validateStyle(style); err != nil {
		return nil, fmt.Errorf("invalid style %s: %w", path, err)
	}

	slog.Debug("Style loaded",
		"path", path,
		"palette", len(style.Palette),
		"filters", len(style.Filters),
		"month_filter", style.MonthFilter)

	return style, nil
}

func parseStyle(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style: %w", err)
	}

	var style Style
	if err := yaml.Unmarshal(data, &style); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	palette := make(map[string]string, len(style.Palette))
	for k, v := range style.Palette {
		palette[strings.ToLower(strings.TrimSpace(k))] = strings.ToUpper(strings.TrimPrefix(v, "#"))
	}
	style.Palette = palette

	return &style, nil
}

func validateStyle(style *Style) error {
	if style == nil {
		return fmt.Errorf("style is nil")
	}

	for product, color := range style.Palette {
		if product == "" {
			return fmt.Errorf("palette entry with empty product")
		}
		if !hexColorPattern.MatchString(color) {
			return fmt.Errorf("invalid palette color for %s: %s", product, color)
		}
	}

	for i, link := range style.ConclusionLinks {
		if link.URL == "" {
			return fmt.Errorf("conclusion link at index %d must have a url", i)
		}
	}

	for i, filter := range style.Filters {
		if !item.FilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

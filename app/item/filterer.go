package item

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops items rejected by the include/exclude filters.
func (f *Filterer) Run(items []Item, filters []Filter) []Item {
	if len(filters) == 0 {
		return items
	}

	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if isFiltered, reason := f.applyFilters(it, filters); isFiltered {
			slog.Debug("Item filtered", "title", it.Title, "reason", reason)
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

// RunMonth keeps items whose GA text falls in month ("September 2025").
// Items without a GA value, and every item when month does not parse,
// are kept.
func (f *Filterer) RunMonth(items []Item, month string) []Item {
	t, ok := parseMonth(month)
	if !ok {
		return items
	}

	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if it.GA == "" || f.matchesMonth(it.GA, t) {
			kept = append(kept, it)
			continue
		}
		slog.Debug("Item filtered", "title", it.Title, "reason", fmt.Sprintf("GA '%s' outside %s", it.GA, month))
	}
	return kept
}

func (f *Filterer) applyFilters(it Item, filters []Filter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(it, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(it Item, field string) string {
	switch field {
	case "title":
		return it.Title
	case "summary":
		return it.Summary + " " + it.Description
	case "products":
		return strings.Join(it.Products, " ")
	case "platforms":
		return strings.Join(it.Platforms, " ")
	case "audience":
		return strings.Join(it.Audience, " ")
	case "clouds":
		return strings.Join(it.Clouds, " ")
	case "status":
		return it.Status + " " + it.Phases
	default:
		return ""
	}
}

func (f *Filterer) matchesMonth(ga string, month time.Time) bool {
	lower := strings.ToLower(ga)
	if strings.HasPrefix(lower, month.Format("2006-01")) {
		return true
	}
	name := strings.ToLower(month.Format("January"))
	return strings.Contains(lower, name) && strings.Contains(lower, month.Format("2006"))
}

func parseMonth(month string) (time.Time, bool) {
	for _, layout := range []string{"January 2006", "Jan 2006", "2006-01"} {
		if t, err := time.Parse(layout, strings.TrimSpace(month)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

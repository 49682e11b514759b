package item

import (
	"testing"

	"github.com/lysyi3m/techdeck/app/source"
)

func TestFilterer_NoFilters(t *testing.T) {
	items := []Item{{Title: "a"}, {Title: "b"}}

	result := NewFilterer().Run(items, nil)
	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
}

func TestFilterer_IncludeAndExclude(t *testing.T) {
	items := []Item{
		{Title: "Copilot in Teams meetings", Products: []string{"Microsoft Teams"}},
		{Title: "Copilot retired feature", Products: []string{"Microsoft Teams"}},
		{Title: "Exchange transport rule", Products: []string{"Exchange"}},
	}

	filters := []Filter{
		{Field: "products", Includes: []string{"teams"}},
		{Field: "title", Excludes: []string{"RETIRED"}},
	}

	result := NewFilterer().Run(items, filters)
	if len(result) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(result))
	}
	if result[0].Title != "Copilot in Teams meetings" {
		t.Errorf("Expected Teams meeting item to survive, got '%s'", result[0].Title)
	}
}

func TestFilterer_ApplyFiltersReason(t *testing.T) {
	f := NewFilterer()

	filtered, reason := f.applyFilters(Item{Status: "Launched"}, []Filter{{Field: "status", Excludes: []string{"launch"}}})
	if !filtered {
		t.Error("Expected item to be filtered")
	}
	if reason != "Excluded by status filter: contains 'launch'" {
		t.Errorf("Unexpected reason: %s", reason)
	}

	filtered, reason = f.applyFilters(Item{Status: "Preview"}, []Filter{{Field: "status", Excludes: []string{"launch"}}})
	if filtered || reason != "" {
		t.Errorf("Expected item to pass, got filtered=%t reason='%s'", filtered, reason)
	}
}

func TestFilterer_RunMonth(t *testing.T) {
	items := []Item{
		{Title: "no ga"},
		{Title: "named month", GA: "September CY2025"},
		{Title: "iso month", GA: "2025-09-15"},
		{Title: "other month", GA: "October CY2025"},
		{Title: "other year", GA: "September CY2024"},
	}

	result := NewFilterer().RunMonth(items, "September 2025")
	if len(result) != 3 {
		t.Fatalf("Expected 3 items, got %d: %v", len(result), result)
	}
	for _, it := range result {
		if it.Title == "other month" || it.Title == "other year" {
			t.Errorf("Expected '%s' to be filtered", it.Title)
		}
	}

	if got := NewFilterer().RunMonth(items, "whenever"); len(got) != len(items) {
		t.Errorf("Expected unparseable month to keep all items, got %d", len(got))
	}
}

func TestPipeline_SameRoadmapIDAcrossSources(t *testing.T) {
	raws := []source.RawRecord{
		{"title": "From message center", "roadmap_id": "5001", "source": source.OriginMessageCenter},
		{"title": "From roadmap", "roadmap_id": "5001", "source": source.OriginRoadmap},
	}

	items := DedupeAndOrder(NewNormalizer().Run(raws, ""))
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Source != source.OriginMessageCenter {
		t.Errorf("Expected first-seen source to win, got '%s'", items[0].Source)
	}
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/lysyi3m/techdeck/app/item"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewConnection(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if version != 1 || dirty {
		t.Fatalf("Expected clean version 1, got %d (dirty=%t)", version, dirty)
	}
	return db
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected no error on second run, got %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected clean version 1, got %d (dirty=%t)", version, dirty)
	}
}

func TestBuildRepository_RecordAndRead(t *testing.T) {
	repo := NewBuildRepository(openTestDB(t))

	items := []item.Item{
		{Title: "Town hall", RoadmapID: "1001", Products: []string{"Microsoft Teams"}, Status: "Rolling out", Source: "rm"},
		{Title: "No product", URL: "https://example.com/x"},
	}

	id, err := repo.RecordBuild("September 2025", "/tmp/deck.pptx", items)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	build, err := repo.GetBuild(id)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if build == nil {
		t.Fatal("Expected build, got nil")
	}
	if build.Month != "September 2025" || build.OutputPath != "/tmp/deck.pptx" || build.ItemCount != 2 {
		t.Errorf("Unexpected build: %+v", build)
	}
	if build.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	stored, err := repo.GetBuildItems(id)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(stored))
	}
	if stored[0].Product != "Microsoft Teams" || stored[0].RoadmapID != "1001" || stored[0].Source != "rm" {
		t.Errorf("Unexpected first item: %+v", stored[0])
	}
	if stored[1].Position != 1 || stored[1].Product != item.DefaultGroup {
		t.Errorf("Unexpected second item: %+v", stored[1])
	}
}

func TestBuildRepository_CountsAndMissing(t *testing.T) {
	repo := NewBuildRepository(openTestDB(t))

	count, err := repo.GetBuildCount()
	if err != nil || count != 0 {
		t.Errorf("Expected 0 builds, got %d (%v)", count, err)
	}

	build, err := repo.GetBuild(42)
	if err != nil || build != nil {
		t.Errorf("Expected nil build for missing id, got %v (%v)", build, err)
	}

	for _, month := range []string{"August 2025", "September 2025"} {
		if _, err := repo.RecordBuild(month, "deck.pptx", nil); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	count, _ = repo.GetBuildCount()
	if count != 2 {
		t.Errorf("Expected 2 builds, got %d", count)
	}

	recent, err := repo.GetRecentBuilds(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(recent) != 1 || recent[0].Month != "September 2025" {
		t.Errorf("Expected latest build first, got %v", recent)
	}
}

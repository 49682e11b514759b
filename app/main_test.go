package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lysyi3m/techdeck/app/database"
)

const roadmapInput = `<table>
<tr><th>Feature ID</th><th>Title</th><th>Product</th></tr>
<tr><td>1001</td><td>Town hall in Teams</td><td>Microsoft Teams</td></tr>
</table>`

func TestRun_Help(t *testing.T) {
	if code := run([]string{"--help"}); code != 0 {
		t.Errorf("Expected exit code 0 for help, got %d", code)
	}
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := map[string][]string{
		"missing flags": {"-o", filepath.Join(dir, "deck.pptx")},
		"no inputs":     {"-i", filepath.Join(dir, "missing.html"), "-o", filepath.Join(dir, "deck.pptx")},
		"bad archive":   {"-i", filepath.Join(dir, "missing.html"), "-o", filepath.Join(dir, "deck.pptx"), "--archive-db", dir},
	}

	for name, args := range tests {
		if code := run(args); code != 1 {
			t.Errorf("%s: expected exit code 1, got %d", name, code)
		}
	}
}

func TestRun_BuildsAndArchives(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "roadmap.html")
	os.WriteFile(input, []byte(roadmapInput), 0644)
	output := filepath.Join(dir, "deck.pptx")
	archive := filepath.Join(dir, "archive.db")

	code := run([]string{"-i", input, "-o", output, "--month", "September 2025", "--archive-db", archive})
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("Expected deck at %s, got %v", output, err)
	}

	db, err := database.NewConnection(archive)
	if err != nil {
		t.Fatalf("Failed to reopen archive: %v", err)
	}
	defer db.Close()

	count, err := database.NewBuildRepository(db).GetBuildCount()
	if err != nil || count != 1 {
		t.Errorf("Expected 1 archived build, got %d (%v)", count, err)
	}
}

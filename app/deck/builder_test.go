package deck

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/techdeck/app/item"
	"github.com/lysyi3m/techdeck/app/pptx"
	"github.com/lysyi3m/techdeck/app/source"
)

const roadmapFixture = `<html><body>
<table>
<tr><th>Feature ID</th><th>Title</th><th>Description</th><th>Product</th><th>Status</th></tr>
<tr><td>1001</td><td>Town hall in Teams</td><td>Host large events</td><td>Microsoft Teams</td><td>Rolling out</td></tr>
<tr><td>1002</td><td>Outlook calendar sharing</td><td>Share calendars</td><td>Outlook</td><td>Launched</td></tr>
</table>
</body></html>`

type fakeArchive struct {
	month string
	path  string
	items []item.Item
	err   error
}

func (a *fakeArchive) RecordBuild(month, outputPath string, items []item.Item) (int64, error) {
	a.month, a.path, a.items = month, outputPath, items
	return 1, a.err
}

func newTestBuilder(archive Archive) *Builder {
	return NewBuilder(source.NewDispatcher(), item.NewNormalizer(), item.NewFilterer(), archive)
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}
	return p
}

func readDeck(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected deck at %s, got error: %v", path, err)
	}
	return slideParts(t, data)
}

func TestBuilder_FullDeck(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "roadmap.html", roadmapFixture)
	output := filepath.Join(dir, "deck.pptx")
	archive := &fakeArchive{}

	written, err := newTestBuilder(archive).Run(Options{
		Inputs: []string{input},
		Output: output,
		Month:  "September 2025",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if written != output {
		t.Errorf("Expected %s, got %s", output, written)
	}

	slides := readDeck(t, output)
	// cover, agenda, 2 x (separator + item), conclusion, thank-you
	if len(slides) != 8 {
		t.Fatalf("Expected 8 slides, got %d", len(slides))
	}
	if !strings.Contains(slides["ppt/slides/slide3.xml"], "Microsoft Teams updates") {
		t.Error("Expected Teams separator as slide 3")
	}
	if !strings.Contains(slides["ppt/slides/slide4.xml"], "Town hall in Teams") {
		t.Error("Expected Teams item as slide 4")
	}
	if !strings.Contains(slides["ppt/slides/slide5.xml"], "Outlook updates") {
		t.Error("Expected Outlook separator as slide 5")
	}
	if !strings.Contains(slides["ppt/slides/slide7.xml"], "Final Thoughts") {
		t.Error("Expected conclusion as slide 7")
	}

	if archive.path != output || len(archive.items) != 2 || archive.month != "September 2025" {
		t.Errorf("Expected build archived, got path=%s items=%d month=%s", archive.path, len(archive.items), archive.month)
	}
}

func TestBuilder_EmptyDeckPlaceholder(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "roadmap.html", "<html><body><p>nothing here</p></body></html>")
	output := filepath.Join(dir, "deck.pptx")

	if _, err := newTestBuilder(nil).Run(Options{Inputs: []string{input}, Output: output}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	slides := readDeck(t, output)
	if len(slides) != 5 {
		t.Fatalf("Expected 5 slides, got %d", len(slides))
	}
	if !strings.Contains(slides["ppt/slides/slide3.xml"], NoUpdatesTitle) {
		t.Error("Expected placeholder separator as slide 3")
	}
}

func TestBuilder_NoInputs(t *testing.T) {
	dir := t.TempDir()

	_, err := newTestBuilder(nil).Run(Options{
		Inputs: []string{filepath.Join(dir, "missing.html"), dir},
		Output: filepath.Join(dir, "deck.pptx"),
	})
	if !errors.Is(err, ErrNoInputs) {
		t.Errorf("Expected ErrNoInputs, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deck.pptx")); err == nil {
		t.Error("Expected no deck to be written")
	}
}

func TestBuilder_FiltersAndDebugDump(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "roadmap.html", roadmapFixture)
	dump := filepath.Join(dir, "items.json")
	output := filepath.Join(dir, "deck.pptx")

	_, err := newTestBuilder(nil).Run(Options{
		Inputs:    []string{input},
		Output:    output,
		Filters:   []item.Filter{{Field: "products", Excludes: []string{"outlook"}}},
		DebugDump: dump,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if n := len(readDeck(t, output)); n != 6 {
		t.Errorf("Expected 6 slides, got %d", n)
	}

	data, err := os.ReadFile(dump)
	if err != nil {
		t.Fatalf("Expected debug dump, got error: %v", err)
	}
	var items []item.Item
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("Expected JSON dump, got error: %v", err)
	}
	if len(items) != 1 || items[0].RoadmapID != "1001" {
		t.Errorf("Expected the Teams item only, got %v", items)
	}
}

func TestBuilder_UnusableTemplate(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "roadmap.html", roadmapFixture)
	template := writeInput(t, dir, "template.pptx", "not a zip")
	output := filepath.Join(dir, "deck.pptx")

	if _, err := newTestBuilder(nil).Run(Options{Inputs: []string{input}, Output: output, Template: template}); err != nil {
		t.Fatalf("Expected blank deck fallback, got %v", err)
	}
	if n := len(readDeck(t, output)); n != 8 {
		t.Errorf("Expected 8 slides, got %d", n)
	}
}

func TestBuilder_TemplateSlidesKept(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "roadmap.html", roadmapFixture)
	template := filepath.Join(dir, "template.pptx")
	output := filepath.Join(dir, "deck.pptx")

	base := pptx.New()
	base.AddSlide()
	if err := base.Save(template); err != nil {
		t.Fatalf("Failed to save template: %v", err)
	}

	if _, err := newTestBuilder(nil).Run(Options{Inputs: []string{input}, Output: output, Template: template}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n := len(readDeck(t, output)); n != 9 {
		t.Errorf("Expected template slide plus 8, got %d", n)
	}
}

func TestBuilder_LockedOutputFallsBack(t *testing.T) {
	defer stubSave(t)()

	dir := t.TempDir()
	requested := filepath.Join(dir, "deck.pptx")

	p := pptx.New()
	Emit(p, &Context{}, nil)
	save := func(path string) error {
		if path == requested {
			return &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
		}
		return p.Save(path)
	}

	written, err := SaveWithRetry(save, requested)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if written == requested {
		t.Error("Expected a fallback path")
	}
	if written != filepath.Join(dir, "deck-20250901-103000.pptx") {
		t.Errorf("Unexpected fallback path %s", written)
	}
	if n := len(readDeck(t, written)); n != 5 {
		t.Errorf("Expected 5 slides at fallback path, got %d", n)
	}
	if _, err := os.Stat(requested); err == nil {
		t.Error("Expected nothing at the requested path")
	}
}

// stubSave removes the retry delay and pins the clock.
func stubSave(t *testing.T) func() {
	t.Helper()
	delay, clock := saveDelay, now
	saveDelay = 0
	now = func() time.Time { return time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC) }
	return func() {
		saveDelay, now = delay, clock
	}
}

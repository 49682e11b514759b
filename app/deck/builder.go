package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lysyi3m/techdeck/app/item"
	"github.com/lysyi3m/techdeck/app/pptx"
	"github.com/lysyi3m/techdeck/app/source"
)

var ErrNoInputs = errors.New("no input files found")

// Archive records finished builds.
type Archive interface {
	RecordBuild(month, outputPath string, items []item.Item) (int64, error)
}

// Options describes one deck build.
type Options struct {
	Inputs      []string
	Output      string
	Month       string
	Template    string
	Filters     []item.Filter
	MonthFilter bool
	DebugDump   string
	Context     Context
}

type Builder struct {
	dispatcher *source.Dispatcher
	normalizer *item.Normalizer
	filterer   *item.Filterer
	archive    Archive
}

// NewBuilder wires the build pipeline. archive may be nil.
func NewBuilder(dispatcher *source.Dispatcher, normalizer *item.Normalizer, filterer *item.Filterer, archive Archive) *Builder {
	return &Builder{
		dispatcher: dispatcher,
		normalizer: normalizer,
		filterer:   filterer,
		archive:    archive,
	}
}

// Run builds the deck and returns the path actually written.
func (b *Builder) Run(opts Options) (string, error) {
	inputs := ResolveInputs(opts.Inputs)
	if len(inputs) == 0 {
		return "", ErrNoInputs
	}

	items := b.collect(inputs, opts)
	groups := item.GroupByProduct(items)

	if opts.DebugDump != "" {
		if err := dumpItems(opts.DebugDump, items); err != nil {
			slog.Warn("Failed to write debug dump", "path", opts.DebugDump, "error", err)
		}
	}

	c := opts.Context
	c.Month = opts.Month

	p := openPresentation(opts.Template)
	Emit(p, &c, groups)

	written, err := SaveWithRetry(p.Save, opts.Output)
	if err != nil {
		return "", fmt.Errorf("failed to save deck: %w", err)
	}

	slog.Info("Deck saved",
		"path", written,
		"items", len(items),
		"groups", len(groups),
		"slides", p.SlideCount())

	if b.archive != nil {
		buildID, err := b.archive.RecordBuild(opts.Month, written, items)
		if err != nil {
			slog.Error("Failed to archive build", "path", written, "error", err)
		} else {
			slog.Debug("Build archived", "build_id", buildID, "items", len(items))
		}
	}

	return written, nil
}

// collect parses every input in order and returns the filtered,
// deduplicated item list.
func (b *Builder) collect(inputs []string, opts Options) []item.Item {
	var raws []source.RawRecord
	for _, path := range inputs {
		records := b.dispatcher.Run(path, opts.Month)
		slog.Debug("Input parsed", "path", path, "format", source.DetectFormat(path), "records", len(records))
		raws = append(raws, records...)
	}

	items := b.normalizer.Run(raws, opts.Month)
	items = b.filterer.Run(items, opts.Filters)
	if opts.MonthFilter {
		items = b.filterer.RunMonth(items, opts.Month)
	}
	items = item.DedupeAndOrder(items)

	slog.Debug("Items normalized", "records", len(raws), "items", len(items))
	return items
}

// Emit appends the full slide sequence for the grouped items.
func Emit(p *pptx.Presentation, c *Context, groups []item.Group) {
	AddCoverSlide(p, c)
	AddAgendaSlide(p, c)

	if len(groups) == 0 {
		AddSeparatorSlide(p, c, NoUpdatesTitle)
	}
	for _, g := range groups {
		AddSeparatorSlide(p, c, c.SeparatorTitleFor(g.Product))
		for _, it := range g.Items {
			AddItemSlide(p, c, it)
		}
	}

	AddConclusionSlide(p, c)
	AddThankYouSlide(p, c)
}

// ResolveInputs keeps the paths that name existing regular files.
func ResolveInputs(paths []string) []string {
	var resolved []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			slog.Warn("Input file not found, skipping", "path", path)
			continue
		}
		resolved = append(resolved, path)
	}
	return resolved
}

func openPresentation(template string) *pptx.Presentation {
	if template == "" {
		return pptx.New()
	}
	p, err := pptx.Open(template)
	if err != nil {
		slog.Warn("Template unusable, starting from a blank deck", "template", template, "error", err)
		return pptx.New()
	}
	return p
}

func dumpItems(path string, items []item.Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write items: %w", err)
	}
	return nil
}

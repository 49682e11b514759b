package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/lysyi3m/techdeck/app/cfg"
	"github.com/lysyi3m/techdeck/app/database"
	"github.com/lysyi3m/techdeck/app/deck"
	"github.com/lysyi3m/techdeck/app/item"
	"github.com/lysyi3m/techdeck/app/source"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run builds the deck and returns the process exit code.
func run(args []string) int {
	appCfg, err := cfg.Load(args)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if appCfg == nil {
		return 0
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("Building deck", "version", appCfg.Version, "month", appCfg.Month, "inputs", len(appCfg.Inputs))

	var archive deck.Archive
	if appCfg.ArchiveDB != "" {
		db, err := database.NewConnection(appCfg.ArchiveDB)
		if err != nil {
			slog.Error("Failed to open build archive", "path", appCfg.ArchiveDB, "error", err)
			return 1
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return 1
		}
		slog.Debug("Build archive ready", "path", appCfg.ArchiveDB, "version", version, "dirty", dirty)

		archive = database.NewBuildRepository(db)
	}

	builder := deck.NewBuilder(source.NewDispatcher(), item.NewNormalizer(), item.NewFilterer(), archive)

	written, err := builder.Run(appCfg.DeckOptions())
	if err != nil {
		if errors.Is(err, deck.ErrNoInputs) {
			slog.Error("No input files found", "inputs", appCfg.Inputs)
		} else {
			slog.Error("Deck build failed", "error", err)
		}
		return 1
	}

	slog.Info("Done", "output", written)
	return 0
}

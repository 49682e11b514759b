package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/techdeck/app/api"
	"github.com/lysyi3m/techdeck/app/cfg"
	"github.com/lysyi3m/techdeck/app/database"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run serves until a signal or a server error and returns the exit code.
func run(args []string) int {
	serverCfg, err := cfg.LoadServer(args)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if serverCfg == nil {
		return 0
	}

	level := slog.LevelInfo
	if serverCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting techdeck render service", "version", serverCfg.Version)

	var buildRepo database.BuildRepositoryInterface
	if serverCfg.ArchiveDB != "" {
		db, err := database.NewConnection(serverCfg.ArchiveDB)
		if err != nil {
			slog.Error("Failed to open build archive", "path", serverCfg.ArchiveDB, "error", err)
			return 1
		}
		defer db.Close()

		if _, _, err := database.RunMigrations(db); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return 1
		}

		buildRepo = database.NewBuildRepository(db)
		slog.Info("Build archive attached", "path", serverCfg.ArchiveDB)
	}

	apiHandler := api.NewHandler(serverCfg.SlideContext(), buildRepo, serverCfg.Version)
	server := api.NewServer(apiHandler, serverCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + serverCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", serverCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
		exitCode = 1
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
	return exitCode
}

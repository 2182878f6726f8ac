// Command wellbeingd serves the well-being and desire evaluators over HTTP.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/wellbeing/internal/api"
	"github.com/talgya/wellbeing/internal/config"
	"github.com/talgya/wellbeing/internal/experience"
	"github.com/talgya/wellbeing/internal/needs"
	"github.com/talgya/wellbeing/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	slog.Info("wellbeing evaluator",
		"limit", experience.Limit,
		"basic_needs", len(needs.Basic),
	)

	// ── Journal ───────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("failed to create data dir", "dir", dir, "error", err)
			os.Exit(1)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("verdict journal opened", "path", cfg.DBPath)

	if cfg.AdminKey == "" {
		slog.Warn("WELLBEING_ADMIN_KEY not set, admin endpoints will be disabled")
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		DB:          db,
		Port:        cfg.Port,
		AdminKey:    cfg.AdminKey,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	}
	apiServer.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	if err := apiServer.Close(); err != nil {
		slog.Error("HTTP server close failed", "error", err)
	}
}

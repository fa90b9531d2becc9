package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsight/internal/api"
	"github.com/dgallion1/docsight/internal/config"
	"github.com/dgallion1/docsight/internal/pathstore"
	"github.com/dgallion1/docsight/internal/pipeline"
	"github.com/dgallion1/docsight/internal/schema"
	"github.com/dgallion1/docsight/internal/sectionindex"
	"github.com/dgallion1/docsight/internal/stats"
	"github.com/dgallion1/docsight/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Error("open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	validator, err := schema.New()
	if err != nil {
		log.Error("compile schemas", "error", err)
		os.Exit(1)
	}

	deps := pipeline.Deps{
		Store:   st,
		Indexes: sectionindex.NewRegistry(),
		Stats:   stats.NewTracker(cfg.StatsWindow),
	}
	var ps *pathstore.Client
	if cfg.MirrorEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		deps.Mirror = pathstore.NewMirror(ps, cfg.PathstorePrefix)
		log.Info("pathstore mirror enabled", "url", cfg.PathstoreURL, "prefix", cfg.PathstorePrefix)
	}
	if err := deps.Validate(); err != nil {
		log.Error("invalid dependencies", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, deps, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, deps, validator, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		st.Close()
		if ps != nil {
			ps.Close()
		}
	}()

	log.Info("starting docsight", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}

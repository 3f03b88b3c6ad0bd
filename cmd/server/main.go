package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/docprep/internal/api"
	"github.com/dgallion1/docprep/internal/chunker"
	"github.com/dgallion1/docprep/internal/config"
	"github.com/dgallion1/docprep/internal/convert"
	"github.com/dgallion1/docprep/internal/extract"
	"github.com/dgallion1/docprep/internal/pipeline"
	"github.com/dgallion1/docprep/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage.
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.Init(); err != nil {
		log.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	stats := extract.NewStats()
	conv := convert.NewDispatcher(cfg.PDFFallbackPdftotext)
	excluded := make(map[string]bool, len(cfg.ExcludedExtensions))
	for _, e := range cfg.ExcludedExtensions {
		excluded[strings.ToLower(e)] = true
	}
	ex := extract.NewExtractor(conv, extract.FilterConfig{
		MaxFileSize:        cfg.MaxFileSize,
		ExcludedExtensions: excluded,
	}, stats, log)
	proc := pipeline.NewProcessor(ex, st, chunker.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		MinChunk:     cfg.MinChunk,
	}, log)

	orch := pipeline.NewOrchestrator(cfg, proc, st, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docprep", "port", cfg.Port, "db", cfg.DBPath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

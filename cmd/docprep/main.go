package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dgallion1/docprep/internal/chunker"
	"github.com/dgallion1/docprep/internal/config"
	"github.com/dgallion1/docprep/internal/convert"
	"github.com/dgallion1/docprep/internal/extract"
	"github.com/dgallion1/docprep/internal/pipeline"
	"github.com/dgallion1/docprep/internal/store"
)

func main() {
	var (
		dir          = flag.String("dir", "", "directory to scan")
		dbPath       = flag.String("db", "", "sqlite database path (overrides config)")
		configPath   = flag.String("config", "", "path to YAML config file")
		setupDB      = flag.Bool("setup-db", false, "create the database schema and exit")
		clearDB      = flag.Bool("clear-db", false, "delete all stored data before scanning")
		chunkSize    = flag.Int("chunk-size", 0, "chunk size in characters (overrides config)")
		chunkOverlap = flag.Int("chunk-overlap", -1, "chunk overlap in characters (overrides config)")
		minChunk     = flag.Int("min-chunk", 0, "minimum chunk size in characters (overrides config)")
		verbose      = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(log, "failed to load configuration", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *chunkSize > 0 {
		cfg.ChunkSize = *chunkSize
	}
	if *chunkOverlap >= 0 {
		cfg.ChunkOverlap = *chunkOverlap
	}
	if *minChunk > 0 {
		cfg.MinChunk = *minChunk
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		fatal(log, "failed to open database", err)
	}
	defer st.Close()
	if err := st.Init(); err != nil {
		fatal(log, "failed to initialize schema", err)
	}

	if *setupDB {
		fmt.Printf("database ready at %s\n", cfg.DBPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *clearDB {
		if err := st.Clear(ctx); err != nil {
			fatal(log, "failed to clear database", err)
		}
		fmt.Println("database cleared")
	}

	root := *dir
	if root == "" {
		root = cfg.TargetDirectory
	}
	if root == "" {
		if *clearDB {
			return
		}
		fmt.Fprintln(os.Stderr, "no directory to scan: pass -dir or set target_directory in config")
		os.Exit(2)
	}

	excluded := make(map[string]bool, len(cfg.ExcludedExtensions))
	for _, e := range cfg.ExcludedExtensions {
		excluded[strings.ToLower(e)] = true
	}

	stats := extract.NewStats()
	conv := convert.NewDispatcher(cfg.PDFFallbackPdftotext)
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

	job := orch.Run(ctx, root)
	snap := job.Snapshot()

	fmt.Printf("scan %s: %s\n", snap.ID, snap.Status)
	fmt.Printf("  files seen:     %d\n", snap.Progress.FilesSeen)
	fmt.Printf("  stored:         %d\n", snap.Progress.FilesStored)
	fmt.Printf("  skipped:        %d\n", snap.Progress.FilesSkipped)
	fmt.Printf("  failed:         %d\n", snap.Progress.FilesFailed)
	fmt.Printf("  chunks created: %d\n", snap.Progress.ChunksCreated)

	es := stats.Snapshot()
	fmt.Printf("extraction: %d processed, %.0f%% success, avg length %.0f\n",
		es.FilesProcessed, es.SuccessRate*100, es.AverageContentLength)

	for _, e := range snap.Progress.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}
	if snap.Status == pipeline.StatusFailed {
		os.Exit(1)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}

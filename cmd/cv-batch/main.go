package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/espartina/cv-ingest/internal/common"
	"github.com/espartina/cv-ingest/internal/convert"
	"github.com/espartina/cv-ingest/internal/hashcache"
	"github.com/espartina/cv-ingest/internal/ingest"
	"github.com/espartina/cv-ingest/internal/llm/openai"
	"github.com/espartina/cv-ingest/internal/pipeline"
	"github.com/espartina/cv-ingest/internal/workbook"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir      = flag.String("dir", "", "directory to scan for CV PDFs (or CV_ROOT_DIR)")
		out      = flag.String("out", "", "output XLSX workbook path (defaults inside the scan directory)")
		hashes   = flag.String("hashes", "", "hash log path (defaults to .hashes.txt next to the workbook)")
		force    = flag.Bool("force", false, "reprocess files whose content hash is already recorded")
		initBook = flag.Bool("init", false, "create a fresh workbook with the five sheets, then exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	root := *dir
	if root == "" {
		root = cfg.Ingest.RootDir
	}
	if root == "" {
		printError("Error: --dir or CV_ROOT_DIR is required\n")
		os.Exit(1)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		printError("Error: resolve scan directory: %v\n", err)
		os.Exit(1)
	}
	if st, err := os.Stat(absRoot); err != nil || !st.IsDir() {
		printError("Error: scan directory does not exist: %s\n", absRoot)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = filepath.Join(absRoot, cfg.Ingest.OutputFile)
	}
	store := workbook.NewStore(outPath, logger)

	if *initBook {
		if err := store.Init(); err != nil {
			logger.Error("failed to initialize workbook", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Workbook created: %s\n", outPath)
		return
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	hashPath := *hashes
	if hashPath == "" {
		hashPath = filepath.Join(filepath.Dir(outPath), cfg.Ingest.HashesFile)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	logger.Info("llm client initialized", "model", cfg.LLM.Model)

	processor := pipeline.NewProcessor(
		logger,
		ingest.NewScanner(logger),
		hashcache.New(hashPath),
		convert.NewPDFConverter(logger),
		client,
		store,
	)
	processor.Force = *force
	processor.ZoneDepth = cfg.Ingest.ZoneDepth

	stats, err := processor.Run(context.Background(), absRoot)
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Files processed: %d\n", stats.Processed)
	fmt.Printf("- Files skipped (already processed): %d\n", stats.Skipped)
	fmt.Printf("- Failures: %d\n", stats.Failed)
	fmt.Printf("- Output: %s\n", outPath)
}

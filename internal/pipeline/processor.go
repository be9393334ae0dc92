// Package pipeline coordinates the sequential per-file flow: hash gate,
// document conversion, LLM extraction, row flattening, workbook append.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/espartina/cv-ingest/internal/candidate"
	"github.com/espartina/cv-ingest/internal/convert"
	"github.com/espartina/cv-ingest/internal/hashcache"
	"github.com/espartina/cv-ingest/internal/ingest"
	"github.com/espartina/cv-ingest/internal/llm"
	"github.com/espartina/cv-ingest/internal/workbook"
)

// RunStats summarizes a batch run.
type RunStats struct {
	Scanned   uint32
	Matched   uint32
	Skipped   uint32
	Processed uint32
	Failed    uint32
}

// Processor runs the batch. Strictly sequential and single-threaded; the
// only shared mutable state is the workbook file and the hash log.
type Processor struct {
	logger    *slog.Logger
	scanner   *ingest.Scanner
	cache     *hashcache.Cache
	converter convert.Converter
	extractor llm.CurriculumExtractor
	store     *workbook.Store

	// Force reprocesses files whose hash is already recorded.
	Force bool
	// ZoneDepth selects which path element under the scan root becomes
	// the zona/area column (1 = immediate subfolder).
	ZoneDepth int
}

func NewProcessor(
	logger *slog.Logger,
	scanner *ingest.Scanner,
	cache *hashcache.Cache,
	converter convert.Converter,
	extractor llm.CurriculumExtractor,
	store *workbook.Store,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		scanner:   scanner,
		cache:     cache,
		converter: converter,
		extractor: extractor,
		store:     store,
		ZoneDepth: 1,
	}
}

// Run scans root, processes every new file, appends the accumulated rows to
// the workbook, and applies formatting. Conversion and extraction failures
// are logged per file and counted; hash cache and workbook failures abort
// the run.
func (p *Processor) Run(ctx context.Context, root string) (RunStats, error) {
	runID := uuid.New().String()
	start := time.Now()
	log := p.logger.With("run_id", runID)

	files, dirStats, err := p.scanner.ScanDirectory(root, true)
	if err != nil {
		return RunStats{}, fmt.Errorf("scan directory: %w", err)
	}

	stats := RunStats{
		Scanned: dirStats.Scanned,
		Matched: dirStats.Matched,
		Failed:  dirStats.Failed,
	}

	// Seed the id allocator from the workbook before touching any file so a
	// missing or malformed workbook halts the run up front.
	maxID, err := p.store.MaxCandidateID()
	if err != nil {
		return stats, err
	}
	nextID := maxID + 1
	log.Info("pipeline.run.start",
		"root", root,
		"files", len(files),
		"next_candidate_id", nextID,
		"force", p.Force,
	)

	var rows candidate.RowSet
	for _, fr := range files {
		if fr.Err != "" {
			continue // already counted by the scanner
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		outcome, err := p.processFile(ctx, log, root, fr.SourcePath, nextID, &rows)
		if err != nil {
			// Hash cache I/O: the idempotency guard is broken, abort.
			return stats, err
		}
		switch outcome {
		case outcomeSkipped:
			stats.Skipped++
		case outcomeFailed:
			stats.Failed++
		default:
			stats.Processed++
			nextID++
		}
	}

	if !rows.Empty() {
		if err := p.store.Append(rows); err != nil {
			return stats, fmt.Errorf("append rows: %w", err)
		}
	}
	if err := p.store.Format(); err != nil {
		return stats, fmt.Errorf("format workbook: %w", err)
	}

	log.Info("pipeline.run.done",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"skipped", stats.Skipped,
		"processed", stats.Processed,
		"failed", stats.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return stats, nil
}

type fileOutcome int

const (
	outcomeProcessed fileOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// processFile runs the hash gate and the two external calls for one file,
// appending its flattened rows to out on success. The hash is recorded at
// the gate, before conversion, so failed files are not retried on the next
// run (processed-once semantics).
//
// Conversion and extraction failures are the recoverable points: they are
// logged and reported as outcomeFailed. Hash cache I/O errors are returned
// and abort the run.
func (p *Processor) processFile(ctx context.Context, log *slog.Logger, root, path string, id int, out *candidate.RowSet) (fileOutcome, error) {
	hash, err := hashcache.HashFile(path)
	if err != nil {
		return 0, fmt.Errorf("hash %s: %w", path, err)
	}

	seen, err := p.cache.Seen(hash)
	if err != nil {
		return 0, fmt.Errorf("hash log: %w", err)
	}
	if seen && !p.Force {
		log.Debug("pipeline.file.skipped", "path", path, "hash", hash)
		return outcomeSkipped, nil
	}
	if !seen {
		if err := p.cache.Record(hash); err != nil {
			return 0, fmt.Errorf("hash log: %w", err)
		}
	}

	text, err := p.converter.Convert(ctx, path)
	if err != nil {
		log.Error("pipeline.convert.failed", "path", path, "error", err)
		return outcomeFailed, nil
	}

	cv, _, err := p.extractor.ExtractCurriculum(ctx, llm.ExtractRequest{
		DocumentText: text,
		FilePath:     path,
		FilenameHint: filepath.Base(path),
		FolderHint:   filepath.Dir(path),
	})
	if err != nil {
		log.Error("pipeline.extract.failed", "path", path, "error", err)
		return outcomeFailed, nil
	}

	zone := candidate.ZoneFromPath(root, path, p.ZoneDepth)
	out.Merge(candidate.Flatten(id, cv, path, zone))

	log.Info("pipeline.file.ok",
		"path", path,
		"candidate_id", id,
		"nombre", cv.NombreCompleto,
		"zona", zone,
		"experiencia", len(cv.Experiencia),
		"educacion", len(cv.Educacion),
		"habilidades", len(cv.Habilidades),
		"certificaciones", len(cv.Certificaciones),
	)
	return outcomeProcessed, nil
}

// Package ingest discovers candidate CV files on the local filesystem.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/espartina/cv-ingest/constants"
)

// FileResult is the per-file discovery outcome.
type FileResult struct {
	SourcePath string
	Err        string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

// Scanner walks a directory tree and filters by extension.
type Scanner struct {
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> default set
	logger      *slog.Logger
}

func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// ScanDirectory walks root, skips hidden entries if requested, and collects
// every file whose extension is allowed. Entry-level walk errors are recorded
// per file and do not stop the walk.
func (s *Scanner) ScanDirectory(root string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(s.AllowedExts, ext) {
			return nil
		}
		stats.Matched++

		abs, err := filepath.Abs(path)
		if err != nil {
			results = append(results, FileResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		results = append(results, FileResult{SourcePath: abs})
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	s.logger.Info("ingest.scan.done",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

// AllowedExt checks if a file extension is in the allowed set (defaults to pdf).
func AllowedExt(exts map[string]struct{}, ext string) bool {
	if exts == nil {
		exts = constants.AllowedExtensions
	}
	_, ok := exts[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

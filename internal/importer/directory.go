package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/source"
)

type FileResult struct {
	Path    string
	Summary *Summary
	Skipped int
	Err     string
}

type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// ImportFile reads one bank export and runs it through the pipeline.
func (p *Pipeline) ImportFile(ctx context.Context, path string, opts source.WorkbookOptions) (*Summary, int, error) {
	batch, err := source.ReadFile(path, opts)
	if err != nil {
		p.logger.Error("import.source.failed", "path", path, "error", err)
		return nil, 0, err
	}
	summary, err := p.Run(ctx, filepath.Base(path), batch.Payments)
	if err != nil {
		return nil, batch.Skipped, err
	}
	return summary, batch.Skipped, nil
}

// ImportDirectory walks root and imports every bank export found, skipping
// hidden entries if requested. A failed file does not stop the walk, but a
// failed precondition does, since it would fail every file alike.
func (p *Pipeline) ImportDirectory(ctx context.Context, root string, opts source.WorkbookOptions, skipHidden bool) ([]FileResult, DirStats, *Summary, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, nil, common.NewAppError("NO_SOURCE", "root path is required", common.ErrInvalidInput)
	}

	var (
		results []FileResult
		stats   DirStats
		total   = &Summary{Source: root, DryRun: p.opts.DryRun}
		fatal   error
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && source.IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !source.Allowed(path) {
			return nil
		}
		stats.Matched++

		summary, skipped, err := p.ImportFile(ctx, path, opts)
		if err != nil {
			results = append(results, FileResult{Path: path, Skipped: skipped, Err: err.Error()})
			stats.Failed++
			if isPrecondition(err) {
				fatal = err
				return filepath.SkipAll
			}
			return nil
		}
		results = append(results, FileResult{Path: path, Summary: summary, Skipped: skipped})
		stats.Succeeded++
		total.Merge(summary)
		return nil
	})
	if err != nil {
		return results, stats, total, fmt.Errorf("walk: %w", err)
	}
	if fatal != nil {
		return results, stats, total, fatal
	}
	return results, stats, total, nil
}

func isPrecondition(err error) bool {
	return errors.Is(err, common.ErrNoVehicle) || common.IsCode(err, "NO_DATABASE")
}

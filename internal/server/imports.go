package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/joseph-ayodele/tebligat-tracker/internal/async"
	"github.com/joseph-ayodele/tebligat-tracker/internal/common"
	"github.com/joseph-ayodele/tebligat-tracker/internal/importer"
	"github.com/joseph-ayodele/tebligat-tracker/internal/source"
)

// ImportRunner serializes imports through one pipeline. Watched files and
// RPC uploads share it, so two runs never interleave.
type ImportRunner struct {
	mu       sync.Mutex
	pipeline *importer.Pipeline
	opts     source.WorkbookOptions
	logger   *slog.Logger
}

func NewImportRunner(p *importer.Pipeline, opts source.WorkbookOptions, logger *slog.Logger) *ImportRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportRunner{pipeline: p, opts: opts, logger: logger}
}

// ImportFile imports one bank export from disk.
func (r *ImportRunner) ImportFile(ctx context.Context, path string) (*importer.Summary, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipeline.ImportFile(ctx, path, r.opts)
}

// ImportText imports tab-separated statement lines sent inline.
func (r *ImportRunner) ImportText(ctx context.Context, name, text string) (*importer.Summary, int, error) {
	payments, skipped, err := source.ReadText(strings.NewReader(text), name)
	if err != nil {
		return nil, 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	summary, err := r.pipeline.Run(ctx, name, payments)
	return summary, skipped, err
}

// HandleTask adapts ImportFile to the async queue.
func (r *ImportRunner) HandleTask(ctx context.Context, task async.Task) error {
	summary, skipped, err := r.ImportFile(ctx, task.Path)
	if err != nil {
		return err
	}
	common.LoggerFrom(ctx, r.logger).Info("watch.import.done",
		"path", task.Path,
		"success", summary.Success,
		"duplicate", summary.Duplicate,
		"errors", summary.Errors(),
		"skipped_rows", skipped,
	)
	return nil
}

package jobs

import (
	"context"

	"github.com/substratal/mediagrab/internal/models"
)

// ProgressFunc reports task completion percentage. Calls never block.
type ProgressFunc func(percent float64)

// Result carries what a finished task hands back to the worker.
type Result struct {
	OutputPath  string
	SizeBytes   int64
	ContentType string
	Title       string
}

// Runner executes the external task for one claimed job. Run is invoked at
// most once per job inside a worker slot; implementations must stop promptly
// when ctx is cancelled and report monotonically increasing progress.
type Runner interface {
	Run(ctx context.Context, job *models.Job, progress ProgressFunc) (*Result, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, job *models.Job, progress ProgressFunc) (*Result, error)

func (f RunnerFunc) Run(ctx context.Context, job *models.Job, progress ProgressFunc) (*Result, error) {
	return f(ctx, job, progress)
}

// FileRemover is the slice of the file lifecycle manager the orchestrator
// needs: unlinking a deleted record's output file.
type FileRemover interface {
	Remove(path string) error
}

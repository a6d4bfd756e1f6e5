package sweeper

import (
	"context"
	"time"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/pkg/logger"
)

// JobSource is the slice of an orchestrator the sweeper needs: enumerate
// records and delete expired ones (which also removes their files).
type JobSource interface {
	Kind() models.JobKind
	List(ctx context.Context) []models.Job
	Delete(ctx context.Context, id string) error
}

// Sweeper periodically expires completed jobs past their TTL and removes
// orphaned files no record owns, keeping the temp root from filling up.
type Sweeper struct {
	cfg     *config.Config
	files   *storage.Manager
	sources []JobSource
	logger  logger.Logger
}

func NewSweeper(cfg *config.Config, files *storage.Manager, log logger.Logger, sources ...JobSource) *Sweeper {
	return &Sweeper{
		cfg:     cfg,
		files:   files,
		sources: sources,
		logger:  log,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.cfg.Cleanup.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	s.logger.Infof("cleanup sweeper running every %s (completed ttl %s, orphan ttl %s)",
		interval, s.cfg.Cleanup.CompletedTTL, s.cfg.Cleanup.OrphanTTL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cleanup sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()
	owned := make(map[string]struct{})

	for _, src := range s.sources {
		for _, job := range src.List(ctx) {
			expired := job.Status == models.JobStatusCompleted &&
				job.CompletedAt != nil &&
				now.Sub(*job.CompletedAt) > s.cfg.Cleanup.CompletedTTL
			if expired {
				if err := src.Delete(ctx, job.ID); err != nil {
					s.logger.Warnf("sweep - delete %s job %s: %v", src.Kind(), job.ID, err)
				} else {
					s.logger.Infof("swept expired %s job %s", src.Kind(), job.ID)
					continue
				}
			}
			if job.OutputPath != "" {
				owned[job.OutputPath] = struct{}{}
			}
		}
	}

	for _, path := range s.files.Orphans(owned, s.cfg.Cleanup.OrphanTTL) {
		if err := s.files.Remove(path); err != nil {
			s.logger.Warnf("sweep - remove orphan %s: %v", path, err)
			continue
		}
		s.logger.Infof("removed orphaned file %s", path)
	}
}

package usecase

import (
	"context"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/downloads"
	"github.com/substratal/mediagrab/internal/engine"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/pkg/logger"
	"github.com/substratal/mediagrab/pkg/utils"
)

type downloadUC struct {
	cfg    *config.Config
	jobs   *jobs.Orchestrator
	files  *storage.Manager
	logger logger.Logger
}

func NewDownloadUseCase(cfg *config.Config, orch *jobs.Orchestrator, files *storage.Manager, log logger.Logger) downloads.UseCase {
	return &downloadUC{
		cfg:    cfg,
		jobs:   orch,
		files:  files,
		logger: log,
	}
}

func (d *downloadUC) Start(ctx context.Context, req *models.CreateDownloadRequest) (*models.Job, error) {
	if err := utils.ValidateStruct(ctx, req); err != nil {
		d.logger.Errorf("Start - ValidateStruct error: %v", err)
		return nil, err
	}
	params, err := engine.ResolvePreset(req.Quality, req.Mode, req.FormatID)
	if err != nil {
		d.logger.Errorf("Start - ResolvePreset error: %v", err)
		return nil, err
	}

	job := &models.Job{
		Input:    models.JobInput{URL: req.URL},
		Download: params,
	}
	created, err := d.jobs.Submit(ctx, job)
	if err != nil {
		d.logger.Errorf("Start - Submit error: %v", err)
		return nil, err
	}
	d.logger.Infof("Queued download %s for %s", created.ID, req.URL)
	return created, nil
}

func (d *downloadUC) Get(ctx context.Context, downloadID string) (*models.Job, error) {
	job, err := d.jobs.Get(ctx, downloadID)
	if err != nil {
		d.logger.Errorf("Get - %s: %v", downloadID, err)
		return nil, err
	}
	return job, nil
}

func (d *downloadUC) List(ctx context.Context) []models.Job {
	return d.jobs.List(ctx)
}

func (d *downloadUC) Cancel(ctx context.Context, downloadID string) error {
	if err := d.jobs.Cancel(ctx, downloadID); err != nil {
		d.logger.Errorf("Cancel - %s: %v", downloadID, err)
		return err
	}
	return nil
}

func (d *downloadUC) Delete(ctx context.Context, downloadID string) error {
	if err := d.jobs.Delete(ctx, downloadID); err != nil {
		d.logger.Errorf("Delete - %s: %v", downloadID, err)
		return err
	}
	return nil
}

func (d *downloadUC) Output(ctx context.Context, downloadID string) (*models.Job, error) {
	job, err := d.jobs.Output(ctx, downloadID)
	if err != nil {
		d.logger.Errorf("Output - %s: %v", downloadID, err)
		return nil, err
	}
	return job, nil
}

func (d *downloadUC) ResolveSource(ctx context.Context, downloadID string) (string, error) {
	job, err := d.jobs.Output(ctx, downloadID)
	if err != nil {
		return "", err
	}
	return job.OutputPath, nil
}

package usecase

import (
	"context"
	"strings"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/conversions"
	"github.com/substratal/mediagrab/internal/engine"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/pkg/logger"
	"github.com/substratal/mediagrab/pkg/utils"
)

type conversionUC struct {
	cfg    *config.Config
	jobs   *jobs.Orchestrator
	logger logger.Logger
}

func NewConversionUseCase(cfg *config.Config, orch *jobs.Orchestrator, log logger.Logger) conversions.UseCase {
	return &conversionUC{
		cfg:    cfg,
		jobs:   orch,
		logger: log,
	}
}

// Start queues a conversion against a source download. The source is only
// resolved when the job executes, so its record merely has to exist by then;
// the file itself is checked by the engine.
func (u *conversionUC) Start(ctx context.Context, req *models.CreateConversionRequest) (*models.Job, error) {
	if err := utils.ValidateStruct(ctx, req); err != nil {
		u.logger.Errorf("Start - ValidateStruct error: %v", err)
		return nil, err
	}
	params := req.Params()
	params.TargetFormat = strings.ToLower(params.TargetFormat)

	job := &models.Job{
		Input:   models.JobInput{SourceID: req.DownloadID},
		Convert: params,
	}
	created, err := u.jobs.Submit(ctx, job)
	if err != nil {
		u.logger.Errorf("Start - Submit error: %v", err)
		return nil, err
	}
	u.logger.Infof("Queued conversion %s: %s from download %s", created.ID, params.TargetFormat, req.DownloadID)
	return created, nil
}

func (u *conversionUC) Get(ctx context.Context, conversionID string) (*models.Job, error) {
	job, err := u.jobs.Get(ctx, conversionID)
	if err != nil {
		u.logger.Errorf("Get - %s: %v", conversionID, err)
		return nil, err
	}
	return job, nil
}

func (u *conversionUC) List(ctx context.Context) []models.Job {
	return u.jobs.List(ctx)
}

func (u *conversionUC) Cancel(ctx context.Context, conversionID string) error {
	if err := u.jobs.Cancel(ctx, conversionID); err != nil {
		u.logger.Errorf("Cancel - %s: %v", conversionID, err)
		return err
	}
	return nil
}

func (u *conversionUC) Delete(ctx context.Context, conversionID string) error {
	if err := u.jobs.Delete(ctx, conversionID); err != nil {
		u.logger.Errorf("Delete - %s: %v", conversionID, err)
		return err
	}
	return nil
}

func (u *conversionUC) Output(ctx context.Context, conversionID string) (*models.Job, error) {
	job, err := u.jobs.Output(ctx, conversionID)
	if err != nil {
		u.logger.Errorf("Output - %s: %v", conversionID, err)
		return nil, err
	}
	return job, nil
}

func (u *conversionUC) Formats() *models.AvailableFormats {
	return engine.AvailableFormats()
}

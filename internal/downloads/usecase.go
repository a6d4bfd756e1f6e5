package downloads

import (
	"context"

	"github.com/substratal/mediagrab/internal/models"
)

type UseCase interface {
	Start(ctx context.Context, req *models.CreateDownloadRequest) (*models.Job, error)
	Get(ctx context.Context, downloadID string) (*models.Job, error)
	List(ctx context.Context) []models.Job
	Cancel(ctx context.Context, downloadID string) error
	Delete(ctx context.Context, downloadID string) error
	Output(ctx context.Context, downloadID string) (*models.Job, error)

	// ResolveSource maps a completed download to its file so conversions
	// can chain off it.
	ResolveSource(ctx context.Context, downloadID string) (string, error)
}

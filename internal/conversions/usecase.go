package conversions

import (
	"context"

	"github.com/substratal/mediagrab/internal/models"
)

type UseCase interface {
	Start(ctx context.Context, req *models.CreateConversionRequest) (*models.Job, error)
	Get(ctx context.Context, conversionID string) (*models.Job, error)
	List(ctx context.Context) []models.Job
	Cancel(ctx context.Context, conversionID string) error
	Delete(ctx context.Context, conversionID string) error
	Output(ctx context.Context, conversionID string) (*models.Job, error)
	Formats() *models.AvailableFormats
}

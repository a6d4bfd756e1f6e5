package system

import (
	"context"

	"github.com/substratal/mediagrab/internal/models"
)

// Prober fetches remote video metadata for the info endpoint.
type Prober interface {
	Probe(ctx context.Context, url string) (*models.VideoInfo, error)
}

type UseCase interface {
	Status(ctx context.Context) (*models.SystemStatus, error)
	Info(ctx context.Context, url string) (*models.VideoInfo, error)
	Upload(ctx context.Context, input *models.UploadInput) (*models.Job, error)
	MimeTypes() map[string]string
}

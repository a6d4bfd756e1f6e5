package engine

import (
	"github.com/pkg/errors"

	"github.com/substratal/mediagrab/internal/models"
)

// ResolvePreset expands a quality preset and stream mode into the concrete
// parameters a download worker executes. Resolution happens once, before the
// job record is created; workers never interpret preset names.
func ResolvePreset(quality models.QualityPreset, mode models.StreamMode, formatID int) (*models.DownloadParams, error) {
	if quality == "" {
		quality = models.QualityBest
	}
	if mode == "" {
		mode = models.StreamVideoAudio
	}

	params := &models.DownloadParams{
		FormatID: formatID,
		Quality:  quality,
		Mode:     mode,
	}

	switch quality {
	case models.QualityBest:
		// no height cap
	case models.Quality1080p:
		params.MaxHeight = 1080
	case models.Quality720p:
		params.MaxHeight = 720
	case models.Quality480p:
		params.MaxHeight = 480
	case models.Quality360p:
		params.MaxHeight = 360
	case models.QualityAudio:
		params.Mode = models.StreamAudioOnly
	default:
		return nil, errors.Errorf("unknown quality preset: %s", quality)
	}

	if params.Mode == models.StreamAudioOnly {
		params.AudioOnly = true
		params.MaxHeight = 0
	}
	return params, nil
}

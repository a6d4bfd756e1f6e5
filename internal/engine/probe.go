package engine

import (
	"context"
	"strings"

	youtube "github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"

	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/pkg/logger"
)

// Probe fetches video metadata without downloading anything. Formats are
// grouped the way clients pick them: combined, video-only and audio-only.
type Probe struct {
	logger logger.Logger
}

func NewProbe(log logger.Logger) *Probe {
	return &Probe{logger: log}
}

func (p *Probe) Probe(ctx context.Context, url string) (*models.VideoInfo, error) {
	client := youtube.Client{}
	video, err := client.GetVideoContext(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "failed to fetch video")
	}

	info := &models.VideoInfo{
		ID:              video.ID,
		Title:           video.Title,
		Author:          video.Author,
		DurationSeconds: int64(video.Duration.Seconds()),
	}
	if n := len(video.Thumbnails); n > 0 {
		info.Thumbnail = video.Thumbnails[n-1].URL
	}

	for i := range video.Formats {
		f := &video.Formats[i]
		entry := models.FormatInfo{
			Itag:         f.ItagNo,
			Quality:      f.QualityLabel,
			MimeType:     baseMime(f.MimeType),
			Bitrate:      f.Bitrate,
			FPS:          f.FPS,
			AudioQuality: f.AudioQuality,
			SizeBytes:    f.ContentLength,
		}
		switch {
		case strings.HasPrefix(f.MimeType, "audio/"):
			info.Formats.AudioOnly = append(info.Formats.AudioOnly, entry)
		case f.AudioChannels > 0:
			info.Formats.VideoAudio = append(info.Formats.VideoAudio, entry)
		default:
			info.Formats.VideoOnly = append(info.Formats.VideoOnly, entry)
		}
	}
	return info, nil
}

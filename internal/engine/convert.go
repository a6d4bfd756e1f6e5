package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/pkg/logger"
)

// SourceResolver maps a source download id to the path of its completed
// output. Resolution is deferred to execution time so a conversion can be
// queued behind the download that feeds it.
type SourceResolver interface {
	ResolveSource(ctx context.Context, downloadID string) (string, error)
}

// ConversionEngine executes conversion jobs by shelling out to ffmpeg for
// video and audio targets and to ImageMagick for image targets.
type ConversionEngine struct {
	cfg      *config.Config
	files    *storage.Manager
	resolver SourceResolver
	logger   logger.Logger
}

func NewConversionEngine(cfg *config.Config, files *storage.Manager, resolver SourceResolver, log logger.Logger) *ConversionEngine {
	return &ConversionEngine{cfg: cfg, files: files, resolver: resolver, logger: log}
}

func (e *ConversionEngine) Run(ctx context.Context, job *models.Job, progress jobs.ProgressFunc) (*jobs.Result, error) {
	params := job.Convert
	if params == nil || params.TargetFormat == "" {
		return nil, errors.New("conversion parameters are required")
	}
	if job.Input.SourceID == "" {
		return nil, errors.New("conversion requires a source download id")
	}

	src, err := e.resolver.ResolveSource(ctx, job.Input.SourceID)
	if err != nil {
		return nil, errors.Wrapf(err, "source download %s", job.Input.SourceID)
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, errors.New("source file not found")
	}
	maxBytes := e.cfg.Conversions.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, errors.Errorf("file too large for conversion (max: %d MB)", e.cfg.Conversions.MaxFileSizeMB)
	}
	progress(5)

	sourceExt := normalizeExt(filepath.Ext(src))
	target := normalizeExt(params.TargetFormat)
	if !CanConvert(sourceExt, target) {
		return nil, errors.Errorf("conversion from %s to %s is not supported", sourceExt, target)
	}

	out := e.files.OutputPath(job.ID, target)
	argv := e.conversionCommand(src, out, target, params)
	e.logger.Infof("conversion %s: %s", job.ID, strings.Join(argv, " "))
	progress(15)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(out)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Errorf("conversion failed: %v, stderr: %s", err, stderr.String())
	}
	progress(95)

	st, err := os.Stat(out)
	if err != nil || st.Size() == 0 {
		_ = os.Remove(out)
		return nil, errors.New("converted file is empty")
	}
	return &jobs.Result{
		OutputPath:  out,
		SizeBytes:   st.Size(),
		ContentType: MIMEType(target),
	}, nil
}

// conversionCommand dispatches on the target's media class: images go
// through ImageMagick, audio targets through ffmpeg with the video track
// stripped, everything else through ffmpeg's video pipeline.
func (e *ConversionEngine) conversionCommand(src, out, target string, params *models.ConvertParams) []string {
	switch MediaTypeOf(target) {
	case MediaImage:
		return buildImageArgs(e.cfg.Conversions.MagickPath, src, out, params, e.cfg.Conversions.DefaultImageQuality)
	case MediaAudio:
		return buildAudioArgs(e.cfg.Conversions.FFmpegPath, src, out, params)
	default:
		return buildVideoArgs(e.cfg.Conversions.FFmpegPath, src, out, params)
	}
}

// buildImageArgs assembles an ImageMagick convert invocation: resize per
// mode, then quality, then a white flatten when the target has no alpha
// channel.
func buildImageArgs(magickPath, src, out string, params *models.ConvertParams, defaultQuality int) []string {
	args := []string{magickPath, src}

	if params.Width > 0 || params.Height > 0 {
		dims := dimension(params.Width) + "x" + dimension(params.Height)
		switch params.ResizeMode {
		case models.ResizeFill:
			args = append(args, "-resize", dims+"^", "-gravity", "center", "-extent", dims)
		case models.ResizeStretch:
			args = append(args, "-resize", dims+"!")
		default:
			args = append(args, "-resize", dims)
		}
	}

	quality := params.Quality
	if quality <= 0 {
		quality = defaultQuality
	}
	if quality > 0 {
		args = append(args, "-quality", strconv.Itoa(quality))
	}

	if !SupportsTransparency(normalizeExt(filepath.Ext(out))) {
		args = append(args, "-background", "white", "-flatten")
	}
	return append(args, out)
}

// buildVideoArgs assembles an ffmpeg invocation for video targets. Flags
// appear in a fixed order: codecs, bitrates, frame rate, scale, trim.
func buildVideoArgs(ffmpegPath, src, out string, params *models.ConvertParams) []string {
	args := []string{ffmpegPath, "-i", src}
	if params.VideoCodec != "" {
		args = append(args, "-c:v", params.VideoCodec)
	}
	if params.AudioCodec != "" {
		args = append(args, "-c:a", params.AudioCodec)
	}
	if params.VideoBitrate != "" {
		args = append(args, "-b:v", params.VideoBitrate)
	}
	if params.AudioBitrate != "" {
		args = append(args, "-b:a", params.AudioBitrate)
	}
	if params.FrameRate > 0 {
		args = append(args, "-r", strconv.Itoa(params.FrameRate))
	}
	if params.Width > 0 && params.Height > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", params.Width, params.Height))
	}
	args = appendTrim(args, params)
	return append(args, "-y", out)
}

// buildAudioArgs assembles an ffmpeg invocation for audio targets. Video
// sources get -vn so only the audio track survives; the encoder falls back
// to the target format's default codec.
func buildAudioArgs(ffmpegPath, src, out string, params *models.ConvertParams) []string {
	args := []string{ffmpegPath, "-i", src}
	if MediaTypeOf(normalizeExt(filepath.Ext(src))) == MediaVideo {
		args = append(args, "-vn")
	}
	codec := params.AudioCodec
	if codec == "" {
		codec = DefaultAudioCodec(normalizeExt(filepath.Ext(out)))
	}
	if codec != "" {
		args = append(args, "-c:a", codec)
	}
	if params.AudioBitrate != "" {
		args = append(args, "-b:a", params.AudioBitrate)
	}
	args = appendTrim(args, params)
	return append(args, "-y", out)
}

func appendTrim(args []string, params *models.ConvertParams) []string {
	if params.StartTime > 0 {
		args = append(args, "-ss", formatSeconds(params.StartTime))
	}
	if params.EndTime > 0 {
		args = append(args, "-to", formatSeconds(params.EndTime))
	}
	return args
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// dimension renders one axis of a geometry argument; zero means unset and
// ImageMagick keeps the aspect ratio for the missing axis.
func dimension(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	youtube "github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/pkg/logger"
)

const copyBufferSize = 32 * 1024

// DownloadEngine executes download jobs: it resolves the source video,
// selects streams per the job's parameters, saves them under the temp root
// and muxes separate video and audio tracks into a single file.
type DownloadEngine struct {
	cfg    *config.Config
	files  *storage.Manager
	logger logger.Logger
}

func NewDownloadEngine(cfg *config.Config, files *storage.Manager, log logger.Logger) *DownloadEngine {
	return &DownloadEngine{cfg: cfg, files: files, logger: log}
}

func (e *DownloadEngine) Run(ctx context.Context, job *models.Job, progress jobs.ProgressFunc) (*jobs.Result, error) {
	params := job.Download
	if params == nil {
		params = &models.DownloadParams{Mode: models.StreamVideoAudio}
	}

	client := youtube.Client{}
	video, err := client.GetVideoContext(ctx, job.Input.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "failed to fetch video")
	}
	e.logger.Infof("download %s: %q (%s)", job.ID, video.Title, video.ID)

	switch {
	case params.FormatID > 0:
		format := findItag(video.Formats, params.FormatID)
		if format == nil {
			return nil, errors.Errorf("format %d is not available for this video", params.FormatID)
		}
		return e.saveSingle(ctx, &client, video, format, job, progress)
	case params.AudioOnly || params.Mode == models.StreamAudioOnly:
		format := pickAudioFormat(video.Formats)
		if format == nil {
			return nil, errors.New("no audio stream is available for this video")
		}
		return e.saveSingle(ctx, &client, video, format, job, progress)
	case params.Mode == models.StreamVideoOnly:
		format := pickVideoFormat(video.Formats, params.MaxHeight)
		if format == nil {
			return nil, errors.New("no video stream is available for this video")
		}
		return e.saveSingle(ctx, &client, video, format, job, progress)
	default:
		return e.saveMuxed(ctx, &client, video, job, params, progress)
	}
}

// saveSingle downloads one stream straight into the job's output path.
func (e *DownloadEngine) saveSingle(ctx context.Context, client *youtube.Client, video *youtube.Video, format *youtube.Format, job *models.Job, progress jobs.ProgressFunc) (*jobs.Result, error) {
	if err := e.checkSize(format.ContentLength); err != nil {
		return nil, err
	}

	out := e.files.OutputPath(job.ID, extensionFor(format.MimeType))
	total := format.ContentLength
	var done int64
	track := func(n int) {
		cur := atomic.AddInt64(&done, int64(n))
		if total > 0 {
			pct := float64(cur) / float64(total) * 100
			if pct > 99 {
				pct = 99
			}
			progress(pct)
		}
	}

	if err := e.saveStream(ctx, client, video, format, out, track); err != nil {
		_ = os.Remove(out)
		return nil, err
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		_ = os.Remove(out)
		return nil, errors.New("downloaded file is empty")
	}
	return &jobs.Result{
		OutputPath:  out,
		SizeBytes:   info.Size(),
		ContentType: baseMime(format.MimeType),
		Title:       video.Title,
	}, nil
}

// saveMuxed downloads the best video and audio streams in parallel and muxes
// them into a single mp4 without re-encoding.
func (e *DownloadEngine) saveMuxed(ctx context.Context, client *youtube.Client, video *youtube.Video, job *models.Job, params *models.DownloadParams, progress jobs.ProgressFunc) (*jobs.Result, error) {
	videoFormat := pickVideoFormat(video.Formats, params.MaxHeight)
	if videoFormat == nil {
		return nil, errors.New("no video stream is available for this video")
	}
	audioFormat := pickAudioFormat(video.Formats)
	if audioFormat == nil {
		// progressive streams carry their own audio track
		return e.saveSingle(ctx, client, video, videoFormat, job, progress)
	}
	if err := e.checkSize(videoFormat.ContentLength + audioFormat.ContentLength); err != nil {
		return nil, err
	}

	videoTemp := filepath.Join(e.files.Root(), "v_"+job.ID+".tmp")
	audioTemp := filepath.Join(e.files.Root(), "a_"+job.ID+".tmp")
	defer os.Remove(videoTemp)
	defer os.Remove(audioTemp)

	total := videoFormat.ContentLength + audioFormat.ContentLength
	var done int64
	track := func(n int) {
		cur := atomic.AddInt64(&done, int64(n))
		if total > 0 {
			pct := float64(cur) / float64(total) * 100
			if pct > 99 {
				pct = 99
			}
			progress(pct)
		}
	}

	var wg sync.WaitGroup
	var videoErr, audioErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		videoErr = e.saveStream(ctx, client, video, videoFormat, videoTemp, track)
	}()
	go func() {
		defer wg.Done()
		audioErr = e.saveStream(ctx, client, video, audioFormat, audioTemp, track)
	}()
	wg.Wait()
	if videoErr != nil {
		return nil, videoErr
	}
	if audioErr != nil {
		return nil, audioErr
	}

	progress(99.5)
	out := e.files.OutputPath(job.ID, "mp4")
	if err := e.mux(ctx, videoTemp, audioTemp, out); err != nil {
		_ = os.Remove(out)
		return nil, err
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		_ = os.Remove(out)
		return nil, errors.New("muxed file is empty")
	}
	return &jobs.Result{
		OutputPath:  out,
		SizeBytes:   info.Size(),
		ContentType: "video/mp4",
		Title:       video.Title,
	}, nil
}

// saveStream copies one stream to disk, checking the context between chunks
// so cancellation interrupts the transfer promptly.
func (e *DownloadEngine) saveStream(ctx context.Context, client *youtube.Client, video *youtube.Video, format *youtube.Format, path string, track func(int)) error {
	stream, _, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "failed to open stream")
	}
	defer stream.Close()

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := stream.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return errors.Wrap(werr, "failed to write file")
			}
			track(n)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "failed to read stream")
		}
	}
}

func (e *DownloadEngine) mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	cmd := exec.CommandContext(ctx, e.cfg.Conversions.FFmpegPath,
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", videoPath, "-i", audioPath,
		"-c", "copy", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Errorf("ffmpeg mux failed: %v, stderr: %s", err, stderr.String())
	}
	return nil
}

func (e *DownloadEngine) checkSize(contentLength int64) error {
	maxBytes := e.cfg.Downloads.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && contentLength > maxBytes {
		return errors.Errorf("file too large (max: %d MB)", e.cfg.Downloads.MaxFileSizeMB)
	}
	return nil
}

func findItag(formats youtube.FormatList, itag int) *youtube.Format {
	for i := range formats {
		if formats[i].ItagNo == itag {
			return &formats[i]
		}
	}
	return nil
}

// pickVideoFormat returns the stream closest to maxHeight without exceeding
// it, or the highest resolution available when maxHeight is zero or nothing
// fits under the cap.
func pickVideoFormat(formats youtube.FormatList, maxHeight int) *youtube.Format {
	var best *youtube.Format
	bestHeight := -1
	var capped *youtube.Format
	cappedHeight := -1

	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "video/") {
			continue
		}
		h := labelHeight(f.QualityLabel)
		if h > bestHeight {
			best = f
			bestHeight = h
		}
		if maxHeight > 0 && h <= maxHeight && h > cappedHeight {
			capped = f
			cappedHeight = h
		}
	}
	if maxHeight > 0 && capped != nil {
		return capped
	}
	return best
}

// pickAudioFormat prefers mp4 audio (mp4a decodes everywhere) and breaks
// ties on bitrate.
func pickAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil {
			best = f
			continue
		}
		bestMP4 := strings.Contains(best.MimeType, "mp4")
		candidateMP4 := strings.Contains(f.MimeType, "mp4")
		if candidateMP4 != bestMP4 {
			if candidateMP4 {
				best = f
			}
			continue
		}
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

// labelHeight parses the leading digits of a quality label ("1080p60" is
// 1080). Unknown labels sort below every real resolution.
func labelHeight(label string) int {
	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	h, err := strconv.Atoi(label[:end])
	if err != nil {
		return 0
	}
	return h
}

// extensionFor derives the on-disk extension from a stream's mime type.
func extensionFor(mimeType string) string {
	base := baseMime(mimeType)
	switch {
	case strings.HasPrefix(base, "audio/"):
		if strings.Contains(base, "webm") {
			return "webm"
		}
		return "m4a"
	case strings.Contains(base, "webm"):
		return "webm"
	case strings.Contains(base, "3gpp"):
		return "3gp"
	default:
		return "mp4"
	}
}

func baseMime(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		return strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

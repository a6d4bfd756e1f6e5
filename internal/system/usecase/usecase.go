package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/engine"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/internal/system"
	"github.com/substratal/mediagrab/pkg/logger"
	"github.com/substratal/mediagrab/pkg/utils"
)

type systemUC struct {
	cfg         *config.Config
	downloads   *jobs.Orchestrator
	conversions *jobs.Orchestrator
	files       *storage.Manager
	probe       system.Prober
	startedAt   time.Time
	logger      logger.Logger
}

func NewSystemUseCase(
	cfg *config.Config,
	downloadsOrch *jobs.Orchestrator,
	conversionsOrch *jobs.Orchestrator,
	files *storage.Manager,
	probe system.Prober,
	log logger.Logger,
) system.UseCase {
	return &systemUC{
		cfg:         cfg,
		downloads:   downloadsOrch,
		conversions: conversionsOrch,
		files:       files,
		probe:       probe,
		startedAt:   time.Now(),
		logger:      log,
	}
}

func (u *systemUC) Status(ctx context.Context) (*models.SystemStatus, error) {
	status := &models.SystemStatus{
		Status:        "ok",
		Version:       u.cfg.Server.AppVersion,
		UptimeSeconds: int64(time.Since(u.startedAt).Seconds()),
		Downloads:     u.downloads.Stats(ctx),
		Conversions:   u.conversions.Stats(ctx),
		TempDirBytes:  u.files.Usage(),
	}
	if pct, err := u.files.VolumeUsage(); err != nil {
		u.logger.Warnf("Status - VolumeUsage error: %v", err)
	} else {
		status.DiskUsagePercent = pct
	}
	status.CPUUsagePercent = utils.CPUUsagePercent()
	return status, nil
}

func (u *systemUC) Info(ctx context.Context, url string) (*models.VideoInfo, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	info, err := u.probe.Probe(ctx, url)
	if err != nil {
		u.logger.Errorf("Info - Probe error: %v", err)
		return nil, fmt.Errorf("failed to fetch video info: %v", err)
	}
	return info, nil
}

// Upload stores a client file under the temp root and registers it as an
// already-completed download so it can be listed, served and converted like
// any fetched output.
func (u *systemUC) Upload(ctx context.Context, input *models.UploadInput) (*models.Job, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("Upload - ValidateStruct error: %v", err)
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	mime := engine.MIMEType(ext)
	if mime == "" {
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
	maxBytes := u.cfg.Downloads.MaxFileSizeMB * 1024 * 1024
	if maxBytes > 0 && input.Size > maxBytes {
		return nil, fmt.Errorf("file too large (max: %d MB)", u.cfg.Downloads.MaxFileSizeMB)
	}

	id := uuid.New().String()
	path := u.files.OutputPath(id, ext)
	written, err := u.saveUpload(path, input.Content, maxBytes)
	if err != nil {
		u.logger.Errorf("Upload - save error: %v", err)
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = input.FileName
	}
	job := &models.Job{
		ID:          id,
		Input:       models.JobInput{Upload: input.FileName},
		Title:       title,
		ContentType: mime,
		SizeBytes:   written,
		OutputPath:  path,
	}
	registered, err := u.downloads.Register(job)
	if err != nil {
		_ = u.files.Remove(path)
		u.logger.Errorf("Upload - Register error: %v", err)
		return nil, fmt.Errorf("failed to register upload: %v", err)
	}
	u.logger.Infof("Uploaded %s as %s (%d bytes)", input.FileName, registered.ID, written)
	return registered, nil
}

// saveUpload copies the payload to disk, trusting the byte count it sees
// rather than the client-declared size.
func (u *systemUC) saveUpload(path string, content io.Reader, maxBytes int64) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to store upload: %v", err)
	}

	var written int64
	if maxBytes > 0 {
		written, err = io.Copy(out, io.LimitReader(content, maxBytes+1))
	} else {
		written, err = io.Copy(out, content)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = u.files.Remove(path)
		return 0, fmt.Errorf("failed to store upload: %v", err)
	}
	if maxBytes > 0 && written > maxBytes {
		_ = u.files.Remove(path)
		return 0, fmt.Errorf("file too large (max: %d MB)", u.cfg.Downloads.MaxFileSizeMB)
	}
	return written, nil
}

func (u *systemUC) MimeTypes() map[string]string {
	return engine.MimeTypes()
}

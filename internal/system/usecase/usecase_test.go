package usecase

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
	"github.com/substratal/mediagrab/internal/system"
	"github.com/substratal/mediagrab/pkg/logger"
)

func testLogger() logger.Logger {
	l := logger.NewApiLogger(&config.Config{Logger: config.Logger{
		Level:             "error",
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
	}})
	l.InitLogger()
	return l
}

type stubProber struct {
	info *models.VideoInfo
	err  error
}

func (p *stubProber) Probe(ctx context.Context, url string) (*models.VideoInfo, error) {
	return p.info, p.err
}

type idleRunner struct{}

func (idleRunner) Run(ctx context.Context, job *models.Job, progress jobs.ProgressFunc) (*jobs.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixture struct {
	uc        system.UseCase
	downloads *jobs.Orchestrator
	files     *storage.Manager
	cfg       *config.Config
}

func newFixture(t *testing.T, probe system.Prober) *fixture {
	t.Helper()
	log := testLogger()
	files := storage.NewManager(t.TempDir(), log)
	cfg := &config.Config{
		Server:    config.ServerConfig{AppVersion: "9.9.9"},
		Downloads: config.QueueConfig{MaxFileSizeMB: 1},
	}
	dorch := jobs.NewOrchestrator(jobs.Config{Kind: models.KindDownload, MaxConcurrent: 1, QueueSize: 10}, idleRunner{}, files, log)
	corch := jobs.NewOrchestrator(jobs.Config{Kind: models.KindConversion, MaxConcurrent: 1, QueueSize: 10}, idleRunner{}, files, log)
	uc := NewSystemUseCase(cfg, dorch, corch, files, probe, log)
	return &fixture{uc: uc, downloads: dorch, files: files, cfg: cfg}
}

func TestUploadRegistersCompletedDownload(t *testing.T) {
	f := newFixture(t, &stubProber{})
	ctx := context.Background()

	job, err := f.uc.Upload(ctx, &models.UploadInput{
		FileName: "Cat Pic.PNG",
		Size:     4,
		Content:  bytes.NewReader([]byte("PNG!")),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if job.Kind != models.KindDownload || job.Status != models.JobStatusCompleted {
		t.Fatalf("upload must register as completed download: %+v", job)
	}
	if job.Progress != 100 || job.CompletedAt == nil {
		t.Fatalf("registered upload not finalized: %+v", job)
	}
	if job.ContentType != "image/png" || job.SizeBytes != 4 {
		t.Fatalf("unexpected content metadata: %+v", job)
	}
	if job.Title != "Cat Pic.PNG" {
		t.Fatalf("title must fall back to the file name, got %q", job.Title)
	}
	if job.Input.Upload != "Cat Pic.PNG" {
		t.Fatalf("input must record the original name, got %q", job.Input.Upload)
	}

	data, err := os.ReadFile(job.OutputPath)
	if err != nil || string(data) != "PNG!" {
		t.Fatalf("stored payload mismatch: %q err=%v", data, err)
	}
	if !strings.HasSuffix(job.OutputPath, job.ID+".png") {
		t.Fatalf("output must be named by job id and extension, got %s", job.OutputPath)
	}

	// the record is visible to the downloads listing like any other job
	if got := len(f.downloads.List(ctx)); got != 1 {
		t.Fatalf("expected 1 download record, got %d", got)
	}
}

func TestUploadKeepsExplicitTitle(t *testing.T) {
	f := newFixture(t, &stubProber{})

	job, err := f.uc.Upload(context.Background(), &models.UploadInput{
		FileName: "raw.mp4",
		Title:    "My Cat",
		Size:     3,
		Content:  bytes.NewReader([]byte("abc")),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if job.Title != "My Cat" {
		t.Fatalf("explicit title must win, got %q", job.Title)
	}
}

func TestUploadRejectsUnknownType(t *testing.T) {
	f := newFixture(t, &stubProber{})

	_, err := f.uc.Upload(context.Background(), &models.UploadInput{
		FileName: "script.exe",
		Size:     3,
		Content:  bytes.NewReader([]byte("abc")),
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}

	entries, _ := os.ReadDir(f.files.Root())
	if len(entries) != 0 {
		t.Fatalf("rejected upload must leave no files, found %d", len(entries))
	}
}

func TestUploadRejectsDeclaredOversize(t *testing.T) {
	f := newFixture(t, &stubProber{})

	_, err := f.uc.Upload(context.Background(), &models.UploadInput{
		FileName: "big.mp4",
		Size:     2 << 20,
		Content:  bytes.NewReader([]byte("abc")),
	})
	if err == nil || !strings.Contains(err.Error(), "file too large") {
		t.Fatalf("expected size rejection, got %v", err)
	}
}

func TestUploadRejectsActualOversize(t *testing.T) {
	f := newFixture(t, &stubProber{})

	// the client lies about the size; the copy itself must enforce the limit
	payload := make([]byte, 1<<20+1)
	_, err := f.uc.Upload(context.Background(), &models.UploadInput{
		FileName: "big.mp4",
		Size:     10,
		Content:  bytes.NewReader(payload),
	})
	if err == nil || !strings.Contains(err.Error(), "file too large") {
		t.Fatalf("expected size rejection, got %v", err)
	}

	entries, _ := os.ReadDir(f.files.Root())
	if len(entries) != 0 {
		t.Fatalf("partial upload must be cleaned up, found %d files", len(entries))
	}
}

func TestStatusReportsQueuesAndDisk(t *testing.T) {
	f := newFixture(t, &stubProber{})

	path := f.files.OutputPath("u1", "mp4")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := f.downloads.Register(&models.Job{
		Input:      models.JobInput{Upload: "u1.mp4"},
		OutputPath: path,
		SizeBytes:  10,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	status, err := f.uc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != "ok" || status.Version != "9.9.9" {
		t.Fatalf("unexpected identity fields: %+v", status)
	}
	if status.Downloads.Completed != 1 || status.Downloads.Total != 1 {
		t.Fatalf("download stats not reflected: %+v", status.Downloads)
	}
	if status.Conversions.Total != 0 {
		t.Fatalf("conversion stats not reflected: %+v", status.Conversions)
	}
	if status.TempDirBytes < 10 {
		t.Fatalf("expected temp usage >= 10 bytes, got %d", status.TempDirBytes)
	}
	if status.UptimeSeconds < 0 {
		t.Fatalf("negative uptime %d", status.UptimeSeconds)
	}
}

func TestInfoDelegatesToProber(t *testing.T) {
	want := &models.VideoInfo{ID: "dQw4w9WgXcQ", Title: "clip", DurationSeconds: 212}
	f := newFixture(t, &stubProber{info: want})

	got, err := f.uc.Info(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if got.Title != "clip" || got.DurationSeconds != 212 {
		t.Fatalf("prober result not passed through: %+v", got)
	}

	if _, err := f.uc.Info(context.Background(), ""); err == nil {
		t.Fatal("expected error for missing url")
	}

	failing := newFixture(t, &stubProber{err: context.DeadlineExceeded})
	_, err = failing.uc.Info(context.Background(), "https://youtu.be/x")
	if err == nil || !strings.Contains(err.Error(), "failed to fetch video info") {
		t.Fatalf("expected wrapped probe error, got %v", err)
	}
}

func TestMimeTypesTable(t *testing.T) {
	f := newFixture(t, &stubProber{})

	table := f.uc.MimeTypes()
	if table["mp4"] != "video/mp4" || table["png"] != "image/png" {
		t.Fatalf("unexpected table %v", table)
	}
}

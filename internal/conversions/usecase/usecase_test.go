package usecase

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/substratal/mediagrab/internal/config"
	"github.com/substratal/mediagrab/internal/conversions"
	"github.com/substratal/mediagrab/internal/downloads"
	dusecase "github.com/substratal/mediagrab/internal/downloads/usecase"
	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/internal/storage"
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

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

type fixture struct {
	files      *storage.Manager
	downloadUC downloads.UseCase
	convUC     conversions.UseCase
}

// newFixture wires a download orchestrator that materializes a real file and
// a conversion orchestrator whose runner resolves its source through the
// download usecase, mirroring the production chain without shelling out.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := testLogger()
	files := storage.NewManager(t.TempDir(), log)

	dlRunner := jobs.RunnerFunc(func(ctx context.Context, job *models.Job, progress jobs.ProgressFunc) (*jobs.Result, error) {
		path := files.OutputPath(job.ID, "mp4")
		if err := os.WriteFile(path, []byte("source-bytes"), 0o644); err != nil {
			return nil, err
		}
		return &jobs.Result{OutputPath: path, SizeBytes: 12, ContentType: "video/mp4", Title: "src"}, nil
	})
	dorch := jobs.NewOrchestrator(jobs.Config{
		Kind:          models.KindDownload,
		MaxConcurrent: 1,
		QueueSize:     10,
		Timeout:       time.Minute,
	}, dlRunner, files, log)
	downloadUC := dusecase.NewDownloadUseCase(&config.Config{}, dorch, files, log)

	convRunner := jobs.RunnerFunc(func(ctx context.Context, job *models.Job, progress jobs.ProgressFunc) (*jobs.Result, error) {
		src, err := downloadUC.ResolveSource(ctx, job.Input.SourceID)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		out := files.OutputPath(job.ID, job.Convert.TargetFormat)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return nil, err
		}
		return &jobs.Result{OutputPath: out, SizeBytes: int64(len(data)), ContentType: "audio/mpeg"}, nil
	})
	corch := jobs.NewOrchestrator(jobs.Config{
		Kind:          models.KindConversion,
		MaxConcurrent: 1,
		QueueSize:     10,
		Timeout:       time.Minute,
	}, convRunner, files, log)
	convUC := NewConversionUseCase(&config.Config{}, corch, log)

	dorch.Start()
	corch.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = dorch.Shutdown(ctx)
		_ = corch.Shutdown(ctx)
	})
	return &fixture{files: files, downloadUC: downloadUC, convUC: convUC}
}

func (f *fixture) completedDownload(t *testing.T) *models.Job {
	t.Helper()
	ctx := context.Background()
	job, err := f.downloadUC.Start(ctx, &models.CreateDownloadRequest{URL: "https://youtu.be/dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("start download: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		got, err := f.downloadUC.Get(ctx, job.ID)
		return err == nil && got.Status == models.JobStatusCompleted
	})
	got, err := f.downloadUC.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get download: %v", err)
	}
	return got
}

func TestChainedConversionUsesDownloadOutput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	download := f.completedDownload(t)

	conv, err := f.convUC.Start(ctx, &models.CreateConversionRequest{
		DownloadID:   download.ID,
		TargetFormat: "MP3",
	})
	if err != nil {
		t.Fatalf("start conversion: %v", err)
	}
	if conv.Kind != models.KindConversion || conv.Input.SourceID != download.ID {
		t.Fatalf("unexpected conversion job %+v", conv)
	}
	if conv.Convert.TargetFormat != "mp3" {
		t.Fatalf("target format must be lowercased, got %q", conv.Convert.TargetFormat)
	}

	waitFor(t, 2*time.Second, func() bool {
		got, err := f.convUC.Get(ctx, conv.ID)
		return err == nil && got.Status == models.JobStatusCompleted
	})

	out, err := f.convUC.Output(ctx, conv.ID)
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if !strings.HasSuffix(out.OutputPath, ".mp3") {
		t.Fatalf("expected .mp3 output, got %s", out.OutputPath)
	}
	data, err := os.ReadFile(out.OutputPath)
	if err != nil || string(data) != "source-bytes" {
		t.Fatalf("conversion must read the download output, got %q err=%v", data, err)
	}

	// deleting the source download must not touch the conversion output
	if err := f.downloadUC.Delete(ctx, download.ID); err != nil {
		t.Fatalf("delete download: %v", err)
	}
	if _, err := os.Stat(out.OutputPath); err != nil {
		t.Fatalf("conversion output must survive source deletion: %v", err)
	}
}

func TestConversionAgainstMissingDownloadFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.convUC.Start(ctx, &models.CreateConversionRequest{
		DownloadID:   "0a658d72-1f2b-4a19-9aeb-3a6c88f10fd2",
		TargetFormat: "mp3",
	})
	if err != nil {
		t.Fatalf("start conversion: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		got, err := f.convUC.Get(ctx, conv.ID)
		return err == nil && got.Status == models.JobStatusFailed
	})
	got, _ := f.convUC.Get(ctx, conv.ID)
	if !strings.Contains(got.Error, "job not found") {
		t.Fatalf("expected missing-source cause, got %q", got.Error)
	}
}

func TestStartRejectsInvalidConversionRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []*models.CreateConversionRequest{
		{TargetFormat: "mp3"},
		{DownloadID: "not-a-uuid", TargetFormat: "mp3"},
		{DownloadID: "0a658d72-1f2b-4a19-9aeb-3a6c88f10fd2"},
		{DownloadID: "0a658d72-1f2b-4a19-9aeb-3a6c88f10fd2", TargetFormat: "mp#4"},
		{DownloadID: "0a658d72-1f2b-4a19-9aeb-3a6c88f10fd2", TargetFormat: "png", ResizeMode: "zoom"},
	}
	for i, req := range cases {
		if _, err := f.convUC.Start(ctx, req); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if got := len(f.convUC.List(ctx)); got != 0 {
		t.Fatalf("rejected requests must leave no records, have %d", got)
	}
}

func TestFormatsCatalogue(t *testing.T) {
	f := newFixture(t)

	formats := f.convUC.Formats()
	if formats == nil || len(formats.Video) == 0 || len(formats.Audio) == 0 {
		t.Fatalf("expected populated catalogue, got %+v", formats)
	}
	found := false
	for _, target := range formats.Conversions["video"] {
		if target == "mp3" {
			found = true
		}
	}
	if !found {
		t.Fatal("video sources must convert to mp3")
	}
}

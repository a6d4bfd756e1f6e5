package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/substratal/mediagrab/internal/models"
	"github.com/substratal/mediagrab/pkg/logger"
)

const (
	// progressBuffer bounds the per-job progress channel; the runner side
	// drops updates instead of blocking when the consumer lags.
	progressBuffer = 64
	// reclaimGrace is how long a worker waits for a cancelled or timed-out
	// task to acknowledge before the slot is forcibly reclaimed.
	reclaimGrace = 10 * time.Second
)

// Config bounds one orchestrator instance.
type Config struct {
	Kind          models.JobKind
	MaxConcurrent int
	QueueSize     int
	Timeout       time.Duration
}

type jobCtx struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Orchestrator accepts submissions, enforces queue capacity and bounded
// concurrency, drives each job through its status state machine with a
// fixed worker pool, and answers status, listing, cancellation and deletion
// queries. One instance exists per job kind.
type Orchestrator struct {
	cfg    Config
	store  *Store
	gate   *gate
	runner Runner
	files  FileRemover
	logger logger.Logger

	notify chan struct{}

	cmu  sync.Mutex
	ctxs map[string]jobCtx

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup

	grace time.Duration
}

func NewOrchestrator(cfg Config, runner Runner, files FileRemover, log logger.Logger) *Orchestrator {
	baseCtx, stop := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:     cfg,
		store:   NewStore(),
		gate:    newGate(cfg.QueueSize),
		runner:  runner,
		files:   files,
		logger:  log,
		notify:  make(chan struct{}, 1),
		ctxs:    make(map[string]jobCtx),
		baseCtx: baseCtx,
		stop:    stop,
		grace:   reclaimGrace,
	}
}

func (o *Orchestrator) Kind() models.JobKind {
	return o.cfg.Kind
}

// Start launches the execution slots.
func (o *Orchestrator) Start() {
	o.logger.Infof("starting %s orchestrator: %d slots, queue size %d, timeout %s",
		o.cfg.Kind, o.cfg.MaxConcurrent, o.cfg.QueueSize, o.cfg.Timeout)
	for i := 0; i < o.cfg.MaxConcurrent; i++ {
		o.wg.Add(1)
		go o.worker()
	}
}

// Shutdown stops intake, cancels running tasks and waits for the workers to
// drain or ctx to expire.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.stop()
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit admits a new job or fails with ErrQueueFull before any record is
// created. On success the returned job is already queued and submission
// order is preserved for claiming.
func (o *Orchestrator) Submit(ctx context.Context, job *models.Job) (*models.Job, error) {
	if o.baseCtx.Err() != nil {
		return nil, ErrQueueFull
	}
	if err := o.gate.admit(); err != nil {
		return nil, err
	}
	job.Kind = o.cfg.Kind
	job.Status = models.JobStatusQueued
	job.Progress = 0
	job.OutputPath = ""
	job.Error = ""
	id := o.store.Create(job)
	o.ensureCtx(id)
	o.kick()
	o.logger.Infof("submitted %s job %s", o.cfg.Kind, id)
	return o.store.Get(id)
}

// Register files an already-materialized output (an upload) as a completed
// job. It never touches the gate: the job was neither queued nor active.
func (o *Orchestrator) Register(job *models.Job) (*models.Job, error) {
	if job.OutputPath == "" {
		return nil, fmt.Errorf("register: output path is required")
	}
	now := time.Now().UTC()
	job.Kind = o.cfg.Kind
	job.Status = models.JobStatusCompleted
	job.Progress = 100
	job.CompletedAt = &now
	id := o.store.Create(job)
	o.logger.Infof("registered completed %s job %s (%s)", o.cfg.Kind, id, job.OutputPath)
	return o.store.Get(id)
}

func (o *Orchestrator) Get(ctx context.Context, id string) (*models.Job, error) {
	return o.store.Get(id)
}

func (o *Orchestrator) List(ctx context.Context) []models.Job {
	return o.store.List()
}

// Cancel stops a queued or processing job. Queued jobs transition straight
// to cancelled; processing jobs are signalled and transition once the task
// acknowledges. Terminal jobs fail with ErrInvalidState.
func (o *Orchestrator) Cancel(ctx context.Context, id string) error {
	var prev models.JobStatus
	_, err := o.store.Update(id, func(j *models.Job) {
		prev = j.Status
		if j.Status == models.JobStatusQueued {
			j.Status = models.JobStatusCancelled
		}
	})
	if err != nil {
		return err
	}
	switch prev {
	case models.JobStatusQueued:
		o.gate.release()
		o.releaseCtx(id)
		o.logger.Infof("cancelled queued %s job %s", o.cfg.Kind, id)
		return nil
	case models.JobStatusProcessing:
		o.cmu.Lock()
		jc, ok := o.ctxs[id]
		o.cmu.Unlock()
		if ok {
			jc.cancel()
		}
		return nil
	default:
		return ErrInvalidState
	}
}

// Delete removes the record and its output file. Processing jobs are
// refused: the client must cancel first. Queued jobs are cancelled and then
// removed.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	var (
		prev   models.JobStatus
		output string
	)
	_, err := o.store.Update(id, func(j *models.Job) {
		prev = j.Status
		output = j.OutputPath
		if j.Status == models.JobStatusQueued {
			j.Status = models.JobStatusCancelled
		}
	})
	if err != nil {
		return err
	}
	if prev == models.JobStatusProcessing {
		return ErrInvalidState
	}
	if prev == models.JobStatusQueued {
		o.gate.release()
		o.releaseCtx(id)
	}
	o.store.Delete(id)
	if output != "" {
		if err := o.files.Remove(output); err != nil {
			o.logger.Errorf("Delete - remove output %s: %v", output, err)
		}
	}
	o.logger.Infof("deleted %s job %s", o.cfg.Kind, id)
	return nil
}

// Output returns the job when its file is ready to serve.
func (o *Orchestrator) Output(ctx context.Context, id string) (*models.Job, error) {
	job, err := o.store.Get(id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusCompleted {
		return nil, ErrNotReady
	}
	return job, nil
}

// Stats summarizes the instance for the status endpoint.
func (o *Orchestrator) Stats(ctx context.Context) models.QueueStats {
	occupancy, active := o.gate.snapshot()
	stats := models.QueueStats{
		Active:             active,
		Queued:             occupancy - active,
		UtilizationPercent: o.gate.utilization(),
	}
	if stats.Queued < 0 {
		stats.Queued = 0
	}
	for _, job := range o.store.List() {
		stats.Total++
		switch job.Status {
		case models.JobStatusCompleted:
			stats.Completed++
		case models.JobStatusFailed:
			stats.Failed++
		case models.JobStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

func (o *Orchestrator) kick() {
	select {
	case o.notify <- struct{}{}:
	default:
	}
}

// ensureCtx returns the job's cancellation context, creating it if the
// submitter and the claiming worker race.
func (o *Orchestrator) ensureCtx(id string) jobCtx {
	o.cmu.Lock()
	defer o.cmu.Unlock()
	if jc, ok := o.ctxs[id]; ok {
		return jc
	}
	ctx, cancel := context.WithCancel(o.baseCtx)
	jc := jobCtx{ctx: ctx, cancel: cancel}
	o.ctxs[id] = jc
	return jc
}

func (o *Orchestrator) releaseCtx(id string) {
	o.cmu.Lock()
	jc, ok := o.ctxs[id]
	if ok {
		delete(o.ctxs, id)
	}
	o.cmu.Unlock()
	if ok {
		jc.cancel()
	}
}

func (o *Orchestrator) worker() {
	defer o.wg.Done()
	for {
		select {
		case <-o.baseCtx.Done():
			return
		case <-o.notify:
		}
		for {
			if o.baseCtx.Err() != nil {
				return
			}
			job, ok := o.store.ClaimNextQueued()
			if !ok {
				break
			}
			// wake another idle slot in case more work is queued
			o.kick()
			o.execute(job)
		}
	}
}

type runOutcome struct {
	res *Result
	err error
}

func (o *Orchestrator) execute(job *models.Job) {
	o.gate.start()
	defer o.gate.finish()
	defer o.gate.release()
	defer o.releaseCtx(job.ID)

	jc := o.ensureCtx(job.ID)
	taskCtx := jc.ctx
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(jc.ctx, o.cfg.Timeout)
		defer cancel()
	}

	o.logger.Infof("processing %s job %s", o.cfg.Kind, job.ID)

	progressCh := make(chan float64, progressBuffer)
	stopProgress := make(chan struct{})
	var pwg sync.WaitGroup
	pwg.Add(1)
	go func() {
		defer pwg.Done()
		for {
			select {
			case p := <-progressCh:
				o.applyProgress(job.ID, p)
			case <-stopProgress:
				return
			}
		}
	}()
	report := func(p float64) {
		select {
		case progressCh <- p:
		default:
		}
	}

	done := make(chan runOutcome, 1)
	go func() {
		res, err := o.runner.Run(taskCtx, job, report)
		done <- runOutcome{res: res, err: err}
	}()

	var out runOutcome
	select {
	case out = <-done:
	case <-taskCtx.Done():
		select {
		case out = <-done:
		case <-time.After(o.grace):
			// the task ignored its cancel signal; reclaim the slot and
			// let the abandoned goroutine die with its context
			o.logger.Warnf("%s job %s did not stop within %s, reclaiming slot", o.cfg.Kind, job.ID, o.grace)
			out = runOutcome{err: taskCtx.Err()}
		}
	}

	close(stopProgress)
	pwg.Wait()

	if out.err == nil && out.res == nil {
		out.err = errors.New("task returned no output")
	}
	o.finish(job.ID, taskCtx, out)
}

func (o *Orchestrator) applyProgress(id string, p float64) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	_, _ = o.store.Update(id, func(j *models.Job) {
		if j.Status != models.JobStatusProcessing {
			return
		}
		if p > j.Progress {
			j.Progress = p
		}
	})
}

// finish applies the terminal transition for one executed job and frees its
// admission.
func (o *Orchestrator) finish(id string, taskCtx context.Context, out runOutcome) {
	switch {
	case out.err == nil:
		now := time.Now().UTC()
		_, _ = o.store.Update(id, func(j *models.Job) {
			j.Status = models.JobStatusCompleted
			j.Progress = 100
			j.OutputPath = out.res.OutputPath
			j.CompletedAt = &now
			if out.res.SizeBytes > 0 {
				j.SizeBytes = out.res.SizeBytes
			}
			if out.res.ContentType != "" {
				j.ContentType = out.res.ContentType
			}
			if out.res.Title != "" && j.Title == "" {
				j.Title = out.res.Title
			}
		})
		o.logger.Infof("completed %s job %s (%s)", o.cfg.Kind, id, out.res.OutputPath)
	case errors.Is(out.err, context.DeadlineExceeded) || errors.Is(taskCtx.Err(), context.DeadlineExceeded):
		_, _ = o.store.Update(id, func(j *models.Job) {
			j.Status = models.JobStatusFailed
			j.Error = ErrTimeout.Error()
		})
		o.logger.Warnf("%s job %s failed: %s", o.cfg.Kind, id, ErrTimeout)
	case errors.Is(out.err, context.Canceled) || errors.Is(taskCtx.Err(), context.Canceled):
		_, _ = o.store.Update(id, func(j *models.Job) {
			j.Status = models.JobStatusCancelled
		})
		o.logger.Infof("cancelled %s job %s", o.cfg.Kind, id)
	default:
		_, _ = o.store.Update(id, func(j *models.Job) {
			j.Status = models.JobStatusFailed
			j.Error = out.err.Error()
		})
		o.logger.Errorf("%s job %s failed: %v", o.cfg.Kind, id, out.err)
	}
}

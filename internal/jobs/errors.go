package jobs

import "errors"

var (
	// ErrQueueFull rejects a submission at admission time; no record is
	// created and the client may retry later.
	ErrQueueFull = errors.New("queue is full")
	// ErrNotFound signals an unknown job id.
	ErrNotFound = errors.New("job not found")
	// ErrInvalidState signals an operation not allowed for the job's
	// current status, such as deleting a processing job without
	// cancelling it first.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrNotReady signals an output fetch before the job completed.
	ErrNotReady = errors.New("job output is not ready")
	// ErrTimeout is recorded as the failure cause when a job exceeds its
	// wall-clock limit.
	ErrTimeout = errors.New("timeout exceeded")
)

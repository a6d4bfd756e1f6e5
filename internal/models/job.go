package models

import "time"

type JobKind string

const (
	KindDownload   JobKind = "download"
	KindConversion JobKind = "conversion"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further status transition is possible.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// JobInput identifies the source a job works on. Exactly one field is set:
// a remote URL, the id of a prior job whose output feeds this one, or an
// uploaded file reference.
type JobInput struct {
	URL      string `json:"url,omitempty" validate:"omitempty,url"`
	SourceID string `json:"source_id,omitempty" validate:"omitempty,uuid4"`
	Upload   string `json:"upload,omitempty"`
}

type Job struct {
	ID          string          `json:"id" validate:"omitempty,uuid4"`
	Kind        JobKind         `json:"kind" validate:"required"`
	Status      JobStatus       `json:"status" validate:"required"`
	Progress    float64         `json:"progress" validate:"gte=0,lte=100"`
	Input       JobInput        `json:"input"`
	Download    *DownloadParams `json:"download,omitempty"`
	Convert     *ConvertParams  `json:"convert,omitempty"`
	OutputPath  string          `json:"output_path,omitempty"`
	Error       string          `json:"error,omitempty"`
	Title       string          `json:"title,omitempty"`
	ContentType string          `json:"content_type,omitempty"`
	SizeBytes   int64           `json:"size_bytes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

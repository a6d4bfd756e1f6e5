package utils

import (
	"path/filepath"
	"strings"

	"github.com/substratal/mediagrab/internal/models"
)

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_",
)

// SafeFilename strips path separators and shell-hostile characters so a
// media title can be offered as a download filename.
func SafeFilename(name string) string {
	name = unsafeFilenameChars.Replace(strings.TrimSpace(name))
	if len(name) > 150 {
		name = name[:150]
	}
	if name == "" {
		return "file"
	}
	return name
}

// AttachmentName derives the client-facing filename for a job's output:
// the title when one is known, otherwise the stored basename.
func AttachmentName(job *models.Job) string {
	base := filepath.Base(job.OutputPath)
	if job.Title == "" {
		return base
	}
	return SafeFilename(job.Title) + filepath.Ext(base)
}

package models

import "io"

// UploadInput carries one multipart upload into the system use case. Size is
// the client-declared length; the store enforces the real limit while
// copying.
type UploadInput struct {
	FileName string    `json:"filename" validate:"required,lte=255"`
	Title    string    `json:"title" validate:"omitempty,lte=255"`
	Size     int64     `json:"size" validate:"omitempty,gte=0"`
	Content  io.Reader `json:"-" validate:"-"`
}

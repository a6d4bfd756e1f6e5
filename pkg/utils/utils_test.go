package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/substratal/mediagrab/internal/jobs"
	"github.com/substratal/mediagrab/internal/models"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{jobs.ErrQueueFull, http.StatusTooManyRequests},
		{jobs.ErrNotFound, http.StatusNotFound},
		{jobs.ErrInvalidState, http.StatusConflict},
		{jobs.ErrNotReady, http.StatusBadRequest},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusFromError(c.err); got != c.want {
			t.Errorf("StatusFromError(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestStatusFromValidationError(t *testing.T) {
	err := ValidateStruct(context.Background(), &models.CreateDownloadRequest{URL: "not a url"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := StatusFromError(err); got != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation errors, got %d", got)
	}
}

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Movie", "My Movie"},
		{"  trimmed  ", "trimmed"},
		{`a/b\c:d*e?f"g<h>i|j`, "a_b_c_d_e_f_g_h_i_j"},
		{"", "file"},
	}
	for _, c := range cases {
		if got := SafeFilename(c.in); got != c.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := SafeFilename(strings.Repeat("x", 300))
	if len(long) != 150 {
		t.Fatalf("expected 150-char cap, got %d", len(long))
	}
}

func TestAttachmentName(t *testing.T) {
	withTitle := &models.Job{Title: "Cool: Video", OutputPath: "/tmp/abc-123.mp4"}
	if got := AttachmentName(withTitle); got != "Cool_ Video.mp4" {
		t.Fatalf("got %q", got)
	}

	noTitle := &models.Job{OutputPath: "/tmp/abc-123.mp4"}
	if got := AttachmentName(noTitle); got != "abc-123.mp4" {
		t.Fatalf("got %q", got)
	}
}

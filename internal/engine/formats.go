package engine

import (
	"sort"
	"strings"

	"github.com/substratal/mediagrab/internal/models"
)

// MediaType classifies a file extension for conversion dispatch.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaAudio    MediaType = "audio"
	MediaDocument MediaType = "document"
)

type formatSpec struct {
	Class MediaType
	MIME  string
	// Transparent marks image formats with an alpha channel; targets
	// without one get flattened onto a white background.
	Transparent bool
	// AudioCodec is the encoder used when converting into this format and
	// the request names none.
	AudioCodec string
}

var formatRegistry = map[string]formatSpec{
	"jpg":  {Class: MediaImage, MIME: "image/jpeg"},
	"jpeg": {Class: MediaImage, MIME: "image/jpeg"},
	"png":  {Class: MediaImage, MIME: "image/png", Transparent: true},
	"webp": {Class: MediaImage, MIME: "image/webp", Transparent: true},
	"gif":  {Class: MediaImage, MIME: "image/gif", Transparent: true},
	"bmp":  {Class: MediaImage, MIME: "image/bmp"},
	"tiff": {Class: MediaImage, MIME: "image/tiff", Transparent: true},

	"mp4":  {Class: MediaVideo, MIME: "video/mp4"},
	"webm": {Class: MediaVideo, MIME: "video/webm"},
	"avi":  {Class: MediaVideo, MIME: "video/x-msvideo"},
	"mov":  {Class: MediaVideo, MIME: "video/quicktime"},
	"mkv":  {Class: MediaVideo, MIME: "video/x-matroska"},

	"mp3":  {Class: MediaAudio, MIME: "audio/mpeg", AudioCodec: "mp3"},
	"m4a":  {Class: MediaAudio, MIME: "audio/mp4", AudioCodec: "aac"},
	"wav":  {Class: MediaAudio, MIME: "audio/wav", AudioCodec: "pcm_s16le"},
	"ogg":  {Class: MediaAudio, MIME: "audio/ogg", AudioCodec: "vorbis"},
	"flac": {Class: MediaAudio, MIME: "audio/flac", AudioCodec: "flac"},
	"aac":  {Class: MediaAudio, MIME: "audio/aac", AudioCodec: "aac"},

	"pdf": {Class: MediaDocument, MIME: "application/pdf"},
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MediaTypeOf returns the media class for an extension, or "" when the
// extension is unknown to the registry.
func MediaTypeOf(ext string) MediaType {
	return formatRegistry[normalizeExt(ext)].Class
}

// MIMEType returns the content type for an extension, or "" when unknown.
func MIMEType(ext string) string {
	return formatRegistry[normalizeExt(ext)].MIME
}

// SupportsTransparency reports whether an image format keeps an alpha
// channel.
func SupportsTransparency(ext string) bool {
	return formatRegistry[normalizeExt(ext)].Transparent
}

// DefaultAudioCodec returns the encoder for an audio target format.
func DefaultAudioCodec(ext string) string {
	return formatRegistry[normalizeExt(ext)].AudioCodec
}

// CanConvert reports whether a conversion between two extensions is
// supported: within one media class, or extracting audio from video.
// Documents are catalogued for uploads but never converted.
func CanConvert(sourceExt, targetExt string) bool {
	src, ok := formatRegistry[normalizeExt(sourceExt)]
	if !ok {
		return false
	}
	dst, ok := formatRegistry[normalizeExt(targetExt)]
	if !ok {
		return false
	}
	if src.Class == MediaDocument || dst.Class == MediaDocument {
		return false
	}
	if src.Class == dst.Class {
		return true
	}
	return src.Class == MediaVideo && dst.Class == MediaAudio
}

// AvailableFormats lists the registry grouped by media class together with
// the conversion matrix (source class to reachable target formats).
func AvailableFormats() *models.AvailableFormats {
	byClass := map[MediaType][]string{}
	for ext, spec := range formatRegistry {
		byClass[spec.Class] = append(byClass[spec.Class], ext)
	}
	for _, exts := range byClass {
		sort.Strings(exts)
	}

	image := byClass[MediaImage]
	video := byClass[MediaVideo]
	audio := byClass[MediaAudio]

	videoTargets := make([]string, 0, len(video)+len(audio))
	videoTargets = append(videoTargets, video...)
	videoTargets = append(videoTargets, audio...)

	return &models.AvailableFormats{
		Image:    image,
		Video:    video,
		Audio:    audio,
		Document: byClass[MediaDocument],
		Conversions: map[string][]string{
			string(MediaImage):    image,
			string(MediaVideo):    videoTargets,
			string(MediaAudio):    audio,
			string(MediaDocument): {},
		},
	}
}

// MimeTypes returns the full extension to content-type table served to
// upload clients.
func MimeTypes() map[string]string {
	table := make(map[string]string, len(formatRegistry))
	for ext, spec := range formatRegistry {
		table[ext] = spec.MIME
	}
	return table
}

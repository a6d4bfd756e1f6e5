package engine

import (
	"reflect"
	"testing"
)

func TestMediaTypeOf(t *testing.T) {
	cases := []struct {
		ext  string
		want MediaType
	}{
		{"jpg", MediaImage},
		{".MP4", MediaVideo},
		{"  flac ", MediaAudio},
		{"pdf", MediaDocument},
		{"xyz", ""},
	}
	for _, c := range cases {
		if got := MediaTypeOf(c.ext); got != c.want {
			t.Errorf("MediaTypeOf(%q) = %q, want %q", c.ext, got, c.want)
		}
	}
}

func TestMIMEType(t *testing.T) {
	if got := MIMEType("mkv"); got != "video/x-matroska" {
		t.Fatalf("mkv: got %q", got)
	}
	if got := MIMEType("m4a"); got != "audio/mp4" {
		t.Fatalf("m4a: got %q", got)
	}
	if got := MIMEType("nope"); got != "" {
		t.Fatalf("unknown extension must map to empty, got %q", got)
	}
}

func TestTransparencyAndCodecs(t *testing.T) {
	if !SupportsTransparency("png") {
		t.Fatal("png keeps alpha")
	}
	if SupportsTransparency("jpg") {
		t.Fatal("jpg has no alpha channel")
	}
	if got := DefaultAudioCodec("wav"); got != "pcm_s16le" {
		t.Fatalf("wav codec: got %q", got)
	}
	if got := DefaultAudioCodec("ogg"); got != "vorbis" {
		t.Fatalf("ogg codec: got %q", got)
	}
}

func TestCanConvert(t *testing.T) {
	cases := []struct {
		src, dst string
		want     bool
	}{
		{"jpg", "png", true},
		{"png", "jpg", true},
		{"mp4", "mkv", true},
		{"mp4", "mp4", true},
		{"mp4", "mp3", true}, // audio extraction
		{"mp3", "mp4", false},
		{"jpg", "mp4", false},
		{"pdf", "jpg", false},
		{"jpg", "pdf", false},
		{"txt", "png", false},
		{"png", "txt", false},
	}
	for _, c := range cases {
		if got := CanConvert(c.src, c.dst); got != c.want {
			t.Errorf("CanConvert(%q, %q) = %v, want %v", c.src, c.dst, got, c.want)
		}
	}
}

func TestAvailableFormats(t *testing.T) {
	f := AvailableFormats()

	wantImage := []string{"bmp", "gif", "jpeg", "jpg", "png", "tiff", "webp"}
	if !reflect.DeepEqual(f.Image, wantImage) {
		t.Fatalf("image formats: got %v, want %v", f.Image, wantImage)
	}
	wantVideo := []string{"avi", "mkv", "mov", "mp4", "webm"}
	if !reflect.DeepEqual(f.Video, wantVideo) {
		t.Fatalf("video formats: got %v, want %v", f.Video, wantVideo)
	}
	wantAudio := []string{"aac", "flac", "m4a", "mp3", "ogg", "wav"}
	if !reflect.DeepEqual(f.Audio, wantAudio) {
		t.Fatalf("audio formats: got %v, want %v", f.Audio, wantAudio)
	}

	wantVideoTargets := append(append([]string{}, wantVideo...), wantAudio...)
	if !reflect.DeepEqual(f.Conversions["video"], wantVideoTargets) {
		t.Fatalf("video targets: got %v, want %v", f.Conversions["video"], wantVideoTargets)
	}
	if len(f.Conversions["document"]) != 0 {
		t.Fatalf("documents must have no conversion targets, got %v", f.Conversions["document"])
	}
}

func TestMimeTypesReturnsCopy(t *testing.T) {
	table := MimeTypes()
	if table["mp4"] != "video/mp4" {
		t.Fatalf("mp4: got %q", table["mp4"])
	}

	table["mp4"] = "tampered"
	if got := MimeTypes()["mp4"]; got != "video/mp4" {
		t.Fatalf("registry leaked through the returned map: %q", got)
	}
}

package engine

import (
	"testing"

	"github.com/substratal/mediagrab/internal/models"
)

func TestResolvePresetDefaults(t *testing.T) {
	params, err := ResolvePreset("", "", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if params.Quality != models.QualityBest || params.Mode != models.StreamVideoAudio {
		t.Fatalf("expected best/video+audio defaults, got %+v", params)
	}
	if params.MaxHeight != 0 || params.AudioOnly {
		t.Fatalf("best preset must not cap or strip anything: %+v", params)
	}
}

func TestResolvePresetHeights(t *testing.T) {
	cases := []struct {
		quality models.QualityPreset
		height  int
	}{
		{models.Quality1080p, 1080},
		{models.Quality720p, 720},
		{models.Quality480p, 480},
		{models.Quality360p, 360},
	}
	for _, c := range cases {
		params, err := ResolvePreset(c.quality, models.StreamVideoAudio, 0)
		if err != nil {
			t.Fatalf("resolve %s: %v", c.quality, err)
		}
		if params.MaxHeight != c.height {
			t.Errorf("%s: expected height cap %d, got %d", c.quality, c.height, params.MaxHeight)
		}
	}
}

func TestResolvePresetAudio(t *testing.T) {
	params, err := ResolvePreset(models.QualityAudio, "", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !params.AudioOnly || params.Mode != models.StreamAudioOnly {
		t.Fatalf("audio preset must force audio-only, got %+v", params)
	}

	// an audio-only mode wins over the preset's height cap
	params, err = ResolvePreset(models.Quality720p, models.StreamAudioOnly, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if params.MaxHeight != 0 || !params.AudioOnly {
		t.Fatalf("audio-only mode must clear the height cap, got %+v", params)
	}
}

func TestResolvePresetVideoOnly(t *testing.T) {
	params, err := ResolvePreset(models.Quality480p, models.StreamVideoOnly, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if params.Mode != models.StreamVideoOnly || params.AudioOnly || params.MaxHeight != 480 {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestResolvePresetFormatID(t *testing.T) {
	params, err := ResolvePreset(models.QualityBest, "", 137)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if params.FormatID != 137 {
		t.Fatalf("expected format id kept, got %d", params.FormatID)
	}
}

func TestResolvePresetUnknown(t *testing.T) {
	if _, err := ResolvePreset("4320p", "", 0); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

package models

type QualityPreset string

const (
	QualityBest  QualityPreset = "best"
	Quality1080p QualityPreset = "1080p"
	Quality720p  QualityPreset = "720p"
	Quality480p  QualityPreset = "480p"
	Quality360p  QualityPreset = "360p"
	QualityAudio QualityPreset = "audio"
)

type StreamMode string

const (
	StreamVideoAudio StreamMode = "video+audio"
	StreamVideoOnly  StreamMode = "video-only"
	StreamAudioOnly  StreamMode = "audio-only"
)

// DownloadParams is the concrete output shape a download job was admitted
// with. Presets are resolved to these fields before the job is created.
type DownloadParams struct {
	FormatID  int           `json:"format_id,omitempty"`
	Quality   QualityPreset `json:"quality,omitempty"`
	Mode      StreamMode    `json:"mode,omitempty"`
	MaxHeight int           `json:"max_height,omitempty"`
	AudioOnly bool          `json:"audio_only,omitempty"`
}

type CreateDownloadRequest struct {
	URL      string        `json:"url" validate:"required,url"`
	FormatID int           `json:"format_id" validate:"omitempty,gt=0"`
	Quality  QualityPreset `json:"quality" validate:"omitempty,oneof=best 1080p 720p 480p 360p audio"`
	Mode     StreamMode    `json:"mode" validate:"omitempty,oneof=video+audio video-only audio-only"`
}

type YoutubeDownloadRequest struct {
	URL     string        `json:"url" validate:"required,url"`
	Quality QualityPreset `json:"quality" validate:"omitempty,oneof=best 1080p 720p 480p 360p audio"`
}

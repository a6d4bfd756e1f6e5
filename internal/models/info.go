package models

// FormatInfo describes one downloadable stream variant of a video.
type FormatInfo struct {
	Itag         int    `json:"itag"`
	Quality      string `json:"quality,omitempty"`
	MimeType     string `json:"mime_type"`
	Bitrate      int    `json:"bitrate,omitempty"`
	FPS          int    `json:"fps,omitempty"`
	AudioQuality string `json:"audio_quality,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
}

type FormatGroups struct {
	VideoAudio []FormatInfo `json:"video+audio"`
	VideoOnly  []FormatInfo `json:"video-only"`
	AudioOnly  []FormatInfo `json:"audio-only"`
}

type VideoInfo struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Author          string       `json:"author"`
	DurationSeconds int64        `json:"duration_seconds"`
	Thumbnail       string       `json:"thumbnail,omitempty"`
	Formats         FormatGroups `json:"formats"`
}

package models

type ResizeMode string

const (
	ResizeFit     ResizeMode = "fit"
	ResizeFill    ResizeMode = "fill"
	ResizeStretch ResizeMode = "stretch"
)

// ConvertParams is the target shape of a conversion job. TargetFormat is
// always set; the remaining fields are optional refinements whose defaults
// the conversion engine fills per media class.
type ConvertParams struct {
	TargetFormat string     `json:"target_format" validate:"required"`
	Quality      int        `json:"quality,omitempty" validate:"omitempty,gte=1,lte=100"`
	Width        int        `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height       int        `json:"height,omitempty" validate:"omitempty,gt=0"`
	ResizeMode   ResizeMode `json:"resize_mode,omitempty" validate:"omitempty,oneof=fit fill stretch"`
	VideoCodec   string     `json:"video_codec,omitempty"`
	AudioCodec   string     `json:"audio_codec,omitempty"`
	VideoBitrate string     `json:"video_bitrate,omitempty"`
	AudioBitrate string     `json:"audio_bitrate,omitempty"`
	FrameRate    int        `json:"frame_rate,omitempty" validate:"omitempty,gt=0"`
	StartTime    float64    `json:"start_time,omitempty" validate:"omitempty,gte=0"`
	EndTime      float64    `json:"end_time,omitempty" validate:"omitempty,gte=0"`
}

type CreateConversionRequest struct {
	DownloadID   string     `json:"download_id" validate:"required,uuid4"`
	TargetFormat string     `json:"target_format" validate:"required,alphanum"`
	Quality      int        `json:"quality" validate:"omitempty,gte=1,lte=100"`
	Width        int        `json:"width" validate:"omitempty,gt=0"`
	Height       int        `json:"height" validate:"omitempty,gt=0"`
	ResizeMode   ResizeMode `json:"resize_mode" validate:"omitempty,oneof=fit fill stretch"`
	VideoCodec   string     `json:"video_codec"`
	AudioCodec   string     `json:"audio_codec"`
	VideoBitrate string     `json:"video_bitrate"`
	AudioBitrate string     `json:"audio_bitrate"`
	FrameRate    int        `json:"frame_rate" validate:"omitempty,gt=0"`
	StartTime    float64    `json:"start_time" validate:"omitempty,gte=0"`
	EndTime      float64    `json:"end_time" validate:"omitempty,gte=0"`
}

// AvailableFormats is the format catalogue served to clients: supported
// extensions per media class and which targets each class converts into.
type AvailableFormats struct {
	Image       []string            `json:"image"`
	Video       []string            `json:"video"`
	Audio       []string            `json:"audio"`
	Document    []string            `json:"document"`
	Conversions map[string][]string `json:"conversions"`
}

// Params extracts the engine-facing conversion parameters.
func (r *CreateConversionRequest) Params() *ConvertParams {
	return &ConvertParams{
		TargetFormat: r.TargetFormat,
		Quality:      r.Quality,
		Width:        r.Width,
		Height:       r.Height,
		ResizeMode:   r.ResizeMode,
		VideoCodec:   r.VideoCodec,
		AudioCodec:   r.AudioCodec,
		VideoBitrate: r.VideoBitrate,
		AudioBitrate: r.AudioBitrate,
		FrameRate:    r.FrameRate,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
	}
}

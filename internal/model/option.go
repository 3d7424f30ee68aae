package model

import (
	"errors"
	"fmt"
)

// ErrInvalidOption marks an option whose stream set breaks the option invariants.
// It is a programmer error, never an expected runtime failure.
var ErrInvalidOption = errors.New("invalid download option")

// DownloadOption is one user-selectable way to download a media item.
// Only ConvertToStandard (and the TargetContainer derived from it) may change after construction.
type DownloadOption struct {
	Label        string
	MediaID      string
	Title        string
	ThumbnailURL string
	TotalSize    *int64

	NeedsRemux bool
	NeedsMerge bool

	Video *StreamInfo
	Audio *StreamInfo

	TargetContainer   string
	ConvertToStandard bool
}

// IsAudioOnly reports whether only the audio stream is set.
func (o DownloadOption) IsAudioOnly() bool {
	return o.Audio != nil && o.Video == nil
}

// IsVideoOnly reports whether only the video stream is set.
func (o DownloadOption) IsVideoOnly() bool {
	return o.Video != nil && o.Audio == nil
}

// Validate checks the stream-set invariants.
func (o DownloadOption) Validate() error {
	if o.Video == nil && o.Audio == nil {
		return fmt.Errorf("%w: %q has no streams", ErrInvalidOption, o.Label)
	}
	if o.NeedsMerge != (o.Video != nil && o.Audio != nil) {
		return fmt.Errorf("%w: %q needs_merge=%v does not match its streams", ErrInvalidOption, o.Label, o.NeedsMerge)
	}
	return nil
}

// SetConvertToStandard toggles conversion and re-derives the target container.
func (o *DownloadOption) SetConvertToStandard(v bool) {
	o.ConvertToStandard = v
	o.TargetContainer = DeriveContainer(*o)
}

// Transcodes reports whether executing the option ends with a merge or convert step.
func (o DownloadOption) Transcodes() bool {
	return o.NeedsMerge || (o.NeedsRemux && o.ConvertToStandard)
}

// DeriveContainer returns the output container for the option's current toggles.
// Merged output is always mp4. Otherwise conversion selects the canonical container
// (mp4 for video, mp3 for audio) and no conversion keeps the stream's native extension.
func DeriveContainer(o DownloadOption) string {
	switch {
	case o.Video != nil && o.Audio != nil:
		return ContainerMP4
	case o.Video != nil:
		if o.ConvertToStandard {
			return ContainerMP4
		}
		return o.Video.Ext
	case o.Audio != nil:
		if o.ConvertToStandard {
			return ContainerMP3
		}
		return o.Audio.Ext
	default:
		return ""
	}
}

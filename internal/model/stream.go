// Package model holds the value types shared by the resolver, option builder and pipeline.
package model

// Canonical containers.
const (
	ContainerMP4  = "mp4"
	ContainerMP3  = "mp3"
	ContainerWebM = "webm"
)

// StreamInfo describes one fetchable elementary stream as resolved by the metadata resolver.
// It is created once per resolver call and never mutated.
type StreamInfo struct {
	URL        string
	FormatID   string
	Ext        string // container extension without the dot
	IsAudio    bool
	Resolution string // video only, e.g. "1920x1080" or "720p"
	Bitrate    string // audio only, kbps, e.g. "128" or "129.5"
	SizeBytes  *int64 // exact or approximate; nil when unknown

	// SourceURL is the page the stream was resolved from. Backends that re-resolve
	// streams by format ID (yt-dlp) use it instead of URL.
	SourceURL string
}

// Usable reports whether the stream carries everything needed to fetch it.
func (s StreamInfo) Usable() bool {
	return s.FormatID != "" && s.Ext != "" && s.URL != ""
}

// MediaItem is one resolved media entry (a single video, or one entry of a playlist).
type MediaItem struct {
	ID           string
	Title        string
	ThumbnailURL string
	SourceURL    string
	Streams      []StreamInfo
}

// Bytes returns a pointer to n, for optional size fields.
func Bytes(n int64) *int64 {
	return &n
}

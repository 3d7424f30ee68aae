// Package options turns resolved streams into ranked, user-selectable download options.
package options

import (
	"errors"
	"fmt"
	"sort"

	"vidsnatch/internal/model"
)

// ErrNoUsableStreams is returned when no stream survives validation.
var ErrNoUsableStreams = errors.New("no usable streams")

// playable lists the containers offered as direct single-stream video downloads.
var playable = map[string]bool{
	model.ContainerMP4:  true,
	model.ContainerWebM: true,
}

// Build converts the streams of one media item into options, grouped as combined,
// merge and audio-only, each group ranked best first. Streams missing a format ID,
// extension or URL are dropped silently.
func Build(mediaID, title, thumbnail string, streams []model.StreamInfo) ([]model.DownloadOption, error) {
	var videos, audios []model.StreamInfo
	for _, s := range streams {
		if !s.Usable() {
			continue
		}
		if s.IsAudio {
			audios = append(audios, s)
		} else {
			videos = append(videos, s)
		}
	}
	if len(videos) == 0 && len(audios) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoUsableStreams, mediaID)
	}

	base := model.DownloadOption{MediaID: mediaID, Title: title, ThumbnailURL: thumbnail}

	var combined []model.DownloadOption
	for i := range videos {
		v := &videos[i]
		if !playable[v.Ext] {
			continue
		}
		o := base
		o.Label = fmt.Sprintf("Video+Audio: %s (%s)", orUnknown(v.Resolution), v.Ext)
		o.Video = v
		o.TotalSize = v.SizeBytes
		o.NeedsRemux = v.Ext != model.ContainerMP4
		o.SetConvertToStandard(o.NeedsRemux)
		combined = append(combined, o)
	}

	merged := make([]model.DownloadOption, 0, len(videos)*len(audios))
	for i := range videos {
		for j := range audios {
			v, a := &videos[i], &audios[j]
			o := base
			o.Label = fmt.Sprintf("Video: %s + Audio: %skbps", orUnknown(v.Resolution), orUnknown(a.Bitrate))
			o.Video = v
			o.Audio = a
			o.NeedsMerge = true
			if v.SizeBytes != nil && a.SizeBytes != nil {
				o.TotalSize = model.Bytes(*v.SizeBytes + *a.SizeBytes)
			}
			o.SetConvertToStandard(true)
			merged = append(merged, o)
		}
	}

	var audioOnly []model.DownloadOption
	for i := range audios {
		a := &audios[i]
		o := base
		o.Label = fmt.Sprintf("Audio: %skbps (%s)", orUnknown(a.Bitrate), a.Ext)
		o.Audio = a
		o.TotalSize = a.SizeBytes
		o.NeedsRemux = a.Ext != model.ContainerMP3
		o.SetConvertToStandard(o.NeedsRemux)
		audioOnly = append(audioOnly, o)
	}

	out := make([]model.DownloadOption, 0, len(combined)+len(merged)+len(audioOnly))
	for _, group := range [][]model.DownloadOption{combined, merged, audioOnly} {
		sort.SliceStable(group, func(i, j int) bool { return less(group[i], group[j]) })
		out = append(out, group...)
	}
	return out, nil
}

// Catalog is the option list built for one media item.
type Catalog struct {
	Item    model.MediaItem
	Options []model.DownloadOption
	Err     error
}

// BuildAll builds options for every resolved item. Items without usable streams keep
// their error in the catalog instead of failing the whole batch.
func BuildAll(items []model.MediaItem) []Catalog {
	out := make([]Catalog, 0, len(items))
	for _, it := range items {
		opts, err := Build(it.ID, it.Title, it.ThumbnailURL, it.Streams)
		out = append(out, Catalog{Item: it, Options: opts, Err: err})
	}
	return out
}

// FirstAudioOnly returns the index of the best audio-only option, or -1.
func FirstAudioOnly(opts []model.DownloadOption) int {
	for i, o := range opts {
		if o.IsAudioOnly() {
			return i
		}
	}
	return -1
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

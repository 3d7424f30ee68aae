package options

import (
	"strings"

	"vidsnatch/internal/model"
	"vidsnatch/internal/util/bitrate"
)

// Category separates video-bearing options from audio-only ones.
// Lower categories rank first.
type Category int

const (
	CategoryVideo Category = 1
	CategoryAudio Category = 2
)

// QualityKey orders options by quality.
type QualityKey struct {
	Category  Category
	Magnitude int // resolution for video-bearing options, kbps for audio-only
	Label     string
}

// KeyOf derives the quality key of an option.
func KeyOf(o model.DownloadOption) QualityKey {
	k := QualityKey{Category: CategoryVideo, Label: o.Label}
	switch {
	case o.Video != nil:
		k.Magnitude = bitrate.ParseResolution(o.Video.Resolution)
	case o.Audio != nil:
		k.Category = CategoryAudio
		k.Magnitude = bitrate.ParseKbps(o.Audio.Bitrate)
	}
	return k
}

// Compare returns a negative number when a ranks above b, positive when below, and 0
// only for identical keys. Video-bearing options rank above audio-only ones, then
// higher magnitude ranks first, then labels ascend.
func Compare(a, b QualityKey) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	if a.Magnitude != b.Magnitude {
		if a.Magnitude > b.Magnitude {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Label, b.Label)
}

// less orders two options of the same group: quality first, then larger known size
// (unknown sizes last). Remaining ties fall back to labels in ascending byte order so
// equal-quality options always come out in the same order.
func less(a, b model.DownloadOption) bool {
	ka, kb := KeyOf(a), KeyOf(b)
	if ka.Category != kb.Category {
		return ka.Category < kb.Category
	}
	if ka.Magnitude != kb.Magnitude {
		return ka.Magnitude > kb.Magnitude
	}
	sa, sb := sizeOrNone(a.TotalSize), sizeOrNone(b.TotalSize)
	if sa != sb {
		return sa > sb
	}
	return ka.Label < kb.Label
}

func sizeOrNone(p *int64) int64 {
	if p == nil {
		return -1
	}
	return *p
}

package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidsnatch/internal/model"
)

func video(id, ext, res string, size *int64) model.StreamInfo {
	return model.StreamInfo{URL: "https://cdn.example/" + id, FormatID: id, Ext: ext, Resolution: res, SizeBytes: size}
}

func audio(id, ext, kbps string, size *int64) model.StreamInfo {
	return model.StreamInfo{URL: "https://cdn.example/" + id, FormatID: id, Ext: ext, IsAudio: true, Bitrate: kbps, SizeBytes: size}
}

func sampleStreams() []model.StreamInfo {
	return []model.StreamInfo{
		video("18", "mp4", "360p", model.Bytes(1000)),
		video("248", "webm", "1080p", model.Bytes(9000)),
		video("137", "mp4", "1080p", nil),
		video("sb0", "mhtml", "48x27", nil),
		audio("140", "m4a", "128", model.Bytes(300)),
		audio("249", "webm", "64", model.Bytes(100)),
		{FormatID: "broken", Ext: "mp4"},
		{URL: "https://cdn.example/x", Ext: "mp4"},
	}
}

func TestBuildGroupCounts(t *testing.T) {
	opts, err := Build("abc", "Title", "thumb", sampleStreams())
	require.NoError(t, err)

	var combined, merged, audioOnly int
	for _, o := range opts {
		switch {
		case o.NeedsMerge:
			merged++
		case o.IsAudioOnly():
			audioOnly++
		default:
			combined++
		}
	}
	// 3 playable video streams (mhtml excluded), 4 usable video streams, 2 audio streams
	assert.Equal(t, 3, combined)
	assert.Equal(t, 4*2, merged)
	assert.Equal(t, 2, audioOnly)
	assert.Len(t, opts, 3+8+2)
}

func TestBuildInvariants(t *testing.T) {
	opts, err := Build("abc", "Title", "thumb", sampleStreams())
	require.NoError(t, err)

	for _, o := range opts {
		require.NoError(t, o.Validate(), o.Label)
		assert.Equal(t, o.Video != nil && o.Audio != nil, o.NeedsMerge, o.Label)
		assert.Equal(t, model.DeriveContainer(o), o.TargetContainer, o.Label)
		assert.Equal(t, "abc", o.MediaID)
		assert.Equal(t, "Title", o.Title)
		assert.Equal(t, "thumb", o.ThumbnailURL)
		if o.Video != nil {
			assert.True(t, o.Video.Usable())
		}
		if o.Audio != nil {
			assert.True(t, o.Audio.Usable())
		}
	}
}

func TestBuildGroupsAreOrdered(t *testing.T) {
	opts, err := Build("abc", "Title", "thumb", sampleStreams())
	require.NoError(t, err)

	group := func(o model.DownloadOption) int {
		switch {
		case o.NeedsMerge:
			return 1
		case o.IsAudioOnly():
			return 2
		default:
			return 0
		}
	}
	for i := 1; i < len(opts); i++ {
		prev, cur := opts[i-1], opts[i]
		require.LessOrEqual(t, group(prev), group(cur))
		if group(prev) == group(cur) {
			assert.GreaterOrEqual(t, KeyOf(prev).Magnitude, KeyOf(cur).Magnitude,
				"%q before %q", prev.Label, cur.Label)
		}
	}
}

func TestBuildCombinedOptions(t *testing.T) {
	opts, err := Build("abc", "Title", "", sampleStreams())
	require.NoError(t, err)

	// 1080p webm (9000 bytes) beats 1080p mp4 (unknown size), then 360p.
	assert.Equal(t, "Video+Audio: 1080p (webm)", opts[0].Label)
	assert.True(t, opts[0].NeedsRemux)
	assert.True(t, opts[0].ConvertToStandard)
	assert.Equal(t, "mp4", opts[0].TargetContainer)

	assert.Equal(t, "Video+Audio: 1080p (mp4)", opts[1].Label)
	assert.False(t, opts[1].NeedsRemux)
	assert.False(t, opts[1].ConvertToStandard)
	assert.Equal(t, "mp4", opts[1].TargetContainer)

	assert.Equal(t, "Video+Audio: 360p (mp4)", opts[2].Label)
}

func TestBuildMergeTotalSize(t *testing.T) {
	streams := []model.StreamInfo{
		video("248", "webm", "1080p", model.Bytes(9000)),
		video("247", "webm", "720p", nil),
		audio("140", "m4a", "128", model.Bytes(300)),
	}
	opts, err := Build("abc", "Title", "", streams)
	require.NoError(t, err)

	var merged []model.DownloadOption
	for _, o := range opts {
		if o.NeedsMerge {
			merged = append(merged, o)
		}
	}
	require.Len(t, merged, 2)

	assert.Equal(t, "Video: 1080p + Audio: 128kbps", merged[0].Label)
	require.NotNil(t, merged[0].TotalSize)
	assert.EqualValues(t, 9300, *merged[0].TotalSize)
	assert.True(t, merged[0].ConvertToStandard)
	assert.Equal(t, "mp4", merged[0].TargetContainer)

	assert.Equal(t, "Video: 720p + Audio: 128kbps", merged[1].Label)
	assert.Nil(t, merged[1].TotalSize, "partial sums are never reported")
}

func TestBuildAudioOnlyOrdering(t *testing.T) {
	streams := []model.StreamInfo{
		audio("a64", "m4a", "64", nil),
		audio("a128", "m4a", "128", nil),
		audio("mp3", "mp3", "", nil),
	}
	opts, err := Build("abc", "Title", "", streams)
	require.NoError(t, err)
	require.Len(t, opts, 3)

	assert.Equal(t, "Audio: 128kbps (m4a)", opts[0].Label)
	assert.Equal(t, "Audio: 64kbps (m4a)", opts[1].Label)
	assert.Equal(t, "Audio: Unknownkbps (mp3)", opts[2].Label)

	assert.True(t, opts[0].NeedsRemux)
	assert.Equal(t, "mp3", opts[0].TargetContainer)
	assert.False(t, opts[2].NeedsRemux)
	assert.False(t, opts[2].ConvertToStandard)
	assert.Equal(t, "mp3", opts[2].TargetContainer)
}

func TestBuildIsDeterministic(t *testing.T) {
	streams := []model.StreamInfo{
		video("b", "mp4", "720p", model.Bytes(10)),
		video("a", "mp4", "720p", model.Bytes(10)),
		video("c", "mp4", "720p", model.Bytes(20)),
	}
	first, err := Build("id", "t", "", streams)
	require.NoError(t, err)

	reversed := []model.StreamInfo{streams[2], streams[1], streams[0]}
	second, err := Build("id", "t", "", reversed)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	assert.Equal(t, "c", first[0].Video.FormatID, "larger size wins a quality tie")
	for i := range first {
		assert.Equal(t, first[i].Label, second[i].Label)
		assert.Equal(t, first[i].TotalSize, second[i].TotalSize)
	}
}

func TestBuildNoUsableStreams(t *testing.T) {
	_, err := Build("abc", "Title", "", []model.StreamInfo{{FormatID: "x"}})
	assert.True(t, errors.Is(err, ErrNoUsableStreams))

	_, err = Build("abc", "Title", "", nil)
	assert.True(t, errors.Is(err, ErrNoUsableStreams))
}

func TestBuildAll(t *testing.T) {
	items := []model.MediaItem{
		{ID: "one", Title: "One", Streams: sampleStreams()},
		{ID: "two", Title: "Two"},
	}
	cats := BuildAll(items)
	require.Len(t, cats, 2)

	assert.NoError(t, cats[0].Err)
	assert.NotEmpty(t, cats[0].Options)
	assert.True(t, errors.Is(cats[1].Err, ErrNoUsableStreams))
	assert.Empty(t, cats[1].Options)
}

func TestFirstAudioOnly(t *testing.T) {
	opts, err := Build("abc", "Title", "", sampleStreams())
	require.NoError(t, err)

	i := FirstAudioOnly(opts)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Audio: 128kbps (m4a)", opts[i].Label)

	assert.Equal(t, -1, FirstAudioOnly(nil))
}

package downloader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidsnatch/internal/util"
)

// fakeRunner answers yt-dlp metadata calls from a table keyed by the URL argument.
type fakeRunner struct {
	responses map[string]string
	stderr    map[string]string
	calls     []string
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	url := spec.Args[len(spec.Args)-1]
	f.calls = append(f.calls, url)
	if msg, ok := f.stderr[url]; ok {
		return util.CmdResult{Stderr: []byte(msg), Code: 1}, fmt.Errorf("yt-dlp failed (exit 1)")
	}
	body, ok := f.responses[url]
	if !ok {
		return util.CmdResult{Code: 1}, fmt.Errorf("unexpected url %s", url)
	}
	return util.CmdResult{Stdout: []byte(body)}, nil
}

const singleVideoJSON = `{
  "id": "abc123",
  "title": "A Clip",
  "thumbnail": "https://img.example/abc.jpg",
  "webpage_url": "https://www.youtube.com/watch?v=abc123",
  "formats": [
    {"format_id": "140", "ext": "m4a", "url": "https://cdn/140", "vcodec": "none", "acodec": "mp4a.40.2", "resolution": "audio only", "abr": 129.478, "filesize": 3000000},
    {"format_id": "248", "ext": "webm", "url": "https://cdn/248", "vcodec": "vp9", "acodec": "none", "resolution": "1920x1080", "filesize_approx": 52000000.0},
    {"format_id": "18", "ext": "mp4", "url": "https://cdn/18", "vcodec": "avc1", "acodec": "mp4a", "resolution": "640x360"}
  ]
}`

func TestResolveSingleVideo(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc123"
	fr := &fakeRunner{responses: map[string]string{url: singleVideoJSON}}
	r := &Resolver{Path: "yt-dlp", Runner: fr}

	items, err := r.Resolve(context.Background(), url)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Len(t, fr.calls, 1, "single media reuses the first response")

	it := items[0]
	assert.Equal(t, "abc123", it.ID)
	assert.Equal(t, "A Clip", it.Title)
	assert.Equal(t, "https://img.example/abc.jpg", it.ThumbnailURL)
	require.Len(t, it.Streams, 3)

	a := it.Streams[0]
	assert.True(t, a.IsAudio)
	assert.Equal(t, "129.478", a.Bitrate)
	assert.Empty(t, a.Resolution)
	require.NotNil(t, a.SizeBytes)
	assert.EqualValues(t, 3000000, *a.SizeBytes)
	assert.Equal(t, url, a.SourceURL)

	v := it.Streams[1]
	assert.False(t, v.IsAudio)
	assert.Equal(t, "1920x1080", v.Resolution)
	assert.Empty(t, v.Bitrate)
	require.NotNil(t, v.SizeBytes)
	assert.EqualValues(t, 52000000, *v.SizeBytes)

	assert.Nil(t, it.Streams[2].SizeBytes)
}

func TestResolvePlaylistUsesPerCallCache(t *testing.T) {
	list := "https://www.youtube.com/playlist?list=PL1"
	e1 := "https://www.youtube.com/watch?v=one"
	e2 := "https://www.youtube.com/watch?v=two"
	fr := &fakeRunner{responses: map[string]string{
		list: `{"_type": "playlist", "id": "PL1", "entries": [{"url": "` + e1 + `"}, {"url": "` + e2 + `"}, {"url": "` + e1 + `"}, {"id": "no-url"}]}`,
		e1:   `{"id": "one", "title": "One", "formats": [{"format_id": "18", "ext": "mp4", "url": "https://cdn/1", "vcodec": "avc1"}]}`,
		e2:   `{"formats": []}`,
	}}
	r := &Resolver{Path: "yt-dlp", Runner: fr}

	items, err := r.Resolve(context.Background(), list)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{list, e1, e2}, fr.calls)

	assert.Equal(t, "one", items[0].ID)
	assert.Equal(t, "unknown", items[1].ID)
	assert.Equal(t, "Unknown Title", items[1].Title)
	assert.Equal(t, e2, items[1].SourceURL)
	assert.Equal(t, items[0], items[2])

	// A new call starts with an empty cache.
	_, err = r.Resolve(context.Background(), list)
	require.NoError(t, err)
	assert.Len(t, fr.calls, 6)
}

func TestResolvePlaylistSkipsBrokenEntries(t *testing.T) {
	list := "https://example.com/list"
	good := "https://example.com/good"
	bad := "https://example.com/bad"
	fr := &fakeRunner{
		responses: map[string]string{
			list: `{"entries": [{"url": "` + bad + `"}, {"url": "` + good + `"}]}`,
			good: `{"id": "good", "formats": []}`,
		},
		stderr: map[string]string{bad: "ERROR: Video unavailable"},
	}
	r := &Resolver{Path: "yt-dlp", Runner: fr}

	items, err := r.Resolve(context.Background(), list)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "good", items[0].ID)
}

func TestResolveErrors(t *testing.T) {
	url := "https://www.youtube.com/watch?v=secret"
	fr := &fakeRunner{stderr: map[string]string{url: "ERROR: [youtube] secret: Private video. Sign in if you've been granted access"}}
	r := &Resolver{Path: "yt-dlp", Runner: fr}

	_, err := r.Resolve(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolve))
	assert.True(t, errors.Is(err, ErrPrivate))

	_, err = (&Resolver{}).Resolve(context.Background(), url)
	assert.True(t, errors.Is(err, ErrResolve))

	fr = &fakeRunner{responses: map[string]string{url: "not json"}}
	_, err = (&Resolver{Path: "yt-dlp", Runner: fr}).Resolve(context.Background(), url)
	assert.True(t, errors.Is(err, ErrResolve))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		stderr string
		want   error
	}{
		{"ERROR: Unsupported URL: https://example.com", ErrUnsupportedURL},
		{"ERROR: [youtube] x: Video unavailable", ErrUnavailable},
		{"ERROR: This video is not available in your country", ErrGeoRestricted},
		{"ERROR: Sign in to confirm your age", ErrSignIn},
		{"ERROR: something else", nil},
	}
	for _, tt := range tests {
		t.Run(tt.stderr, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.stderr))
		})
	}
}

func TestDecodeInfoTakesLastJSONLine(t *testing.T) {
	info, err := decodeInfo([]byte("[info] noise\n{\"id\": \"x\", \"title\": \"X\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "x", info.ID)
}

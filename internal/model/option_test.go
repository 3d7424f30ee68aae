package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveContainer(t *testing.T) {
	webm := &StreamInfo{FormatID: "248", Ext: "webm", URL: "u"}
	m4a := &StreamInfo{FormatID: "140", Ext: "m4a", URL: "u", IsAudio: true}

	tests := []struct {
		name    string
		opt     DownloadOption
		convert bool
		want    string
	}{
		{name: "video converted", opt: DownloadOption{Video: webm, NeedsRemux: true}, convert: true, want: "mp4"},
		{name: "video native", opt: DownloadOption{Video: webm, NeedsRemux: true}, convert: false, want: "webm"},
		{name: "audio converted", opt: DownloadOption{Audio: m4a, NeedsRemux: true}, convert: true, want: "mp3"},
		{name: "audio native", opt: DownloadOption{Audio: m4a, NeedsRemux: true}, convert: false, want: "m4a"},
		{name: "merge ignores toggle", opt: DownloadOption{Video: webm, Audio: m4a, NeedsMerge: true}, convert: false, want: "mp4"},
		{name: "no streams", opt: DownloadOption{}, convert: true, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := tt.opt
			opt.SetConvertToStandard(tt.convert)
			assert.Equal(t, tt.want, opt.TargetContainer)
			assert.Equal(t, tt.want, DeriveContainer(opt))
		})
	}
}

func TestToggleRoundTrip(t *testing.T) {
	opt := DownloadOption{Video: &StreamInfo{Ext: "webm"}, NeedsRemux: true}
	opt.SetConvertToStandard(true)
	assert.Equal(t, "mp4", opt.TargetContainer)
	assert.True(t, opt.Transcodes())

	opt.SetConvertToStandard(false)
	assert.Equal(t, "webm", opt.TargetContainer)
	assert.False(t, opt.Transcodes())
}

func TestValidate(t *testing.T) {
	v := &StreamInfo{Ext: "mp4"}
	a := &StreamInfo{Ext: "m4a", IsAudio: true}

	assert.NoError(t, DownloadOption{Video: v}.Validate())
	assert.NoError(t, DownloadOption{Audio: a}.Validate())
	assert.NoError(t, DownloadOption{Video: v, Audio: a, NeedsMerge: true}.Validate())

	err := DownloadOption{Label: "empty"}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidOption))

	err = DownloadOption{Video: v, Audio: a}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestStreamUsable(t *testing.T) {
	assert.True(t, StreamInfo{FormatID: "1", Ext: "mp4", URL: "u"}.Usable())
	assert.False(t, StreamInfo{Ext: "mp4", URL: "u"}.Usable())
	assert.False(t, StreamInfo{FormatID: "1", URL: "u"}.Usable())
	assert.False(t, StreamInfo{FormatID: "1", Ext: "mp4"}.Usable())
}

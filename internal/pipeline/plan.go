package pipeline

import (
	"path/filepath"

	"vidsnatch/internal/encoder"
	"vidsnatch/internal/model"
	"vidsnatch/internal/progress"
	"vidsnatch/internal/util/media"
)

// fetchStep transfers one stream to dest.
type fetchStep struct {
	kind   string // "video" or "audio"
	stream *model.StreamInfo
	dest   string
}

// plan is the ordered work for one option.
type plan struct {
	final  string // preferred output path; publishing adds a suffix when it is taken
	fetch  []fetchStep
	encode *encoder.Request // nil when the fetched file is the result
	stage  progress.State   // StateMerging or StateConverting when encode is set
	result string           // intermediate moved to the output path on success
}

// planFor lays out the files an execution of opt touches. Everything is written to
// intermediates named after the execution ID; the output path is only claimed once
// the execution succeeds, so a failed or canceled run never touches existing files.
func (e *Executor) planFor(opt model.DownloadOption, execID string) plan {
	container := model.DeriveContainer(opt)
	p := plan{
		final: filepath.Join(e.outDir, media.OutputFilename(opt.Title, opt.Label, container)),
	}
	temp := func(kind, ext string) string {
		return filepath.Join(e.outDir, media.TempName(kind, execID, ext))
	}

	switch {
	case opt.NeedsMerge:
		v := fetchStep{kind: "video", stream: opt.Video, dest: temp("video", opt.Video.Ext)}
		a := fetchStep{kind: "audio", stream: opt.Audio, dest: temp("audio", opt.Audio.Ext)}
		p.fetch = []fetchStep{v, a}
		p.result = temp("merge", container)
		req := encoder.MergeRequest(v.dest, a.dest, p.result)
		p.encode = &req
		p.stage = progress.StateMerging

	case opt.Transcodes():
		kind, stream := singleStream(opt)
		src := fetchStep{kind: kind, stream: stream, dest: temp(kind, stream.Ext)}
		p.fetch = []fetchStep{src}
		p.result = temp("convert", container)
		var req encoder.Request
		if kind == "audio" {
			req = encoder.AudioRequest(src.dest, p.result)
		} else {
			req = encoder.VideoRequest(src.dest, p.result)
		}
		p.encode = &req
		p.stage = progress.StateConverting

	default:
		kind, stream := singleStream(opt)
		src := fetchStep{kind: kind, stream: stream, dest: temp(kind, stream.Ext)}
		p.fetch = []fetchStep{src}
		p.result = src.dest
	}
	return p
}

func singleStream(opt model.DownloadOption) (string, *model.StreamInfo) {
	if opt.IsAudioOnly() {
		return "audio", opt.Audio
	}
	return "video", opt.Video
}

// stageFraction is the fraction reported on entering a post-processing stage.
func stageFraction(s progress.State) float64 {
	if s == progress.StateMerging {
		return progress.MergingFraction
	}
	return progress.ConvertingFraction
}

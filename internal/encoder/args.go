package encoder

// Codec policies understood by BuildArgs.
const (
	CodecCopy = "copy"
	CodecAAC  = "aac"
	CodecMP3  = "libmp3lame"
)

// Request describes one transcode. An empty VideoCodec drops video from the output.
type Request struct {
	Inputs     []string
	Output     string
	VideoCodec string
	AudioCodec string
}

// MergeRequest muxes a video-only and an audio-only input, copying video and re-encoding audio to AAC.
func MergeRequest(video, audio, output string) Request {
	return Request{Inputs: []string{video, audio}, Output: output, VideoCodec: CodecCopy, AudioCodec: CodecAAC}
}

// VideoRequest converts a single video input to the canonical container, copying video.
func VideoRequest(input, output string) Request {
	return Request{Inputs: []string{input}, Output: output, VideoCodec: CodecCopy, AudioCodec: CodecAAC}
}

// AudioRequest re-encodes a single audio input to MP3.
func AudioRequest(input, output string) Request {
	return Request{Inputs: []string{input}, Output: output, AudioCodec: CodecMP3}
}

// BuildArgs constructs ffmpeg arguments for req.
func BuildArgs(req Request) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, in := range req.Inputs {
		args = append(args, "-i", in)
	}

	if len(req.Inputs) > 1 {
		// first input provides video, second provides audio
		args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	}

	if req.VideoCodec == "" {
		args = append(args, "-vn")
	} else {
		args = append(args, "-c:v", req.VideoCodec)
	}

	if req.AudioCodec != "" {
		args = append(args, "-c:a", req.AudioCodec)
		if req.AudioCodec == CodecAAC {
			args = append(args, "-strict", "experimental")
		}
	}

	return append(args, req.Output)
}

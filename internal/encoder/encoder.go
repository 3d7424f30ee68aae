// Package encoder runs ffmpeg to merge and convert downloaded streams.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"vidsnatch/internal/util"
)

// FFmpegTranscoder executes transcode requests with the ffmpeg binary.
// It exposes no granular progress.
type FFmpegTranscoder struct {
	Path    string
	Verbose bool
	Runner  util.CmdRunner
	Logger  *zap.Logger
}

// Transcode produces req.Output. On failure the partial output is removed.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, req Request) error {
	if t.Path == "" {
		return errors.New("ffmpeg path is required")
	}
	if len(req.Inputs) == 0 {
		return errors.New("at least one input is required")
	}
	if req.Output == "" {
		return errors.New("output path is required")
	}
	if err := util.EnsureDir(filepath.Dir(req.Output)); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	runner := t.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	_, runErr := runner.Run(ctx, util.CmdSpec{
		Path:    t.Path,
		Args:    BuildArgs(req),
		Verbose: t.Verbose,
	})
	if runErr != nil {
		// Delete incomplete file
		_ = util.RemoveIfExists(req.Output)
		return fmt.Errorf("ffmpeg failed: %w", runErr)
	}
	if !util.Exists(req.Output) {
		return fmt.Errorf("ffmpeg produced no output at %s", req.Output)
	}
	if t.Logger != nil {
		t.Logger.Debug("transcode done",
			zap.Strings("inputs", req.Inputs),
			zap.String("output", req.Output),
			zap.Int64("bytes", util.FileSize(req.Output)))
	}
	return nil
}

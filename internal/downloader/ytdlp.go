package downloader

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vidsnatch/internal/util"
)

// YTDLPFetcher fetches a stream by format ID through yt-dlp. When a request has
// no source page URL, the direct stream URL is handed to yt-dlp instead.
type YTDLPFetcher struct {
	Path    string
	Verbose bool
	Runner  util.CmdRunner
	Logger  *zap.Logger
}

// Fetch implements Fetcher.
func (f *YTDLPFetcher) Fetch(ctx context.Context, req FetchRequest, onProgress ProgressFunc) error {
	if f.Path == "" {
		return fmt.Errorf("downloader path is required")
	}
	if req.Dest == "" {
		return fmt.Errorf("destination path is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var abortErr error
	spec := util.CmdSpec{
		Path:    f.Path,
		Args:    buildFetchArgs(req),
		Verbose: f.Verbose,
		StdoutLine: func(line string) {
			if abortErr != nil || onProgress == nil {
				return
			}
			p, ok := ParseProgress(line)
			if !ok {
				return
			}
			if err := onProgress(p); err != nil {
				abortErr = err
				cancel()
			}
		},
	}

	runner := f.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	_, runErr := runner.Run(ctx, spec)
	if abortErr != nil {
		return fmt.Errorf("%w: %w", ErrAborted, abortErr)
	}
	if runErr != nil {
		return fmt.Errorf("yt-dlp fetch %s: %w", req.FormatID, runErr)
	}
	if err := locateOutput(req.Dest); err != nil {
		return fmt.Errorf("yt-dlp fetch %s: %w", req.FormatID, err)
	}
	if f.Logger != nil {
		f.Logger.Debug("yt-dlp fetch done", zap.String("format", req.FormatID), zap.String("dest", req.Dest))
	}
	return nil
}

func buildFetchArgs(req FetchRequest) []string {
	args := []string{
		"--no-playlist",
		"--no-part",
		"--force-overwrites",
		"--no-warnings",
		"--newline",
		"--progress-template", progressTemplate,
		// yt-dlp treats -o as an output template.
		"-o", strings.ReplaceAll(req.Dest, "%", "%%"),
	}
	target := req.URL
	if req.SourceURL != "" && req.FormatID != "" {
		args = append(args, "-f", req.FormatID)
		target = req.SourceURL
	}
	return append(args, target)
}

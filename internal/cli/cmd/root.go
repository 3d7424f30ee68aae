// Package cmd implements the vidsnatch command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vidsnatch/internal/config"
	"vidsnatch/internal/logging"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitMissingDep     = 2
	ExitDownloadError  = 3
	ExitTranscodeError = 4
	ExitCanceled       = 5
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	cfg    config.Config
	logCfg logging.Config
	log    *zap.Logger
}

func (a *app) init(root *cobra.Command) error {
	if err := config.Init(root); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	cfg, err := config.Load()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	a.cfg = cfg
	a.logCfg = logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, OutputPath: cfg.Log.Output}
	log, err := logging.New(a.logCfg)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("logging: %w", err)}
	}
	a.log = log
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "vidsnatch",
		Short: "Download online videos in the format you pick",
		Long: "vidsnatch resolves a video or playlist URL, lists every downloadable variant " +
			"(combined, merged video+audio, audio-only) ranked by quality, and downloads the one you choose, " +
			"merging or converting it to a standard container with ffmpeg when needed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Root())
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("out-dir", "o", ".", "Output directory")
	pf.BoolP("verbose", "v", false, "Debug logging and full subprocess commands")
	pf.String("dl-binary", "", "Path to yt-dlp or youtube-dl")
	pf.String("ffmpeg-binary", "", "Path to ffmpeg")
	pf.IntP("jobs", "j", 2, "Max concurrent downloads")
	pf.String("fetcher", config.FetcherHTTP, "Stream fetcher: http or ytdlp")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newOptionsCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"vidsnatch/internal/config"
	"vidsnatch/internal/downloader"
	"vidsnatch/internal/encoder"
	"vidsnatch/internal/history"
	"vidsnatch/internal/pipeline"
	"vidsnatch/internal/util"
	"vidsnatch/internal/util/deps"
)

// tools locates yt-dlp and, when needFFmpeg is set, ffmpeg.
func (a *app) tools(needFFmpeg bool) (dlPath, ffmpegPath string, err error) {
	dlPath, err = deps.FindDownloader(a.cfg.DLBinary)
	if err != nil {
		return "", "", &ExitError{Code: ExitMissingDep, Err: err}
	}
	if !needFFmpeg {
		return dlPath, "", nil
	}
	ffmpegPath, err = deps.FindFFmpeg(a.cfg.FFmpegBinary)
	if err != nil {
		return "", "", &ExitError{Code: ExitMissingDep, Err: err}
	}
	return dlPath, ffmpegPath, nil
}

func (a *app) resolver(dlPath string) *downloader.Resolver {
	return &downloader.Resolver{
		Path:    dlPath,
		Verbose: a.cfg.Verbose,
		Runner:  util.NewDefaultRunner(),
		Logger:  a.log.Named("resolver"),
	}
}

func (a *app) fetcher(dlPath string, verbose bool, log *zap.Logger) pipeline.Fetcher {
	if a.cfg.Fetcher == config.FetcherYTDLP {
		return &downloader.YTDLPFetcher{
			Path:    dlPath,
			Verbose: verbose,
			Runner:  util.NewDefaultRunner(),
			Logger:  log.Named("fetcher"),
		}
	}
	return &downloader.HTTPFetcher{}
}

// executor wires the configured backends. quiet silences everything that would write
// to the terminal, for when the dashboard owns it.
func (a *app) executor(dlPath, ffmpegPath string, quiet bool) *pipeline.Executor {
	log, verbose := a.log, a.cfg.Verbose
	if quiet {
		log, verbose = zap.NewNop(), false
	}
	opts := []pipeline.Option{
		pipeline.WithFetcher(a.fetcher(dlPath, verbose, log)),
		pipeline.WithOutputDir(a.cfg.OutDir),
		pipeline.WithProgressInterval(a.cfg.ProgressInterval),
		pipeline.WithLogger(log.Named("executor")),
	}
	if ffmpegPath != "" {
		opts = append(opts, pipeline.WithTranscoder(&encoder.FFmpegTranscoder{
			Path:    ffmpegPath,
			Verbose: verbose,
			Runner:  util.NewDefaultRunner(),
			Logger:  log.Named("ffmpeg"),
		}))
	}
	return pipeline.NewExecutor(opts...)
}

// openHistory returns a nil recorder when history is disabled.
func (a *app) openHistory() (*history.Recorder, func(), error) {
	if !a.cfg.History.Enabled {
		return nil, func() {}, nil
	}
	repo, err := history.NewSQLiteRepository(a.cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("history: %w", err)
	}
	return history.NewRecorder(repo, a.log.Named("history")), func() { _ = repo.Close() }, nil
}

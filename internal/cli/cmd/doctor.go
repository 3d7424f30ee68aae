package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vidsnatch/internal/util/deps"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp/youtube-dl, ffmpeg) and configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			dl, derr := deps.FindDownloader(a.cfg.DLBinary)
			if derr != nil {
				return &ExitError{Code: ExitMissingDep, Err: derr}
			}
			ff, ferr := deps.FindFFmpeg(a.cfg.FFmpegBinary)
			if ferr != nil {
				return &ExitError{Code: ExitMissingDep, Err: ferr}
			}
			cfgFile := viper.ConfigFileUsed()
			if cfgFile == "" {
				cfgFile = "(none)"
			}
			fmt.Fprintf(out, "Downloader: %s\n", dl)
			fmt.Fprintf(out, "FFmpeg:     %s\n", ff)
			fmt.Fprintf(out, "Config:     %s\n", cfgFile)
			fmt.Fprintf(out, "Output dir: %s\n", a.cfg.OutDir)
			fmt.Fprintf(out, "Fetcher:    %s\n", a.cfg.Fetcher)
			if a.cfg.History.Enabled {
				fmt.Fprintf(out, "History:    %s\n", a.cfg.History.Path)
			} else {
				fmt.Fprintln(out, "History:    disabled")
			}
			return nil
		},
	}
}

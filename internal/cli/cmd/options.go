package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidsnatch/internal/model"
	"vidsnatch/internal/options"
	"vidsnatch/internal/ui"
	"vidsnatch/internal/util"
)

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:           "options <url>",
		Aliases:       []string{"ls"},
		Short:         "List the download options of a video or playlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, items, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			catalogs := options.BuildAll(items)
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderOptions(catalogs))
			if !anyOptions(catalogs) {
				return &ExitError{Code: ExitDownloadError, Err: fmt.Errorf("%s: %w", url, options.ErrNoUsableStreams)}
			}
			return nil
		},
	}
}

// resolve normalizes raw and resolves it into media items.
func (a *app) resolve(ctx context.Context, raw string) (string, []model.MediaItem, error) {
	url, err := util.NormalizeURL(raw)
	if err != nil {
		return "", nil, &ExitError{Code: ExitCLIError, Err: err}
	}
	dlPath, _, err := a.tools(false)
	if err != nil {
		return "", nil, err
	}
	items, err := a.resolver(dlPath).Resolve(ctx, url)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", nil, &ExitError{Code: ExitCanceled, Err: err}
		}
		return "", nil, &ExitError{Code: ExitDownloadError, Err: err}
	}
	return url, items, nil
}

func anyOptions(catalogs []options.Catalog) bool {
	for _, c := range catalogs {
		if c.Err == nil && len(c.Options) > 0 {
			return true
		}
	}
	return false
}

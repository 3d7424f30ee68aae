package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidsnatch/internal/history"
	"vidsnatch/internal/ui"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recent downloads",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled (history.enabled=false).")
				return nil
			}
			repo, err := history.NewSQLiteRepository(a.cfg.History.Path)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			defer repo.Close()

			recs, err := repo.Recent(limit)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("read history: %w", err)}
			}
			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No downloads yet.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderHistory(recs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of records to show (0 for all)")
	return cmd
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newActivityCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show the allocation history (newest first, last 100)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := app.service.RecentActivity(cmd.Context())
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No allocations recorded.")
				return nil
			}

			for _, entry := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tdata1=%d\tdata2=%d\ttotal=%d\n",
					entry.Timestamp.Format(time.RFC3339), entry.UserName, entry.Count1, entry.Count2, entry.TotalGenerated)
			}

			return nil
		},
	}
}

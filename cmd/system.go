package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSystemCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Manage global settings",
	}

	cmd.AddCommand(
		newSystemLockCmd(app),
		newSystemUnlockCmd(app),
		newSystemStatusCmd(app),
		newSystemContributionCmd(app),
	)

	return cmd
}

func newSystemLockCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Suspend allocation for non-administrators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.SetSystemLock(cmd.Context(), app.actorID(), true); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "System locked")
			return nil
		},
	}
}

func newSystemUnlockCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Resume allocation for non-administrators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.SetSystemLock(cmd.Context(), app.actorID(), false); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "System unlocked")
			return nil
		},
	}
}

func newSystemStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show global settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := app.service.GetSettings(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "locked: %t\n", settings.Locked)
			_, _ = fmt.Fprintf(out, "contribution: %t\n", settings.AllowContribution)
			_, _ = fmt.Fprintf(out, "maintenance: %t\n", settings.Maintenance)
			return nil
		},
	}
}

func newSystemContributionCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:       "contribution <on|off>",
		Short:     "Allow or deny non-admin pool contributions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			allowed := args[0] == "on"
			if err := app.service.SetContribution(cmd.Context(), app.actorID(), allowed); err != nil {
				return err
			}

			if allowed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Contribution enabled")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Contribution disabled")
			}
			return nil
		},
	}
}

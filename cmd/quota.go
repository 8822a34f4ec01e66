package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexustools/datameq-cli/internal/application"
	"github.com/nexustools/datameq-cli/internal/domain"
)

func newQuotaCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Manage per-user allocation quotas",
	}

	cmd.AddCommand(
		newQuotaShowCmd(app),
		newQuotaSetCmd(app),
		newQuotaResetCmd(app),
	)

	return cmd
}

func newQuotaShowCmd(app *app) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's quota record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.service.GetUser(cmd.Context(), domain.UserID(userID))
			if err != nil {
				return err
			}

			quota := user.Quota
			limit := "unlimited"
			remaining := "unlimited"
			if !quota.Unlimited() {
				limit = fmt.Sprintf("%d", quota.DailyLimit)
				remaining = fmt.Sprintf("%d", quota.Remaining())
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "user: %s (%s)\n", user.ID, user.Name)
			_, _ = fmt.Fprintf(out, "daily limit: %s\n", limit)
			_, _ = fmt.Fprintf(out, "used: %d (data1: %d, data2: %d)\n", quota.Used, quota.UsedFromPool1, quota.UsedFromPool2)
			_, _ = fmt.Fprintf(out, "remaining: %s\n", remaining)
			_, _ = fmt.Fprintf(out, "max per request: %d\n", quota.MaxPerRequest)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newQuotaSetCmd(app *app) *cobra.Command {
	var userID string
	var dailyLimit, maxPerRequest int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace a user's limit configuration (administrator only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := app.service.SetQuota(cmd.Context(), application.SetQuotaCommand{
				ActorID:       app.actorID(),
				UserID:        domain.UserID(userID),
				DailyLimit:    dailyLimit,
				MaxPerRequest: maxPerRequest,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated quota for %s\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().IntVar(&dailyLimit, "daily-limit", domain.DefaultDailyLimit, "Daily line limit (-1 for unlimited)")
	cmd.Flags().IntVar(&maxPerRequest, "max-per-request", domain.DefaultMaxPerRequest, "Cap on a single allocation's total")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newQuotaResetCmd(app *app) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Zero a user's usage counters (administrator only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.ResetQuota(cmd.Context(), app.actorID(), domain.UserID(userID)); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reset usage for %s\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

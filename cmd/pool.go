package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexustools/datameq-cli/internal/adapters/render/status"
	"github.com/nexustools/datameq-cli/internal/application"
	"github.com/nexustools/datameq-cli/internal/domain"
)

func newPoolCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage the data1 and data2 line pools",
	}

	cmd.AddCommand(
		newPoolAddCmd(app),
		newPoolClearCmd(app),
		newPoolStatusCmd(app),
	)

	return cmd
}

func newPoolAddCmd(app *app) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "add <data1|data2>",
		Short: "Append lines to a pool from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := domain.ParsePoolName(args[0])
			if err != nil {
				return err
			}

			text, err := readInput(cmd, filePath)
			if err != nil {
				return err
			}

			added, err := app.service.Ingest(cmd.Context(), application.IngestCommand{
				ActorID: app.actorID(),
				Pool:    pool,
				Text:    text,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d lines to %s\n", added, pool)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Read lines from a file instead of stdin")

	return cmd
}

func newPoolClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <data1|data2>",
		Short: "Empty a pool (administrator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := domain.ParsePoolName(args[0])
			if err != nil {
				return err
			}

			if err := app.service.ClearPool(cmd.Context(), app.actorID(), pool); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", pool)
			return nil
		},
	}
}

func newPoolStatusCmd(app *app) *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pool inventory, quotas, and recent activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !watch {
				return renderStatusOnce(cmd, app)
			}

			// Watch mode reconciles the displayed snapshot against the
			// authoritative store on a fixed cadence.
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if err := renderStatusOnce(cmd, app); err != nil {
					return err
				}

				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Refresh interval in watch mode")

	return cmd
}

func renderStatusOnce(cmd *cobra.Command, app *app) error {
	report, err := app.service.Status(cmd.Context())
	if err != nil {
		return err
	}

	out, err := app.statusRenderer(report, status.RenderOptions{Now: app.now(), MaxActivity: 5})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func readInput(cmd *cobra.Command, filePath string) (string, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return string(data), nil
}

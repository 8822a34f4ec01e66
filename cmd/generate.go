package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nexustools/datameq-cli/internal/application"
	"github.com/nexustools/datameq-cli/internal/domain"
)

func newGenerateCmd(app *app) *cobra.Command {
	var count1, count2 int
	var rawInserts []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draw lines from the pools and compose the output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inserts, err := parseInserts(rawInserts)
			if err != nil {
				return err
			}

			result, err := app.service.Allocate(cmd.Context(), application.AllocateCommand{
				ActorID: app.actorID(),
				Count1:  count1,
				Count2:  count2,
				Inserts: inserts,
			})
			if err != nil {
				var inventoryErr *domain.InventoryError
				if errors.As(err, &inventoryErr) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Pool view refreshed: data1 has %d lines, data2 has %d lines\n",
						inventoryErr.Data1Lines, inventoryErr.Data2Lines)
				}
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d lines (data1: %d, data2: %d)\n",
				result.Total, result.Count1Drawn, result.Count2Drawn)
			return nil
		},
	}

	cmd.Flags().IntVar(&count1, "count1", 0, "Lines to draw from data1")
	cmd.Flags().IntVar(&count2, "count2", 0, "Lines to draw from data2")
	cmd.Flags().StringArrayVar(&rawInserts, "insert", nil, "Positional insert as POSITION:TEXT (repeatable)")

	return cmd
}

func parseInserts(raw []string) ([]domain.InsertSpec, error) {
	inserts := make([]domain.InsertSpec, 0, len(raw))
	for _, spec := range raw {
		position, text, found := strings.Cut(spec, ":")
		if !found {
			return nil, fmt.Errorf("invalid insert %q: expected POSITION:TEXT", spec)
		}

		pos, err := strconv.Atoi(strings.TrimSpace(position))
		if err != nil {
			return nil, fmt.Errorf("invalid insert position in %q: %w", spec, err)
		}

		inserts = append(inserts, domain.InsertSpec{Position: pos, Text: text})
	}

	return inserts, nil
}

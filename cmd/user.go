package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexustools/datameq-cli/internal/application"
	"github.com/nexustools/datameq-cli/internal/domain"
)

func newUserCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserListCmd(app),
		newUserAddCmd(app),
	)

	return cmd
}

func newUserListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := app.service.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			for _, user := range users {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Role, user.Status)
			}

			return nil
		},
	}
}

func newUserAddCmd(app *app) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user with default quota (administrator only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := app.service.AddUser(cmd.Context(), application.AddUserCommand{
				ActorID: app.actorID(),
				Name:    name,
				Email:   email,
				Role:    domain.Role(role),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.ID, user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "E-mail address")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role: admin, moderator, or user")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

package main

import (
	"fmt"

	"github.com/aceweb/agencyops/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard figures as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			dash, err := a.Insight.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(dash)
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var typ, status, projectID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a CSV report of transactions to the configured sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := finance.ListOptions{}
			if projectID != "" {
				opts.ProjectIDs = []string{projectID}
			}
			if typ != "" {
				t, err := finance.ParseType(typ)
				if err != nil {
					return err
				}
				opts.Type = t
			}
			if status != "" {
				s, err := finance.ParseStatus(status)
				if err != nil {
					return err
				}
				opts.Status = s
			}

			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Exporter.ExportTransactions(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return c.printJSON(report)
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&status, "status", "", "paid or pending")
	cmd.Flags().StringVar(&projectID, "project", "", "only transactions of this project")
	return cmd
}

func newAPIKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage bearer tokens for HTTP mode",
	}
	cmd.AddCommand(newAPIKeyAddCmd(c), newAPIKeyRevokeCmd(c))
	return cmd
}

func newAPIKeyAddCmd(c *cli) *cobra.Command {
	var token, description string

	cmd := &cobra.Command{
		Use:   "add ACTOR",
		Short: "Register a token for an actor and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = uuid.NewString()
			}

			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.APIKeys.Add(cmd.Context(), token, args[0], description); err != nil {
				return fmt.Errorf("adding api key: %w", err)
			}
			fmt.Fprintln(c.out, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "token to register (generated when empty)")
	cmd.Flags().StringVar(&description, "description", "", "free-form note stored with the key")
	return cmd
}

func newAPIKeyRevokeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke ACTOR",
		Short: "Remove every token of an actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.APIKeys.Revoke(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("revoking api keys: %w", err)
			}
			fmt.Fprintf(c.out, "revoked keys for %s\n", args[0])
			return nil
		},
	}
}

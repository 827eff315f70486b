// Package prune provides the prune command implementation.
package prune

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/cmd/output"
)

// NewCommand creates the prune command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "prune",
		GroupID: "core",
		Short:   "Delete customers that are no longer on the roster",
		Long: `Prune pulls every cohort from Veracross without filters and deletes
Lightspeed customers whose roster id is not among them.

Customers with a positive account balance are never deleted; they are
listed so the balance can be settled first. Customers without a roster id,
or with one that is not a number, are left alone.`,
		Example: `  rostersync prune --dry-run   # List what would be deleted
  rostersync prune -o json     # Delete and print a JSON summary`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			settings := app.Settings()
			if cmd.Flags().Changed("dry-run") {
				settings.Sync.DryRun = dryRun
			}
			if err := settings.ValidateSync(); err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			report, err := client.Prune(cmd.Context(), rostersync.PruneRequest{DryRun: settings.Sync.DryRun})
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), app.OutputFormat(), output.NewPruneSummary(report.RunID, report.Result))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report verdicts without deleting")

	return cmd
}

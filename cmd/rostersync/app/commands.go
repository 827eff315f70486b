package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/cmd/rostersync/cmd/export"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/prune"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/sync"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(sync.NewCommand(a))
	rootCmd.AddCommand(prune.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("rostersync %s\n", a.version)
			if a.flags.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

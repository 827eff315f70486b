// Package sync provides the sync command implementation.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/cmd/application"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/internal/config"
)

// Flags holds the sync command flags.
type Flags struct {
	Type          string
	Force         bool
	DeleteMissing bool
	AfterDate     string
	GradeLevel    string
	DryRun        bool
	SyncFile      string
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "cohort to sync: students, facstaff or all")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "update every matched customer even when nothing changed")
	cmd.Flags().BoolVarP(&flags.DeleteMissing, "delete-missing", "d", false, "delete customers no longer on the roster after syncing")
	cmd.Flags().StringVarP(&flags.AfterDate, "after-date", "a", "", "only sync records updated after this date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flags.GradeLevel, "grade-level", "g", "", "comma separated grade levels, or \"other\"")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "compute decisions without writing")
	cmd.Flags().StringVar(&flags.SyncFile, "sync-file", "", "JSON job file with sync_type and sync_filters")
	return flags
}

// apply overlays the sync file and then every flag the user set.
func (f *Flags) apply(cmd *cobra.Command, s *config.Sync) error {
	if f.SyncFile != "" {
		job, err := config.LoadSyncFile(f.SyncFile)
		if err != nil {
			return err
		}
		job.Apply(s)
	}

	changed := cmd.Flags().Changed
	if changed("type") {
		s.Type = f.Type
	}
	if changed("force") {
		s.Force = f.Force
	}
	if changed("delete-missing") {
		s.DeleteMissing = f.DeleteMissing
	}
	if changed("after-date") {
		s.Filters.AfterDate = f.AfterDate
	}
	if changed("grade-level") {
		s.Filters.GradeLevel = f.GradeLevel
	}
	if changed("dry-run") {
		s.DryRun = f.DryRun
	}
	return nil
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Reconcile roster cohorts into point-of-sale customers",
		Long: `Sync pulls each cohort from Veracross and makes the matching Lightspeed
customers agree with it:

• Missing customers are created
• Customers whose name, email or address drifted are updated
• Current customers are left alone (unless --force)

With --delete-missing, customers whose roster id is no longer present are
deleted afterwards, provided their account balance is zero.`,
		Example: `  rostersync sync                           # Sync every cohort
  rostersync sync -t students -g 9,10       # Sync two grades
  rostersync sync -t facstaff -a 2024-08-01 # Sync recent staff changes
  rostersync sync -d --dry-run              # Preview sync and deletions
  rostersync sync --sync-file job.json      # Read the job from a file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			settings := app.Settings()
			if err := flags.apply(cmd, &settings.Sync); err != nil {
				return err
			}
			if err := settings.ValidateSync(); err != nil {
				return err
			}
			cohorts, err := settings.Sync.Cohorts()
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			report, err := client.Sync(cmd.Context(), rostersync.SyncRequest{
				Cohorts:       cohorts,
				Filter:        settings.Sync.Filters.Filter(),
				Force:         settings.Sync.Force,
				DryRun:        settings.Sync.DryRun,
				DeleteMissing: settings.Sync.DeleteMissing,
			})
			if report != nil {
				summary := output.NewSyncSummary(report)
				if werr := output.Write(cmd.OutOrStdout(), app.OutputFormat(), summary); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}

	flags = addFlags(cmd)

	return cmd
}

// Package rostersync keeps point-of-sale customer accounts consistent with a
// school roster and exports on-account activity for accounting.
//
// A Client ties a roster.Source to a point-of-sale Target and runs the three
// batch operations:
//
//	client, err := rostersync.New(source, target,
//	    rostersync.WithCustomFields("VeracrossID", "LastSync"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Reconcile students, then remove orphaned customers
//	report, err := client.Sync(ctx, rostersync.SyncRequest{
//	    Cohorts:       []roster.Cohort{roster.Students},
//	    DeleteMissing: true,
//	})
//
//	// Export January's on-account sales and balances
//	export, err := client.Export(ctx, rostersync.ExportRequest{...})
package rostersync

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/ledger"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/pruner"
	"github.com/agentstation/rostersync/pkg/reconciler"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Target is every point-of-sale capability the operations need.
type Target interface {
	reconciler.Target
	pruner.Target
	ledger.Target
}

// Client runs sync, prune and export against one source and target.
type Client interface {
	// Sync reconciles each requested cohort in order and optionally prunes.
	Sync(ctx context.Context, req SyncRequest) (*SyncReport, error)

	// Prune deletes point-of-sale customers that left the roster.
	Prune(ctx context.Context, req PruneRequest) (*PruneReport, error)

	// Export writes the ledger line and balance files.
	Export(ctx context.Context, req ExportRequest) (*ExportReport, error)
}

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

type client struct {
	source  roster.Source
	target  Target
	options *options
}

// New creates a Client. source may be nil for a client that only exports;
// Sync and Prune then fail with a ConfigError.
func New(source roster.Source, target Target, opts ...Option) (Client, error) {
	if target == nil {
		return nil, errors.NewConfigError("rostersync", "point-of-sale target is required", nil)
	}
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &client{source: source, target: target, options: o}, nil
}

func newRunID() string {
	return uuid.NewString()
}

func (c *client) requireSource(operation string) error {
	if c.source == nil {
		return errors.NewConfigError(operation, "roster source is not configured", nil)
	}
	return nil
}

func (c *client) start(ctx context.Context) (context.Context, string) {
	if id := logging.RunID(ctx); id != "" {
		return ctx, id
	}
	id := c.options.newRunID()
	return logging.WithRunID(ctx, id), id
}

// SyncRequest selects what one sync run does.
type SyncRequest struct {
	Cohorts       []roster.Cohort
	Filter        roster.Filter
	Force         bool
	DryRun        bool
	DeleteMissing bool
}

// SyncReport holds the per-cohort results and the optional prune.
type SyncReport struct {
	RunID   string
	Results []*reconciler.Result
	Prune   *pruner.Result
}

// Failed counts failed records across all cohorts and the prune.
func (r *SyncReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		n += res.Metadata.Stats.Failed
	}
	if r.Prune != nil {
		n += r.Prune.Failed
	}
	return n
}

// Sync reconciles each cohort. A fatal error for one cohort stops the run and
// returns the results gathered so far.
func (c *client) Sync(ctx context.Context, req SyncRequest) (*SyncReport, error) {
	if err := c.requireSource("sync"); err != nil {
		return nil, err
	}
	ctx, runID := c.start(ctx)

	cohorts := req.Cohorts
	if len(cohorts) == 0 {
		cohorts = roster.Cohorts()
	}

	rec, err := reconciler.New(c.source, c.target,
		reconciler.WithCustomFields(c.options.externalIDField, c.options.lastSyncField),
		reconciler.WithCreditLimit(c.options.creditLimit),
		reconciler.WithClock(c.options.now),
		reconciler.WithForce(req.Force),
		reconciler.WithDryRun(req.DryRun),
	)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{RunID: runID}
	for _, cohort := range cohorts {
		result, err := rec.Sync(ctx, cohort, req.Filter)
		if result != nil {
			report.Results = append(report.Results, result)
		}
		if err != nil {
			return report, err
		}
	}

	if !req.DeleteMissing {
		return report, nil
	}

	pruned, err := c.Prune(ctx, PruneRequest{DryRun: req.DryRun})
	if pruned != nil {
		report.Prune = pruned.Result
	}
	return report, err
}

// PruneRequest configures one prune.
type PruneRequest struct {
	DryRun bool
}

// PruneReport wraps the prune result with the run id.
type PruneReport struct {
	RunID      string
	ValidCount int
	*pruner.Result
}

// Prune collects the valid ids from unfiltered pulls of every cohort and
// deletes eligible customers.
func (c *client) Prune(ctx context.Context, req PruneRequest) (*PruneReport, error) {
	if err := c.requireSource("prune"); err != nil {
		return nil, err
	}
	ctx, runID := c.start(ctx)

	fieldID, err := c.externalIDFieldID(ctx)
	if err != nil {
		return nil, err
	}

	valid, err := pruner.CollectValidIDs(ctx, c.source)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Int("valid_ids", len(valid)).Msg("Collected roster ids")

	result, err := pruner.New(c.target,
		pruner.WithExternalIDField(fieldID),
		pruner.WithDryRun(req.DryRun),
	).Prune(ctx, valid)
	if err != nil {
		return nil, err
	}
	return &PruneReport{RunID: runID, ValidCount: len(valid), Result: result}, nil
}

func (c *client) externalIDFieldID(ctx context.Context) (string, error) {
	if c.options.externalIDField == "" {
		return "", errors.NewConfigError("prune", "external id field name is not configured", nil)
	}
	fields, err := c.target.CustomFields(ctx)
	if err != nil {
		return "", errors.NewConfigError("prune", "cannot list custom fields", err)
	}
	id, ok := pos.CustomFieldID(fields, c.options.externalIDField)
	if !ok {
		return "", errors.NewConfigError("prune", "custom field "+c.options.externalIDField+" not found", nil)
	}
	return id, nil
}

// ExportRequest configures one export.
type ExportRequest struct {
	Config    ledger.Config
	Format    ledger.Format
	OutputDir string
}

// ExportReport holds the rows and the files they were written to.
type ExportReport struct {
	RunID  string
	Result *ledger.Result
	Files  ledger.Files
}

// Export builds the ledger and writes both files.
func (c *client) Export(ctx context.Context, req ExportRequest) (*ExportReport, error) {
	ctx, runID := c.start(ctx)

	cfg := req.Config
	if cfg.ExternalIDField == "" {
		cfg.ExternalIDField = c.options.externalIDField
	}

	result, err := ledger.New(c.target).Export(ctx, cfg)
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = ledger.FormatCSV
	}
	dir := req.OutputDir
	if dir == "" {
		dir = constants.DefaultOutputDir
	}
	files, err := result.WriteFiles(ledger.NewWriter(format), dir, c.options.now().Time)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("lines_file", files.Lines).
		Str("balances_file", files.Balances).
		Msg("Wrote ledger files")
	return &ExportReport{RunID: runID, Result: result, Files: files}, nil
}

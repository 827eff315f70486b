// Package reconciler keeps point-of-sale customers in step with one roster
// cohort. For every roster person it fetches the household, looks up the
// customer by external id, and decides whether to create, update, or skip.
//
// A run is not transactional. Each record succeeds or fails on its own and a
// failed record never stops the batch; only configuration problems abort.
package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/rostersync/pkg/differ"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/mapper"
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Target is the point-of-sale capability surface the reconciler needs.
type Target interface {
	CustomerTypes(ctx context.Context) ([]pos.CustomerType, error)
	CustomFields(ctx context.Context) ([]pos.CustomField, error)

	// FindCustomerByExternalID returns a NotFoundError when no customer matches.
	FindCustomerByExternalID(ctx context.Context, externalID string) (*pos.Customer, error)
	CreateCustomer(ctx context.Context, customer *pos.Customer) (*pos.Customer, error)
	UpdateCustomer(ctx context.Context, customer *pos.Customer) (*pos.Customer, error)
}

// Reconciler syncs roster cohorts into the point of sale.
type Reconciler interface {
	// Sync reconciles one cohort. The error is non-nil only for fatal problems;
	// per-record failures are reported in the Result.
	Sync(ctx context.Context, cohort roster.Cohort, filter roster.Filter) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	source  roster.Source
	target  Target
	options *options
}

// New creates a new Reconciler with options.
func New(source roster.Source, target Target, opts ...Option) (Reconciler, error) {
	if source == nil {
		return nil, &errors.ValidationError{Field: "source", Message: "cannot be nil"}
	}
	if target == nil {
		return nil, &errors.ValidationError{Field: "target", Message: "cannot be nil"}
	}
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{source: source, target: target, options: options}, nil
}

// syncContext holds what is resolved once per run.
type syncContext struct {
	mapper *mapper.Mapper
	differ differ.Differ
	result *Result
}

// Sync implements Reconciler.
func (r *reconciler) Sync(ctx context.Context, cohort roster.Cohort, filter roster.Filter) (*Result, error) {
	ctx = logging.WithCohort(ctx, cohort.String())
	logger := logging.FromContext(ctx)

	// Step 1: Resolve ids that every payload needs
	sctx, err := r.prepare(ctx, cohort)
	if err != nil {
		return nil, err
	}

	// Step 2: Pull the cohort
	params := cohort.Params(filter)
	logger.Info().
		Str("params", params.Encode()).
		Msg("Pulling roster cohort")
	people, err := roster.Pull(ctx, r.source, cohort, filter)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("count", len(people)).
		Msg("Pulled roster cohort")

	// Step 3: Reconcile each record in source order
	for i := range people {
		if err := ctx.Err(); err != nil {
			sctx.result.Finalize()
			return sctx.result, errors.Join(errors.ErrCanceled, err)
		}
		person := &people[i]
		sctx.result.ValidIDs[person.ID] = struct{}{}
		sctx.result.record(r.reconcile(logging.WithPerson(ctx, person.ID), sctx, person))
	}

	sctx.result.Finalize()
	logger.Info().
		Int("created", sctx.result.Metadata.Stats.Created).
		Int("updated", sctx.result.Metadata.Stats.Updated).
		Int("skipped", sctx.result.Metadata.Stats.Skipped).
		Int("failed", sctx.result.Metadata.Stats.Failed).
		Dur("duration", sctx.result.Metadata.Duration).
		Msg("Sync finished")
	return sctx.result, nil
}

// prepare validates configuration and resolves classification and custom
// field ids. Every error it returns is fatal.
func (r *reconciler) prepare(ctx context.Context, cohort roster.Cohort) (*syncContext, error) {
	if !cohort.Valid() {
		return nil, errors.NewConfigError("sync", fmt.Sprintf("unknown cohort %q", cohort), nil)
	}
	if r.options.externalIDField == "" || r.options.lastSyncField == "" {
		return nil, errors.NewConfigError("import_options", "external id and last sync field names are required", nil)
	}

	types, err := r.target.CustomerTypes(ctx)
	if err != nil {
		return nil, errors.NewConfigError("customer_type", "cannot list customer types", err)
	}
	typeID, ok := pos.CustomerTypeID(types, cohort.CustomerTypeName())
	if !ok {
		return nil, errors.NewConfigError("customer_type", fmt.Sprintf("customer type %q not found", cohort.CustomerTypeName()), nil)
	}

	fields, err := r.target.CustomFields(ctx)
	if err != nil {
		return nil, errors.NewConfigError("import_options", "cannot list customer custom fields", err)
	}
	externalID, ok := pos.CustomFieldID(fields, r.options.externalIDField)
	if !ok {
		return nil, errors.NewConfigError("import_options", fmt.Sprintf("custom field %q not found", r.options.externalIDField), nil)
	}
	lastSync, ok := pos.CustomFieldID(fields, r.options.lastSyncField)
	if !ok {
		return nil, errors.NewConfigError("import_options", fmt.Sprintf("custom field %q not found", r.options.lastSyncField), nil)
	}

	m, err := mapper.New(mapper.Config{
		CustomerTypeID:    typeID,
		ExternalIDFieldID: externalID,
		LastSyncFieldID:   lastSync,
		CreditLimit:       r.options.creditLimit,
		Now:               r.options.now,
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Str("customer_type_id", typeID).
		Str("external_id_field", externalID).
		Str("last_sync_field", lastSync).
		Msg("Resolved point-of-sale ids")

	result := NewResult(cohort)
	result.Metadata.DryRun = r.options.dryRun
	result.Metadata.Force = r.options.force

	return &syncContext{
		mapper: m,
		differ: differ.New(differ.WithForce(r.options.force), differ.WithExternalIDField(externalID)),
		result: result,
	}, nil
}

// reconcile runs the per-record pipeline: household, lookup, map, write.
func (r *reconciler) reconcile(ctx context.Context, sctx *syncContext, person *roster.Person) Outcome {
	logger := logging.FromContext(ctx)
	outcome := Outcome{
		PersonID: person.ID,
		Name:     fullName(person.FirstName(), person.LastName),
	}
	fail := func(stage Stage, err error) Outcome {
		outcome.Stage = stage
		outcome.Err = err
		logger.Error().
			Err(err).
			Str("name", outcome.Name).
			Str("stage", string(stage)).
			Msg("Skipping roster record")
		return outcome
	}

	household, err := r.source.Household(ctx, person.HouseholdID)
	if err != nil {
		return fail(StageHousehold, errors.WrapResource("fetch", "household", fmt.Sprint(person.HouseholdID), err))
	}

	existing, err := r.target.FindCustomerByExternalID(ctx, person.ExternalID())
	if err != nil && !errors.IsNotFound(err) {
		return fail(StageLookup, err)
	}

	payload, err := sctx.mapper.Map(person, household)
	if err != nil {
		return fail(StageMap, err)
	}

	if existing == nil {
		outcome.Decision = Create
		if err := r.create(ctx, &outcome, payload); err != nil {
			return fail(StageCreate, err)
		}
		return outcome
	}

	outcome.CustomerID = existing.CustomerID
	cmp := sctx.differ.Compare(existing, person, household)
	if cmp.MissingAddress {
		logger.Warn().
			Str("customer_id", existing.CustomerID).
			Msg("Stored customer has no address block, comparing as empty")
	}
	if !cmp.NeedsUpdate {
		outcome.Decision = Skip
		event := logger.Debug().Str("name", outcome.Name)
		if !person.UpdatedAt.IsZero() {
			event = event.Time("roster_updated_at", person.UpdatedAt.Time)
		}
		event.Msg("Record already up to date")
		return outcome
	}
	outcome.Decision = Update
	outcome.Changes = cmp.Changes

	// The payload must carry the stored id so the right record is targeted.
	payload.CustomerID = existing.CustomerID
	if r.options.dryRun {
		logger.Info().Str("name", outcome.Name).Str("diff", cmp.String()).Msg("Would update customer")
		return outcome
	}
	if _, err := r.target.UpdateCustomer(logging.WithCustomer(ctx, existing.CustomerID), payload); err != nil {
		return fail(StageUpdate, errors.WrapResource("update", "customer", existing.CustomerID, err))
	}
	outcome.Applied = true
	logger.Info().
		Str("name", outcome.Name).
		Str("customer_id", existing.CustomerID).
		Str("diff", cmp.String()).
		Msg("Updated customer")
	return outcome
}

func (r *reconciler) create(ctx context.Context, outcome *Outcome, payload *pos.Customer) error {
	logger := logging.FromContext(ctx)
	if r.options.dryRun {
		logger.Info().Str("name", outcome.Name).Msg("Would create customer")
		return nil
	}

	created, err := r.target.CreateCustomer(ctx, payload)
	if err != nil {
		return errors.WrapResource("create", "customer", "", err)
	}
	outcome.Applied = true
	outcome.CustomerID = created.CustomerID
	logger.Info().
		Str("name", outcome.Name).
		Str("customer_id", created.CustomerID).
		Msg("Created customer")
	return nil
}

func fullName(first, last string) string {
	if first == "" {
		return last
	}
	return first + " " + last
}

// Package pruner removes point-of-sale customers whose roster person no
// longer exists in any cohort. Only customers with no outstanding balance are
// ever deleted.
package pruner

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Target is the point-of-sale capability surface the pruner needs.
type Target interface {
	Customers(ctx context.Context) ([]pos.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}

// Verdict classifies one customer.
type Verdict int

const (
	// Keep means the external id is still on the roster.
	Keep Verdict = iota
	// Unlinked means the customer carries no external id and is not managed.
	Unlinked
	// Invalid means the external id is not an integer.
	Invalid
	// BlockedByBalance means the customer is orphaned but owes money.
	BlockedByBalance
	// Delete means the customer is orphaned with a zero or negative balance.
	Delete
)

// String returns the string representation of a verdict.
func (v Verdict) String() string {
	switch v {
	case Unlinked:
		return "unlinked"
	case Invalid:
		return "invalid"
	case BlockedByBalance:
		return "blocked_by_balance"
	case Delete:
		return "delete"
	default:
		return "keep"
	}
}

// ValidIDs is the set of roster ids across all cohorts.
type ValidIDs map[int64]struct{}

// Add inserts ids into the set.
func (v ValidIDs) Add(ids ...int64) {
	for _, id := range ids {
		v[id] = struct{}{}
	}
}

// Contains reports whether id is in the set.
func (v ValidIDs) Contains(id int64) bool {
	_, ok := v[id]
	return ok
}

// CollectValidIDs pulls every cohort without filters. A filtered sync must
// never shrink the set, so this always reads the whole roster.
func CollectValidIDs(ctx context.Context, src roster.Source) (ValidIDs, error) {
	valid := ValidIDs{}
	for _, cohort := range roster.Cohorts() {
		people, err := roster.Pull(ctx, src, cohort, roster.Filter{})
		if err != nil {
			return nil, err
		}
		for _, p := range people {
			valid.Add(p.ID)
		}
		logging.FromContext(ctx).Debug().
			Str("cohort", cohort.String()).
			Int("count", len(people)).
			Msg("Collected valid roster ids")
	}
	return valid, nil
}

// Evaluate decides what to do with one customer. It has no side effects.
func Evaluate(customer *pos.Customer, externalIDField string, valid ValidIDs) Verdict {
	externalID := customer.ExternalID(externalIDField)
	if externalID == "" {
		return Unlinked
	}
	id, err := strconv.ParseInt(externalID, 10, 64)
	if err != nil {
		return Invalid
	}
	if valid.Contains(id) {
		return Keep
	}
	if customer.Balance().GreaterThan(decimal.Zero) {
		return BlockedByBalance
	}
	return Delete
}

// Outcome is the result for one customer.
type Outcome struct {
	CustomerID string
	ExternalID string
	Name       string
	Balance    decimal.Decimal
	Verdict    Verdict
	Applied    bool
	Err        error
}

// Result summarizes a prune run.
type Result struct {
	Outcomes []Outcome
	DryRun   bool
	Stats    map[Verdict]int
	Failed   int
}

// Deleted returns the outcomes whose deletion succeeded.
func (r *Result) Deleted() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Verdict == Delete && o.Applied {
			out = append(out, o)
		}
	}
	return out
}

// Blocked returns the orphaned customers left alone because of a balance.
func (r *Result) Blocked() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Verdict == BlockedByBalance {
			out = append(out, o)
		}
	}
	return out
}

// Pruner deletes orphaned customers.
type Pruner struct {
	target          Target
	externalIDField string
	dryRun          bool
}

// Option configures a Pruner.
type Option func(*Pruner)

// WithExternalIDField sets the custom field id that holds the roster id.
func WithExternalIDField(fieldID string) Option {
	return func(p *Pruner) {
		p.externalIDField = fieldID
	}
}

// WithDryRun reports verdicts without deleting.
func WithDryRun(dryRun bool) Option {
	return func(p *Pruner) {
		p.dryRun = dryRun
	}
}

// New creates a Pruner.
func New(target Target, opts ...Option) *Pruner {
	p := &Pruner{target: target}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prune lists every customer and deletes the eligible ones. A failed delete
// is recorded and evaluation continues with the next customer.
func (p *Pruner) Prune(ctx context.Context, valid ValidIDs) (*Result, error) {
	ctx = logging.WithOperation(ctx, "prune")
	logger := logging.FromContext(ctx)

	if len(valid) == 0 {
		return nil, &errors.ValidationError{
			Field:   "valid_ids",
			Message: "refusing to prune against an empty roster",
		}
	}

	customers, err := p.target.Customers(ctx)
	if err != nil {
		return nil, errors.WrapResource("fetch", "customers", "", err)
	}

	result := &Result{DryRun: p.dryRun, Stats: make(map[Verdict]int)}
	for i := range customers {
		c := &customers[i]
		o := Outcome{
			CustomerID: c.CustomerID,
			ExternalID: c.ExternalID(p.externalIDField),
			Name:       c.FirstName + " " + c.LastName,
			Balance:    c.Balance(),
			Verdict:    Evaluate(c, p.externalIDField, valid),
		}

		clog := logging.FromContext(logging.WithCustomer(ctx, c.CustomerID))
		switch o.Verdict {
		case BlockedByBalance:
			clog.Warn().
				Str("name", o.Name).
				Str("external_id", o.ExternalID).
				Str("balance", o.Balance.StringFixed(2)).
				Msg("Cannot delete customer with a balance")
		case Invalid:
			clog.Warn().
				Str("external_id", o.ExternalID).
				Msg("Customer external id is not numeric, leaving it alone")
		case Delete:
			if p.dryRun {
				clog.Info().Str("name", o.Name).Msg("Would delete customer")
				break
			}
			if err := p.target.DeleteCustomer(ctx, c.CustomerID); err != nil {
				o.Err = errors.WrapResource("delete", "customer", c.CustomerID, err)
				result.Failed++
				clog.Error().Err(o.Err).Str("name", o.Name).Msg("Failed to delete customer")
				break
			}
			o.Applied = true
			clog.Info().Str("name", o.Name).Str("external_id", o.ExternalID).Msg("Deleted customer")
		}

		result.Stats[o.Verdict]++
		result.Outcomes = append(result.Outcomes, o)
	}

	logger.Info().
		Int("evaluated", len(result.Outcomes)).
		Int("deleted", len(result.Deleted())).
		Int("blocked", result.Stats[BlockedByBalance]).
		Int("failed", result.Failed).
		Msg("Prune finished")
	return result, nil
}

package reconciler

import (
	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/errors"
)

// Options configures a reconciler.
type options struct {
	externalIDField string
	lastSyncField   string
	creditLimit     decimal.Decimal
	force           bool
	dryRun          bool
	now             func() utc.Time
}

func defaultOptions() *options {
	return &options{
		creditLimit: decimal.Zero,
		now:         utc.Now,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithCustomFields sets the names of the custom fields holding the roster id
// and the last sync time. Both are required before Sync runs.
func WithCustomFields(externalID, lastSync string) Option {
	return func(o *options) error {
		o.externalIDField = externalID
		o.lastSyncField = lastSync
		return nil
	}
}

// WithCreditLimit sets the default credit limit applied to every customer.
func WithCreditLimit(limit decimal.Decimal) Option {
	return func(o *options) error {
		if limit.IsNegative() {
			return &errors.ValidationError{
				Field:   "credit_limit",
				Value:   limit.String(),
				Message: "cannot be negative",
			}
		}
		o.creditLimit = limit
		return nil
	}
}

// WithForce updates every matched customer even when nothing changed.
func WithForce(force bool) Option {
	return func(o *options) error {
		o.force = force
		return nil
	}
}

// WithDryRun computes decisions without writing to the point of sale.
func WithDryRun(dryRun bool) Option {
	return func(o *options) error {
		o.dryRun = dryRun
		return nil
	}
}

// WithClock sets the clock used for last sync timestamps.
func WithClock(now func() utc.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.now = now
		return nil
	}
}

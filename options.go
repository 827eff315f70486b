package rostersync

import (
	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"

	"github.com/agentstation/rostersync/pkg/errors"
)

// Option is a function that configures a rostersync Client.
type Option func(*options) error

type options struct {
	externalIDField string
	lastSyncField   string
	creditLimit     decimal.Decimal
	now             func() utc.Time
	newRunID        func() string
}

func defaultOptions() *options {
	return &options{
		creditLimit: decimal.Zero,
		now:         utc.Now,
		newRunID:    newRunID,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCustomFields names the point-of-sale custom fields holding the roster
// id and the last sync time.
func WithCustomFields(externalID, lastSync string) Option {
	return func(o *options) error {
		o.externalIDField = externalID
		o.lastSyncField = lastSync
		return nil
	}
}

// WithCreditLimit sets the credit limit applied to synced customers.
func WithCreditLimit(limit decimal.Decimal) Option {
	return func(o *options) error {
		if limit.IsNegative() {
			return errors.NewValidationError("credit_limit", limit.String(), "cannot be negative")
		}
		o.creditLimit = limit
		return nil
	}
}

// WithClock sets the clock used for last sync stamps and export filenames.
func WithClock(now func() utc.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "cannot be nil")
		}
		o.now = now
		return nil
	}
}

// WithRunIDs sets the run id generator.
func WithRunIDs(fn func() string) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.NewValidationError("run_id", nil, "generator cannot be nil")
		}
		o.newRunID = fn
		return nil
	}
}

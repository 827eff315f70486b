// Package differ decides whether a stored point-of-sale customer is stale
// relative to its roster person by comparing flat projections of both sides.
package differ

import (
	"fmt"
	"strings"

	"github.com/agentstation/rostersync/pkg/pos"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Differ handles change detection between a customer and its source person.
type Differ interface {
	// Compare projects both sides and reports whether the customer needs an update.
	Compare(target *pos.Customer, person *roster.Person, household *roster.Household) *Comparison
}

// differ is the default implementation of Differ.
type differ struct {
	force           bool
	externalIDField string
}

// New creates a Differ.
func New(opts ...Option) Differ {
	d := &differ{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FieldChange describes one compared field that differs.
type FieldChange struct {
	Field  string
	Source string
	Target string
}

// String returns a compact representation of the change.
func (c FieldChange) String() string {
	return fmt.Sprintf("%s: %q -> %q", c.Field, c.Target, c.Source)
}

// Comparison is the outcome of one compare.
type Comparison struct {
	Source  Projection
	Target  Projection
	Changes []FieldChange

	// Forced is set when the update is required only by the force option.
	Forced bool

	// MissingAddress is set when the stored customer has no address block.
	MissingAddress bool

	// NeedsUpdate is true when any field differs or force is set.
	NeedsUpdate bool
}

// HasChanges reports whether any compared field differs.
func (c *Comparison) HasChanges() bool {
	return len(c.Changes) > 0
}

// String summarizes the changed fields.
func (c *Comparison) String() string {
	if !c.HasChanges() {
		if c.Forced {
			return "no changes (forced)"
		}
		return "no changes"
	}
	parts := make([]string, 0, len(c.Changes))
	for _, change := range c.Changes {
		parts = append(parts, change.Field)
	}
	return "changed: " + strings.Join(parts, ", ")
}

// Compare implements Differ.
func (d *differ) Compare(target *pos.Customer, person *roster.Person, household *roster.Household) *Comparison {
	source := SourceProjection(person, household)
	stored := TargetProjection(target, d.externalIDField)

	cmp := &Comparison{
		Source:         source,
		Target:         stored,
		Changes:        Changes(source, stored),
		MissingAddress: target.PrimaryAddress() == nil,
	}
	cmp.NeedsUpdate = cmp.HasChanges() || d.force
	cmp.Forced = d.force && !cmp.HasChanges()
	return cmp
}

// Changes lists the fields where source and target differ, in projection order.
// A nil result means the projections are equal.
func Changes(source, target Projection) []FieldChange {
	var changes []FieldChange
	sf, tf := source.fields(), target.fields()
	for i := range sf {
		if sf[i].value != tf[i].value {
			changes = append(changes, FieldChange{Field: sf[i].name, Source: sf[i].value, Target: tf[i].value})
		}
	}
	return changes
}

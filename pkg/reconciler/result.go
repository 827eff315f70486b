package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/rostersync/pkg/differ"
	"github.com/agentstation/rostersync/pkg/roster"
)

// Decision is the operation chosen for one roster record.
type Decision int

const (
	// Skip means the stored customer is already current.
	Skip Decision = iota
	// Create means no customer carries the roster id yet.
	Create
	// Update means the stored customer is stale or force is set.
	Update
)

// String returns the string representation of a decision.
func (d Decision) String() string {
	switch d {
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return "skip"
	}
}

// Stage names the step of the per-record pipeline an error came from.
type Stage string

// Pipeline stages.
const (
	StageHousehold Stage = "household"
	StageLookup    Stage = "lookup"
	StageMap       Stage = "map"
	StageCreate    Stage = "create"
	StageUpdate    Stage = "update"
)

// Outcome is the result for one roster record.
type Outcome struct {
	PersonID   int64
	Name       string
	Decision   Decision
	CustomerID string
	Changes    []differ.FieldChange
	Applied    bool
	Stage      Stage
	Err        error
}

// Failed reports whether the record was skipped because of an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Result represents the outcome of a sync run for one cohort.
type Result struct {
	Cohort   roster.Cohort
	Outcomes []Outcome

	// ValidIDs holds every roster id pulled in this run.
	ValidIDs map[int64]struct{}

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the sync run.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	DryRun    bool
	Force     bool
	Stats     ResultStatistics
}

// ResultStatistics counts outcomes by kind.
type ResultStatistics struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	Failed    int
}

// NewResult creates a new result with defaults.
func NewResult(cohort roster.Cohort) *Result {
	return &Result{
		Cohort:   cohort,
		Outcomes: []Outcome{},
		ValidIDs: make(map[int64]struct{}),
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// record appends an outcome and updates the counters.
func (r *Result) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Metadata.Stats.Processed++
	switch {
	case o.Failed():
		r.Metadata.Stats.Failed++
	case o.Decision == Create:
		r.Metadata.Stats.Created++
	case o.Decision == Update:
		r.Metadata.Stats.Updated++
	default:
		r.Metadata.Stats.Skipped++
	}
}

// IsSuccess returns true if no record failed.
func (r *Result) IsSuccess() bool {
	return r.Metadata.Stats.Failed == 0
}

// Writes returns the number of create and update decisions.
func (r *Result) Writes() int {
	return r.Metadata.Stats.Created + r.Metadata.Stats.Updated
}

// Failures returns the failed outcomes.
func (r *Result) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	prefix := "Sync completed"
	if r.Metadata.DryRun {
		prefix = "Dry run completed"
	}
	return fmt.Sprintf("%s for %s: %d processed, %d created, %d updated, %d skipped, %d failed",
		prefix, r.Cohort, s.Processed, s.Created, s.Updated, s.Skipped, s.Failed)
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

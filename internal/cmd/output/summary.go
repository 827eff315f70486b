package output

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/pkg/pruner"
	"github.com/agentstation/rostersync/pkg/roster"
)

var titleCaser = cases.Title(language.English)

// CohortTitle renders a cohort for humans ("Students", "Faculty Staff").
func CohortTitle(c roster.Cohort) string {
	name := c.String()
	if c == roster.FacultyStaff {
		name = "faculty staff"
	}
	return titleCaser.String(name)
}

// SyncSummary is the printable summary of a sync.
type SyncSummary struct {
	RunID    string          `json:"run_id" yaml:"run_id"`
	DryRun   bool            `json:"dry_run" yaml:"dry_run"`
	Cohorts  []CohortSummary `json:"cohorts" yaml:"cohorts"`
	Failures []Failure       `json:"failures,omitempty" yaml:"failures,omitempty"`
	Prune    *PruneSummary   `json:"prune,omitempty" yaml:"prune,omitempty"`
}

// CohortSummary counts the outcomes of one cohort.
type CohortSummary struct {
	Cohort    string `json:"cohort" yaml:"cohort"`
	Processed int    `json:"processed" yaml:"processed"`
	Created   int    `json:"created" yaml:"created"`
	Updated   int    `json:"updated" yaml:"updated"`
	Skipped   int    `json:"skipped" yaml:"skipped"`
	Failed    int    `json:"failed" yaml:"failed"`
	Duration  string `json:"duration" yaml:"duration"`
}

// Failure is one record that could not be processed.
type Failure struct {
	Cohort string `json:"cohort,omitempty" yaml:"cohort,omitempty"`
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Stage  string `json:"stage" yaml:"stage"`
	Error  string `json:"error" yaml:"error"`
}

// NewSyncSummary builds the summary of a sync report.
func NewSyncSummary(report *rostersync.SyncReport) SyncSummary {
	s := SyncSummary{RunID: report.RunID, Cohorts: []CohortSummary{}}
	for _, res := range report.Results {
		stats := res.Metadata.Stats
		s.DryRun = s.DryRun || res.Metadata.DryRun
		s.Cohorts = append(s.Cohorts, CohortSummary{
			Cohort:    CohortTitle(res.Cohort),
			Processed: stats.Processed,
			Created:   stats.Created,
			Updated:   stats.Updated,
			Skipped:   stats.Skipped,
			Failed:    stats.Failed,
			Duration:  res.Metadata.Duration.Round(time.Millisecond).String(),
		})
		for _, o := range res.Failures() {
			s.Failures = append(s.Failures, Failure{
				Cohort: CohortTitle(res.Cohort),
				ID:     strconv.FormatInt(o.PersonID, 10),
				Name:   o.Name,
				Stage:  string(o.Stage),
				Error:  o.Err.Error(),
			})
		}
	}
	if report.Prune != nil {
		p := NewPruneSummary(report.RunID, report.Prune)
		s.Prune = &p
	}
	return s
}

// Tables implements Tabular.
func (s SyncSummary) Tables() []Data {
	counts := Data{
		Headers:      []string{"Cohort", "Processed", "Created", "Updated", "Skipped", "Failed", "Duration"},
		RightAligned: []int{1, 2, 3, 4, 5, 6},
	}
	if s.DryRun {
		counts.Title = "Dry run: no changes were written"
	}
	for _, c := range s.Cohorts {
		counts.Rows = append(counts.Rows, []string{
			c.Cohort,
			strconv.Itoa(c.Processed),
			strconv.Itoa(c.Created),
			strconv.Itoa(c.Updated),
			strconv.Itoa(c.Skipped),
			strconv.Itoa(c.Failed),
			c.Duration,
		})
	}

	tables := []Data{counts}
	if len(s.Failures) > 0 {
		tables = append(tables, failureTable(s.Failures))
	}
	if s.Prune != nil {
		tables = append(tables, s.Prune.Tables()...)
	}
	return tables
}

func failureTable(failures []Failure) Data {
	d := Data{
		Title:   "Failures",
		Headers: []string{"Cohort", "ID", "Name", "Stage", "Error"},
	}
	for _, f := range failures {
		d.Rows = append(d.Rows, []string{f.Cohort, f.ID, f.Name, f.Stage, f.Error})
	}
	return d
}

// PruneSummary is the printable summary of a prune.
type PruneSummary struct {
	RunID    string         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	DryRun   bool           `json:"dry_run" yaml:"dry_run"`
	Verdicts map[string]int `json:"verdicts" yaml:"verdicts"`
	Deleted  []PrunedRecord `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Blocked  []PrunedRecord `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	Failed   int            `json:"failed" yaml:"failed"`
}

// PrunedRecord is one customer named in a prune summary.
type PrunedRecord struct {
	CustomerID string `json:"customer_id" yaml:"customer_id"`
	ExternalID string `json:"external_id" yaml:"external_id"`
	Name       string `json:"name" yaml:"name"`
	Balance    string `json:"balance" yaml:"balance"`
}

// NewPruneSummary builds the summary of a prune result.
func NewPruneSummary(runID string, result *pruner.Result) PruneSummary {
	s := PruneSummary{
		RunID:    runID,
		DryRun:   result.DryRun,
		Verdicts: make(map[string]int, len(result.Stats)),
		Failed:   result.Failed,
	}
	for verdict, n := range result.Stats {
		s.Verdicts[verdict.String()] = n
	}
	for _, o := range result.Outcomes {
		rec := PrunedRecord{
			CustomerID: o.CustomerID,
			ExternalID: o.ExternalID,
			Name:       strings.TrimSpace(o.Name),
			Balance:    o.Balance.StringFixed(2),
		}
		switch {
		case o.Verdict == pruner.Delete && (o.Applied || result.DryRun):
			s.Deleted = append(s.Deleted, rec)
		case o.Verdict == pruner.BlockedByBalance:
			s.Blocked = append(s.Blocked, rec)
		}
	}
	return s
}

// Tables implements Tabular.
func (s PruneSummary) Tables() []Data {
	verb := "Deleted"
	if s.DryRun {
		verb = "Would delete"
	}
	tables := []Data{
		recordTable(verb, s.Deleted),
	}
	if len(s.Blocked) > 0 {
		tables = append(tables, recordTable("Blocked by balance", s.Blocked))
	}
	return tables
}

func recordTable(title string, records []PrunedRecord) Data {
	d := Data{
		Title:        title + " (" + strconv.Itoa(len(records)) + ")",
		Headers:      []string{"Customer", "External ID", "Name", "Balance"},
		RightAligned: []int{3},
	}
	for _, r := range records {
		d.Rows = append(d.Rows, []string{r.CustomerID, r.ExternalID, r.Name, r.Balance})
	}
	return d
}

// ExportSummary is the printable summary of an export.
type ExportSummary struct {
	RunID        string `json:"run_id" yaml:"run_id"`
	LinesFile    string `json:"lines_file" yaml:"lines_file"`
	BalancesFile string `json:"balances_file" yaml:"balances_file"`
	Lines        int    `json:"lines" yaml:"lines"`
	Balances     int    `json:"balances" yaml:"balances"`
	Sales        int    `json:"sales" yaml:"sales"`
	MixedPayment int    `json:"mixed_payment" yaml:"mixed_payment"`
	LinesFailed  int    `json:"lines_failed" yaml:"lines_failed"`
	Cleared      int    `json:"cleared" yaml:"cleared"`
	ClearFailed  int    `json:"clear_failed" yaml:"clear_failed"`
}

// NewExportSummary builds the summary of an export report.
func NewExportSummary(report *rostersync.ExportReport) ExportSummary {
	stats := report.Result.Stats
	return ExportSummary{
		RunID:        report.RunID,
		LinesFile:    report.Files.Lines,
		BalancesFile: report.Files.Balances,
		Lines:        len(report.Result.Lines),
		Balances:     len(report.Result.Balances),
		Sales:        stats.Sales,
		MixedPayment: stats.MixedPayment,
		LinesFailed:  stats.LinesFailed,
		Cleared:      stats.BalancesCleared,
		ClearFailed:  stats.BalancesFailed,
	}
}

// Tables implements Tabular.
func (s ExportSummary) Tables() []Data {
	rows := [][]string{
		{"Lines file", s.LinesFile},
		{"Balances file", s.BalancesFile},
		{"Sales seen", strconv.Itoa(s.Sales)},
		{"Line rows", strconv.Itoa(s.Lines)},
		{"Balance rows", strconv.Itoa(s.Balances)},
		{"Mixed payment sales skipped", strconv.Itoa(s.MixedPayment)},
		{"Lines failed", strconv.Itoa(s.LinesFailed)},
		{"Balances cleared", strconv.Itoa(s.Cleared)},
		{"Balances failed to clear", strconv.Itoa(s.ClearFailed)},
	}
	return []Data{{Headers: []string{"Property", "Value"}, Rows: rows}}
}
